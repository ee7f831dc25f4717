package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferralReward tracks the bonus owed to a referrer for one booking by the
// user they referred. Lifecycle: pending -> credited (terminal) or
// pending -> cancelled (terminal). A credited reward is immutable.
type ReferralReward struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	ReferrerID     uint            `gorm:"not null;index" json:"referrer_id"`
	ReferredUserID uint            `gorm:"not null;uniqueIndex:idx_reward_booking" json:"referred_user_id"`
	BookingType    string          `gorm:"size:20;not null;uniqueIndex:idx_reward_booking" json:"booking_type"`
	BookingID      uint            `gorm:"not null;uniqueIndex:idx_reward_booking" json:"booking_id"`
	RewardAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"reward_amount"`
	Status         string          `gorm:"size:20;not null;index;default:'pending'" json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	CreditedAt     *time.Time      `json:"credited_at"`

	Referrer     User `gorm:"foreignKey:ReferrerID" json:"-"`
	ReferredUser User `gorm:"foreignKey:ReferredUserID" json:"-"`
}

func (ReferralReward) TableName() string {
	return "referral_rewards"
}
