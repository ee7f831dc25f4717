package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet holds a user's spendable balance. Created lazily on first need and
// mutated only through the wallet repository.
type Wallet struct {
	ID      uint            `gorm:"primaryKey" json:"id"`
	UserID  uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"balance"`
	// ReferredBy is the identifier (mobile or email) the user entered as
	// their referrer at signup. Nil when the user was not referred.
	ReferredBy *string `gorm:"size:255" json:"referred_by"`
	// ReferralUsed flips to true once a referral reward has been registered
	// for this wallet's owner, so a second booking cannot register another.
	ReferralUsed bool           `gorm:"not null;default:false" json:"referral_used"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Wallet) TableName() string {
	return "wallets"
}
