package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CommissionSlab is one tier of the admin commission table: bookings whose
// chargeable amount falls inside [MinAmount, MaxAmount] pay these rates.
// Ranges must not overlap; an amount outside every slab pays zero.
type CommissionSlab struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	MinAmount            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"min_amount"`
	MaxAmount            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"max_amount"`
	CommissionPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"commission_percentage"`
	AdvancePercentage    decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"advance_percentage"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
	DeletedAt            gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (CommissionSlab) TableName() string {
	return "commission_slabs"
}

// CommissionRecord stores the commission computed for one booking. Updated
// in place whenever the booking's chargeable total changes.
type CommissionRecord struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	BookingType          string          `gorm:"size:20;not null;uniqueIndex:idx_commission_booking" json:"booking_type"`
	BookingID            uint            `gorm:"not null;uniqueIndex:idx_commission_booking" json:"booking_id"`
	AdvanceAmount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"advance_amount"`
	CommissionPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"commission_percentage"`
	RevenueToAdmin       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"revenue_to_admin"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

func (CommissionRecord) TableName() string {
	return "commission_records"
}
