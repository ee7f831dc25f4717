package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletTransaction is an immutable audit record of one wallet movement.
// Rows are append-only; the only legal mutation is flipping IsActive when an
// "applied" entry is reversed by its "removed" counterpart.
type WalletTransaction struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	BookingID   uint   `gorm:"index" json:"booking_id"` // 0 for movements not tied to a booking
	BookingType string `gorm:"size:20;index" json:"booking_type"`
	// Type is one of applied, removed, refund, added, deducted.
	Type          string          `gorm:"column:transaction_type;size:20;not null;index" json:"transaction_type"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"` // always positive; Type carries direction
	BalanceBefore decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"balance_before"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"balance_after"`
	Description   string          `gorm:"size:255" json:"description"`
	// ReferenceID correlates an "applied" entry with the "removed" entry
	// that reverses it.
	ReferenceID string `gorm:"size:64;index" json:"reference_id"`
	// IsActive marks whether this application is currently in effect.
	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
