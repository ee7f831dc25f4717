package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Booking is the slice of a bus/package booking the ledger cares about:
// who booked, what is still chargeable, and where the trip stands. Seat
// maps, day plans and the rest of the booking content live elsewhere.
type Booking struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	BookingType string          `gorm:"size:20;not null;index" json:"booking_type"` // bus | package
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	PaidAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"paid_amount"`
	TripStatus  string          `gorm:"size:20;not null;index;default:'not_started'" json:"trip_status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Booking) TableName() string {
	return "bookings"
}
