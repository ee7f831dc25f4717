package repository

import (
	"errors"

	"keyroute/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrBookingNotFound = errors.New("booking not found")

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) WithTx(tx *gorm.DB) *BookingRepository {
	return &BookingRepository{db: tx}
}

func (r *BookingRepository) Create(b *models.Booking) error {
	return r.db.Create(b).Error
}

func (r *BookingRepository) Get(bookingType string, bookingID uint) (*models.Booking, error) {
	var b models.Booking
	err := r.db.Where("id = ? AND booking_type = ?", bookingID, bookingType).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetForUpdate locks the booking row so total/status changes serialize per
// booking.
func (r *BookingRepository) GetForUpdate(bookingType string, bookingID uint) (*models.Booking, error) {
	var b models.Booking
	err := forUpdate(r.db).Where("id = ? AND booking_type = ?", bookingID, bookingType).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) UpdateTotalAmount(b *models.Booking, total decimal.Decimal) error {
	b.TotalAmount = total
	return r.db.Model(b).Update("total_amount", total).Error
}

func (r *BookingRepository) UpdateTripStatus(b *models.Booking, status string) error {
	b.TripStatus = status
	return r.db.Model(b).Update("trip_status", status).Error
}

func (r *BookingRepository) ListByUser(userID uint, limit, offset int) ([]models.Booking, error) {
	var list []models.Booking
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
