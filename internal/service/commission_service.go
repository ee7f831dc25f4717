package service

import (
	"errors"
	"log"

	"keyroute/internal/models"
	"keyroute/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// CommissionService resolves slab percentages for a booking amount and
// keeps one CommissionRecord per booking in step with the booking's
// chargeable total.
type CommissionService struct {
	commissionRepo *repository.CommissionRepository
}

func NewCommissionService(commissionRepo *repository.CommissionRepository) *CommissionService {
	return &CommissionService{commissionRepo: commissionRepo}
}

func (s *CommissionService) WithTx(tx *gorm.DB) *CommissionService {
	return &CommissionService{commissionRepo: s.commissionRepo.WithTx(tx)}
}

// Resolve maps amount to its slab's (commission, advance) percentages.
// An amount outside every slab yields (0, 0); callers must tolerate zero
// commission rather than treat it as a fault.
func (s *CommissionService) Resolve(amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	slab, err := s.commissionRepo.GetSlabForAmount(amount)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if slab == nil {
		return decimal.Zero, decimal.Zero, nil
	}
	return slab.CommissionPercentage, slab.AdvancePercentage, nil
}

// RecordForNewBooking computes and persists the commission for a freshly
// created booking.
func (s *CommissionService) RecordForNewBooking(bookingType string, bookingID uint, chargeable decimal.Decimal) (*models.CommissionRecord, error) {
	commissionPct, advancePct, err := s.Resolve(chargeable)
	if err != nil {
		return nil, err
	}
	rec := &models.CommissionRecord{
		BookingType:          bookingType,
		BookingID:            bookingID,
		AdvanceAmount:        chargeable.Mul(advancePct).Div(hundred).Round(2),
		CommissionPercentage: commissionPct,
		RevenueToAdmin:       chargeable.Mul(commissionPct).Div(hundred).Round(2),
	}
	if err := s.commissionRepo.CreateRecord(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// RecomputeForBooking re-resolves the slab for the booking's new chargeable
// total and updates the record in place. A missing record is logged and
// skipped: a wallet operation must not fail because the commission row is
// absent.
func (s *CommissionService) RecomputeForBooking(bookingType string, bookingID uint, chargeable decimal.Decimal) error {
	rec, err := s.commissionRepo.GetRecord(bookingType, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[commission] no record for %s booking %d, skipping recompute", bookingType, bookingID)
			return nil
		}
		return err
	}
	commissionPct, advancePct, err := s.Resolve(chargeable)
	if err != nil {
		return err
	}
	rec.AdvanceAmount = chargeable.Mul(advancePct).Div(hundred).Round(2)
	rec.CommissionPercentage = commissionPct
	rec.RevenueToAdmin = chargeable.Mul(commissionPct).Div(hundred).Round(2)
	return s.commissionRepo.UpdateRecord(rec)
}
