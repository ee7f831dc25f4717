package service_test

import (
	"testing"

	"keyroute/internal/domain"
	"keyroute/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_MatchingSlab(t *testing.T) {
	// Slab table [(0, 5000, 10%, 20%)]: resolve(3000) -> (10, 20)
	f := newFixture(t)
	f.slab(t, "0", "5000", "10", "20")

	commissionPct, advancePct, err := f.commissionSvc.Resolve(dec(t, "3000"))
	require.NoError(t, err)
	requireDec(t, "10", commissionPct)
	requireDec(t, "20", advancePct)
}

func TestResolve_NoSlabIsZero(t *testing.T) {
	// resolve(6000) outside every slab -> (0, 0), not an error
	f := newFixture(t)
	f.slab(t, "0", "5000", "10", "20")

	commissionPct, advancePct, err := f.commissionSvc.Resolve(dec(t, "6000"))
	require.NoError(t, err)
	assert.True(t, commissionPct.IsZero())
	assert.True(t, advancePct.IsZero())
}

func TestResolve_PicksCorrectTier(t *testing.T) {
	f := newFixture(t)
	f.slab(t, "0", "5000", "10", "20")
	f.slab(t, "5001", "20000", "8", "25")

	commissionPct, _, err := f.commissionSvc.Resolve(dec(t, "12000"))
	require.NoError(t, err)
	requireDec(t, "8", commissionPct)

	// boundary values belong to their slab
	commissionPct, _, err = f.commissionSvc.Resolve(dec(t, "5000"))
	require.NoError(t, err)
	requireDec(t, "10", commissionPct)
}

func TestRecordForNewBooking(t *testing.T) {
	f := newFixture(t)
	f.slab(t, "0", "5000", "10", "20")

	rec, err := f.commissionSvc.RecordForNewBooking(domain.BookingTypeBus, 42, dec(t, "3000"))
	require.NoError(t, err)
	requireDec(t, "300", rec.RevenueToAdmin)
	requireDec(t, "600", rec.AdvanceAmount)
	requireDec(t, "10", rec.CommissionPercentage)
}

func TestRecordForNewBooking_NoSlab(t *testing.T) {
	f := newFixture(t)

	rec, err := f.commissionSvc.RecordForNewBooking(domain.BookingTypeBus, 42, dec(t, "3000"))
	require.NoError(t, err)
	assert.True(t, rec.RevenueToAdmin.IsZero())
	assert.True(t, rec.AdvanceAmount.IsZero())
}

func TestRecomputeForBooking_UpdatesInPlace(t *testing.T) {
	f := newFixture(t)
	f.slab(t, "0", "5000", "10", "20")
	f.slab(t, "5001", "20000", "8", "25")

	rec, err := f.commissionSvc.RecordForNewBooking(domain.BookingTypePackage, 7, dec(t, "8000"))
	require.NoError(t, err)
	requireDec(t, "640", rec.RevenueToAdmin)

	// total drops into the lower slab after a wallet application
	require.NoError(t, f.commissionSvc.RecomputeForBooking(domain.BookingTypePackage, 7, dec(t, "4000")))

	var got models.CommissionRecord
	require.NoError(t, f.db.Where("booking_type = ? AND booking_id = ?", domain.BookingTypePackage, 7).First(&got).Error)
	assert.Equal(t, rec.ID, got.ID, "record must be updated, not recreated")
	requireDec(t, "400", got.RevenueToAdmin)
	requireDec(t, "10", got.CommissionPercentage)
	requireDec(t, "800", got.AdvanceAmount)
}

func TestRecomputeForBooking_MissingRecordIsNoop(t *testing.T) {
	f := newFixture(t)
	err := f.commissionSvc.RecomputeForBooking(domain.BookingTypeBus, 999, dec(t, "1000"))
	assert.NoError(t, err)
}
