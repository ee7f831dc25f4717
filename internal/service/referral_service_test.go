package service_test

import (
	"testing"

	"keyroute/internal/domain"
	"keyroute/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIfEligible_CreatesPendingReward(t *testing.T) {
	f := newFixture(t)
	referrer := f.user(t, "referrer", "ref@example.com", "919800000001")
	referred := f.user(t, "referred", "new@example.com", "919800000002")
	f.wallet(t, referrer.ID, "0")
	f.referredWallet(t, referred.ID, "0", "919800000001")
	booking := f.booking(t, referred.ID, domain.BookingTypeBus, "2000")

	require.NoError(t, f.referralSvc.RegisterIfEligible(booking))

	reward, err := f.referralRepo.GetRewardForBooking(domain.BookingTypeBus, booking.ID)
	require.NoError(t, err)
	require.NotNil(t, reward)
	assert.Equal(t, referrer.ID, reward.ReferrerID)
	assert.Equal(t, referred.ID, reward.ReferredUserID)
	assert.Equal(t, domain.RewardStatusPending, reward.Status)
	requireDec(t, "300", reward.RewardAmount)

	// the referred user's referral is burnt immediately
	assert.True(t, f.reloadWallet(t, referred.ID).ReferralUsed)
}

func TestRegisterIfEligible_SecondBookingDoesNotRegister(t *testing.T) {
	f := newFixture(t)
	referrer := f.user(t, "referrer", "ref@example.com", "919800000001")
	referred := f.user(t, "referred", "new@example.com", "919800000002")
	f.wallet(t, referrer.ID, "0")
	f.referredWallet(t, referred.ID, "0", "919800000001")

	first := f.booking(t, referred.ID, domain.BookingTypeBus, "2000")
	require.NoError(t, f.referralSvc.RegisterIfEligible(first))

	second := f.booking(t, referred.ID, domain.BookingTypePackage, "5000")
	require.NoError(t, f.referralSvc.RegisterIfEligible(second))

	reward, err := f.referralRepo.GetRewardForBooking(domain.BookingTypePackage, second.ID)
	require.NoError(t, err)
	assert.Nil(t, reward)
}

func TestRegisterIfEligible_UnresolvedReferrerSkips(t *testing.T) {
	// a dangling referral identifier must not fail the booking
	f := newFixture(t)
	referred := f.user(t, "referred", "new@example.com", "919800000002")
	f.referredWallet(t, referred.ID, "0", "nobody@example.com")
	booking := f.booking(t, referred.ID, domain.BookingTypeBus, "2000")

	require.NoError(t, f.referralSvc.RegisterIfEligible(booking))

	reward, err := f.referralRepo.GetRewardForBooking(domain.BookingTypeBus, booking.ID)
	require.NoError(t, err)
	assert.Nil(t, reward)
	// eligibility is preserved for a later, resolvable attempt
	assert.False(t, f.reloadWallet(t, referred.ID).ReferralUsed)
}

func TestRegisterIfEligible_NoWalletOrNoReferral(t *testing.T) {
	f := newFixture(t)
	alone := f.user(t, "alone", "alone@example.com", "919800000003")
	booking := f.booking(t, alone.ID, domain.BookingTypeBus, "2000")
	require.NoError(t, f.referralSvc.RegisterIfEligible(booking))

	plain := f.user(t, "plain", "plain@example.com", "919800000004")
	f.wallet(t, plain.ID, "500")
	booking2 := f.booking(t, plain.ID, domain.BookingTypeBus, "2000")
	require.NoError(t, f.referralSvc.RegisterIfEligible(booking2))

	var count int64
	f.db.Model(&models.ReferralReward{}).Count(&count)
	assert.Zero(t, count)
}

func setupPendingReward(t *testing.T, f *fixture) (*models.User, *models.User, *models.Booking) {
	t.Helper()
	referrer := f.user(t, "referrer", "ref@example.com", "919800000001")
	referred := f.user(t, "referred", "new@example.com", "919800000002")
	f.wallet(t, referrer.ID, "0")
	f.referredWallet(t, referred.ID, "0", "919800000001")
	booking := f.booking(t, referred.ID, domain.BookingTypeBus, "2000")
	require.NoError(t, f.referralSvc.RegisterIfEligible(booking))
	return referrer, referred, booking
}

func TestOnTripStatusChanged_CompletedCreditsOnce(t *testing.T) {
	// ongoing -> completed: referrer +300, referred +100, reward credited.
	// A second identical invocation is a no-op.
	f := newFixture(t)
	referrer, referred, booking := setupPendingReward(t, f)

	err := f.referralSvc.OnTripStatusChanged(booking, domain.TripStatusOngoing, domain.TripStatusCompleted)
	require.NoError(t, err)

	requireDec(t, "300", f.reloadWallet(t, referrer.ID).Balance)
	requireDec(t, "100", f.reloadWallet(t, referred.ID).Balance)
	assert.True(t, f.reloadWallet(t, referrer.ID).ReferralUsed)

	reward, err := f.referralRepo.GetRewardForBooking(domain.BookingTypeBus, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RewardStatusCredited, reward.Status)
	assert.NotNil(t, reward.CreditedAt)

	// replay of the same transition must not credit again
	err = f.referralSvc.OnTripStatusChanged(booking, domain.TripStatusOngoing, domain.TripStatusCompleted)
	require.NoError(t, err)
	requireDec(t, "300", f.reloadWallet(t, referrer.ID).Balance)
	requireDec(t, "100", f.reloadWallet(t, referred.ID).Balance)

	var txCount int64
	f.db.Model(&models.WalletTransaction{}).Where("user_id = ?", referrer.ID).Count(&txCount)
	assert.EqualValues(t, 1, txCount, "referrer credited exactly once")
}

func TestOnTripStatusChanged_CancelledResetsEligibility(t *testing.T) {
	// ongoing -> cancelled: reward cancelled, referrer's referral_used
	// rolled back, no balance change.
	f := newFixture(t)
	referrer, referred, booking := setupPendingReward(t, f)

	// simulate the referrer having converted before, flag set
	require.NoError(t, f.walletRepo.SetReferralUsed(referrer.ID, true))

	err := f.referralSvc.OnTripStatusChanged(booking, domain.TripStatusOngoing, domain.TripStatusCancelled)
	require.NoError(t, err)

	reward, err := f.referralRepo.GetRewardForBooking(domain.BookingTypeBus, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RewardStatusCancelled, reward.Status)
	requireDec(t, "0", f.reloadWallet(t, referrer.ID).Balance)
	requireDec(t, "0", f.reloadWallet(t, referred.ID).Balance)
	assert.False(t, f.reloadWallet(t, referrer.ID).ReferralUsed)
}

func TestOnTripStatusChanged_CancelAfterCreditIsNoop(t *testing.T) {
	f := newFixture(t)
	referrer, _, booking := setupPendingReward(t, f)

	require.NoError(t, f.referralSvc.OnTripStatusChanged(booking, domain.TripStatusOngoing, domain.TripStatusCompleted))
	require.NoError(t, f.referralSvc.OnTripStatusChanged(booking, domain.TripStatusOngoing, domain.TripStatusCancelled))

	reward, err := f.referralRepo.GetRewardForBooking(domain.BookingTypeBus, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RewardStatusCredited, reward.Status, "credited is terminal")
	requireDec(t, "300", f.reloadWallet(t, referrer.ID).Balance)
}

func TestOnTripStatusChanged_SameStatusOrNoReward(t *testing.T) {
	f := newFixture(t)
	referrer, _, booking := setupPendingReward(t, f)

	// same old/new is a no-op
	require.NoError(t, f.referralSvc.OnTripStatusChanged(booking, domain.TripStatusOngoing, domain.TripStatusOngoing))
	requireDec(t, "0", f.reloadWallet(t, referrer.ID).Balance)

	// a booking with no reward is a no-op
	other := f.booking(t, referrer.ID, domain.BookingTypePackage, "1000")
	require.NoError(t, f.referralSvc.OnTripStatusChanged(other, domain.TripStatusOngoing, domain.TripStatusCompleted))
}
