package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"keyroute/config"
	"keyroute/internal/domain"
	"keyroute/internal/models"
	"keyroute/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReferralService is the reward state machine: one ReferralReward per
// (referrer, referred user, booking), pending until the booked trip
// completes, cancelled if the trip is cancelled first. Crediting and
// cancelling are driven synchronously by the trip-status hook, inside the
// caller's transaction.
type ReferralService struct {
	referralRepo *repository.ReferralRepository
	walletRepo   *repository.WalletRepository
	userRepo     *repository.UserRepository
	cfg          config.LedgerConfig
}

func NewReferralService(
	referralRepo *repository.ReferralRepository,
	walletRepo *repository.WalletRepository,
	userRepo *repository.UserRepository,
	cfg config.LedgerConfig,
) *ReferralService {
	return &ReferralService{
		referralRepo: referralRepo,
		walletRepo:   walletRepo,
		userRepo:     userRepo,
		cfg:          cfg,
	}
}

func (s *ReferralService) WithTx(tx *gorm.DB) *ReferralService {
	return &ReferralService{
		referralRepo: s.referralRepo.WithTx(tx),
		walletRepo:   s.walletRepo.WithTx(tx),
		userRepo:     repository.NewUserRepository(tx),
		cfg:          s.cfg,
	}
}

// RegisterIfEligible creates a pending reward for a new booking when the
// booking user's wallet carries an unused referral. A referrer that cannot
// be resolved is logged and skipped; the booking must still succeed.
func (s *ReferralService) RegisterIfEligible(booking *models.Booking) error {
	w, err := s.walletRepo.GetByUserID(booking.UserID)
	if errors.Is(err, repository.ErrWalletNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if w.ReferredBy == nil || *w.ReferredBy == "" || w.ReferralUsed {
		return nil
	}
	referrer, err := s.userRepo.ResolveReferrer(*w.ReferredBy)
	if err != nil {
		return err
	}
	if referrer == nil {
		log.Printf("[referral] referrer %q for user %d not found, skipping reward", *w.ReferredBy, booking.UserID)
		return nil
	}
	if referrer.ID == booking.UserID {
		return nil
	}
	reward := &models.ReferralReward{
		ReferrerID:     referrer.ID,
		ReferredUserID: booking.UserID,
		BookingType:    booking.BookingType,
		BookingID:      booking.ID,
		RewardAmount:   s.cfg.ReferralRewardAmount,
		Status:         domain.RewardStatusPending,
	}
	if err := s.referralRepo.CreateReward(reward); err != nil {
		// unique (referred_user, booking_type, booking_id): a reward for
		// this booking already exists
		log.Printf("[referral] reward for %s booking %d already registered: %v", booking.BookingType, booking.ID, err)
		return nil
	}
	// burn the referral so a later booking by the same user cannot
	// register a second reward
	return s.walletRepo.SetReferralUsed(booking.UserID, true)
}

// OnTripStatusChanged reacts to a booking's trip-status transition. It must
// be called before the new status is persisted, inside the same
// transaction, so a reward is never credited without the status change
// committing (and vice versa). Safe to call repeatedly for the same
// transition: the reward status guards make re-runs no-ops.
func (s *ReferralService) OnTripStatusChanged(booking *models.Booking, oldStatus, newStatus string) error {
	if oldStatus == newStatus {
		return nil
	}
	reward, err := s.referralRepo.GetRewardForBooking(booking.BookingType, booking.ID)
	if err != nil {
		return err
	}
	if reward == nil {
		return nil
	}
	switch newStatus {
	case domain.TripStatusCompleted:
		return s.creditReward(reward)
	case domain.TripStatusCancelled:
		return s.cancelReward(reward)
	}
	return nil
}

func (s *ReferralService) creditReward(reward *models.ReferralReward) error {
	if reward.Status != domain.RewardStatusPending {
		return nil
	}
	ok, err := s.referralRepo.MarkCredited(reward.ID, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		// another invocation got there first
		return nil
	}
	// referrer wallet first, then referred user's, always in this order
	ref := fmt.Sprintf("referral_reward_%d", reward.ID)
	desc := fmt.Sprintf("Referral reward for %s booking %d", reward.BookingType, reward.BookingID)
	if _, err := s.walletRepo.Credit(reward.ReferrerID, reward.RewardAmount, domain.WalletTxTypeAdded, ref, desc); err != nil {
		return err
	}
	if s.cfg.ReferredUserBonusAmount.GreaterThan(decimal.Zero) {
		if _, err := s.walletRepo.Credit(reward.ReferredUserID, s.cfg.ReferredUserBonusAmount, domain.WalletTxTypeAdded, ref, "Referral completion bonus"); err != nil {
			return err
		}
	}
	// marks that this referrer has converted at least one referral
	return s.walletRepo.SetReferralUsed(reward.ReferrerID, true)
}

func (s *ReferralService) cancelReward(reward *models.ReferralReward) error {
	if reward.Status == domain.RewardStatusCredited {
		// credited is terminal; a cancel after payout is not reversed here
		log.Printf("[referral] reward %d already credited, ignoring cancellation", reward.ID)
		return nil
	}
	ok, err := s.referralRepo.MarkCancelled(reward.ID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	// re-open the referrer's eligibility since this conversion fell through
	if err := s.walletRepo.SetReferralUsed(reward.ReferrerID, false); err != nil && !errors.Is(err, repository.ErrWalletNotFound) {
		return err
	}
	return nil
}
