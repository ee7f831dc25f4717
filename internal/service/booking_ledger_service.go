package service

import (
	"errors"
	"fmt"

	"keyroute/config"
	"keyroute/internal/domain"
	"keyroute/internal/models"
	"keyroute/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrBelowMinimumBalance = errors.New("wallet balance below minimum required to apply")
	ErrNothingToApply      = errors.New("booking has no chargeable amount left")
	ErrNotBookingOwner     = errors.New("booking does not belong to this user")
	ErrInvalidTripStatus   = errors.New("invalid trip status transition")
)

// WalletApplyResult is what the wallet apply/remove endpoints return.
type WalletApplyResult struct {
	WalletAmountUsed decimal.Decimal `json:"wallet_amount_used"`
	NewTotalAmount   decimal.Decimal `json:"new_total_amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	TransactionID    uint            `json:"transaction_id"`
}

// BookingLedgerService is the facade the rest of the system calls: booking
// creation side effects (commission + referral registration), wallet
// apply/remove with commission recompute, and the trip-status hook that
// drives the reward engine. Each entry point is one transaction; either
// every step commits or none do.
type BookingLedgerService struct {
	db            *gorm.DB
	bookingRepo   *repository.BookingRepository
	walletRepo    *repository.WalletRepository
	commissionSvc *CommissionService
	referralSvc   *ReferralService
	cfg           config.LedgerConfig
}

func NewBookingLedgerService(
	db *gorm.DB,
	bookingRepo *repository.BookingRepository,
	walletRepo *repository.WalletRepository,
	commissionSvc *CommissionService,
	referralSvc *ReferralService,
	cfg config.LedgerConfig,
) *BookingLedgerService {
	return &BookingLedgerService{
		db:            db,
		bookingRepo:   bookingRepo,
		walletRepo:    walletRepo,
		commissionSvc: commissionSvc,
		referralSvc:   referralSvc,
		cfg:           cfg,
	}
}

// CreateBooking persists the booking row and runs the creation side effects
// in one transaction.
func (s *BookingLedgerService) CreateBooking(booking *models.Booking) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.bookingRepo.WithTx(tx).Create(booking); err != nil {
			return err
		}
		return s.onBookingCreated(tx, booking)
	})
}

// OnBookingCreated runs the ledger side effects for a booking created
// elsewhere: record its commission and register a referral reward if the
// user has an unused one.
func (s *BookingLedgerService) OnBookingCreated(booking *models.Booking) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.onBookingCreated(tx, booking)
	})
}

func (s *BookingLedgerService) onBookingCreated(tx *gorm.DB, booking *models.Booking) error {
	if _, err := s.commissionSvc.WithTx(tx).RecordForNewBooking(booking.BookingType, booking.ID, booking.TotalAmount); err != nil {
		return err
	}
	return s.referralSvc.WithTx(tx).RegisterIfEligible(booking)
}

// ApplyWalletAndRecompute spends min(balance, booking total) of the user's
// wallet against the booking, shrinks the booking total, and recomputes the
// commission on the new chargeable amount. One transaction: wallet debit,
// audit row, booking total and commission either all commit or none.
func (s *BookingLedgerService) ApplyWalletAndRecompute(userID uint, bookingType string, bookingID uint) (*WalletApplyResult, error) {
	var result *WalletApplyResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.WithTx(tx).GetForUpdate(bookingType, bookingID)
		if err != nil {
			return err
		}
		if booking.UserID != userID {
			return ErrNotBookingOwner
		}
		wallet, err := s.walletRepo.WithTx(tx).GetByUserID(userID)
		if err != nil {
			return err
		}
		if wallet.Balance.LessThan(s.cfg.MinimumWalletAmount) {
			return ErrBelowMinimumBalance
		}
		if booking.TotalAmount.LessThanOrEqual(decimal.Zero) {
			return ErrNothingToApply
		}
		amount := decimal.Min(wallet.Balance, booking.TotalAmount)
		txn, newBalance, err := s.walletRepo.WithTx(tx).ApplyToBooking(
			userID, bookingID, bookingType, amount,
			fmt.Sprintf("Wallet applied to %s booking %d", bookingType, bookingID))
		if err != nil {
			return err
		}
		newTotal := booking.TotalAmount.Sub(amount)
		if err := s.bookingRepo.WithTx(tx).UpdateTotalAmount(booking, newTotal); err != nil {
			return err
		}
		if err := s.commissionSvc.WithTx(tx).RecomputeForBooking(bookingType, bookingID, newTotal); err != nil {
			return err
		}
		result = &WalletApplyResult{
			WalletAmountUsed: amount,
			NewTotalAmount:   newTotal,
			RemainingBalance: newBalance,
			TransactionID:    txn.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveWalletAndRecompute undoes the active wallet application on the
// booking: the amount comes from the ledger row, the booking total grows
// back, and the commission is recomputed. Same all-or-nothing boundary as
// apply.
func (s *BookingLedgerService) RemoveWalletAndRecompute(userID uint, bookingType string, bookingID uint) (*WalletApplyResult, error) {
	var result *WalletApplyResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.WithTx(tx).GetForUpdate(bookingType, bookingID)
		if err != nil {
			return err
		}
		if booking.UserID != userID {
			return ErrNotBookingOwner
		}
		txn, newBalance, restored, err := s.walletRepo.WithTx(tx).RemoveFromBooking(
			userID, bookingID, bookingType,
			fmt.Sprintf("Wallet removed from %s booking %d", bookingType, bookingID))
		if err != nil {
			return err
		}
		newTotal := booking.TotalAmount.Add(restored)
		if err := s.bookingRepo.WithTx(tx).UpdateTotalAmount(booking, newTotal); err != nil {
			return err
		}
		if err := s.commissionSvc.WithTx(tx).RecomputeForBooking(bookingType, bookingID, newTotal); err != nil {
			return err
		}
		result = &WalletApplyResult{
			WalletAmountUsed: restored,
			NewTotalAmount:   newTotal,
			RemainingBalance: newBalance,
			TransactionID:    txn.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateTripStatus validates and persists a trip-status transition. The
// reward engine runs before the status write, inside the same transaction,
// so a reward can never be credited without the completing transition also
// committing.
func (s *BookingLedgerService) UpdateTripStatus(bookingType string, bookingID uint, newStatus string) (*models.Booking, error) {
	var booking *models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = s.bookingRepo.WithTx(tx).GetForUpdate(bookingType, bookingID)
		if err != nil {
			return err
		}
		oldStatus := booking.TripStatus
		if !domain.ValidTripTransition(oldStatus, newStatus) {
			return ErrInvalidTripStatus
		}
		if oldStatus == newStatus {
			return nil
		}
		if err := s.referralSvc.WithTx(tx).OnTripStatusChanged(booking, oldStatus, newStatus); err != nil {
			return err
		}
		return s.bookingRepo.WithTx(tx).UpdateTripStatus(booking, newStatus)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}
