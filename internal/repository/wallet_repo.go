package repository

import (
	"errors"

	"keyroute/internal/domain"
	"keyroute/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrAlreadyApplied      = errors.New("wallet already applied to this booking")
	ErrNoActiveApplication = errors.New("no active wallet application for this booking")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInvalidAmount       = errors.New("amount must be positive")
)

// WalletRepository owns every mutation of wallet balances. All writes go
// through one gorm transaction with the wallet row locked, and every
// movement leaves a WalletTransaction audit row with before/after balances.
type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// WithTx returns a repository bound to tx so wallet mutations can join a
// larger atomic unit (booking update + commission recompute).
func (r *WalletRepository) WithTx(tx *gorm.DB) *WalletRepository {
	return &WalletRepository{db: tx}
}

// forUpdate adds a row lock. sqlite (used in tests) has no FOR UPDATE; its
// single-writer model serializes writes anyway.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (r *WalletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	var w models.Wallet
	err := r.db.Where("user_id = ?", userID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetOrCreate returns the user's wallet, creating an empty one if absent.
// The unique index on user_id decides create races: the loser re-reads.
func (r *WalletRepository) GetOrCreate(userID uint) (*models.Wallet, error) {
	w, err := r.GetByUserID(userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, ErrWalletNotFound) {
		return nil, err
	}
	w = &models.Wallet{UserID: userID, Balance: decimal.Zero}
	if createErr := r.db.Create(w).Error; createErr != nil {
		return r.GetByUserID(userID)
	}
	return w, nil
}

// SetReferredBy records the referral identifier a user signed up with.
func (r *WalletRepository) SetReferredBy(userID uint, identifier string) error {
	w, err := r.GetOrCreate(userID)
	if err != nil {
		return err
	}
	return r.db.Model(w).Update("referred_by", identifier).Error
}

// SetReferralUsed flips the wallet's referral_used flag.
func (r *WalletRepository) SetReferralUsed(userID uint, used bool) error {
	res := r.db.Model(&models.Wallet{}).Where("user_id = ?", userID).Update("referral_used", used)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrWalletNotFound
	}
	return nil
}

// HasBeenApplied reports whether an active "applied" transaction exists for
// the booking key. Callers use it as a cheap pre-check; ApplyToBooking
// re-checks under the wallet lock.
func (r *WalletRepository) HasBeenApplied(userID, bookingID uint, bookingType string) (bool, error) {
	return r.hasActiveApplication(r.db, userID, bookingID, bookingType)
}

// GetAppliedAmount returns the amount of the active application for the
// booking key, or zero when there is none.
func (r *WalletRepository) GetAppliedAmount(userID, bookingID uint, bookingType string) (decimal.Decimal, error) {
	txn, err := r.activeApplication(r.db, userID, bookingID, bookingType)
	if errors.Is(err, ErrNoActiveApplication) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return txn.Amount, nil
}

func (r *WalletRepository) hasActiveApplication(tx *gorm.DB, userID, bookingID uint, bookingType string) (bool, error) {
	var count int64
	err := tx.Model(&models.WalletTransaction{}).
		Where("user_id = ? AND booking_id = ? AND booking_type = ? AND transaction_type = ? AND is_active = ?",
			userID, bookingID, bookingType, domain.WalletTxTypeApplied, true).
		Count(&count).Error
	return count > 0, err
}

func (r *WalletRepository) activeApplication(tx *gorm.DB, userID, bookingID uint, bookingType string) (*models.WalletTransaction, error) {
	var txn models.WalletTransaction
	err := tx.
		Where("user_id = ? AND booking_id = ? AND booking_type = ? AND transaction_type = ? AND is_active = ?",
			userID, bookingID, bookingType, domain.WalletTxTypeApplied, true).
		First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveApplication
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// ApplyToBooking debits amount from the user's wallet toward a booking.
// Exactly one application may be active per (user, booking, type): the
// check runs again under the wallet lock so two concurrent applies end as
// one success and one ErrAlreadyApplied, never two debits.
func (r *WalletRepository) ApplyToBooking(userID, bookingID uint, bookingType string, amount decimal.Decimal, description string) (*models.WalletTransaction, decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, decimal.Zero, ErrInvalidAmount
	}
	var txn *models.WalletTransaction
	var newBalance decimal.Decimal
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var w models.Wallet
		if err := forUpdate(tx).Where("user_id = ?", userID).First(&w).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWalletNotFound
			}
			return err
		}
		applied, err := r.hasActiveApplication(tx, userID, bookingID, bookingType)
		if err != nil {
			return err
		}
		if applied {
			return ErrAlreadyApplied
		}
		if amount.GreaterThan(w.Balance) {
			return ErrInsufficientBalance
		}
		before := w.Balance
		after := before.Sub(amount)
		if err := tx.Model(&w).Update("balance", after).Error; err != nil {
			return err
		}
		txn = &models.WalletTransaction{
			UserID:        userID,
			BookingID:     bookingID,
			BookingType:   bookingType,
			Type:          domain.WalletTxTypeApplied,
			Amount:        amount,
			BalanceBefore: before,
			BalanceAfter:  after,
			Description:   description,
			ReferenceID:   uuid.NewString(),
			IsActive:      true,
		}
		if err := tx.Create(txn).Error; err != nil {
			return err
		}
		newBalance = after
		return nil
	})
	if err != nil {
		return nil, decimal.Zero, err
	}
	return txn, newBalance, nil
}

// RemoveFromBooking reverses the active application for the booking key.
// The restored amount is read from the ledger row, never from caller input.
// The original row keeps its history but flips is_active; the new "removed"
// row shares its reference_id so the pair stays linked.
func (r *WalletRepository) RemoveFromBooking(userID, bookingID uint, bookingType, description string) (*models.WalletTransaction, decimal.Decimal, decimal.Decimal, error) {
	var txn *models.WalletTransaction
	var newBalance, restored decimal.Decimal
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var applied models.WalletTransaction
		err := forUpdate(tx).
			Where("user_id = ? AND booking_id = ? AND booking_type = ? AND transaction_type = ? AND is_active = ?",
				userID, bookingID, bookingType, domain.WalletTxTypeApplied, true).
			First(&applied).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoActiveApplication
		}
		if err != nil {
			return err
		}
		var w models.Wallet
		if err := forUpdate(tx).Where("user_id = ?", userID).First(&w).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWalletNotFound
			}
			return err
		}
		restored = applied.Amount
		before := w.Balance
		after := before.Add(restored)
		if err := tx.Model(&w).Update("balance", after).Error; err != nil {
			return err
		}
		if err := tx.Model(&applied).Update("is_active", false).Error; err != nil {
			return err
		}
		txn = &models.WalletTransaction{
			UserID:        userID,
			BookingID:     bookingID,
			BookingType:   bookingType,
			Type:          domain.WalletTxTypeRemoved,
			Amount:        restored,
			BalanceBefore: before,
			BalanceAfter:  after,
			Description:   description,
			ReferenceID:   applied.ReferenceID,
			IsActive:      true,
		}
		if err := tx.Create(txn).Error; err != nil {
			return err
		}
		newBalance = after
		return nil
	})
	if err != nil {
		return nil, decimal.Zero, decimal.Zero, err
	}
	return txn, newBalance, restored, nil
}

// Credit adds amount to the user's wallet with an audit row. The wallet is
// created if absent (referral bonuses can land before any deposit).
func (r *WalletRepository) Credit(userID uint, amount decimal.Decimal, txType, referenceID, description string) (*models.WalletTransaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	var txn *models.WalletTransaction
	err := r.db.Transaction(func(tx *gorm.DB) error {
		w, err := r.lockOrCreate(tx, userID)
		if err != nil {
			return err
		}
		before := w.Balance
		after := before.Add(amount)
		if err := tx.Model(w).Update("balance", after).Error; err != nil {
			return err
		}
		txn = &models.WalletTransaction{
			UserID:        userID,
			Type:          txType,
			Amount:        amount,
			BalanceBefore: before,
			BalanceAfter:  after,
			Description:   description,
			ReferenceID:   referenceID,
			IsActive:      true,
		}
		return tx.Create(txn).Error
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// Debit removes amount from the user's wallet with an audit row. Fails
// rather than drive the balance negative.
func (r *WalletRepository) Debit(userID uint, amount decimal.Decimal, txType, referenceID, description string) (*models.WalletTransaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	var txn *models.WalletTransaction
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var w models.Wallet
		if err := forUpdate(tx).Where("user_id = ?", userID).First(&w).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWalletNotFound
			}
			return err
		}
		if amount.GreaterThan(w.Balance) {
			return ErrInsufficientBalance
		}
		before := w.Balance
		after := before.Sub(amount)
		if err := tx.Model(&w).Update("balance", after).Error; err != nil {
			return err
		}
		txn = &models.WalletTransaction{
			UserID:        userID,
			Type:          txType,
			Amount:        amount,
			BalanceBefore: before,
			BalanceAfter:  after,
			Description:   description,
			ReferenceID:   referenceID,
			IsActive:      true,
		}
		return tx.Create(txn).Error
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// lockOrCreate fetches the wallet row under lock, creating it when absent.
func (r *WalletRepository) lockOrCreate(tx *gorm.DB, userID uint) (*models.Wallet, error) {
	var w models.Wallet
	err := forUpdate(tx).Where("user_id = ?", userID).First(&w).Error
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	w = models.Wallet{UserID: userID, Balance: decimal.Zero}
	if createErr := tx.Create(&w).Error; createErr != nil {
		// lost a create race on the user_id unique index: re-read under lock
		if err := forUpdate(tx).Where("user_id = ?", userID).First(&w).Error; err != nil {
			return nil, err
		}
	}
	return &w, nil
}

func (r *WalletRepository) ListTransactions(userID uint, limit, offset int) ([]models.WalletTransaction, error) {
	var list []models.WalletTransaction
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
