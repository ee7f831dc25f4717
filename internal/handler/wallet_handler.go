package handler

import (
	"errors"
	"net/http"
	"strconv"

	"keyroute/internal/domain"
	"keyroute/internal/middleware"
	"keyroute/internal/repository"
	"keyroute/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	walletRepo *repository.WalletRepository
	ledgerSvc  *service.BookingLedgerService
}

func NewWalletHandler(walletRepo *repository.WalletRepository, ledgerSvc *service.BookingLedgerService) *WalletHandler {
	return &WalletHandler{walletRepo: walletRepo, ledgerSvc: ledgerSvc}
}

// GetBalance returns the current user's wallet balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID := middleware.GetUserID(c)
	w, err := h.walletRepo.GetOrCreate(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"balance":       w.Balance,
		"referral_used": w.ReferralUsed,
	})
}

// GetTransactions returns the user's wallet history, newest first.
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	list, err := h.walletRepo.ListTransactions(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list})
}

// Apply spends wallet balance against a booking.
func (h *WalletHandler) Apply(c *gin.Context) {
	userID := middleware.GetUserID(c)
	bookingType, bookingID, ok := bookingKey(c)
	if !ok {
		return
	}
	res, err := h.ledgerSvc.ApplyWalletAndRecompute(userID, bookingType, bookingID)
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Remove reverses the active wallet application on a booking.
func (h *WalletHandler) Remove(c *gin.Context) {
	userID := middleware.GetUserID(c)
	bookingType, bookingID, ok := bookingKey(c)
	if !ok {
		return
	}
	res, err := h.ledgerSvc.RemoveWalletAndRecompute(userID, bookingType, bookingID)
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetApplied tells the caller whether (and how much) wallet is active on a
// booking, so clients can re-check idempotency before retrying.
func (h *WalletHandler) GetApplied(c *gin.Context) {
	userID := middleware.GetUserID(c)
	bookingType, bookingID, ok := bookingKey(c)
	if !ok {
		return
	}
	applied, err := h.walletRepo.HasBeenApplied(userID, bookingID, bookingType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	amount := decimal.Zero
	if applied {
		amount, err = h.walletRepo.GetAppliedAmount(userID, bookingID, bookingType)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"applied": applied, "amount": amount})
}

func bookingKey(c *gin.Context) (string, uint, bool) {
	bookingType := c.Param("booking_type")
	if !domain.ValidBookingType(bookingType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking type"})
		return "", 0, false
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return "", 0, false
	}
	return bookingType, uint(id), true
}

// writeLedgerError maps ledger errors to HTTP statuses. Balance-mutation
// failures always surface; they must never be swallowed.
func writeLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrInsufficientBalance),
		errors.Is(err, service.ErrBelowMinimumBalance),
		errors.Is(err, service.ErrNothingToApply),
		errors.Is(err, repository.ErrNoActiveApplication):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrAlreadyApplied):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrWalletNotFound),
		errors.Is(err, repository.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotBookingOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTripStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func pagination(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
