package handler

import (
	"net/http"

	"keyroute/internal/domain"
	"keyroute/internal/middleware"
	"keyroute/internal/models"
	"keyroute/internal/repository"
	"keyroute/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BookingHandler struct {
	bookingRepo *repository.BookingRepository
	ledgerSvc   *service.BookingLedgerService
}

func NewBookingHandler(bookingRepo *repository.BookingRepository, ledgerSvc *service.BookingLedgerService) *BookingHandler {
	return &BookingHandler{bookingRepo: bookingRepo, ledgerSvc: ledgerSvc}
}

// Create books a bus seat or tour package for the authenticated user. Seat
// selection and pricing happen upstream; this records the booking and runs
// the ledger side effects (commission record, referral registration).
func (h *BookingHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		BookingType string          `json:"booking_type" binding:"required"`
		TotalAmount decimal.Decimal `json:"total_amount" binding:"required"`
		PaidAmount  decimal.Decimal `json:"paid_amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !domain.ValidBookingType(req.BookingType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking type"})
		return
	}
	if req.TotalAmount.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "total amount must be positive"})
		return
	}
	booking := &models.Booking{
		UserID:      userID,
		BookingType: req.BookingType,
		TotalAmount: req.TotalAmount,
		PaidAmount:  req.PaidAmount,
		TripStatus:  domain.TripStatusNotStarted,
	}
	if err := h.ledgerSvc.CreateBooking(booking); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create booking"})
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) Get(c *gin.Context) {
	bookingType, bookingID, ok := bookingKey(c)
	if !ok {
		return
	}
	booking, err := h.bookingRepo.Get(bookingType, bookingID)
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	userID := middleware.GetUserID(c)
	role, _ := c.Get("role")
	if booking.UserID != userID && role != domain.RoleAdmin && role != domain.RoleVendor {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	list, err := h.bookingRepo.ListByUser(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "booking error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

// UpdateTripStatus moves a booking's trip through its lifecycle. Vendor or
// admin only; the referral reward engine reacts inside the same transaction.
func (h *BookingHandler) UpdateTripStatus(c *gin.Context) {
	bookingType, bookingID, ok := bookingKey(c)
	if !ok {
		return
	}
	var req struct {
		TripStatus string `json:"trip_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	booking, err := h.ledgerSvc.UpdateTripStatus(bookingType, bookingID, req.TripStatus)
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
