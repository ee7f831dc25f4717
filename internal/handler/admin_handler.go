package handler

import (
	"net/http"
	"strconv"

	"keyroute/internal/models"
	"keyroute/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AdminHandler exposes the read-only commission/reward views plus slab
// management for the admin panel.
type AdminHandler struct {
	commissionRepo *repository.CommissionRepository
	referralRepo   *repository.ReferralRepository
}

func NewAdminHandler(commissionRepo *repository.CommissionRepository, referralRepo *repository.ReferralRepository) *AdminHandler {
	return &AdminHandler{commissionRepo: commissionRepo, referralRepo: referralRepo}
}

func (h *AdminHandler) ListSlabs(c *gin.Context) {
	slabs, err := h.commissionRepo.ListSlabs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load slabs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"slabs": slabs})
}

type slabRequest struct {
	MinAmount            decimal.Decimal `json:"min_amount"`
	MaxAmount            decimal.Decimal `json:"max_amount"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage"`
	AdvancePercentage    decimal.Decimal `json:"advance_percentage"`
}

func (r *slabRequest) valid() bool {
	return r.MinAmount.GreaterThanOrEqual(decimal.Zero) &&
		r.MaxAmount.GreaterThan(r.MinAmount) &&
		r.CommissionPercentage.GreaterThanOrEqual(decimal.Zero) &&
		r.AdvancePercentage.GreaterThanOrEqual(decimal.Zero)
}

func (h *AdminHandler) CreateSlab(c *gin.Context) {
	var req slabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slab range or percentages"})
		return
	}
	slab := &models.CommissionSlab{
		MinAmount:            req.MinAmount,
		MaxAmount:            req.MaxAmount,
		CommissionPercentage: req.CommissionPercentage,
		AdvancePercentage:    req.AdvancePercentage,
	}
	if err := h.commissionRepo.CreateSlab(slab); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create slab"})
		return
	}
	c.JSON(http.StatusCreated, slab)
}

func (h *AdminHandler) UpdateSlab(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slab id"})
		return
	}
	var req slabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slab range or percentages"})
		return
	}
	slab := &models.CommissionSlab{
		ID:                   uint(id),
		MinAmount:            req.MinAmount,
		MaxAmount:            req.MaxAmount,
		CommissionPercentage: req.CommissionPercentage,
		AdvancePercentage:    req.AdvancePercentage,
	}
	if err := h.commissionRepo.UpdateSlab(slab); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update slab"})
		return
	}
	c.JSON(http.StatusOK, slab)
}

func (h *AdminHandler) DeleteSlab(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slab id"})
		return
	}
	if err := h.commissionRepo.DeleteSlab(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete slab"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *AdminHandler) ListCommissions(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.commissionRepo.ListRecords(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load commissions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"commissions": list})
}

func (h *AdminHandler) ListReferralRewards(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.referralRepo.ListRewards(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rewards"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rewards": list})
}
