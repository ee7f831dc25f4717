package handler

import (
	"net/http"

	"keyroute/config"
	"keyroute/internal/auth"
	"keyroute/internal/domain"
	"keyroute/internal/models"
	"keyroute/internal/repository"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler is the minimal credential auth the ledger endpoints sit
// behind. OTP, social login and the rest of the real auth flow live in a
// separate system.
type AuthHandler struct {
	cfg        *config.Config
	userRepo   *repository.UserRepository
	walletRepo *repository.WalletRepository
}

func NewAuthHandler(cfg *config.Config, userRepo *repository.UserRepository, walletRepo *repository.WalletRepository) *AuthHandler {
	return &AuthHandler{cfg: cfg, userRepo: userRepo, walletRepo: walletRepo}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name       string `json:"name" binding:"required"`
		Email      string `json:"email" binding:"required,email"`
		Mobile     string `json:"mobile" binding:"required"`
		Password   string `json:"password" binding:"required,min=8"`
		ReferredBy string `json:"referred_by"` // referrer's mobile or email, optional
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}
	u := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		Mobile:       req.Mobile,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	if err := h.userRepo.Create(u); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "email or mobile already registered"})
		return
	}
	if req.ReferredBy != "" {
		if err := h.walletRepo.SetReferredBy(u.ID, req.ReferredBy); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record referral"})
			return
		}
	}
	c.JSON(http.StatusCreated, gin.H{"id": u.ID, "email": u.Email})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.userRepo.GetByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	access, err := auth.GenerateAccessToken(&h.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	refresh, err := auth.GenerateRefreshToken(&h.cfg.JWT, u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  access,
		"refresh_token": refresh,
		"user":          gin.H{"id": u.ID, "name": u.Name, "role": u.Role},
	})
}
