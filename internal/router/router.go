package router

import (
	"time"

	"keyroute/config"
	"keyroute/internal/domain"
	"keyroute/internal/handler"
	"keyroute/internal/middleware"
	"keyroute/internal/repository"
	"keyroute/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	referralRepo := repository.NewReferralRepository(db)

	// Services
	commissionSvc := service.NewCommissionService(commissionRepo)
	referralSvc := service.NewReferralService(referralRepo, walletRepo, userRepo, cfg.Ledger)
	ledgerSvc := service.NewBookingLedgerService(db, bookingRepo, walletRepo, commissionSvc, referralSvc, cfg.Ledger)

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, userRepo, walletRepo)
	walletHandler := handler.NewWalletHandler(walletRepo, ledgerSvc)
	bookingHandler := handler.NewBookingHandler(bookingRepo, ledgerSvc)
	adminHandler := handler.NewAdminHandler(commissionRepo, referralRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/wallet", walletHandler.GetBalance)
			me.GET("/wallet/transactions", walletHandler.GetTransactions)
			me.GET("/bookings", bookingHandler.ListMine)
		}

		bookings := api.Group("/bookings")
		bookings.Use(authMw)
		{
			bookings.POST("", bookingHandler.Create)
			bookings.GET("/:booking_type/:id", bookingHandler.Get)
			bookings.GET("/:booking_type/:id/wallet", walletHandler.GetApplied)
			bookings.POST("/:booking_type/:id/wallet/apply", walletHandler.Apply)
			bookings.POST("/:booking_type/:id/wallet/remove", walletHandler.Remove)
			bookings.PATCH("/:booking_type/:id/trip-status",
				middleware.RequireRole(domain.RoleVendor, domain.RoleAdmin),
				bookingHandler.UpdateTripStatus)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.RequireRole(domain.RoleAdmin))
		{
			admin.GET("/slabs", adminHandler.ListSlabs)
			admin.POST("/slabs", adminHandler.CreateSlab)
			admin.PUT("/slabs/:id", adminHandler.UpdateSlab)
			admin.DELETE("/slabs/:id", adminHandler.DeleteSlab)
			admin.GET("/commissions", adminHandler.ListCommissions)
			admin.GET("/referral-rewards", adminHandler.ListReferralRewards)
		}
	}

	return r
}
