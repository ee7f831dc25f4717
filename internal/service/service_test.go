package service_test

import (
	"testing"

	"keyroute/config"
	"keyroute/internal/database"
	"keyroute/internal/models"
	"keyroute/internal/repository"
	"keyroute/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db            *gorm.DB
	userRepo      *repository.UserRepository
	walletRepo    *repository.WalletRepository
	bookingRepo   *repository.BookingRepository
	referralRepo  *repository.ReferralRepository
	commissionSvc *service.CommissionService
	referralSvc   *service.ReferralService
	ledgerSvc     *service.BookingLedgerService
	cfg           config.LedgerConfig
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a :memory: database exists per connection; keep exactly one
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))

	cfg := config.LedgerConfig{
		MinimumWalletAmount:     dec(t, "100"),
		ReferralRewardAmount:    dec(t, "300"),
		ReferredUserBonusAmount: dec(t, "100"),
	}
	userRepo := repository.NewUserRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	commissionSvc := service.NewCommissionService(commissionRepo)
	referralSvc := service.NewReferralService(referralRepo, walletRepo, userRepo, cfg)
	ledgerSvc := service.NewBookingLedgerService(db, bookingRepo, walletRepo, commissionSvc, referralSvc, cfg)
	return &fixture{
		db:            db,
		userRepo:      userRepo,
		walletRepo:    walletRepo,
		bookingRepo:   bookingRepo,
		referralRepo:  referralRepo,
		commissionSvc: commissionSvc,
		referralSvc:   referralSvc,
		ledgerSvc:     ledgerSvc,
		cfg:           cfg,
	}
}

func (f *fixture) user(t *testing.T, name, email, mobile string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: email, Mobile: mobile, Role: "USER"}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *fixture) wallet(t *testing.T, userID uint, balance string) *models.Wallet {
	t.Helper()
	w := &models.Wallet{UserID: userID, Balance: dec(t, balance)}
	require.NoError(t, f.db.Create(w).Error)
	return w
}

func (f *fixture) referredWallet(t *testing.T, userID uint, balance, referredBy string) *models.Wallet {
	t.Helper()
	w := &models.Wallet{UserID: userID, Balance: dec(t, balance), ReferredBy: &referredBy}
	require.NoError(t, f.db.Create(w).Error)
	return w
}

func (f *fixture) slab(t *testing.T, min, max, commissionPct, advancePct string) *models.CommissionSlab {
	t.Helper()
	s := &models.CommissionSlab{
		MinAmount:            dec(t, min),
		MaxAmount:            dec(t, max),
		CommissionPercentage: dec(t, commissionPct),
		AdvancePercentage:    dec(t, advancePct),
	}
	require.NoError(t, f.db.Create(s).Error)
	return s
}

func (f *fixture) booking(t *testing.T, userID uint, bookingType, total string) *models.Booking {
	t.Helper()
	b := &models.Booking{
		UserID:      userID,
		BookingType: bookingType,
		TotalAmount: dec(t, total),
		TripStatus:  "not_started",
	}
	require.NoError(t, f.db.Create(b).Error)
	return b
}

func (f *fixture) reloadWallet(t *testing.T, userID uint) *models.Wallet {
	t.Helper()
	w, err := f.walletRepo.GetByUserID(userID)
	require.NoError(t, err)
	return w
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func requireDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, dec(t, want).Equal(got), "want %s, got %s", want, got.String())
}
