package database

import (
	"log"

	"keyroute/config"
	"keyroute/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.WalletTransaction{},
		&models.Booking{},
		&models.CommissionSlab{},
		&models.CommissionRecord{},
		&models.ReferralReward{},
	)
}

// SeedCommissionSlabs inserts the default slab table when none exists.
func SeedCommissionSlabs(db *gorm.DB) {
	var count int64
	db.Model(&models.CommissionSlab{}).Count(&count)
	if count > 0 {
		return
	}
	slabs := []models.CommissionSlab{
		{MinAmount: dec(0), MaxAmount: dec(5000), CommissionPercentage: dec(10), AdvancePercentage: dec(20)},
		{MinAmount: dec(5001), MaxAmount: dec(20000), CommissionPercentage: dec(8), AdvancePercentage: dec(25)},
		{MinAmount: dec(20001), MaxAmount: dec(100000), CommissionPercentage: dec(6), AdvancePercentage: dec(30)},
	}
	if err := db.Create(&slabs).Error; err != nil {
		log.Printf("[seed] commission slabs: %v", err)
	}
}

func dec(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}
