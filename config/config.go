package config

import (
	"os"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Ledger   LedgerConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// LedgerConfig carries the money-policy knobs for the booking ledger.
// Injected into services rather than read as globals so tests can vary them.
type LedgerConfig struct {
	// MinimumWalletAmount is the smallest balance a wallet must hold before
	// any of it may be applied to a booking.
	MinimumWalletAmount decimal.Decimal
	// ReferralRewardAmount is credited to the referrer when the referred
	// user's trip completes.
	ReferralRewardAmount decimal.Decimal
	// ReferredUserBonusAmount is credited to the referred user on the same
	// trip completion.
	ReferredUserBonusAmount decimal.Decimal
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_DSN", "keyroute:keyroute@tcp(localhost:3306)/keyroute?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "keyroute",
		},
		Ledger: LedgerConfig{
			MinimumWalletAmount:     getEnvDecimal("MINIMUM_WALLET_AMOUNT", "100"),
			ReferralRewardAmount:    getEnvDecimal("REFERRAL_REWARD_AMOUNT", "300"),
			ReferredUserBonusAmount: getEnvDecimal("REFERRED_USER_BONUS_AMOUNT", "100"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDecimal(key, fallback string) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	d, _ := decimal.NewFromString(fallback)
	return d
}
