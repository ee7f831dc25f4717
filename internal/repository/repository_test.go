package repository_test

import (
	"testing"

	"keyroute/internal/database"
	"keyroute/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func createUser(t *testing.T, db *gorm.DB, name, email, mobile string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: email, Mobile: mobile, Role: "USER"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createWallet(t *testing.T, db *gorm.DB, userID uint, balance string) *models.Wallet {
	t.Helper()
	b, err := decimal.NewFromString(balance)
	require.NoError(t, err)
	w := &models.Wallet{UserID: userID, Balance: b}
	require.NoError(t, db.Create(w).Error)
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
