package services

import (
	"testing"

	"coin-hunt-system/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
// Connections are capped at one so every query sees the same memory DB.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.UserAccount{},
		&models.CollectedSpawn{},
		&models.ReferralEntry{},
		&models.Claim{},
		&models.ReferralClaim{},
		&models.SponsorCampaign{},
		&models.SponsorHotspot{},
	))

	return db
}

func loadAccount(t *testing.T, db *gorm.DB, userID int64) models.UserAccount {
	t.Helper()
	var account models.UserAccount
	require.NoError(t, db.First(&account, "user_id = ?", userID).Error)
	return account
}
