package workers

import (
	"testing"

	"coin-hunt-system/models"
	"coin-hunt-system/services"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestClaimWorkerDrainsPendingOutbox(t *testing.T) {
	db := newTestDB(t)
	worker := NewClaimWorker(db, services.NewLedgerService(db), 0)

	for i, spawn := range []string{"urban-1", "urban-2", "landmark-1"} {
		require.NoError(t, db.Create(&models.Claim{
			ID:           uuid.NewString(),
			UserID:       int64(42 + i),
			SpawnID:      spawn,
			ClaimedValue: 10,
			Status:       models.ClaimStatusPending,
		}).Error)
	}

	processed, err := worker.DrainOnce()
	require.NoError(t, err)
	assert.Equal(t, 3, processed)

	var pending int64
	require.NoError(t, db.Model(&models.Claim{}).
		Where("status = ?", models.ClaimStatusPending).Count(&pending).Error)
	assert.Zero(t, pending)

	// Nothing left for the next tick.
	processed, err = worker.DrainOnce()
	require.NoError(t, err)
	assert.Zero(t, processed)
}

func TestClaimWorkerParksBadClaimsWithoutRetry(t *testing.T) {
	db := newTestDB(t)
	worker := NewClaimWorker(db, services.NewLedgerService(db), 0)

	badID := uuid.NewString()
	require.NoError(t, db.Create(&models.Claim{
		ID:           badID,
		UserID:       42,
		SpawnID:      "urban-1",
		ClaimedValue: -10,
		Status:       models.ClaimStatusPending,
	}).Error)
	require.NoError(t, db.Create(&models.Claim{
		ID:           uuid.NewString(),
		UserID:       42,
		SpawnID:      "urban-2",
		ClaimedValue: 10,
		Status:       models.ClaimStatusPending,
	}).Error)

	processed, err := worker.DrainOnce()
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	var bad models.Claim
	require.NoError(t, db.First(&bad, "id = ?", badID).Error)
	assert.Equal(t, models.ClaimStatusError, bad.Status)
	assert.NotEmpty(t, bad.ErrorMsg)

	// Error claims are terminal: the next drain does not touch them.
	processed, err = worker.DrainOnce()
	require.NoError(t, err)
	assert.Zero(t, processed)
}

func TestReferralWorkerSettlesAndDropsDuplicates(t *testing.T) {
	db := newTestDB(t)
	worker := NewReferralWorker(db, services.NewReferralSettlementService(db), 0)

	for i := 0; i < 2; i++ {
		require.NoError(t, db.Create(&models.ReferralClaim{
			ID:         uuid.NewString(),
			ReferrerID: "7",
			UserID:     42,
			UserName:   "Bob",
			Status:     models.ClaimStatusPending,
		}).Error)
	}

	settled, err := worker.DrainOnce()
	require.NoError(t, err)
	assert.Equal(t, 2, settled) // one reward, one resolved duplicate

	var referrer models.UserAccount
	require.NoError(t, db.First(&referrer, "user_id = ?", 7).Error)
	assert.Equal(t, 50.0, referrer.Balance)
	assert.Equal(t, int64(1), referrer.Referrals)

	var invitee models.UserAccount
	require.NoError(t, db.First(&invitee, "user_id = ?", 42).Error)
	assert.Equal(t, 25.0, invitee.Balance)
	assert.True(t, invitee.HasClaimedReferral)

	var pending int64
	require.NoError(t, db.Model(&models.ReferralClaim{}).
		Where("status = ?", models.ClaimStatusPending).Count(&pending).Error)
	assert.Zero(t, pending)
}

func TestReferralWorkerLeavesFailedClaimPending(t *testing.T) {
	db := newTestDB(t)
	worker := NewReferralWorker(db, services.NewReferralSettlementService(db), 0)

	require.NoError(t, db.Create(&models.ReferralClaim{
		ID:         uuid.NewString(),
		ReferrerID: "not-a-number",
		UserID:     42,
		UserName:   "Bob",
		Status:     models.ClaimStatusPending,
	}).Error)

	settled, err := worker.DrainOnce()
	require.NoError(t, err)
	assert.Zero(t, settled)

	var pending int64
	require.NoError(t, db.Model(&models.ReferralClaim{}).
		Where("status = ?", models.ClaimStatusPending).Count(&pending).Error)
	assert.Equal(t, int64(1), pending)
}
