package services

import (
	"errors"
	"testing"

	"coin-hunt-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func makeReferralClaim(db *gorm.DB, t *testing.T, referrerID string, userID int64, userName string) *models.ReferralClaim {
	t.Helper()
	rc := &models.ReferralClaim{
		ID:         uuid.NewString(),
		ReferrerID: referrerID,
		UserID:     userID,
		UserName:   userName,
		Status:     models.ClaimStatusPending,
	}
	require.NoError(t, db.Create(rc).Error)
	return rc
}

func TestReferralSettlement(t *testing.T) {
	db := newTestDB(t)
	settlement := NewReferralSettlementService(db)

	rc := makeReferralClaim(db, t, "7", 42, "Bob")
	require.NoError(t, settlement.ProcessReferralClaim(rc))

	referrer := loadAccount(t, db, 7)
	assert.Equal(t, 50.0, referrer.Balance)
	assert.Equal(t, 50.0, referrer.ReferralBalance)
	assert.Equal(t, int64(1), referrer.Referrals)

	invitee := loadAccount(t, db, 42)
	assert.Equal(t, 25.0, invitee.Balance)
	assert.Equal(t, 25.0, invitee.GameplayBalance)
	assert.True(t, invitee.HasClaimedReferral)

	var names []string
	require.NoError(t, db.Model(&models.ReferralEntry{}).
		Where("referrer_id = ?", 7).Order("created_at ASC").
		Pluck("invitee_name", &names).Error)
	assert.Equal(t, []string{"Bob"}, names)

	var stored models.ReferralClaim
	require.NoError(t, db.First(&stored, "id = ?", rc.ID).Error)
	assert.Equal(t, models.ClaimStatusVerified, stored.Status)
	assert.NotNil(t, stored.ProcessedAt)
}

func TestReferralReplayGuard(t *testing.T) {
	db := newTestDB(t)
	settlement := NewReferralSettlementService(db)

	first := makeReferralClaim(db, t, "7", 42, "Bob")
	require.NoError(t, settlement.ProcessReferralClaim(first))

	// Same invitee again, even from a different referrer: no second reward.
	second := makeReferralClaim(db, t, "8", 42, "Bob")
	require.NoError(t, settlement.ProcessReferralClaim(second))

	referrer := loadAccount(t, db, 7)
	assert.Equal(t, 50.0, referrer.Balance)
	assert.Equal(t, int64(1), referrer.Referrals)

	invitee := loadAccount(t, db, 42)
	assert.Equal(t, 25.0, invitee.Balance)

	// The second referrer got nothing; the aborted settlement did not
	// even leave an account row behind.
	var otherCount int64
	require.NoError(t, db.Model(&models.UserAccount{}).Where("user_id = ?", 8).Count(&otherCount).Error)
	assert.Zero(t, otherCount)

	// But the duplicate claim is resolved so the outbox drops it.
	var stored models.ReferralClaim
	require.NoError(t, db.First(&stored, "id = ?", second.ID).Error)
	assert.Equal(t, models.ClaimStatusVerified, stored.Status)

	var entryCount int64
	require.NoError(t, db.Model(&models.ReferralEntry{}).Count(&entryCount).Error)
	assert.Equal(t, int64(1), entryCount)
}

func TestReferralRedeliveryOfVerifiedClaimIsNoop(t *testing.T) {
	db := newTestDB(t)
	settlement := NewReferralSettlementService(db)

	rc := makeReferralClaim(db, t, "7", 42, "Bob")
	require.NoError(t, settlement.ProcessReferralClaim(rc))
	require.NoError(t, settlement.ProcessReferralClaim(rc))

	referrer := loadAccount(t, db, 7)
	assert.Equal(t, 50.0, referrer.Balance)
	assert.Equal(t, int64(1), referrer.Referrals)
}

func TestReferralAtomicityUnderInjectedFault(t *testing.T) {
	db := newTestDB(t)
	settlement := NewReferralSettlementService(db)

	// Both accounts exist up front so the rollback leaves observable rows.
	require.NoError(t, db.Create(&models.UserAccount{UserID: 7}).Error)
	require.NoError(t, db.Create(&models.UserAccount{UserID: 42}).Error)

	// Force the referral network insert (the last write of the pair)
	// to fail, after both balance updates have been attempted.
	injected := errors.New("injected store failure")
	require.NoError(t, db.Callback().Create().Before("gorm:create").
		Register("fail_referral_entries", func(tx *gorm.DB) {
			if tx.Statement != nil && tx.Statement.Table == "referral_entries" {
				tx.AddError(injected)
			}
		}))

	rc := makeReferralClaim(db, t, "7", 42, "Bob")
	err := settlement.ProcessReferralClaim(rc)
	require.Error(t, err)

	// Neither side of the pair may be observable.
	referrer := loadAccount(t, db, 7)
	assert.Zero(t, referrer.Balance)
	assert.Zero(t, referrer.Referrals)

	invitee := loadAccount(t, db, 42)
	assert.Zero(t, invitee.Balance)
	assert.False(t, invitee.HasClaimedReferral)

	// The claim stays pending, safe to reprocess once the store recovers.
	var stored models.ReferralClaim
	require.NoError(t, db.First(&stored, "id = ?", rc.ID).Error)
	assert.Equal(t, models.ClaimStatusPending, stored.Status)

	// Recovery: remove the fault and reprocess the same claim.
	require.NoError(t, db.Callback().Create().Remove("fail_referral_entries"))
	require.NoError(t, settlement.ProcessReferralClaim(rc))

	referrer = loadAccount(t, db, 7)
	assert.Equal(t, 50.0, referrer.Balance)
	invitee = loadAccount(t, db, 42)
	assert.True(t, invitee.HasClaimedReferral)
}

func TestSelfReferralDropped(t *testing.T) {
	db := newTestDB(t)
	settlement := NewReferralSettlementService(db)

	rc := makeReferralClaim(db, t, "42", 42, "Bob")
	require.NoError(t, settlement.ProcessReferralClaim(rc))

	var count int64
	require.NoError(t, db.Model(&models.UserAccount{}).Count(&count).Error)
	assert.Zero(t, count)

	var stored models.ReferralClaim
	require.NoError(t, db.First(&stored, "id = ?", rc.ID).Error)
	assert.Equal(t, models.ClaimStatusVerified, stored.Status)
}

func TestMalformedReferrerLeftPending(t *testing.T) {
	db := newTestDB(t)
	settlement := NewReferralSettlementService(db)

	rc := makeReferralClaim(db, t, "not-a-number", 42, "Bob")
	require.Error(t, settlement.ProcessReferralClaim(rc))

	var stored models.ReferralClaim
	require.NoError(t, db.First(&stored, "id = ?", rc.ID).Error)
	assert.Equal(t, models.ClaimStatusPending, stored.Status)
	assert.Nil(t, stored.ProcessedAt)
}

func TestBlankInviteeNameDefaults(t *testing.T) {
	db := newTestDB(t)
	settlement := NewReferralSettlementService(db)

	rc := makeReferralClaim(db, t, "7", 42, "   ")
	require.NoError(t, settlement.ProcessReferralClaim(rc))

	var names []string
	require.NoError(t, db.Model(&models.ReferralEntry{}).
		Where("referrer_id = ?", 7).
		Pluck("invitee_name", &names).Error)
	assert.Equal(t, []string{DefaultInviteeName}, names)
}
