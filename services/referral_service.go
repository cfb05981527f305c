package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"coin-hunt-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	ReferrerReward = 50.0
	InviteeReward  = 25.0

	// Fallback display name for invitees who joined without one.
	DefaultInviteeName = "Hunter"
)

var ErrReferralAlreadyClaimed = errors.New("referral already claimed for this user")

// ReferralSettlementService grants the one-time inviter/invitee reward
// pair. The invitee's HasClaimedReferral flag is the sole replay guard,
// flipped by a conditional update inside the same transaction that
// credits the referrer, so two racing claims cannot both settle.
type ReferralSettlementService struct {
	DB *gorm.DB
}

func NewReferralSettlementService(db *gorm.DB) *ReferralSettlementService {
	return &ReferralSettlementService{DB: db}
}

// ProcessReferralClaim settles one referral claim. Duplicates and
// self-referrals resolve as verified no-ops; store failures leave the
// claim pending and reprocessable.
func (s *ReferralSettlementService) ProcessReferralClaim(rc *models.ReferralClaim) error {
	if rc.Status == models.ClaimStatusVerified {
		return nil
	}

	referrerID, err := strconv.ParseInt(rc.ReferrerID, 10, 64)
	if err != nil {
		return fmt.Errorf("malformed referrer id %q: %w", rc.ReferrerID, err)
	}
	if rc.UserID <= 0 {
		return fmt.Errorf("invalid invitee id %d", rc.UserID)
	}
	if referrerID == rc.UserID {
		log.Printf("⚠️ Dropping self-referral claim %s (user=%d)", rc.ID, rc.UserID)
		return s.resolveClaim(s.DB, rc)
	}

	inviteeName := strings.TrimSpace(rc.UserName)
	if inviteeName == "" {
		inviteeName = DefaultInviteeName
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, id := range []int64{rc.UserID, referrerID} {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.UserAccount{UserID: id}).Error; err != nil {
				return err
			}
		}

		now := time.Now()

		// Invitee side first: the conditional update doubles as the
		// replay guard. Zero rows affected means someone already
		// settled this invitee.
		res := tx.Model(&models.UserAccount{}).
			Where("user_id = ? AND has_claimed_referral = ?", rc.UserID, false).
			Updates(map[string]interface{}{
				"balance":              gorm.Expr("balance + ?", InviteeReward),
				"gameplay_balance":     gorm.Expr("gameplay_balance + ?", InviteeReward),
				"has_claimed_referral": true,
				"last_active":          now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrReferralAlreadyClaimed
		}

		if err := tx.Model(&models.UserAccount{}).
			Where("user_id = ?", referrerID).
			Updates(map[string]interface{}{
				"balance":          gorm.Expr("balance + ?", ReferrerReward),
				"referral_balance": gorm.Expr("referral_balance + ?", ReferrerReward),
				"referrals":        gorm.Expr("referrals + 1"),
				"last_active":      now,
			}).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.ReferralEntry{
			ID:          uuid.NewString(),
			ReferrerID:  referrerID,
			InviteeID:   rc.UserID,
			InviteeName: inviteeName,
		}).Error; err != nil {
			return err
		}

		return s.resolveClaim(tx, rc)
	})

	if errors.Is(err, ErrReferralAlreadyClaimed) {
		// Not an error: the invitee was already rewarded. Resolve the
		// duplicate so the outbox stops redelivering it.
		log.Printf("ℹ️ Referral claim %s is a duplicate for user %d, dropped", rc.ID, rc.UserID)
		return s.resolveClaim(s.DB, rc)
	}
	if err != nil {
		return err
	}

	log.Printf("✅ Referral settled: referrer=%d +%.0f, invitee=%d +%.0f (%s)",
		referrerID, ReferrerReward, rc.UserID, InviteeReward, inviteeName)
	return nil
}

func (s *ReferralSettlementService) resolveClaim(db *gorm.DB, rc *models.ReferralClaim) error {
	now := time.Now()
	rc.Status = models.ClaimStatusVerified
	rc.ProcessedAt = &now
	return db.Model(&models.ReferralClaim{}).
		Where("id = ?", rc.ID).
		Updates(map[string]interface{}{
			"status":       models.ClaimStatusVerified,
			"processed_at": now,
		}).Error
}
