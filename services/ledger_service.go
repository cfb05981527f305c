package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"coin-hunt-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAccountBanned = errors.New("account is banned")

// categoryRoute maps a claim category onto the sub-ledger column it
// credits, the counter it bumps, and whether it stamps the daily claim.
type categoryRoute struct {
	LedgerColumn  string
	CounterColumn string
	StampsDaily   bool
}

// First match wins; categories missing from this table (URBAN, MALL,
// GIFTBOX and anything unknown) fall through to gameplay_balance.
var categoryRoutes = map[models.ClaimCategory]categoryRoute{
	models.CategoryAdReward: {LedgerColumn: "daily_supply_balance", CounterColumn: "ads_watched", StampsDaily: true},
	models.CategoryLandmark: {LedgerColumn: "rare_balance", CounterColumn: "rare_items_collected"},
	models.CategoryEvent:    {LedgerColumn: "event_balance", CounterColumn: "event_items_collected"},
	models.CategoryMerchant: {LedgerColumn: "merchant_balance", CounterColumn: "sponsored_ads_watched"},
}

var gameplayRoute = categoryRoute{LedgerColumn: "gameplay_balance"}

func routeForCategory(category models.ClaimCategory) categoryRoute {
	if route, ok := categoryRoutes[category]; ok {
		return route
	}
	return gameplayRoute
}

// LedgerService turns pending claims into account balance mutations.
// All mutations are SQL-side increments so concurrent claims for one
// user commute regardless of processing order.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// ProcessClaim applies one claim to its owner's account and marks the
// claim verified, as a single transaction. Delivery is at-least-once:
// a claim already verified is a no-op, and any failure parks the claim
// in error status so it is never silently retried.
func (s *LedgerService) ProcessClaim(claim *models.Claim) error {
	if claim.Status == models.ClaimStatusVerified {
		return nil
	}

	if err := s.applyClaim(claim); err != nil {
		s.markClaimFailed(claim, err)
		return err
	}

	log.Printf("✅ Claim %s verified: user=%d spawn=%s value=%.2f category=%s",
		claim.ID, claim.UserID, claim.SpawnID, claim.ClaimedValue, claim.Category)
	return nil
}

func (s *LedgerService) applyClaim(claim *models.Claim) error {
	if claim.UserID <= 0 {
		return fmt.Errorf("invalid user id %d", claim.UserID)
	}
	if claim.ClaimedValue < 0 || claim.TonReward < 0 {
		return fmt.Errorf("negative reward: value=%.2f ton=%.4f", claim.ClaimedValue, claim.TonReward)
	}

	category := claim.Category
	if category == "" {
		category = models.CategoryUrban
	}
	route := routeForCategory(category)
	now := time.Now()

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.UserAccount{UserID: claim.UserID}).Error; err != nil {
			return err
		}

		var account models.UserAccount
		if err := tx.First(&account, "user_id = ?", claim.UserID).Error; err != nil {
			return err
		}
		if account.IsBanned {
			return ErrAccountBanned
		}

		updates := map[string]interface{}{
			"balance":          gorm.Expr("balance + ?", claim.ClaimedValue),
			"ton_balance":      gorm.Expr("ton_balance + ?", claim.TonReward),
			route.LedgerColumn: gorm.Expr(route.LedgerColumn+" + ?", claim.ClaimedValue),
			"last_active":      now,
		}
		if route.CounterColumn != "" {
			updates[route.CounterColumn] = gorm.Expr(route.CounterColumn + " + 1")
		}
		if route.StampsDaily {
			updates["last_daily_claim"] = now
		}

		if err := tx.Model(&models.UserAccount{}).
			Where("user_id = ?", claim.UserID).
			Updates(updates).Error; err != nil {
			return err
		}

		// Ad watches are repeatable and stay out of the collected set.
		if !claim.IsAdWatch() {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.CollectedSpawn{
					ID:      uuid.NewString(),
					UserID:  claim.UserID,
					SpawnID: claim.SpawnID,
				}).Error; err != nil {
				return err
			}
		}

		// Sponsored hotspot accounting for branded claims.
		if category == models.CategoryMerchant {
			if err := tx.Model(&models.SponsorHotspot{}).
				Where("spawn_id = ?", claim.SpawnID).
				UpdateColumn("claims", gorm.Expr("claims + 1")).Error; err != nil {
				return err
			}
		}

		claim.Status = models.ClaimStatusVerified
		claim.ProcessedAt = &now
		return tx.Model(&models.Claim{}).
			Where("id = ?", claim.ID).
			Updates(map[string]interface{}{
				"status":       models.ClaimStatusVerified,
				"processed_at": now,
			}).Error
	})
}

// markClaimFailed parks the claim in error status with the failure
// recorded for operators. A stuck pending claim is recognizable by
// having neither processed_at nor error_msg.
func (s *LedgerService) markClaimFailed(claim *models.Claim, cause error) {
	now := time.Now()
	claim.Status = models.ClaimStatusError
	claim.ErrorMsg = cause.Error()
	claim.ProcessedAt = &now

	if err := s.DB.Model(&models.Claim{}).
		Where("id = ?", claim.ID).
		Updates(map[string]interface{}{
			"status":       models.ClaimStatusError,
			"error_msg":    cause.Error(),
			"processed_at": now,
		}).Error; err != nil {
		log.Printf("❌ Failed to mark claim %s as error: %v (original: %v)", claim.ID, err, cause)
		return
	}

	log.Printf("⚠️ Claim %s marked error: %v", claim.ID, cause)
}
