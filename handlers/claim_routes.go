// handlers/claim_routes.go
package handlers

import (
	"log"
	"strconv"

	"coin-hunt-system/middleware"
	"coin-hunt-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SetupClaimRoutes wires the client-side write path: claims and referral
// claims are inserted pending and picked up asynchronously by the
// workers. Balances are never written here.
func SetupClaimRoutes(app *fiber.App, db *gorm.DB) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Post("/s/claims", func(c *fiber.Ctx) error {
		accountID := c.Locals("account_id").(int64)

		var req struct {
			SpawnID      string               `json:"spawn_id"`
			ClaimedValue float64              `json:"claimed_value"`
			TonReward    float64              `json:"ton_reward"`
			Category     models.ClaimCategory `json:"category"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.SpawnID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "spawn_id is required"})
		}
		if req.ClaimedValue < 0 || req.TonReward < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "rewards must be non-negative"})
		}

		claim := &models.Claim{
			ID:           uuid.NewString(),
			UserID:       accountID,
			SpawnID:      req.SpawnID,
			ClaimedValue: req.ClaimedValue,
			TonReward:    req.TonReward,
			Category:     req.Category,
			Status:       models.ClaimStatusPending,
		}

		if err := db.Create(claim).Error; err != nil {
			log.Printf("DB Error creating claim: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit claim"})
		}

		return c.Status(fiber.StatusAccepted).JSON(claim)
	})

	securedGroup.Post("/s/referrals", func(c *fiber.Ctx) error {
		accountID := c.Locals("account_id").(int64)

		var req struct {
			ReferrerID string `json:"referrer_id"`
			UserName   string `json:"user_name"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.ReferrerID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "referrer_id is required"})
		}
		if _, err := strconv.ParseInt(req.ReferrerID, 10, 64); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "referrer_id must be numeric"})
		}

		rc := &models.ReferralClaim{
			ID:         uuid.NewString(),
			ReferrerID: req.ReferrerID,
			UserID:     accountID,
			UserName:   req.UserName,
			Status:     models.ClaimStatusPending,
		}

		if err := db.Create(rc).Error; err != nil {
			log.Printf("DB Error creating referral claim: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit referral claim"})
		}

		return c.Status(fiber.StatusAccepted).JSON(rc)
	})

	// Claim history for the wallet screen (read-only; outcomes surface
	// through the account projection, not here).
	securedGroup.Get("/s/claims", func(c *fiber.Ctx) error {
		accountID := c.Locals("account_id").(int64)

		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		if limit <= 0 || limit > 200 {
			limit = 50
		}

		var claims []models.Claim
		if err := db.Where("user_id = ?", accountID).
			Order("created_at DESC").
			Limit(limit).
			Find(&claims).Error; err != nil {
			log.Printf("DB Error fetching claims: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch claims"})
		}
		return c.JSON(claims)
	})
}
