// services/sponsor_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"coin-hunt-system/models"
	"coin-hunt-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type SponsorService struct {
	DB *gorm.DB
}

func NewSponsorService(db *gorm.DB) *SponsorService {
	return &SponsorService{DB: db}
}

// --- Admin Handlers ---

// CreateCampaign creates a new sponsor campaign (Admin only)
func (s *SponsorService) CreateCampaign(c *fiber.Ctx) error {
	var req struct {
		Name        string     `json:"name" validate:"required"`
		SponsorName string     `json:"sponsor_name" validate:"required"`
		CoinValue   float64    `json:"coin_value"`
		Budget      float64    `json:"budget"`
		StartsAt    *time.Time `json:"starts_at"`
		EndsAt      *time.Time `json:"ends_at"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" || req.SponsorName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name and sponsor_name are required"})
	}
	if req.CoinValue < 0 || req.Budget < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "coin_value and budget must be non-negative"})
	}
	if req.StartsAt != nil && req.EndsAt != nil && !req.EndsAt.After(*req.StartsAt) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ends_at must be after starts_at"})
	}

	status := models.CampaignStatusDraft
	if req.StartsAt != nil {
		status = models.CampaignStatusScheduled
	}

	campaign := &models.SponsorCampaign{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Slug:        slug.Make(req.Name),
		SponsorName: req.SponsorName,
		Status:      status,
		CoinValue:   req.CoinValue,
		Budget:      req.Budget,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}

	if err := s.DB.Create(campaign).Error; err != nil {
		log.Printf("DB Error creating campaign: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create campaign"})
	}

	return c.Status(fiber.StatusCreated).JSON(campaign)
}

// ListCampaigns returns all campaigns (Admin only)
func (s *SponsorService) ListCampaigns(c *fiber.Ctx) error {
	var campaigns []models.SponsorCampaign
	if err := s.DB.Order("created_at DESC").Find(&campaigns).Error; err != nil {
		log.Printf("DB Error fetching campaigns: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch campaigns"})
	}
	return c.JSON(campaigns)
}

// GetCampaign returns one campaign with its hotspots (Admin only)
func (s *SponsorService) GetCampaign(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid campaign ID"})
	}

	var campaign models.SponsorCampaign
	if err := s.DB.Preload("Hotspots").First(&campaign, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Campaign not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(campaign)
}

// UploadCreative attaches a branded creative image to a campaign,
// stored in R2 and served via CDN (Admin only)
func (s *SponsorService) UploadCreative(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid campaign ID"})
	}

	var campaign models.SponsorCampaign
	if err := s.DB.First(&campaign, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Campaign not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	fileHeader, err := c.FormFile("creative")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "creative file is required"})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unsupported creative format"})
	}

	key := fmt.Sprintf("creatives/%s%s", campaign.ID, ext)
	url, err := utils.UploadFileToR2(fileHeader, key)
	if err != nil {
		log.Printf("R2 upload failed for campaign %s: %v", campaign.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload creative"})
	}

	campaign.CreativeURL = url
	if err := s.DB.Save(&campaign).Error; err != nil {
		log.Printf("DB Error saving creative URL: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save creative URL"})
	}

	return c.JSON(fiber.Map{"message": "Creative uploaded", "creative_url": url})
}

// PlaceHotspots adds branded spawn points to a campaign (Admin only)
func (s *SponsorService) PlaceHotspots(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid campaign ID"})
	}

	var campaign models.SponsorCampaign
	if err := s.DB.First(&campaign, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Campaign not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req struct {
		Hotspots []struct {
			Lat       float64  `json:"lat"`
			Lng       float64  `json:"lng"`
			CoinValue *float64 `json:"coin_value"`
		} `json:"hotspots"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if len(req.Hotspots) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "hotspots must not be empty"})
	}

	hotspots := make([]models.SponsorHotspot, 0, len(req.Hotspots))
	for _, h := range req.Hotspots {
		if h.Lat < -90 || h.Lat > 90 || h.Lng < -180 || h.Lng > 180 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "hotspot coordinates out of range"})
		}
		coinValue := campaign.CoinValue
		if h.CoinValue != nil {
			coinValue = *h.CoinValue
		}
		hotspotID := uuid.NewString()
		hotspots = append(hotspots, models.SponsorHotspot{
			ID:         hotspotID,
			CampaignID: campaign.ID,
			SpawnID:    fmt.Sprintf("spot-%s-%s", campaign.Slug, hotspotID[:8]),
			Lat:        h.Lat,
			Lng:        h.Lng,
			CoinValue:  coinValue,
		})
	}

	if err := s.DB.Create(&hotspots).Error; err != nil {
		log.Printf("DB Error placing hotspots for campaign %s: %v", campaign.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to place hotspots"})
	}

	return c.Status(fiber.StatusCreated).JSON(hotspots)
}

// ActivateCampaign flips a campaign live immediately (Admin only)
func (s *SponsorService) ActivateCampaign(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid campaign ID"})
	}

	result := s.DB.Model(&models.SponsorCampaign{}).
		Where("id = ? AND status IN ?", id, []models.CampaignStatus{models.CampaignStatusDraft, models.CampaignStatusScheduled}).
		Update("status", models.CampaignStatusActive)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Campaign not found or not activatable"})
	}

	return c.JSON(fiber.Map{"message": "Campaign activated"})
}

// ExpireCampaign archives a campaign and takes its hotspots off the map (Admin only)
func (s *SponsorService) ExpireCampaign(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid campaign ID"})
	}

	result := s.DB.Model(&models.SponsorCampaign{}).
		Where("id = ?", id).
		Update("status", models.CampaignStatusExpired)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Campaign not found"})
	}

	return c.JSON(fiber.Map{"message": "Campaign expired"})
}

// --- User Handlers ---

// ListActiveHotspots returns the branded hotspots of live campaigns for
// the map view
func (s *SponsorService) ListActiveHotspots(c *fiber.Ctx) error {
	type hotspotView struct {
		SpawnID     string  `json:"spawn_id"`
		Lat         float64 `json:"lat"`
		Lng         float64 `json:"lng"`
		CoinValue   float64 `json:"coin_value"`
		SponsorName string  `json:"sponsor_name"`
		CreativeURL string  `json:"creative_url"`
	}

	var hotspots []hotspotView
	err := s.DB.Model(&models.SponsorHotspot{}).
		Select("sponsor_hotspots.spawn_id, sponsor_hotspots.lat, sponsor_hotspots.lng, sponsor_hotspots.coin_value, sponsor_campaigns.sponsor_name, sponsor_campaigns.creative_url").
		Joins("INNER JOIN sponsor_campaigns ON sponsor_campaigns.id = sponsor_hotspots.campaign_id").
		Where("sponsor_campaigns.status = ?", models.CampaignStatusActive).
		Scan(&hotspots).Error
	if err != nil {
		log.Printf("DB Error fetching active hotspots: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch hotspots"})
	}

	return c.JSON(hotspots)
}
