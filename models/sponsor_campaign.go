package models

import "time"

// CampaignStatus is the publishing lifecycle of a sponsor campaign.
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusScheduled CampaignStatus = "scheduled"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusExpired   CampaignStatus = "expired"
)

// SponsorCampaign = a paid batch of branded collectible hotspots.
type SponsorCampaign struct {
	ID          string         `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	SponsorName string         `gorm:"not null" json:"sponsor_name"`
	Status      CampaignStatus `gorm:"index;not null;default:'draft'" json:"status"`
	CoinValue   float64        `json:"coin_value"` // default value per hotspot claim
	Budget      float64        `json:"budget"`
	CreativeURL string         `gorm:"type:text" json:"creative_url,omitempty"`
	StartsAt    *time.Time     `json:"starts_at,omitempty"`
	EndsAt      *time.Time     `json:"ends_at,omitempty"`

	Hotspots []SponsorHotspot `gorm:"foreignKey:CampaignID" json:"hotspots,omitempty"`

	Timestamps
}

// SponsorHotspot is one branded spawn point on the map. Claims against it
// arrive as MERCHANT claims referencing SpawnID; the ledger engine bumps
// the Claims counter as it credits the user.
type SponsorHotspot struct {
	ID         string  `gorm:"primaryKey;type:uuid" json:"id"`
	CampaignID string  `gorm:"index;type:uuid;not null" json:"campaign_id"`
	SpawnID    string  `gorm:"uniqueIndex;not null" json:"spawn_id"`
	Lat        float64 `gorm:"not null" json:"lat"`
	Lng        float64 `gorm:"not null" json:"lng"`
	CoinValue  float64 `json:"coin_value"`
	Claims     int64   `json:"claims" gorm:"default:0"`

	Timestamps
}
