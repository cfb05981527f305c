package models

import (
	"strings"
	"time"
)

// ClaimCategory routes a claim to the matching sub-ledger and counter.
type ClaimCategory string

const (
	CategoryAdReward ClaimCategory = "AD_REWARD"
	CategoryLandmark ClaimCategory = "LANDMARK"
	CategoryEvent    ClaimCategory = "EVENT"
	CategoryMerchant ClaimCategory = "MERCHANT"
	CategoryUrban    ClaimCategory = "URBAN"
	CategoryMall     ClaimCategory = "MALL"
	CategoryGiftbox  ClaimCategory = "GIFTBOX"
)

// ClaimStatus is the processing lifecycle of a claim.
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusVerified ClaimStatus = "verified"
	ClaimStatusError    ClaimStatus = "error"
)

// AdSpawnPrefix marks rewarded-ad watches. Ad spawns can be claimed
// repeatedly and never enter the collected-spawn set.
const AdSpawnPrefix = "ad-"

// Claim = user collected a spawn (or watched a rewarded ad) on the map.
// Written once by the client as pending; only the ledger engine moves it
// to verified/error.
type Claim struct {
	ID           string        `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       int64         `gorm:"index;not null" json:"user_id"`
	SpawnID      string        `gorm:"not null" json:"spawn_id"`
	ClaimedValue float64       `gorm:"not null" json:"claimed_value"`
	TonReward    float64       `gorm:"not null;default:0" json:"ton_reward"`
	Category     ClaimCategory `json:"category"` // empty means URBAN
	Status       ClaimStatus   `gorm:"index;not null;default:'pending'" json:"status"`
	CreatedAt    time.Time     `json:"created_at" gorm:"autoCreateTime"`
	ProcessedAt  *time.Time    `json:"processed_at,omitempty"`
	ErrorMsg     string        `gorm:"type:text" json:"error_msg,omitempty"`
}

// IsAdWatch reports whether the claim is a repeatable rewarded-ad watch.
func (c *Claim) IsAdWatch() bool {
	return strings.HasPrefix(c.SpawnID, AdSpawnPrefix)
}
