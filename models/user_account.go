package models

import (
	"time"

	"gorm.io/gorm"
)

// UserAccount is the per-user economy aggregate (denormalized for reads).
// Balance and counter columns are written only by the ledger and referral
// engines; the client owns nothing here beyond the profile columns, which
// arrive through the narrow profile sync path.
type UserAccount struct {
	UserID int64 `gorm:"primaryKey" json:"user_id"`

	// Balances. Balance is the grand total; the category sub-ledgers
	// reconcile against its increment history.
	Balance            float64 `json:"balance" gorm:"default:0"`
	TonBalance         float64 `json:"ton_balance" gorm:"default:0"`
	GameplayBalance    float64 `json:"gameplay_balance" gorm:"default:0"`
	RareBalance        float64 `json:"rare_balance" gorm:"default:0"`
	EventBalance       float64 `json:"event_balance" gorm:"default:0"`
	DailySupplyBalance float64 `json:"daily_supply_balance" gorm:"default:0"`
	MerchantBalance    float64 `json:"merchant_balance" gorm:"default:0"`
	ReferralBalance    float64 `json:"referral_balance" gorm:"default:0"`

	// Activity counters
	AdsWatched          int64 `json:"ads_watched" gorm:"default:0"`
	SponsoredAdsWatched int64 `json:"sponsored_ads_watched" gorm:"default:0"`
	RareItemsCollected  int64 `json:"rare_items_collected" gorm:"default:0"`
	EventItemsCollected int64 `json:"event_items_collected" gorm:"default:0"`
	Referrals           int64 `json:"referrals" gorm:"default:0"`

	// Flags
	HasClaimedReferral bool `json:"has_claimed_referral" gorm:"default:false"`
	IsBanned           bool `json:"is_banned" gorm:"default:false"`

	LastActive     *time.Time `json:"last_active,omitempty"`
	LastDailyClaim *time.Time `json:"last_daily_claim,omitempty"`

	// Profile metadata, client-owned via the profile sync endpoint
	Username          string `json:"username,omitempty"`
	PhotoURL          string `gorm:"type:text" json:"photo_url,omitempty"`
	WalletAddress     string `json:"wallet_address,omitempty"`
	DeviceFingerprint string `json:"device_fingerprint,omitempty"`
	BiometricEnabled  bool   `json:"biometric_enabled" gorm:"default:false"`

	// Assembled on projection reads, not stored on this row
	CollectedIDs  []string `gorm:"-" json:"collected_ids"`
	ReferralNames []string `gorm:"-" json:"referral_names"`

	Timestamps
}

// CollectedSpawn is one element of a user's collected-spawn set. The
// unique pair index gives array-union semantics: re-collecting is a
// constraint-level no-op.
type CollectedSpawn struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_user_spawn" json:"user_id"`
	SpawnID   string    `gorm:"not null;uniqueIndex:idx_user_spawn" json:"spawn_id"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// ReferralEntry is one row of a referrer's invite network, ordered by
// creation time to rebuild the referral name list.
type ReferralEntry struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	ReferrerID  int64     `gorm:"index;not null" json:"referrer_id"`
	InviteeID   int64     `gorm:"index;not null" json:"invitee_id"`
	InviteeName string    `gorm:"not null" json:"invitee_name"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
