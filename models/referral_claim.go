package models

import "time"

// ReferralClaim tracks one successful invite awaiting settlement.
// The one-reward-per-invitee rule lives on the invited account
// (HasClaimedReferral), not on this record, so duplicate submissions for
// an already-rewarded user settle as no-ops.
type ReferralClaim struct {
	ID          string      `gorm:"primaryKey;type:uuid" json:"id"`
	ReferrerID  string      `gorm:"index;not null" json:"referrer_id"`
	UserID      int64       `gorm:"index;not null" json:"user_id"` // invited user
	UserName    string      `json:"user_name"`                     // display name at claim time
	Status      ClaimStatus `gorm:"index;not null;default:'pending'" json:"status"`
	CreatedAt   time.Time   `json:"created_at" gorm:"autoCreateTime"`
	ProcessedAt *time.Time  `json:"processed_at,omitempty"`
}
