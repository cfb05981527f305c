package services

import (
	"errors"

	"coin-hunt-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrResetRestricted: the account reset path is deliberately disabled
// until a safe server-side implementation lands.
var ErrResetRestricted = errors.New("Reset restriction active")

// AccountService exposes the user account projection: point reads for
// the client, upsert-by-default creation on first sync, and the narrow
// profile channel. Balance and counter columns are never written here.
type AccountService struct {
	DB *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{DB: db}
}

// EnsureAccount creates a zeroed account for a new identity (idempotent).
func (s *AccountService) EnsureAccount(userID int64) (*models.UserAccount, error) {
	if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserAccount{UserID: userID}).Error; err != nil {
		return nil, err
	}
	var account models.UserAccount
	if err := s.DB.First(&account, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// GetProjection returns the full account projection, with the collected
// spawn set and referral network reassembled from their child tables.
func (s *AccountService) GetProjection(userID int64) (*models.UserAccount, error) {
	account, err := s.EnsureAccount(userID)
	if err != nil {
		return nil, err
	}
	if err := s.hydrateProjection(account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) hydrateProjection(account *models.UserAccount) error {
	account.CollectedIDs = []string{}
	if err := s.DB.Model(&models.CollectedSpawn{}).
		Where("user_id = ?", account.UserID).
		Order("created_at ASC").
		Pluck("spawn_id", &account.CollectedIDs).Error; err != nil {
		return err
	}

	account.ReferralNames = []string{}
	return s.DB.Model(&models.ReferralEntry{}).
		Where("referrer_id = ?", account.UserID).
		Order("created_at ASC").
		Pluck("invitee_name", &account.ReferralNames).Error
}

// ProfileUpdate carries the client-owned profile columns. Nothing else
// on the account row is reachable through this path.
type ProfileUpdate struct {
	Username          *string `json:"username"`
	PhotoURL          *string `json:"photo_url"`
	WalletAddress     *string `json:"wallet_address"`
	DeviceFingerprint *string `json:"device_fingerprint"`
	BiometricEnabled  *bool   `json:"biometric_enabled"`
}

// UpdateProfile applies the narrow profile sync for a user.
func (s *AccountService) UpdateProfile(userID int64, update ProfileUpdate) (*models.UserAccount, error) {
	if _, err := s.EnsureAccount(userID); err != nil {
		return nil, err
	}

	columns := map[string]interface{}{}
	if update.Username != nil {
		columns["username"] = *update.Username
	}
	if update.PhotoURL != nil {
		columns["photo_url"] = *update.PhotoURL
	}
	if update.WalletAddress != nil {
		columns["wallet_address"] = *update.WalletAddress
	}
	if update.DeviceFingerprint != nil {
		columns["device_fingerprint"] = *update.DeviceFingerprint
	}
	if update.BiometricEnabled != nil {
		columns["biometric_enabled"] = *update.BiometricEnabled
	}

	if len(columns) > 0 {
		if err := s.DB.Model(&models.UserAccount{}).
			Where("user_id = ?", userID).
			Updates(columns).Error; err != nil {
			return nil, err
		}
	}

	return s.GetProjection(userID)
}

// ResetAccount is intentionally stubbed: the UI still offers a reset
// button, but wiping balances stays disabled server-side.
func (s *AccountService) ResetAccount(userID int64) error {
	return ErrResetRestricted
}
