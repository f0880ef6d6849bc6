package service

import (
	"Go_Assets/internal/repo"
	"Go_Assets/model"
	"Go_Assets/pkg/logger"
	"Go_Assets/utils"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Identity is what the identity provider tells us about the caller.
type Identity struct {
	ID      string
	Email   string
	Name    string
	Picture string
}

// Profile is the caller's account with quota usage.
type Profile struct {
	model.User
	Quota *QuotaInfo `json:"quota"`
}

const knownUserTTL = 10 * time.Minute

// EnsureUser creates the user row on first sight and refreshes name and picture afterwards.
func EnsureUser(ctx context.Context, id Identity) (*model.User, error) {
	id.ID = strings.TrimSpace(id.ID)
	id.Email = normalizeEmail(id.Email)
	if id.ID == "" || id.Email == "" {
		return nil, fmt.Errorf("%w: identity needs id and email", ErrValidation)
	}
	if utils.IsKnownUser(ctx, id.ID) {
		return &model.User{ID: id.ID, Email: id.Email, Name: id.Name, ProfileImageURL: id.Picture}, nil
	}

	var user model.User
	err := repo.Db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ?", id.ID).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = model.User{
				ID:              id.ID,
				Email:           id.Email,
				Name:            id.Name,
				ProfileImageURL: id.Picture,
			}
			if err := tx.Create(&user).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("%w: email already registered", ErrConflict)
				}
				return err
			}
			logger.Log.Info().Str("user_id", user.ID).Msg("user provisioned")
			return nil
		}
		if err != nil {
			return err
		}
		updates := map[string]interface{}{}
		if id.Name != "" && id.Name != user.Name {
			updates["name"] = id.Name
		}
		if id.Picture != "" && id.Picture != user.ProfileImageURL {
			updates["profile_image_url"] = id.Picture
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&user).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	if err := utils.MarkKnownUser(ctx, user.ID, knownUserTTL); err != nil {
		logger.Log.Warn().Err(err).Str("user_id", user.ID).Msg("cache known user failed")
	}
	return &user, nil
}

// GetProfile returns the caller's account and quota usage.
func GetProfile(userID string) (*Profile, error) {
	var user model.User
	if err := repo.Db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}
	return &Profile{User: user, Quota: buildQuotaInfo(user.StorageUsed)}, nil
}
