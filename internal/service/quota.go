package service

import (
	"Go_Assets/config"
	"Go_Assets/internal/repo"
	"Go_Assets/model"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// QuotaInfo summarizes a user's storage consumption.
type QuotaInfo struct {
	Used         int64   `json:"used"`
	Limit        int64   `json:"limit"`
	Available    int64   `json:"available"`
	UsagePercent float64 `json:"usage_percent"`
}

// CurrentUsage returns the bytes charged to a user.
func CurrentUsage(userID string) (int64, error) {
	return currentUsage(repo.Db, userID)
}

func currentUsage(db *gorm.DB, userID string) (int64, error) {
	var user model.User
	if err := db.Select("id", "storage_used").Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: user", ErrNotFound)
		}
		return 0, err
	}
	return user.StorageUsed, nil
}

// ReserveQuota charges size bytes to the user only if the cap still holds afterwards.
// The check and the increment are one conditional UPDATE.
func ReserveQuota(tx *gorm.DB, userID string, size int64) error {
	if size < 0 {
		return fmt.Errorf("%w: negative size", ErrValidation)
	}
	limit := config.Upload().MaxUserStorage
	if size == 0 {
		// nothing to charge; still require the user to exist
		_, err := currentUsage(tx, userID)
		return err
	}
	res := tx.Model(&model.User{}).
		Where("id = ? AND storage_used + ? <= ?", userID, size, limit).
		Update("storage_used", gorm.Expr("storage_used + ?", size))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := currentUsage(tx, userID); err != nil {
			return err
		}
		return ErrQuotaExceeded
	}
	return nil
}

// ReleaseQuota returns size bytes to the user, never going below zero.
func ReleaseQuota(tx *gorm.DB, userID string, size int64) error {
	if size <= 0 {
		return nil
	}
	return tx.Model(&model.User{}).
		Where("id = ?", userID).
		Update("storage_used", gorm.Expr("CASE WHEN storage_used > ? THEN storage_used - ? ELSE 0 END", size, size)).
		Error
}

// GetQuotaInfo returns usage against the per-user cap.
func GetQuotaInfo(userID string) (*QuotaInfo, error) {
	used, err := CurrentUsage(userID)
	if err != nil {
		return nil, err
	}
	return buildQuotaInfo(used), nil
}

func buildQuotaInfo(used int64) *QuotaInfo {
	limit := config.Upload().MaxUserStorage
	available := limit - used
	if available < 0 {
		available = 0
	}
	percent := 0.0
	if limit > 0 {
		percent = float64(used) / float64(limit) * 100
	}
	return &QuotaInfo{
		Used:         used,
		Limit:        limit,
		Available:    available,
		UsagePercent: percent,
	}
}
