package service

import (
	"Go_Assets/config"
	"Go_Assets/internal/repo"
	"Go_Assets/internal/storage"
	"Go_Assets/model"
	"Go_Assets/pkg/logger"
	"Go_Assets/utils"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"
)

// UploadInput carries one file upload.
type UploadInput struct {
	UserID      string
	FolderID    *string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// normalizeID maps empty ids to nil so root is always represented the same way.
func normalizeID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// invalidateContentsCache clears cached folder listings for a user.
func invalidateContentsCache(ctx context.Context, userID string) {
	if err := utils.InvalidateFolderContentsCache(ctx, userID); err != nil {
		logger.Log.Warn().Err(err).Str("user_id", userID).Msg("invalidate contents cache failed")
	}
}

// UploadAsset validates the file, charges quota, writes the blob and inserts the row.
// Either all three happen or none do.
func UploadAsset(ctx context.Context, in UploadInput) (*model.Asset, error) {
	name, err := normalizeName(in.FileName)
	if err != nil {
		return nil, err
	}
	if in.Body == nil {
		return nil, fmt.Errorf("%w: empty body", ErrValidation)
	}
	if in.Size > config.Upload().MaxFileSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrValidation, config.Upload().MaxFileSize)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(in.Body, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	contentType, err := checkUpload(name, in.ContentType, in.Size, head)
	if err != nil {
		return nil, err
	}

	folderID := normalizeID(in.FolderID)
	bucket := config.AppConfig.BucketName
	objectName := utils.BuildObjectName(in.UserID, name)
	body := io.MultiReader(bytes.NewReader(head), in.Body)

	var asset *model.Asset
	stored := false
	err = repo.Db.Transaction(func(tx *gorm.DB) error {
		if folderID != nil {
			if _, err := findActiveFolder(tx, in.UserID, *folderID); err != nil {
				return err
			}
		}
		if err := ReserveQuota(tx, in.UserID, in.Size); err != nil {
			return err
		}
		if err := storage.Default.PutObject(ctx, bucket, objectName, body, in.Size, storage.PutOptions{
			ContentType: contentType,
		}); err != nil {
			return fmt.Errorf("%w: store object: %v", ErrUpstream, err)
		}
		stored = true

		asset = &model.Asset{
			Name:     name,
			URL:      storage.Default.ObjectURL(bucket, objectName),
			FileID:   objectName,
			FileType: contentType,
			FileSize: in.Size,
			FolderID: folderID,
			UserID:   in.UserID,
		}
		return tx.Create(asset).Error
	})
	if err != nil {
		if stored {
			if rmErr := storage.Default.RemoveObject(ctx, bucket, objectName); rmErr != nil {
				logger.Log.Warn().Err(rmErr).Str("object", objectName).Msg("remove orphaned upload failed")
			}
		}
		return nil, err
	}

	invalidateContentsCache(ctx, in.UserID)
	logger.Log.Info().
		Str("user_id", in.UserID).
		Str("asset_id", asset.ID).
		Int64("size", asset.FileSize).
		Str("type", asset.FileType).
		Msg("asset uploaded")
	return asset, nil
}

func findAsset(db *gorm.DB, userID, assetID string) (*model.Asset, error) {
	var asset model.Asset
	if err := db.Where("id = ? AND user_id = ?", assetID, userID).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: asset", ErrNotFound)
		}
		return nil, err
	}
	return &asset, nil
}

// GetAsset returns an owned asset in any live state.
func GetAsset(userID, assetID string) (*model.Asset, error) {
	return findAsset(repo.Db, userID, assetID)
}

// RenameAsset changes an asset's display name.
func RenameAsset(userID, assetID, newName string) (*model.Asset, error) {
	name, err := normalizeName(newName)
	if err != nil {
		return nil, err
	}
	return updateAsset(userID, assetID, func(tx *gorm.DB, asset *model.Asset) error {
		return tx.Model(asset).Update("name", name).Error
	})
}

// SetAssetFavorite sets the favorite flag.
func SetAssetFavorite(userID, assetID string, favorite bool) (*model.Asset, error) {
	return updateAsset(userID, assetID, func(tx *gorm.DB, asset *model.Asset) error {
		return tx.Model(asset).Update("is_favorite", favorite).Error
	})
}

// SetAssetTrashed moves an asset to or out of trash.
func SetAssetTrashed(userID, assetID string, trashed bool) (*model.Asset, error) {
	return updateAsset(userID, assetID, func(tx *gorm.DB, asset *model.Asset) error {
		return tx.Model(asset).Update("is_trashed", trashed).Error
	})
}

// ToggleAssetFavorite flips the favorite flag in one statement.
func ToggleAssetFavorite(userID, assetID string) (*model.Asset, error) {
	return updateAsset(userID, assetID, func(tx *gorm.DB, asset *model.Asset) error {
		return tx.Model(asset).Update("is_favorite", gorm.Expr("NOT is_favorite")).Error
	})
}

// ToggleAssetTrashed flips the trashed flag in one statement.
func ToggleAssetTrashed(userID, assetID string) (*model.Asset, error) {
	return updateAsset(userID, assetID, func(tx *gorm.DB, asset *model.Asset) error {
		return tx.Model(asset).Update("is_trashed", gorm.Expr("NOT is_trashed")).Error
	})
}

// MoveAsset puts an asset into targetID (nil for root).
func MoveAsset(userID, assetID string, targetID *string) (*model.Asset, error) {
	targetID = normalizeID(targetID)
	return updateAsset(userID, assetID, func(tx *gorm.DB, asset *model.Asset) error {
		if targetID != nil {
			if _, err := findActiveFolder(tx, userID, *targetID); err != nil {
				return relabelNotFound(err, "target folder")
			}
		}
		return tx.Model(asset).Update("folder_id", targetID).Error
	})
}

func updateAsset(userID, assetID string, apply func(tx *gorm.DB, asset *model.Asset) error) (*model.Asset, error) {
	var updated *model.Asset
	err := repo.Db.Transaction(func(tx *gorm.DB) error {
		asset, err := findAsset(tx, userID, assetID)
		if err != nil {
			return err
		}
		if err := apply(tx, asset); err != nil {
			return err
		}
		updated, err = findAsset(tx, userID, assetID)
		return err
	})
	if err != nil {
		return nil, err
	}
	invalidateContentsCache(context.Background(), userID)
	return updated, nil
}

// ListAssets lists a user's assets directly inside folderID (nil for root) with the given trash state.
func ListAssets(userID string, folderID *string, trashed bool) ([]model.Asset, error) {
	query := repo.Db.Where("user_id = ? AND is_trashed = ?", userID, trashed)
	if id := normalizeID(folderID); id == nil {
		query = query.Where("folder_id IS NULL")
	} else {
		query = query.Where("folder_id = ?", *id)
	}
	assets := make([]model.Asset, 0)
	err := query.Order("created_at DESC").Find(&assets).Error
	return assets, err
}

// ListFavoriteAssets lists non-trashed favorite assets.
func ListFavoriteAssets(userID string) ([]model.Asset, error) {
	assets := make([]model.Asset, 0)
	err := repo.Db.
		Where("user_id = ? AND is_favorite = ? AND is_trashed = ?", userID, true, false).
		Order("created_at DESC").
		Find(&assets).Error
	return assets, err
}

// GetAssetDownloadURL returns a short-lived signed URL for an owned asset.
func GetAssetDownloadURL(ctx context.Context, userID, assetID string) (string, error) {
	asset, err := GetAsset(userID, assetID)
	if err != nil {
		return "", err
	}
	u, err := storage.Default.PresignedGetObject(
		ctx,
		config.AppConfig.BucketName,
		asset.FileID,
		config.AppConfig.PresignExpiry,
		map[string]string{
			"response-content-disposition": utils.AttachmentDisposition(asset.Name),
			"response-content-type":        asset.FileType,
		},
	)
	if err != nil {
		return "", fmt.Errorf("%w: presign: %v", ErrUpstream, err)
	}
	return u, nil
}
