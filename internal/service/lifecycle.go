package service

import (
	"Go_Assets/config"
	"Go_Assets/internal/repo"
	"Go_Assets/internal/storage"
	"Go_Assets/model"
	"Go_Assets/pkg/logger"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// DeleteResult reports what a permanent delete removed.
// Blob failures do not undo row deletion; they are listed and retried in the background.
type DeleteResult struct {
	BytesFreed     int64         `json:"bytes_freed"`
	FoldersDeleted int           `json:"folders_deleted"`
	AssetsDeleted  int           `json:"assets_deleted"`
	BlobFailures   []BlobFailure `json:"blob_failures,omitempty"`
}

// BlobFailure is one object that could not be removed from storage.
type BlobFailure struct {
	AssetID string `json:"asset_id"`
	FileID  string `json:"file_id"`
	Error   string `json:"error"`
}

type blobRef struct {
	assetID string
	fileID  string
}

// deletion accumulates one top-level delete inside a transaction.
type deletion struct {
	tx      *gorm.DB
	userID  string
	result  DeleteResult
	blobs   []blobRef
	removed map[string]struct{}
}

func newDeletion(tx *gorm.DB, userID string) *deletion {
	return &deletion{tx: tx, userID: userID, removed: make(map[string]struct{})}
}

// deleteAssets removes asset rows and their grants, remembering blobs for later.
func (d *deletion) deleteAssets(assets []model.Asset) error {
	if len(assets) == 0 {
		return nil
	}
	ids := make([]string, 0, len(assets))
	for _, a := range assets {
		ids = append(ids, a.ID)
	}
	res := d.tx.Where("id IN ? AND user_id = ?", ids, d.userID).Delete(&model.Asset{})
	if res.Error != nil {
		return res.Error
	}
	if err := d.tx.Where("item_id IN ? AND type = ?", ids, model.ItemTypeAsset).Delete(&model.SharedAccess{}).Error; err != nil {
		return err
	}
	for _, a := range assets {
		d.result.BytesFreed += a.FileSize
		d.result.AssetsDeleted++
		d.blobs = append(d.blobs, blobRef{assetID: a.ID, fileID: a.FileID})
	}
	return nil
}

// deleteFolder removes a folder and everything below it, children first.
// Descendants go regardless of their own trash flag.
func (d *deletion) deleteFolder(folderID string) error {
	var children []model.Folder
	if err := d.tx.Select("id").Where("parent_id = ? AND user_id = ?", folderID, d.userID).Find(&children).Error; err != nil {
		return err
	}
	for _, child := range children {
		if err := d.deleteFolder(child.ID); err != nil {
			return err
		}
	}

	var assets []model.Asset
	if err := d.tx.Where("folder_id = ? AND user_id = ?", folderID, d.userID).Find(&assets).Error; err != nil {
		return err
	}
	if err := d.deleteAssets(assets); err != nil {
		return err
	}

	if err := d.tx.Where("id = ? AND user_id = ?", folderID, d.userID).Delete(&model.Folder{}).Error; err != nil {
		return err
	}
	if err := d.tx.Where("item_id = ? AND type = ?", folderID, model.ItemTypeFolder).Delete(&model.SharedAccess{}).Error; err != nil {
		return err
	}
	d.removed[folderID] = struct{}{}
	d.result.FoldersDeleted++
	return nil
}

// finish releases the freed bytes once, inside the same transaction.
func (d *deletion) finish() error {
	return ReleaseQuota(d.tx, d.userID, d.result.BytesFreed)
}

// removeBlobs deletes objects after commit. Failures are reported, logged and scheduled for retry.
func removeBlobs(ctx context.Context, userID string, blobs []blobRef) []BlobFailure {
	var failures []BlobFailure
	bucket := config.AppConfig.BucketName
	for _, b := range blobs {
		if err := storage.Default.RemoveObject(ctx, bucket, b.fileID); err != nil {
			logger.Log.Warn().
				Err(err).
				Str("user_id", userID).
				Str("asset_id", b.assetID).
				Str("file_id", b.fileID).
				Msg("blob delete failed")
			failures = append(failures, BlobFailure{AssetID: b.assetID, FileID: b.fileID, Error: err.Error()})
		}
	}
	if len(failures) > 0 {
		scheduleBlobCleanup(ctx, userID, failures)
	}
	return failures
}

// lockUser serializes destructive lifecycle operations per user when Redis is available.
func lockUser(ctx context.Context, userID string) (func(), error) {
	if repo.Redis == nil {
		return func() {}, nil
	}
	lock := repo.NewRedisLock(repo.Redis, "assets:lifecycle:lock:"+userID, config.AppConfig.LifecycleLockTTL)
	if err := lock.Lock(ctx); err != nil {
		if errors.Is(err, repo.ErrLockBusy) {
			return nil, fmt.Errorf("%w: another delete is in progress", ErrConflict)
		}
		return nil, err
	}
	return func() {
		if err := lock.Unlock(context.Background()); err != nil {
			logger.Log.Warn().Err(err).Str("user_id", userID).Msg("release lifecycle lock failed")
		}
	}, nil
}

// runDeletion wraps a walk in lock, transaction, ledger release and post-commit blob cleanup.
func runDeletion(ctx context.Context, userID string, walk func(d *deletion) error) (*DeleteResult, error) {
	unlock, err := lockUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var d *deletion
	err = repo.Db.Transaction(func(tx *gorm.DB) error {
		d = newDeletion(tx, userID)
		if err := walk(d); err != nil {
			return err
		}
		return d.finish()
	})
	if err != nil {
		return nil, err
	}

	result := d.result
	result.BlobFailures = removeBlobs(ctx, userID, d.blobs)
	invalidateContentsCache(ctx, userID)
	return &result, nil
}

// DeleteFolderRecursive permanently deletes a folder with all nested folders and assets.
func DeleteFolderRecursive(ctx context.Context, userID, folderID string) (*DeleteResult, error) {
	result, err := runDeletion(ctx, userID, func(d *deletion) error {
		if _, err := findFolder(d.tx, userID, folderID); err != nil {
			return err
		}
		return d.deleteFolder(folderID)
	})
	if err != nil {
		return nil, err
	}
	logger.Log.Info().
		Str("user_id", userID).
		Str("folder_id", folderID).
		Int("folders", result.FoldersDeleted).
		Int("assets", result.AssetsDeleted).
		Int64("bytes", result.BytesFreed).
		Int("blob_failures", len(result.BlobFailures)).
		Msg("folder deleted")
	return result, nil
}

// EmptyTrash permanently deletes every trashed asset and folder of the user.
// Trashed folders take their whole subtree with them.
func EmptyTrash(ctx context.Context, userID string) (*DeleteResult, error) {
	result, err := runDeletion(ctx, userID, func(d *deletion) error {
		var assets []model.Asset
		if err := d.tx.Where("user_id = ? AND is_trashed = ?", userID, true).Find(&assets).Error; err != nil {
			return err
		}
		if err := d.deleteAssets(assets); err != nil {
			return err
		}

		var folders []model.Folder
		if err := d.tx.Select("id").Where("user_id = ? AND is_trashed = ?", userID, true).Find(&folders).Error; err != nil {
			return err
		}
		for _, f := range folders {
			if _, done := d.removed[f.ID]; done {
				continue
			}
			if err := d.deleteFolder(f.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Log.Info().
		Str("user_id", userID).
		Int("folders", result.FoldersDeleted).
		Int("assets", result.AssetsDeleted).
		Int64("bytes", result.BytesFreed).
		Int("blob_failures", len(result.BlobFailures)).
		Msg("trash emptied")
	return result, nil
}

// DeleteAssetPermanently removes one asset from any state and releases its bytes.
func DeleteAssetPermanently(ctx context.Context, userID, assetID string) (*DeleteResult, error) {
	return runDeletion(ctx, userID, func(d *deletion) error {
		asset, err := findAsset(d.tx, userID, assetID)
		if err != nil {
			return err
		}
		return d.deleteAssets([]model.Asset{*asset})
	})
}
