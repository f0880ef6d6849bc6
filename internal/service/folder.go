package service

import (
	"Go_Assets/config"
	"Go_Assets/internal/repo"
	"Go_Assets/model"
	"Go_Assets/pkg/logger"
	"Go_Assets/utils"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// FolderContents is a folder's own record (nil for root) plus its live children.
type FolderContents struct {
	Folder  *model.Folder  `json:"folder"`
	Folders []model.Folder `json:"folders"`
	Assets  []model.Asset  `json:"assets"`
}

func findFolder(db *gorm.DB, userID, folderID string) (*model.Folder, error) {
	var folder model.Folder
	if err := db.Where("id = ? AND user_id = ?", folderID, userID).First(&folder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: folder", ErrNotFound)
		}
		return nil, err
	}
	return &folder, nil
}

// findActiveFolder is findFolder restricted to non-trashed folders.
func findActiveFolder(db *gorm.DB, userID, folderID string) (*model.Folder, error) {
	folder, err := findFolder(db, userID, folderID)
	if err != nil {
		return nil, err
	}
	if folder.IsTrashed {
		return nil, fmt.Errorf("%w: folder is in trash", ErrNotFound)
	}
	return folder, nil
}

// relabelNotFound names what was missing and passes other errors through.
func relabelNotFound(err error, what string) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}

// siblingNameTaken reports whether a live sibling folder already uses name.
func siblingNameTaken(tx *gorm.DB, userID string, parentID *string, name, excludeID string) (bool, error) {
	query := tx.Model(&model.Folder{}).
		Where("user_id = ? AND name = ? AND is_trashed = ?", userID, name, false)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateFolder creates a folder under parentID (nil for root).
func CreateFolder(userID, name string, parentID *string) (*model.Folder, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	parentID = normalizeID(parentID)

	var folder *model.Folder
	err = repo.Db.Transaction(func(tx *gorm.DB) error {
		if parentID != nil {
			if _, err := findActiveFolder(tx, userID, *parentID); err != nil {
				return relabelNotFound(err, "parent folder")
			}
		}
		taken, err := siblingNameTaken(tx, userID, parentID, name, "")
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: folder %q already exists", ErrConflict, name)
		}
		folder = &model.Folder{
			Name:     name,
			ParentID: parentID,
			UserID:   userID,
		}
		return tx.Create(folder).Error
	})
	if err != nil {
		return nil, err
	}
	invalidateContentsCache(context.Background(), userID)
	logger.Log.Info().Str("user_id", userID).Str("folder_id", folder.ID).Msg("folder created")
	return folder, nil
}

// GetFolder returns an owned folder in any live state.
func GetFolder(userID, folderID string) (*model.Folder, error) {
	return findFolder(repo.Db, userID, folderID)
}

// RenameFolder renames a folder, keeping sibling names unique.
func RenameFolder(userID, folderID, newName string) (*model.Folder, error) {
	name, err := normalizeName(newName)
	if err != nil {
		return nil, err
	}
	return updateFolder(userID, folderID, func(tx *gorm.DB, folder *model.Folder) error {
		if !folder.IsTrashed {
			taken, err := siblingNameTaken(tx, userID, folder.ParentID, name, folder.ID)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: folder %q already exists", ErrConflict, name)
			}
		}
		return tx.Model(folder).Update("name", name).Error
	})
}

// SetFolderFavorite sets the favorite flag.
func SetFolderFavorite(userID, folderID string, favorite bool) (*model.Folder, error) {
	return updateFolder(userID, folderID, func(tx *gorm.DB, folder *model.Folder) error {
		return tx.Model(folder).Update("is_favorite", favorite).Error
	})
}

// SetFolderTrashed moves a folder to or out of trash. Descendants keep their own flags.
func SetFolderTrashed(userID, folderID string, trashed bool) (*model.Folder, error) {
	return updateFolder(userID, folderID, func(tx *gorm.DB, folder *model.Folder) error {
		if folder.IsTrashed && !trashed {
			if err := checkRestorable(tx, userID, folder); err != nil {
				return err
			}
		}
		return tx.Model(folder).Update("is_trashed", trashed).Error
	})
}

// checkRestorable rejects bringing a folder back next to a live sibling of the same name.
func checkRestorable(tx *gorm.DB, userID string, folder *model.Folder) error {
	taken, err := siblingNameTaken(tx, userID, folder.ParentID, folder.Name, folder.ID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: folder %q already exists", ErrConflict, folder.Name)
	}
	return nil
}

// ToggleFolderFavorite flips the favorite flag in one statement.
func ToggleFolderFavorite(userID, folderID string) (*model.Folder, error) {
	return updateFolder(userID, folderID, func(tx *gorm.DB, folder *model.Folder) error {
		return tx.Model(folder).Update("is_favorite", gorm.Expr("NOT is_favorite")).Error
	})
}

// ToggleFolderTrashed flips the trashed flag in one statement.
func ToggleFolderTrashed(userID, folderID string) (*model.Folder, error) {
	return updateFolder(userID, folderID, func(tx *gorm.DB, folder *model.Folder) error {
		if folder.IsTrashed {
			if err := checkRestorable(tx, userID, folder); err != nil {
				return err
			}
		}
		return tx.Model(folder).Update("is_trashed", gorm.Expr("NOT is_trashed")).Error
	})
}

func updateFolder(userID, folderID string, apply func(tx *gorm.DB, folder *model.Folder) error) (*model.Folder, error) {
	var updated *model.Folder
	err := repo.Db.Transaction(func(tx *gorm.DB) error {
		folder, err := findFolder(tx, userID, folderID)
		if err != nil {
			return err
		}
		if err := apply(tx, folder); err != nil {
			return err
		}
		updated, err = findFolder(tx, userID, folderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	invalidateContentsCache(context.Background(), userID)
	return updated, nil
}

// ListFolders lists folders directly inside parentID (nil for root) with the given trash state.
func ListFolders(userID string, parentID *string, trashed bool) ([]model.Folder, error) {
	query := repo.Db.Where("user_id = ? AND is_trashed = ?", userID, trashed)
	if id := normalizeID(parentID); id == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *id)
	}
	folders := make([]model.Folder, 0)
	err := query.Order("name ASC").Find(&folders).Error
	return folders, err
}

// ListFavoriteFolders lists non-trashed favorite folders.
func ListFavoriteFolders(userID string) ([]model.Folder, error) {
	folders := make([]model.Folder, 0)
	err := repo.Db.
		Where("user_id = ? AND is_favorite = ? AND is_trashed = ?", userID, true, false).
		Order("name ASC").
		Find(&folders).Error
	return folders, err
}

// GetFolderContents returns the live children of folderID (nil for root).
// A trashed or foreign folder is reported as not found.
func GetFolderContents(ctx context.Context, userID string, folderID *string) (*FolderContents, error) {
	folderID = normalizeID(folderID)

	var cached FolderContents
	if utils.GetFolderContentsFromCache(ctx, userID, folderID, &cached) {
		return &cached, nil
	}

	contents := &FolderContents{}
	if folderID != nil {
		folder, err := findActiveFolder(repo.Db, userID, *folderID)
		if err != nil {
			return nil, err
		}
		contents.Folder = folder
	}
	folders, err := ListFolders(userID, folderID, false)
	if err != nil {
		return nil, err
	}
	assets, err := ListAssets(userID, folderID, false)
	if err != nil {
		return nil, err
	}
	contents.Folders = folders
	contents.Assets = assets

	if err := utils.SetFolderContentsToCache(ctx, userID, folderID, contents, config.AppConfig.CacheTTL); err != nil {
		logger.Log.Warn().Err(err).Str("user_id", userID).Msg("cache folder contents failed")
	}
	return contents, nil
}

// MoveFolder reparents a folder under targetID (nil for root).
func MoveFolder(userID, folderID string, targetID *string) (*model.Folder, error) {
	targetID = normalizeID(targetID)
	return updateFolder(userID, folderID, func(tx *gorm.DB, folder *model.Folder) error {
		if targetID != nil {
			if _, err := findActiveFolder(tx, userID, *targetID); err != nil {
				return relabelNotFound(err, "target folder")
			}
			below, err := isDescendant(tx, userID, folder.ID, *targetID)
			if err != nil {
				return err
			}
			if below {
				return fmt.Errorf("%w: cannot move a folder into itself or its subfolder", ErrValidation)
			}
		}
		if !folder.IsTrashed {
			taken, err := siblingNameTaken(tx, userID, targetID, folder.Name, folder.ID)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: folder %q already exists in target", ErrConflict, folder.Name)
			}
		}
		return tx.Model(folder).Update("parent_id", targetID).Error
	})
}

// isDescendant reports whether candidateID is ancestorID or sits below it.
func isDescendant(db *gorm.DB, userID, ancestorID, candidateID string) (bool, error) {
	seen := make(map[string]struct{})
	current := candidateID
	for {
		if current == ancestorID {
			return true, nil
		}
		if _, ok := seen[current]; ok {
			return false, fmt.Errorf("folder cycle detected at %s", current)
		}
		seen[current] = struct{}{}

		var folder model.Folder
		if err := db.Select("id", "parent_id").Where("id = ? AND user_id = ?", current, userID).First(&folder).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		if folder.ParentID == nil {
			return false, nil
		}
		current = *folder.ParentID
	}
}
