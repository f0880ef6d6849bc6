package service

import (
	"Go_Assets/internal/repo"
	"Go_Assets/model"
)

// ListTrash returns everything the user has in trash.
func ListTrash(userID string) (*FolderContents, error) {
	folders := make([]model.Folder, 0)
	if err := repo.Db.Where("user_id = ? AND is_trashed = ?", userID, true).Order("updated_at DESC").Find(&folders).Error; err != nil {
		return nil, err
	}
	assets := make([]model.Asset, 0)
	if err := repo.Db.Where("user_id = ? AND is_trashed = ?", userID, true).Order("updated_at DESC").Find(&assets).Error; err != nil {
		return nil, err
	}
	return &FolderContents{Folders: folders, Assets: assets}, nil
}

// ListFavorites returns non-trashed favorite folders and assets.
func ListFavorites(userID string) (*FolderContents, error) {
	folders, err := ListFavoriteFolders(userID)
	if err != nil {
		return nil, err
	}
	assets, err := ListFavoriteAssets(userID)
	if err != nil {
		return nil, err
	}
	return &FolderContents{Folders: folders, Assets: assets}, nil
}
