package service

import (
	"Go_Assets/internal/repo"
	"Go_Assets/model"
	"fmt"
	"strings"
)

// SearchInput filters a name search over the caller's live items.
type SearchInput struct {
	Query     string
	Type      string // "", "asset" or "folder"
	OrderBy   string
	OrderDesc bool
	Page      int
	PageSize  int
}

// SearchResult holds one page of matches per item type.
type SearchResult struct {
	Folders      []model.Folder `json:"folders"`
	Assets       []model.Asset  `json:"assets"`
	TotalFolders int64          `json:"total_folders"`
	TotalAssets  int64          `json:"total_assets"`
}

func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}

// SearchItems searches non-trashed folders and assets by name.
func SearchItems(userID string, in SearchInput) (*SearchResult, error) {
	q := strings.TrimSpace(in.Query)
	if q == "" {
		return nil, fmt.Errorf("%w: query is required", ErrValidation)
	}
	if in.Type != "" && in.Type != model.ItemTypeAsset && in.Type != model.ItemTypeFolder {
		return nil, fmt.Errorf("%w: unknown item type %q", ErrValidation, in.Type)
	}
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.PageSize <= 0 || in.PageSize > 100 {
		in.PageSize = 20
	}
	offset := (in.Page - 1) * in.PageSize
	pattern := "%" + escapeLike(q) + "%"

	result := &SearchResult{Folders: make([]model.Folder, 0), Assets: make([]model.Asset, 0)}

	if in.Type == "" || in.Type == model.ItemTypeFolder {
		query := repo.Db.Model(&model.Folder{}).
			Where("user_id = ? AND is_trashed = ?", userID, false).
			Where("name LIKE ? ESCAPE '!'", pattern)
		if err := query.Count(&result.TotalFolders).Error; err != nil {
			return nil, err
		}
		if err := query.Order(orderClause(folderOrderBy, in.OrderBy, in.OrderDesc)).
			Offset(offset).Limit(in.PageSize).Find(&result.Folders).Error; err != nil {
			return nil, err
		}
	}
	if in.Type == "" || in.Type == model.ItemTypeAsset {
		query := repo.Db.Model(&model.Asset{}).
			Where("user_id = ? AND is_trashed = ?", userID, false).
			Where("name LIKE ? ESCAPE '!'", pattern)
		if err := query.Count(&result.TotalAssets).Error; err != nil {
			return nil, err
		}
		if err := query.Order(orderClause(assetOrderBy, in.OrderBy, in.OrderDesc)).
			Offset(offset).Limit(in.PageSize).Find(&result.Assets).Error; err != nil {
			return nil, err
		}
	}
	return result, nil
}
