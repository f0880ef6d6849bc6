package service

import (
	"Go_Assets/internal/repo"
	"Go_Assets/model"
	"Go_Assets/pkg/logger"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ShareInput identifies an item and the recipient's email.
type ShareInput struct {
	ItemID   string
	ItemType string
	Email    string
}

// Recipient is a user an item is shared with.
type Recipient struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	ProfileImageURL string    `json:"profile_image_url"`
	SharedAt        time.Time `json:"shared_at"`
}

// SharedItem is one item visible to a recipient.
type SharedItem struct {
	ShareID       string        `json:"share_id"`
	Type          string        `json:"type"`
	SharedAt      time.Time     `json:"shared_at"`
	SharedByName  string        `json:"shared_by_name"`
	SharedByEmail string        `json:"shared_by_email"`
	Folder        *model.Folder `json:"folder,omitempty"`
	Asset         *model.Asset  `json:"asset,omitempty"`
}

// SharedWithMe groups items other users shared with the caller.
type SharedWithMe struct {
	Folders []SharedItem `json:"folders"`
	Assets  []SharedItem `json:"assets"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// checkItemOwner verifies that ownerID owns the item. Foreign items look missing.
func checkItemOwner(tx *gorm.DB, ownerID, itemID, itemType string) error {
	switch itemType {
	case model.ItemTypeAsset:
		_, err := findAsset(tx, ownerID, itemID)
		return err
	case model.ItemTypeFolder:
		_, err := findFolder(tx, ownerID, itemID)
		return err
	default:
		return fmt.Errorf("%w: unknown item type %q", ErrValidation, itemType)
	}
}

func findUserByEmail(tx *gorm.DB, email string) (*model.User, error) {
	var user model.User
	if err := tx.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ShareItem grants the user with the given email access to an item the caller owns.
func ShareItem(ctx context.Context, ownerID string, in ShareInput) (*model.SharedAccess, error) {
	if normalizeEmail(in.Email) == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}

	var grant *model.SharedAccess
	err := repo.Db.Transaction(func(tx *gorm.DB) error {
		if err := checkItemOwner(tx, ownerID, in.ItemID, in.ItemType); err != nil {
			return err
		}
		recipient, err := findUserByEmail(tx, in.Email)
		if err != nil {
			return err
		}
		if recipient.ID == ownerID {
			return fmt.Errorf("%w: cannot share with yourself", ErrValidation)
		}

		var count int64
		if err := tx.Model(&model.SharedAccess{}).
			Where("item_id = ? AND shared_with = ? AND type = ?", in.ItemID, recipient.ID, in.ItemType).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: item already shared with %s", ErrConflict, recipient.Email)
		}

		grant = &model.SharedAccess{
			SharedBy:   ownerID,
			SharedWith: recipient.ID,
			Type:       in.ItemType,
			ItemID:     in.ItemID,
		}
		if err := tx.Create(grant).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: item already shared with %s", ErrConflict, recipient.Email)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := dispatcher().EnqueueShareNotify(ctx, grant.ID); err != nil {
		logger.Log.Warn().Err(err).Str("share_id", grant.ID).Msg("enqueue share notification failed")
	}
	logger.Log.Info().
		Str("user_id", ownerID).
		Str("item_id", grant.ItemID).
		Str("type", grant.Type).
		Str("shared_with", grant.SharedWith).
		Msg("item shared")
	return grant, nil
}

// UnshareItem removes a grant and returns it.
func UnshareItem(ctx context.Context, ownerID string, in ShareInput) (*model.SharedAccess, error) {
	var grant model.SharedAccess
	err := repo.Db.Transaction(func(tx *gorm.DB) error {
		if err := checkItemOwner(tx, ownerID, in.ItemID, in.ItemType); err != nil {
			return err
		}
		recipient, err := findUserByEmail(tx, in.Email)
		if err != nil {
			return err
		}
		if err := tx.Where("item_id = ? AND type = ? AND shared_with = ? AND shared_by = ?",
			in.ItemID, in.ItemType, recipient.ID, ownerID).
			First(&grant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: share", ErrNotFound)
			}
			return err
		}
		return tx.Delete(&grant).Error
	})
	if err != nil {
		return nil, err
	}
	logger.Log.Info().Str("user_id", ownerID).Str("share_id", grant.ID).Msg("item unshared")
	return &grant, nil
}

// ListGrants lists who an owned item is shared with.
func ListGrants(ownerID, itemID, itemType string) ([]Recipient, error) {
	if err := checkItemOwner(repo.Db, ownerID, itemID, itemType); err != nil {
		return nil, err
	}
	var grants []model.SharedAccess
	if err := repo.Db.
		Where("item_id = ? AND type = ? AND shared_by = ?", itemID, itemType, ownerID).
		Order("created_at ASC").
		Find(&grants).Error; err != nil {
		return nil, err
	}
	recipients := make([]Recipient, 0, len(grants))
	if len(grants) == 0 {
		return recipients, nil
	}
	ids := make([]string, 0, len(grants))
	for _, g := range grants {
		ids = append(ids, g.SharedWith)
	}
	users, err := loadUsers(repo.Db, ids)
	if err != nil {
		return nil, err
	}
	for _, g := range grants {
		u, ok := users[g.SharedWith]
		if !ok {
			continue
		}
		recipients = append(recipients, Recipient{
			ID:              u.ID,
			Email:           u.Email,
			Name:            u.Name,
			ProfileImageURL: u.ProfileImageURL,
			SharedAt:        g.CreatedAt,
		})
	}
	return recipients, nil
}

// ListSharedWithMe lists live items other users shared with recipientID.
func ListSharedWithMe(recipientID string) (*SharedWithMe, error) {
	out := &SharedWithMe{Folders: make([]SharedItem, 0), Assets: make([]SharedItem, 0)}

	var grants []model.SharedAccess
	if err := repo.Db.Where("shared_with = ?", recipientID).Order("created_at DESC").Find(&grants).Error; err != nil {
		return nil, err
	}
	if len(grants) == 0 {
		return out, nil
	}

	var folderIDs, assetIDs, sharerIDs []string
	for _, g := range grants {
		sharerIDs = append(sharerIDs, g.SharedBy)
		if g.Type == model.ItemTypeFolder {
			folderIDs = append(folderIDs, g.ItemID)
		} else {
			assetIDs = append(assetIDs, g.ItemID)
		}
	}

	folders := make(map[string]model.Folder)
	if len(folderIDs) > 0 {
		var rows []model.Folder
		if err := repo.Db.Where("id IN ? AND is_trashed = ?", folderIDs, false).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, f := range rows {
			folders[f.ID] = f
		}
	}
	assets := make(map[string]model.Asset)
	if len(assetIDs) > 0 {
		var rows []model.Asset
		if err := repo.Db.Where("id IN ? AND is_trashed = ?", assetIDs, false).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, a := range rows {
			assets[a.ID] = a
		}
	}
	sharers, err := loadUsers(repo.Db, sharerIDs)
	if err != nil {
		return nil, err
	}

	for _, g := range grants {
		item := SharedItem{
			ShareID:       g.ID,
			Type:          g.Type,
			SharedAt:      g.CreatedAt,
			SharedByName:  sharers[g.SharedBy].Name,
			SharedByEmail: sharers[g.SharedBy].Email,
		}
		switch g.Type {
		case model.ItemTypeFolder:
			f, ok := folders[g.ItemID]
			if !ok || f.UserID != g.SharedBy {
				continue
			}
			item.Folder = &f
			out.Folders = append(out.Folders, item)
		case model.ItemTypeAsset:
			a, ok := assets[g.ItemID]
			if !ok || a.UserID != g.SharedBy {
				continue
			}
			item.Asset = &a
			out.Assets = append(out.Assets, item)
		}
	}
	return out, nil
}

func loadUsers(db *gorm.DB, ids []string) (map[string]model.User, error) {
	var users []model.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	out := make(map[string]model.User, len(users))
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}
