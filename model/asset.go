package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Asset struct {
	ID string `gorm:"primaryKey;type:char(36)" json:"id"`

	Name     string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	URL      string `gorm:"column:url;type:varchar(1024);not null" json:"url"`
	FileID   string `gorm:"column:file_id;type:varchar(512);not null" json:"file_id"` // object key in the bucket
	FileType string `gorm:"column:file_type;type:varchar(128);not null" json:"file_type"`
	FileSize int64  `gorm:"column:file_size;not null;default:0" json:"file_size"`

	FolderID *string `gorm:"column:folder_id;type:char(36);index:idx_asset_user_folder,priority:2" json:"folder_id"`
	UserID   string  `gorm:"column:user_id;type:varchar(191);not null;index:idx_asset_user_folder,priority:1" json:"user_id"`

	IsFavorite bool `gorm:"column:is_favorite;not null;default:false" json:"is_favorite"`
	IsTrashed  bool `gorm:"column:is_trashed;not null;default:false;index" json:"is_trashed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Asset) TableName() string {
	return "assets"
}

// BeforeCreate assigns a UUID when none is set.
func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
