package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Folder struct {
	ID string `gorm:"primaryKey;type:char(36)" json:"id"`

	Name     string  `gorm:"column:name;type:varchar(255);not null" json:"name"`
	ParentID *string `gorm:"column:parent_id;type:char(36);index:idx_folder_user_parent,priority:2" json:"parent_id"` // nil means root
	UserID   string  `gorm:"column:user_id;type:varchar(191);not null;index:idx_folder_user_parent,priority:1" json:"user_id"`

	IsFavorite bool `gorm:"column:is_favorite;not null;default:false" json:"is_favorite"`
	IsTrashed  bool `gorm:"column:is_trashed;not null;default:false;index" json:"is_trashed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Folder) TableName() string {
	return "folders"
}

// BeforeCreate assigns a UUID when none is set.
func (f *Folder) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
