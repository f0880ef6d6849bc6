package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ItemTypeAsset  = "asset"
	ItemTypeFolder = "folder"
)

// SharedAccess grants a recipient access to one asset or folder.
type SharedAccess struct {
	ID string `gorm:"primaryKey;type:char(36)" json:"id"`

	SharedBy   string `gorm:"column:shared_by;type:varchar(191);not null;index" json:"shared_by"`
	SharedWith string `gorm:"column:shared_with;type:varchar(191);not null;uniqueIndex:uk_share_item_recipient,priority:2" json:"shared_with"`
	Type       string `gorm:"column:type;type:varchar(16);not null;uniqueIndex:uk_share_item_recipient,priority:3" json:"type"`
	ItemID     string `gorm:"column:item_id;type:char(36);not null;uniqueIndex:uk_share_item_recipient,priority:1" json:"item_id"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (SharedAccess) TableName() string {
	return "shared_access"
}

// BeforeCreate assigns a UUID when none is set.
func (s *SharedAccess) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
