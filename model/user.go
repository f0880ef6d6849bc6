package model

import "time"

// User is provisioned from identity-provider claims on first authenticated request.
type User struct {
	ID string `gorm:"primaryKey;type:varchar(191)" json:"id"`

	Email string `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`

	Name            string `gorm:"column:name;type:varchar(120);not null;default:''" json:"name"`
	ProfileImageURL string `gorm:"column:profile_image_url;type:varchar(512);not null;default:''" json:"profile_image_url"`

	StorageUsed int64     `gorm:"column:storage_used;not null;default:0" json:"storage_used"` // bytes
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "users"
}
