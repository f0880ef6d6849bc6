package model

import "time"

const (
	CleanupStatusPending  = "pending"
	CleanupStatusRetrying = "retrying"
	CleanupStatusDone     = "done"
	CleanupStatusFailed   = "failed"
)

// BlobCleanupTask records an object whose delete failed after its asset row was removed.
type BlobCleanupTask struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	UserID  string `gorm:"column:user_id;type:varchar(191);index;not null" json:"user_id"`
	AssetID string `gorm:"column:asset_id;type:char(36);not null" json:"asset_id"`

	Bucket     string `gorm:"column:bucket;type:varchar(64);not null" json:"bucket"`
	ObjectName string `gorm:"column:object_name;type:varchar(512);not null" json:"object_name"`

	Status      string     `gorm:"column:status;type:varchar(32);index;not null" json:"status"`
	ErrorMsg    string     `gorm:"column:error_msg;type:text" json:"error_msg"`
	RetryCount  int        `gorm:"column:retry_count;default:0" json:"retry_count"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at" json:"next_retry_at"`
	FinishedAt  *time.Time `gorm:"column:finished_at" json:"finished_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (BlobCleanupTask) TableName() string {
	return "blob_cleanup_task"
}
