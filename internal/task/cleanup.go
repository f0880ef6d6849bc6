package task

import (
	"Go_Assets/internal/repo"
	"Go_Assets/internal/storage"
	"Go_Assets/model"
	"Go_Assets/pkg/logger"
	"context"
	"time"
)

// ProcessBlobCleanup retries removing an object whose asset row is already gone.
func ProcessBlobCleanup(ctx context.Context, taskID uint64) error {
	var t model.BlobCleanupTask
	if err := repo.Db.Where("id = ?", taskID).First(&t).Error; err != nil {
		return err
	}
	if t.Status == model.CleanupStatusDone {
		return nil
	}
	if err := storage.Default.RemoveObject(ctx, t.Bucket, t.ObjectName); err != nil {
		return err
	}
	finishedAt := time.Now()
	if err := repo.Db.Model(&model.BlobCleanupTask{}).
		Where("id = ?", t.ID).
		Updates(map[string]interface{}{
			"status":      model.CleanupStatusDone,
			"error_msg":   "",
			"finished_at": &finishedAt,
		}).Error; err != nil {
		return err
	}
	logger.Log.Info().
		Uint64("task_id", t.ID).
		Str("object", t.ObjectName).
		Msg("orphan blob removed")
	return nil
}
