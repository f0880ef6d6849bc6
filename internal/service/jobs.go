package service

import (
	"Go_Assets/config"
	"Go_Assets/internal/repo"
	"Go_Assets/model"
	"Go_Assets/pkg/logger"
	"context"
	"sync"
)

// JobDispatcher hands follow-up work to the background worker.
type JobDispatcher interface {
	EnqueueBlobCleanup(ctx context.Context, taskID uint64) error
	EnqueueShareNotify(ctx context.Context, grantID string) error
}

type noopDispatcher struct{}

func (noopDispatcher) EnqueueBlobCleanup(context.Context, uint64) error { return nil }
func (noopDispatcher) EnqueueShareNotify(context.Context, string) error { return nil }

var (
	jobsMu sync.RWMutex
	jobs   JobDispatcher = noopDispatcher{}
)

// SetJobDispatcher installs the dispatcher; nil restores the no-op one.
func SetJobDispatcher(d JobDispatcher) {
	jobsMu.Lock()
	defer jobsMu.Unlock()
	if d == nil {
		d = noopDispatcher{}
	}
	jobs = d
}

func dispatcher() JobDispatcher {
	jobsMu.RLock()
	defer jobsMu.RUnlock()
	return jobs
}

// scheduleBlobCleanup persists failed blob deletes so the worker can retry them.
func scheduleBlobCleanup(ctx context.Context, userID string, failures []BlobFailure) {
	for _, f := range failures {
		t := &model.BlobCleanupTask{
			UserID:     userID,
			AssetID:    f.AssetID,
			Bucket:     config.AppConfig.BucketName,
			ObjectName: f.FileID,
			Status:     model.CleanupStatusPending,
			ErrorMsg:   f.Error,
		}
		if err := repo.Db.Create(t).Error; err != nil {
			logger.Log.Error().Err(err).Str("file_id", f.FileID).Msg("record blob cleanup task failed")
			continue
		}
		if err := dispatcher().EnqueueBlobCleanup(ctx, t.ID); err != nil {
			logger.Log.Warn().Err(err).Uint64("task_id", t.ID).Msg("enqueue blob cleanup failed")
		}
	}
}
