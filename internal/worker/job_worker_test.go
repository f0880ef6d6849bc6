package worker

import (
	"Go_Assets/config"
	"Go_Assets/internal/repo"
	"Go_Assets/internal/storage"
	"Go_Assets/internal/task"
	"Go_Assets/model"
	"Go_Assets/utils"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	config.InitConfig()
	os.Exit(m.Run())
}

type fakeBroker struct {
	retries [][]byte
	delays  []time.Duration
	dlq     [][]byte
}

func (f *fakeBroker) PublishRetry(_ context.Context, body []byte, delay time.Duration) error {
	f.retries = append(f.retries, body)
	f.delays = append(f.delays, delay)
	return nil
}

func (f *fakeBroker) PublishDLQ(_ context.Context, body []byte) error {
	f.dlq = append(f.dlq, body)
	return nil
}

func setupWorker(t *testing.T) *storage.MemoryStore {
	t.Helper()
	db, err := repo.OpenSqlite(":memory:")
	require.NoError(t, err)
	repo.Db = db
	store := storage.NewMemoryStore()
	storage.Default = store

	retryMax, delays := config.AppConfig.JobRetryMax, config.AppConfig.JobRetryDelays
	config.AppConfig.JobRetryMax = 2
	config.AppConfig.JobRetryDelays = []time.Duration{time.Second, 5 * time.Second}
	t.Cleanup(func() {
		config.AppConfig.JobRetryMax, config.AppConfig.JobRetryDelays = retryMax, delays
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return store
}

func TestPickRetryDelay(t *testing.T) {
	delays := []time.Duration{time.Second, 10 * time.Second}
	assert.Equal(t, time.Second, pickRetryDelay(0, delays))
	assert.Equal(t, time.Second, pickRetryDelay(1, delays))
	assert.Equal(t, 10*time.Second, pickRetryDelay(2, delays))
	assert.Equal(t, 10*time.Second, pickRetryDelay(7, delays))
	assert.Zero(t, pickRetryDelay(1, nil))
}

func TestShouldRetry(t *testing.T) {
	assert.False(t, shouldRetry(gorm.ErrRecordNotFound))
	assert.False(t, shouldRetry(fmt.Errorf("send: %w", utils.ErrSMTPNotConfigured)))
	assert.False(t, shouldRetry(fmt.Errorf("%w: x", errUnknownKind)))
	assert.True(t, shouldRetry(errors.New("connection reset")))
}

func TestBlobCleanupRetriesThenFails(t *testing.T) {
	store := setupWorker(t)
	ctx := context.Background()
	bucket := config.AppConfig.BucketName
	require.NoError(t, store.PutObject(ctx, bucket, "obj", bytes.NewReader([]byte("x")), 1, storage.PutOptions{}))
	store.RemoveErr = func(string) error { return errors.New("storage offline") }

	ct := &model.BlobCleanupTask{UserID: "u1", AssetID: "a1", Bucket: bucket, ObjectName: "obj", Status: model.CleanupStatusPending}
	require.NoError(t, repo.Db.Create(ct).Error)

	broker := &fakeBroker{}
	msg := task.Message{Kind: task.KindBlobCleanup, TaskID: ct.ID}
	assert.False(t, processMessage(ctx, broker, msg))
	require.Len(t, broker.retries, 1)
	assert.Equal(t, time.Second, broker.delays[0])

	var got model.BlobCleanupTask
	require.NoError(t, repo.Db.First(&got, ct.ID).Error)
	assert.Equal(t, model.CleanupStatusRetrying, got.Status)
	assert.Equal(t, 1, got.RetryCount)

	var next task.Message
	require.NoError(t, json.Unmarshal(broker.retries[0], &next))
	assert.Equal(t, 1, next.Attempt)

	next.Attempt = 2
	assert.False(t, processMessage(ctx, broker, next))
	assert.Len(t, broker.retries, 1)
	require.Len(t, broker.dlq, 1)

	require.NoError(t, repo.Db.First(&got, ct.ID).Error)
	assert.Equal(t, model.CleanupStatusFailed, got.Status)
	assert.Contains(t, got.ErrorMsg, "storage offline")

	var dead dlqMessage
	require.NoError(t, json.Unmarshal(broker.dlq[0], &dead))
	assert.Equal(t, ct.ID, dead.TaskID)
	assert.Equal(t, "storage offline", dead.Error)
}

func TestBlobCleanupSucceeds(t *testing.T) {
	store := setupWorker(t)
	ctx := context.Background()
	bucket := config.AppConfig.BucketName
	require.NoError(t, store.PutObject(ctx, bucket, "obj", bytes.NewReader([]byte("x")), 1, storage.PutOptions{}))
	ct := &model.BlobCleanupTask{UserID: "u1", AssetID: "a1", Bucket: bucket, ObjectName: "obj", Status: model.CleanupStatusPending}
	require.NoError(t, repo.Db.Create(ct).Error)

	broker := &fakeBroker{}
	assert.False(t, processMessage(ctx, broker, task.Message{Kind: task.KindBlobCleanup, TaskID: ct.ID}))
	assert.Empty(t, broker.retries)
	assert.Empty(t, broker.dlq)
	assert.Equal(t, 0, store.Len())
}

func TestUnknownKindGoesToDLQ(t *testing.T) {
	setupWorker(t)
	broker := &fakeBroker{}
	assert.False(t, processMessage(context.Background(), broker, task.Message{Kind: "resize"}))
	assert.Empty(t, broker.retries)
	assert.Len(t, broker.dlq, 1)
}

func TestCanceledJobIsRequeued(t *testing.T) {
	setupWorker(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	broker := &fakeBroker{}
	// the canceled context fails the lookup before any broker call
	requeue := processMessage(ctx, broker, task.Message{Kind: task.KindShareNotify, GrantID: "g1"})
	assert.True(t, requeue)
	assert.Empty(t, broker.retries)
	assert.Empty(t, broker.dlq)
}
