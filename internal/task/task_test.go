package task

import (
	"Go_Assets/config"
	"Go_Assets/internal/repo"
	"Go_Assets/internal/service"
	"Go_Assets/internal/storage"
	"Go_Assets/model"
	"Go_Assets/utils"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	config.InitConfig()
	os.Exit(m.Run())
}

type capturePublisher struct {
	bodies [][]byte
	err    error
}

func (c *capturePublisher) PublishJob(_ context.Context, body []byte) error {
	if c.err != nil {
		return c.err
	}
	c.bodies = append(c.bodies, body)
	return nil
}

func setupDB(t *testing.T) *storage.MemoryStore {
	t.Helper()
	db, err := repo.OpenSqlite(":memory:")
	require.NoError(t, err)
	repo.Db = db
	store := storage.NewMemoryStore()
	storage.Default = store
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return store
}

func TestDispatcherEncodesMessages(t *testing.T) {
	pub := &capturePublisher{}
	d := NewDispatcherWith(pub)

	require.NoError(t, d.EnqueueBlobCleanup(context.Background(), 7))
	require.NoError(t, d.EnqueueShareNotify(context.Background(), "grant-1"))
	require.Len(t, pub.bodies, 2)

	var first, second Message
	require.NoError(t, json.Unmarshal(pub.bodies[0], &first))
	require.NoError(t, json.Unmarshal(pub.bodies[1], &second))
	assert.Equal(t, Message{Kind: KindBlobCleanup, TaskID: 7}, first)
	assert.Equal(t, Message{Kind: KindShareNotify, GrantID: "grant-1"}, second)

	pub.err = errors.New("broker down")
	assert.Error(t, d.EnqueueBlobCleanup(context.Background(), 8))
}

func TestProcessBlobCleanup(t *testing.T) {
	store := setupDB(t)
	bucket := config.AppConfig.BucketName
	require.NoError(t, store.PutObject(context.Background(), bucket, "u1/orphan", bytes.NewReader([]byte("x")), 1, storage.PutOptions{}))

	ct := &model.BlobCleanupTask{
		UserID:     "u1",
		AssetID:    "a1",
		Bucket:     bucket,
		ObjectName: "u1/orphan",
		Status:     model.CleanupStatusPending,
	}
	require.NoError(t, repo.Db.Create(ct).Error)

	store.RemoveErr = func(string) error { return errors.New("still down") }
	assert.Error(t, ProcessBlobCleanup(context.Background(), ct.ID))
	assert.True(t, store.Has(bucket, "u1/orphan"))

	store.RemoveErr = nil
	require.NoError(t, ProcessBlobCleanup(context.Background(), ct.ID))
	assert.False(t, store.Has(bucket, "u1/orphan"))

	var got model.BlobCleanupTask
	require.NoError(t, repo.Db.First(&got, ct.ID).Error)
	assert.Equal(t, model.CleanupStatusDone, got.Status)
	assert.NotNil(t, got.FinishedAt)

	// done tasks are skipped
	require.NoError(t, ProcessBlobCleanup(context.Background(), ct.ID))

	err := ProcessBlobCleanup(context.Background(), 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProcessShareNotify(t *testing.T) {
	setupDB(t)
	ctx := context.Background()
	_, err := service.EnsureUser(ctx, service.Identity{ID: "alice", Email: "alice@example.com", Name: "Alice"})
	require.NoError(t, err)
	_, err = service.EnsureUser(ctx, service.Identity{ID: "bob", Email: "bob@example.com"})
	require.NoError(t, err)
	folder, err := service.CreateFolder("alice", "Holiday", nil)
	require.NoError(t, err)
	grant, err := service.ShareItem(ctx, "alice", service.ShareInput{
		ItemID:   folder.ID,
		ItemType: model.ItemTypeFolder,
		Email:    "bob@example.com",
	})
	require.NoError(t, err)

	var sent []utils.ShareMail
	orig := sendShareMail
	sendShareMail = func(m utils.ShareMail) error {
		sent = append(sent, m)
		return nil
	}
	t.Cleanup(func() { sendShareMail = orig })

	require.NoError(t, ProcessShareNotify(ctx, grant.ID))
	require.Len(t, sent, 1)
	assert.Equal(t, utils.ShareMail{
		To:         "bob@example.com",
		SharerName: "Alice",
		ItemName:   "Holiday",
		ItemType:   model.ItemTypeFolder,
	}, sent[0])

	_, err = service.UnshareItem(ctx, "alice", service.ShareInput{
		ItemID:   folder.ID,
		ItemType: model.ItemTypeFolder,
		Email:    "bob@example.com",
	})
	require.NoError(t, err)
	assert.ErrorIs(t, ProcessShareNotify(ctx, grant.ID), gorm.ErrRecordNotFound)
}
