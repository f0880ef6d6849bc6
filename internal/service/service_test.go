package service

import (
	"Go_Assets/config"
	"Go_Assets/internal/repo"
	"Go_Assets/internal/storage"
	"Go_Assets/model"
	"bytes"
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	config.InitConfig()
	os.Exit(m.Run())
}

type recordingDispatcher struct {
	mu       sync.Mutex
	cleanups []uint64
	shares   []string
}

func (r *recordingDispatcher) EnqueueBlobCleanup(_ context.Context, taskID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleanups = append(r.cleanups, taskID)
	return nil
}

func (r *recordingDispatcher) EnqueueShareNotify(_ context.Context, grantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shares = append(r.shares, grantID)
	return nil
}

type testEnv struct {
	store *storage.MemoryStore
	jobs  *recordingDispatcher
}

// setupTest gives each test a fresh in-memory database and object store.
func setupTest(t *testing.T) *testEnv {
	t.Helper()
	db, err := repo.OpenSqlite(":memory:")
	require.NoError(t, err)
	repo.Db = db
	repo.Redis = nil

	env := &testEnv{store: storage.NewMemoryStore(), jobs: &recordingDispatcher{}}
	storage.Default = env.store
	SetJobDispatcher(env.jobs)
	t.Cleanup(func() {
		SetJobDispatcher(nil)
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return env
}

func createUser(t *testing.T, id, email string) *model.User {
	t.Helper()
	user, err := EnsureUser(context.Background(), Identity{ID: id, Email: email, Name: id})
	require.NoError(t, err)
	return user
}

func uploadText(t *testing.T, userID string, folderID *string, name string, size int) *model.Asset {
	t.Helper()
	data := bytes.Repeat([]byte("a"), size)
	asset, err := UploadAsset(context.Background(), UploadInput{
		UserID:      userID,
		FolderID:    folderID,
		FileName:    name,
		ContentType: "text/plain",
		Size:        int64(len(data)),
		Body:        bytes.NewReader(data),
	})
	require.NoError(t, err)
	return asset
}

func createFolder(t *testing.T, userID, name string, parentID *string) *model.Folder {
	t.Helper()
	folder, err := CreateFolder(userID, name, parentID)
	require.NoError(t, err)
	return folder
}

func setUsage(t *testing.T, userID string, used int64) {
	t.Helper()
	require.NoError(t, repo.Db.Model(&model.User{}).Where("id = ?", userID).Update("storage_used", used).Error)
}

func usage(t *testing.T, userID string) int64 {
	t.Helper()
	used, err := CurrentUsage(userID)
	require.NoError(t, err)
	return used
}

// sumAssetSizes is the ledger's ground truth.
func sumAssetSizes(t *testing.T, userID string) int64 {
	t.Helper()
	var total int64
	require.NoError(t, repo.Db.Model(&model.Asset{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(file_size), 0)").
		Scan(&total).Error)
	return total
}

func countRows(t *testing.T, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, repo.Db.Model(m).Where(query, args...).Count(&n).Error)
	return n
}
