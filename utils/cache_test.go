package utils

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	data map[string][]byte
}

func (m *mapCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.data[key]
	if !ok {
		return errors.New("miss")
	}
	return json.Unmarshal(raw, dest)
}

func (m *mapCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

// Delete treats a trailing "*" as a prefix match.
func (m *mapCache) Delete(ctx context.Context, key string) error {
	if strings.HasSuffix(key, "*") {
		prefix := strings.TrimSuffix(key, "*")
		for k := range m.data {
			if strings.HasPrefix(k, prefix) {
				delete(m.data, k)
			}
		}
		return nil
	}
	delete(m.data, key)
	return nil
}

func (m *mapCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func TestFolderContentsCache(t *testing.T) {
	ctx := context.Background()
	SetCacheManager(&mapCache{data: map[string][]byte{}})
	defer SetCacheManager(nil)

	folder := "f-1"
	require.NoError(t, SetFolderContentsToCache(ctx, "u1", &folder, map[string]int{"n": 2}, time.Minute))
	require.NoError(t, SetFolderContentsToCache(ctx, "u1", nil, map[string]int{"n": 1}, time.Minute))

	var got map[string]int
	assert.True(t, GetFolderContentsFromCache(ctx, "u1", &folder, &got))
	assert.Equal(t, 2, got["n"])

	require.NoError(t, InvalidateFolderContentsCache(ctx, "u1"))
	assert.False(t, GetFolderContentsFromCache(ctx, "u1", &folder, &got))
	assert.False(t, GetFolderContentsFromCache(ctx, "u1", nil, &got))
}

func TestCacheDisabledWithoutBackend(t *testing.T) {
	ctx := context.Background()
	SetCacheManager(nil)

	var got map[string]int
	assert.NoError(t, SetFolderContentsToCache(ctx, "u1", nil, map[string]int{"n": 1}, time.Minute))
	assert.False(t, GetFolderContentsFromCache(ctx, "u1", nil, &got))
	assert.NoError(t, InvalidateFolderContentsCache(ctx, "u1"))
	assert.False(t, IsKnownUser(ctx, "u1"))
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "assets:contents:u1:root", BuildCacheKey(CacheKeyFolderContents, "u1", "root"))
}
