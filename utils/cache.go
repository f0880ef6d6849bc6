package utils

import (
	"Go_Assets/internal/repo"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis cache client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
	}
}

// Get reads a cached value.
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// Set writes a cached value.
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, string(data), expiration).Err()
}

// Delete removes a cache entry.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// DeleteByPattern deletes cache entries by pattern.
func (c *RedisCache) DeleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return nil
}

// Exists checks whether a cache key exists.
func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	count, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

type CacheManager struct {
	cache Cache
}

var globalCacheManager *CacheManager
var cacheManagerMu sync.Mutex

// GetCacheManager returns the cache manager, or nil while Redis is not configured.
func GetCacheManager() *CacheManager {
	cacheManagerMu.Lock()
	defer cacheManagerMu.Unlock()
	if globalCacheManager == nil && repo.Redis != nil {
		globalCacheManager = &CacheManager{
			cache: NewRedisCache(repo.Redis),
		}
	}
	return globalCacheManager
}

// SetCacheManager swaps the cache backend.
func SetCacheManager(cache Cache) {
	cacheManagerMu.Lock()
	defer cacheManagerMu.Unlock()
	if cache == nil {
		globalCacheManager = nil
		return
	}
	globalCacheManager = &CacheManager{cache: cache}
}

// BuildCacheKey builds a cache key.
func BuildCacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key += fmt.Sprintf(":%v", param)
	}
	return key
}

const (
	CacheKeyFolderContents = "assets:contents"
	CacheKeyKnownUser      = "assets:user:known"
	rootFolderKey          = "root"
)

func folderKey(folderID *string) string {
	if folderID == nil || *folderID == "" {
		return rootFolderKey
	}
	return *folderID
}

// GetFolderContentsFromCache reads a cached folder listing into dest.
func GetFolderContentsFromCache(ctx context.Context, userID string, folderID *string, dest interface{}) bool {
	manager := GetCacheManager()
	if manager == nil {
		return false
	}
	key := BuildCacheKey(CacheKeyFolderContents, userID, folderKey(folderID))
	return manager.cache.Get(ctx, key, dest) == nil
}

// SetFolderContentsToCache writes a folder listing.
func SetFolderContentsToCache(ctx context.Context, userID string, folderID *string, data interface{}, expiration time.Duration) error {
	manager := GetCacheManager()
	if manager == nil {
		return nil
	}
	key := BuildCacheKey(CacheKeyFolderContents, userID, folderKey(folderID))
	return manager.cache.Set(ctx, key, data, expiration)
}

// InvalidateFolderContentsCache clears every cached listing of a user.
func InvalidateFolderContentsCache(ctx context.Context, userID string) error {
	manager := GetCacheManager()
	if manager == nil {
		return nil
	}
	keyPattern := BuildCacheKey(CacheKeyFolderContents, userID) + ":*"
	cache, ok := manager.cache.(*RedisCache)
	if !ok {
		return manager.cache.Delete(ctx, keyPattern)
	}
	return cache.DeleteByPattern(ctx, keyPattern)
}

// IsKnownUser reports whether the user was provisioned recently.
func IsKnownUser(ctx context.Context, userID string) bool {
	manager := GetCacheManager()
	if manager == nil {
		return false
	}
	ok, err := manager.cache.Exists(ctx, BuildCacheKey(CacheKeyKnownUser, userID))
	return err == nil && ok
}

// MarkKnownUser remembers a provisioned user.
func MarkKnownUser(ctx context.Context, userID string, expiration time.Duration) error {
	manager := GetCacheManager()
	if manager == nil {
		return nil
	}
	return manager.cache.Set(ctx, BuildCacheKey(CacheKeyKnownUser, userID), true, expiration)
}
