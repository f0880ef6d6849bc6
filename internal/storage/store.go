package storage

import (
	"Go_Assets/config"
	"Go_Assets/pkg/logger"
	"context"
	"io"
	"time"
)

// PutOptions describes upload options for object storage.
type PutOptions struct {
	ContentType string
}

// Store abstracts object storage operations.
type Store interface {
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts PutOptions) error
	RemoveObject(ctx context.Context, bucket, object string) error
	PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, params map[string]string) (string, error)
	// ObjectURL returns the stable public location of an object.
	ObjectURL(bucket, object string) string
}

// Default is the main object store instance.
var Default Store

// InitStorage sets Default from STORAGE_DRIVER.
func InitStorage() {
	switch config.AppConfig.StorageDriver {
	case "memory":
		Default = NewMemoryStore()
		logger.Log.Warn().Msg("using in-memory object storage, objects are lost on restart")
	case "minio", "":
		InitMinio()
	default:
		logger.Log.Fatal().Str("driver", config.AppConfig.StorageDriver).Msg("unsupported STORAGE_DRIVER")
	}
}
