package storage

import (
	"Go_Assets/config"
	"Go_Assets/pkg/logger"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore implements Store with a MinIO client.
type MinioStore struct {
	client    *minio.Client
	publicURL string
}

// NewMinioStore builds a Store from a MinIO client.
func NewMinioStore(client *minio.Client, publicURL string) *MinioStore {
	return &MinioStore{client: client, publicURL: strings.TrimRight(publicURL, "/")}
}

// PutObject uploads an object to MinIO.
func (s *MinioStore) PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts PutOptions) error {
	_, err := s.client.PutObject(ctx, bucket, object, reader, size, minio.PutObjectOptions{
		ContentType: opts.ContentType,
	})
	return err
}

// RemoveObject deletes an object from MinIO.
func (s *MinioStore) RemoveObject(ctx context.Context, bucket, object string) error {
	return s.client.RemoveObject(ctx, bucket, object, minio.RemoveObjectOptions{})
}

// PresignedGetObject returns a presigned URL with optional response header overrides.
func (s *MinioStore) PresignedGetObject(
	ctx context.Context,
	bucket,
	object string,
	expiry time.Duration,
	params map[string]string,
) (string, error) {
	values := url.Values{}
	for key, value := range params {
		if value == "" {
			continue
		}
		values.Set(key, value)
	}
	u, err := s.client.PresignedGetObject(ctx, bucket, object, expiry, values)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// ObjectURL joins the public endpoint, bucket and object key.
func (s *MinioStore) ObjectURL(bucket, object string) string {
	return objectURL(s.publicURL, bucket, object)
}

func objectURL(base, bucket, object string) string {
	segments := strings.Split(object, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/%s/%s", base, url.PathEscape(bucket), strings.Join(segments, "/"))
}

// InitMinio initializes MinIO client and bucket.
func InitMinio() {
	client, err := minio.New(fmt.Sprintf("%s:%s", config.AppConfig.MinioHost, config.AppConfig.MinioPort), &minio.Options{
		Creds:  credentials.NewStaticV4(config.AppConfig.MinioUsername, config.AppConfig.MinioPassword, ""),
		Secure: config.AppConfig.MinioUseSSL,
	})
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("minio client init fail")
	}
	ctx := context.Background()
	exists, err := client.BucketExists(ctx, config.AppConfig.BucketName)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("check bucket fail")
	}
	if !exists {
		if err := client.MakeBucket(ctx, config.AppConfig.BucketName, minio.MakeBucketOptions{}); err != nil {
			logger.Log.Fatal().Err(err).Msg("create bucket fail")
		}
	}
	Default = NewMinioStore(client, config.AppConfig.MinioPublicURL)
	logger.Log.Info().Str("bucket", config.AppConfig.BucketName).Msg("init minio success")
}
