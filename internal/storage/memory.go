package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"
)

var ErrObjectNotFound = errors.New("object not found")

// MemoryStore keeps objects in process memory. It backs STORAGE_DRIVER=memory and tests.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string

	// PutErr and RemoveErr, when set, fail the matching call.
	PutErr    error
	RemoveErr func(object string) error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func memoryKey(bucket, object string) string {
	return bucket + "/" + object
}

// PutObject stores the reader's content.
func (m *MemoryStore) PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts PutOptions) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, reader)
	if err != nil {
		return err
	}
	if size >= 0 && n != size {
		return fmt.Errorf("short write: got %d bytes, want %d", n, size)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[memoryKey(bucket, object)] = buf.Bytes()
	m.types[memoryKey(bucket, object)] = opts.ContentType
	return nil
}

// RemoveObject deletes an object. Removing a missing object is not an error.
func (m *MemoryStore) RemoveObject(ctx context.Context, bucket, object string) error {
	if m.RemoveErr != nil {
		if err := m.RemoveErr(object); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, memoryKey(bucket, object))
	delete(m.types, memoryKey(bucket, object))
	return nil
}

// PresignedGetObject returns a fake signed URL for an existing object.
func (m *MemoryStore) PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, params map[string]string) (string, error) {
	if !m.Has(bucket, object) {
		return "", ErrObjectNotFound
	}
	query := url.Values{}
	query.Set("expires", fmt.Sprint(int64(expiry.Seconds())))
	for k, v := range params {
		query.Set(k, v)
	}
	return m.ObjectURL(bucket, object) + "?" + query.Encode(), nil
}

// ObjectURL returns a memory:// location for the object.
func (m *MemoryStore) ObjectURL(bucket, object string) string {
	return objectURL("memory:/", bucket, object)
}

// Has reports whether the object exists.
func (m *MemoryStore) Has(bucket, object string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[memoryKey(bucket, object)]
	return ok
}

// Len returns the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
