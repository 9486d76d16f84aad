package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/lingopod/catalog/pkg/catalog"
)

// Backend is an in-memory implementation of the catalog.BlobStore interface
type Backend struct {
	mu              sync.RWMutex
	objects         map[string][]byte
	objectsMimeType map[string]string
	objectsUpdated  map[string]time.Time
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		objects:         make(map[string][]byte),
		objectsMimeType: make(map[string]string),
		objectsUpdated:  make(map[string]time.Time),
	}
}

// Upload stores content directly, overwriting any existing object
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	b.objects[objectKey] = data
	b.objectsMimeType[objectKey] = contentType
	b.objectsUpdated[objectKey] = time.Now().UTC()
	return nil
}

// Download retrieves content directly
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, errors.New("object not found")
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete deletes content
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[objectKey]; !exists {
		return errors.New("object not found")
	}

	delete(b.objects, objectKey)
	delete(b.objectsMimeType, objectKey)
	delete(b.objectsUpdated, objectKey)
	return nil
}

// GetPublicURL returns a synthetic memory:// URL whose trailing segment is
// the object key's base name.
func (b *Backend) GetPublicURL(objectKey string) (string, error) {
	return "memory://" + objectKey, nil
}

// GetObjectMeta retrieves metadata for an object in memory
func (b *Backend) GetObjectMeta(ctx context.Context, objectKey string) (*catalog.ObjectMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, errors.New("object not found")
	}

	meta := &catalog.ObjectMeta{
		Key:         objectKey,
		Size:        int64(len(data)),
		ContentType: b.objectsMimeType[objectKey],
		UpdatedAt:   b.objectsUpdated[objectKey],
	}

	return meta, nil
}

// ObjectCount reports how many objects the backend holds. Test helper.
func (b *Backend) ObjectCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.objects)
}
