package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/tendant/simple-audio/pkg/simpleaudio"
)

// ErrObjectNotFound is returned by Download for unknown keys
var ErrObjectNotFound = errors.New("object not found")

// Backend is an in-memory implementation of the simpleaudio.BlobStore interface
type Backend struct {
	mu              sync.RWMutex
	bucket          string
	objects         map[string][]byte
	objectsMimeType map[string]string
}

// New creates a new in-memory storage backend. bucket only shapes the URLs.
func New(bucket string) *Backend {
	if bucket == "" {
		bucket = "memory"
	}
	return &Backend{
		bucket:          bucket,
		objects:         make(map[string][]byte),
		objectsMimeType: make(map[string]string),
	}
}

// Upload uploads content directly
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader, params simpleaudio.UploadParams) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	mimeType := params.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[objectKey] = data
	b.objectsMimeType[objectKey] = mimeType
	return nil
}

// ObjectURL returns a memory:// URL for the key
func (b *Backend) ObjectURL(objectKey string) string {
	return "memory://" + b.bucket + "/" + objectKey
}

// Download returns the stored content
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, ErrObjectNotFound
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// MimeType returns the content type recorded for the key
func (b *Backend) MimeType(objectKey string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	mimeType, ok := b.objectsMimeType[objectKey]
	return mimeType, ok
}

// Keys returns every stored key
func (b *Backend) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		keys = append(keys, k)
	}
	return keys
}
