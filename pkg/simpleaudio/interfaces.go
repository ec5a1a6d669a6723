package simpleaudio

import (
	"context"
	"io"
)

// BlobStore defines the interface for object storage backends
type BlobStore interface {
	// Upload stores the content of reader under objectKey
	Upload(ctx context.Context, objectKey string, reader io.Reader, params UploadParams) error

	// ObjectURL returns the retrieval URL for objectKey
	ObjectURL(objectKey string) string
}

// Repository defines the interface for song metadata persistence
type Repository interface {
	// InsertSong persists song and sets song.ID to the store-assigned identifier
	InsertSong(ctx context.Context, song *Song) error

	// ListSongs returns every persisted song in store order
	ListSongs(ctx context.Context) ([]*Song, error)
}

// KeyGenerator produces object keys for uploaded files
type KeyGenerator interface {
	GenerateKey(fileName string) string
}

// UploadParams contains optional parameters for uploading an object
type UploadParams struct {
	MimeType string
	Size     int64 // -1 when unknown
}
