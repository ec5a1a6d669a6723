package simpleaudio

import "context"

// Service defines the main interface for the simple-audio library
type Service interface {
	// UploadSong validates the file, stores it in the blob store and inserts
	// its metadata record.
	UploadSong(ctx context.Context, req UploadSongRequest) (*Song, error)

	// ListSongs returns every persisted song. The result is never nil.
	ListSongs(ctx context.Context) ([]*Song, error)

	// AllowedExtensions returns the accepted file extensions, sorted
	AllowedExtensions() []string
}
