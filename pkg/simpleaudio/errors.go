package simpleaudio

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrMissingFile indicates the request carried no file
	ErrMissingFile = errors.New("no file part")

	// ErrInvalidFileType indicates the file extension is not in the allow-list
	ErrInvalidFileType = errors.New("invalid file type")

	// ErrUploadFailed indicates the object store rejected the upload
	ErrUploadFailed = errors.New("upload failed")

	// ErrMetadataFailed indicates the metadata record could not be inserted
	ErrMetadataFailed = errors.New("metadata insert failed")

	// ErrListFailed indicates the metadata store could not be read
	ErrListFailed = errors.New("list songs failed")
)

// IsBadInput reports whether err was caused by the client's request rather
// than by a store or database fault.
func IsBadInput(err error) bool {
	return errors.Is(err, ErrMissingFile) || errors.Is(err, ErrInvalidFileType)
}

// SongError represents an error related to song operations
type SongError struct {
	Op  string
	Key string
	Err error
}

func (e *SongError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("song operation %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("song operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *SongError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to storage operations
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
