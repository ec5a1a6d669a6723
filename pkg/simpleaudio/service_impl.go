package simpleaudio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/tendant/simple-audio/pkg/simpleaudio/objectkey"
)

// service implements the Service interface
type service struct {
	repository        Repository
	blobStore         BlobStore
	keyGenerator      KeyGenerator
	allowedExtensions map[string]struct{}
	hooks             *Hooks
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the metadata repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the object storage backend
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithKeyGenerator replaces the default object key generator
func WithKeyGenerator(gen KeyGenerator) Option {
	return func(s *service) {
		s.keyGenerator = gen
	}
}

// WithAllowedExtensions replaces the default extension allow-list
func WithAllowedExtensions(exts ...string) Option {
	return func(s *service) {
		s.allowedExtensions = newExtensionSet(exts)
	}
}

// WithHooks registers lifecycle hooks
func WithHooks(hooks *Hooks) Option {
	return func(s *service) {
		s.hooks = hooks
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		keyGenerator:      objectkey.NewRandomGenerator(),
		allowedExtensions: newExtensionSet(DefaultAllowedExtensions),
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.blobStore == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if len(s.allowedExtensions) == 0 {
		return nil, fmt.Errorf("at least one allowed extension is required")
	}

	return s, nil
}

func (s *service) UploadSong(ctx context.Context, req UploadSongRequest) (*Song, error) {
	if req.Reader == nil || req.FileName == "" {
		s.hooks.executeOnError(ctx, "upload", ErrMissingFile)
		return nil, &SongError{Op: "upload", Err: ErrMissingFile}
	}
	if !s.allowedFile(req.FileName) {
		s.hooks.executeOnError(ctx, "upload", ErrInvalidFileType)
		return nil, &SongError{Op: "upload", Err: fmt.Errorf("%w: %q", ErrInvalidFileType, req.FileName)}
	}

	key := s.keyGenerator.GenerateKey(req.FileName)

	counter := &countingReader{r: req.Reader}
	params := UploadParams{MimeType: req.MimeType, Size: -1}
	if err := s.blobStore.Upload(ctx, key, counter, params); err != nil {
		slog.Error("Failed to upload song", "key", key, "err", err)
		err = &SongError{Op: "upload", Key: key, Err: fmt.Errorf("%w: %w", ErrUploadFailed, err)}
		s.hooks.executeOnError(ctx, "upload", err)
		return nil, err
	}
	s.hooks.executeAfterUpload(ctx, key, counter.n)

	name := req.Name
	if name == "" {
		name = key
	}
	song := &Song{
		Name:             name,
		URL:              s.blobStore.ObjectURL(key),
		OriginalFilename: req.FileName,
	}

	if err := s.repository.InsertSong(ctx, song); err != nil {
		// The blob stays in the bucket; there is no rollback.
		slog.Warn("Song stored without metadata record", "key", key, "err", err)
		err = &SongError{Op: "insert", Key: key, Err: fmt.Errorf("%w: %w", ErrMetadataFailed, err)}
		s.hooks.executeOnError(ctx, "insert", err)
		return nil, err
	}
	s.hooks.executeAfterSongCreate(ctx, song)

	slog.Info("Song uploaded", "song_id", song.ID, "key", key, "bytes", counter.n)
	return song, nil
}

func (s *service) ListSongs(ctx context.Context) ([]*Song, error) {
	songs, err := s.repository.ListSongs(ctx)
	if err != nil {
		err = &SongError{Op: "list", Err: fmt.Errorf("%w: %w", ErrListFailed, err)}
		s.hooks.executeOnError(ctx, "list", err)
		return nil, err
	}
	if songs == nil {
		songs = []*Song{}
	}
	return songs, nil
}

func (s *service) AllowedExtensions() []string {
	exts := make([]string, 0, len(s.allowedExtensions))
	for ext := range s.allowedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
