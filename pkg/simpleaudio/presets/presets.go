// Package presets builds ready-to-use services for development and tests.
package presets

import (
	"fmt"
	"os"
	"testing"

	"github.com/tendant/simple-audio/pkg/simpleaudio"
	memoryrepo "github.com/tendant/simple-audio/pkg/simpleaudio/repo/memory"
	fsstorage "github.com/tendant/simple-audio/pkg/simpleaudio/storage/fs"
	memorystorage "github.com/tendant/simple-audio/pkg/simpleaudio/storage/memory"
)

// NewDevelopment creates a service configured for local development.
//
// Songs are recorded in memory and their bytes written below ./dev-data/,
// so no bucket or database is needed. The returned cleanup removes the
// storage directory.
//
// Example:
//
//	svc, cleanup, err := presets.NewDevelopment()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cleanup()
func NewDevelopment(opts ...DevelopmentOption) (simpleaudio.Service, func(), error) {
	cfg := &devConfig{
		storageDir: "./dev-data",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	fsBackend, err := fsstorage.New(fsstorage.Config{
		BaseDir:   cfg.storageDir,
		URLPrefix: cfg.urlPrefix,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create filesystem storage: %w", err)
	}

	svc, err := simpleaudio.New(
		simpleaudio.WithRepository(memoryrepo.New()),
		simpleaudio.WithBlobStore(fsBackend),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create service: %w", err)
	}

	cleanup := func() {
		os.RemoveAll(cfg.storageDir)
	}

	return svc, cleanup, nil
}

// Testing bundles a service with the in-memory stores behind it so tests can
// inspect what an operation wrote.
type Testing struct {
	Service    simpleaudio.Service
	Repository *memoryrepo.Repository
	BlobStore  *memorystorage.Backend
}

// NewTesting creates a service backed entirely by memory. Every call gets
// fresh stores, so parallel tests do not interfere.
func NewTesting(t *testing.T, opts ...simpleaudio.Option) *Testing {
	t.Helper()

	repo := memoryrepo.New()
	store := memorystorage.New("songs")

	options := []simpleaudio.Option{
		simpleaudio.WithRepository(repo),
		simpleaudio.WithBlobStore(store),
	}
	options = append(options, opts...)

	svc, err := simpleaudio.New(options...)
	if err != nil {
		t.Fatalf("failed to create test service: %v", err)
	}

	return &Testing{Service: svc, Repository: repo, BlobStore: store}
}

type devConfig struct {
	storageDir string
	urlPrefix  string
}

// DevelopmentOption is a functional option for NewDevelopment
type DevelopmentOption func(*devConfig)

// WithDevStorage sets the directory receiving uploaded files
func WithDevStorage(dir string) DevelopmentOption {
	return func(cfg *devConfig) {
		cfg.storageDir = dir
	}
}

// WithDevURLPrefix makes song URLs point at a local file server instead of
// file:// paths
func WithDevURLPrefix(prefix string) DevelopmentOption {
	return func(cfg *devConfig) {
		cfg.urlPrefix = prefix
	}
}
