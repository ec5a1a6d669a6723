package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-audio/pkg/simpleaudio"
	"github.com/tendant/simple-audio/pkg/simpleaudio/repo/memory"
	repomongo "github.com/tendant/simple-audio/pkg/simpleaudio/repo/mongo"
	repopg "github.com/tendant/simple-audio/pkg/simpleaudio/repo/postgres"
	fsstorage "github.com/tendant/simple-audio/pkg/simpleaudio/storage/fs"
	memorystorage "github.com/tendant/simple-audio/pkg/simpleaudio/storage/memory"
	s3storage "github.com/tendant/simple-audio/pkg/simpleaudio/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:              "5000",
		Environment:       "development",
		DatabaseType:      "memory",
		DatabaseName:      repomongo.DefaultDatabase,
		Collection:        repomongo.DefaultCollection,
		StorageType:       "memory",
		S3:                S3Config{Region: "us-east-1"},
		MaxUploadMB:       64,
		AllowedExtensions: append([]string(nil), simpleaudio.DefaultAllowedExtensions...),
	}
}

// ServerConfig represents server configuration for the simple-audio service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Metadata store configuration
	DatabaseURL  string
	DatabaseType string // "memory", "mongo", "postgres"
	DatabaseName string // Mongo database (default: saregama)
	Collection   string // Mongo collection or Postgres table (default: songs)

	// Object store configuration
	StorageType string // "memory", "fs", "s3"
	S3          S3Config
	FS          FSConfig

	// Upload options
	MaxUploadMB       int64
	AllowedExtensions []string
}

// S3Config holds the object store settings used when StorageType is "s3"
type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	UsePathStyle    bool
	PublicURLBase   string
	CreateBucket    bool
	SSEAlgorithm    string // "", "AES256" or "aws:kms"
	SSEKMSKeyID     string
}

// FSConfig holds the object store settings used when StorageType is "fs"
type FSConfig struct {
	BaseDir   string
	URLPrefix string
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.DatabaseType {
	case "memory":
	case "mongo", "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url is required when using %s", c.DatabaseType)
		}
	default:
		return errors.New("database_type must be 'memory', 'mongo' or 'postgres'")
	}

	switch c.StorageType {
	case "memory":
	case "fs":
		if c.FS.BaseDir == "" {
			return errors.New("fs base directory is required when using fs storage")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("bucket name is required when using s3 storage")
		}
		if c.S3.AccessKeyID == "" || c.S3.SecretAccessKey == "" {
			return errors.New("access key id and secret access key are required when using s3 storage")
		}
		switch c.S3.SSEAlgorithm {
		case "", "AES256", "aws:kms":
		default:
			return fmt.Errorf("unsupported server-side encryption algorithm: %s (use AES256 or aws:kms)", c.S3.SSEAlgorithm)
		}
	default:
		return errors.New("storage_type must be 'memory', 'fs' or 's3'")
	}

	if c.MaxUploadMB <= 0 {
		return errors.New("max upload size must be positive")
	}
	if len(c.AllowedExtensions) == 0 {
		return errors.New("at least one allowed extension is required")
	}

	return nil
}

// MaxUploadBytes returns the multipart memory limit in bytes
func (c *ServerConfig) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// IsProduction reports whether the environment label is production
func (c *ServerConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// CloseFunc releases the connections held by a built repository
type CloseFunc func(ctx context.Context) error

func noopClose(context.Context) error { return nil }

// BuildOption customises how BuildService assembles the service
type BuildOption func(*buildOptions)

type buildOptions struct {
	wrapRepository func(name string, repo simpleaudio.Repository) simpleaudio.Repository
	wrapBlobStore  func(name string, store simpleaudio.BlobStore) simpleaudio.BlobStore
	serviceOptions []simpleaudio.Option
}

// WithRepositoryWrapper decorates the built repository. name is the
// database type.
func WithRepositoryWrapper(wrap func(name string, repo simpleaudio.Repository) simpleaudio.Repository) BuildOption {
	return func(o *buildOptions) {
		o.wrapRepository = wrap
	}
}

// WithBlobStoreWrapper decorates the built blob store. name is the storage
// type.
func WithBlobStoreWrapper(wrap func(name string, store simpleaudio.BlobStore) simpleaudio.BlobStore) BuildOption {
	return func(o *buildOptions) {
		o.wrapBlobStore = wrap
	}
}

// WithServiceOptions appends options passed to simpleaudio.New
func WithServiceOptions(opts ...simpleaudio.Option) BuildOption {
	return func(o *buildOptions) {
		o.serviceOptions = append(o.serviceOptions, opts...)
	}
}

// BuildService creates a Service instance from the server configuration.
// The returned CloseFunc must be called on shutdown.
func (c *ServerConfig) BuildService(ctx context.Context, opts ...BuildOption) (simpleaudio.Service, CloseFunc, error) {
	var build buildOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&build)
		}
	}

	repo, closeRepo, err := c.BuildRepository(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build repository: %w", err)
	}

	store, err := c.BuildBlobStore(ctx)
	if err != nil {
		_ = closeRepo(ctx)
		return nil, nil, fmt.Errorf("failed to build storage backend %s: %w", c.StorageType, err)
	}

	if build.wrapRepository != nil {
		repo = build.wrapRepository(c.DatabaseType, repo)
	}
	if build.wrapBlobStore != nil {
		store = build.wrapBlobStore(c.StorageType, store)
	}

	options := []simpleaudio.Option{
		simpleaudio.WithRepository(repo),
		simpleaudio.WithBlobStore(store),
		simpleaudio.WithAllowedExtensions(c.AllowedExtensions...),
	}
	options = append(options, build.serviceOptions...)

	svc, err := simpleaudio.New(options...)
	if err != nil {
		_ = closeRepo(ctx)
		return nil, nil, err
	}
	return svc, closeRepo, nil
}

// BuildRepository creates a Repository based on the configuration
func (c *ServerConfig) BuildRepository(ctx context.Context) (simpleaudio.Repository, CloseFunc, error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), noopClose, nil
	case "mongo":
		client, repo, err := repomongo.Connect(ctx, c.DatabaseURL, c.DatabaseName, c.Collection)
		if err != nil {
			return nil, nil, err
		}
		return repo, client.Disconnect, nil
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		repo := repopg.NewWithPool(pool, c.Collection)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, func(context.Context) error {
			pool.Close()
			return nil
		}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// BuildBlobStore creates the object store backend based on the configuration
func (c *ServerConfig) BuildBlobStore(ctx context.Context) (simpleaudio.BlobStore, error) {
	switch c.StorageType {
	case "memory":
		return memorystorage.New(c.S3.Bucket), nil
	case "fs":
		store, err := fsstorage.New(fsstorage.Config{
			BaseDir:   c.FS.BaseDir,
			URLPrefix: c.FS.URLPrefix,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case "s3":
		store, err := s3storage.New(ctx, s3storage.Config{
			Region:                 c.S3.Region,
			Bucket:                 c.S3.Bucket,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UsePathStyle:           c.S3.UsePathStyle,
			PublicURLBase:          c.S3.PublicURLBase,
			CreateBucketIfNotExist: c.S3.CreateBucket,
			EnableSSE:              c.S3.SSEAlgorithm != "",
			SSEAlgorithm:           c.S3.SSEAlgorithm,
			SSEKMSKeyID:            c.S3.SSEKMSKeyID,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}
}

// DatabaseTypeForURL maps a connection string to a repository type.
// Empty and "memory" select the in-memory repository.
func DatabaseTypeForURL(url string) (string, error) {
	switch {
	case url == "" || url == "memory":
		return "memory", nil
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return "mongo", nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported database URL scheme: %s (use mongodb://, postgres:// or memory)", redactURL(url))
	}
}

// redactURL drops everything after the scheme so credentials never reach logs
func redactURL(url string) string {
	if idx := strings.Index(url, "://"); idx >= 0 {
		return url[:idx+3] + "..."
	}
	return "<invalid>"
}
