package config

import (
	"fmt"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithDatabaseURL selects the metadata store from a connection string
func WithDatabaseURL(url string) Option {
	return func(c *ServerConfig) error {
		dbType, err := DatabaseTypeForURL(url)
		if err != nil {
			return err
		}
		c.DatabaseType = dbType
		if dbType == "memory" {
			url = ""
		}
		c.DatabaseURL = url
		return nil
	}
}

// WithCollection sets the Mongo database and collection (or Postgres table)
func WithCollection(database, collection string) Option {
	return func(c *ServerConfig) error {
		if collection == "" {
			return fmt.Errorf("collection cannot be empty")
		}
		if database != "" {
			c.DatabaseName = database
		}
		c.Collection = collection
		return nil
	}
}

// WithMemoryStorage keeps uploads in memory; bucket only shapes the URLs
func WithMemoryStorage(bucket string) Option {
	return func(c *ServerConfig) error {
		c.StorageType = "memory"
		c.S3.Bucket = bucket
		return nil
	}
}

// WithFilesystemStorage writes uploads below baseDir
func WithFilesystemStorage(baseDir, urlPrefix string) Option {
	return func(c *ServerConfig) error {
		if baseDir == "" {
			return fmt.Errorf("filesystem base directory cannot be empty")
		}
		c.StorageType = "fs"
		c.FS = FSConfig{BaseDir: baseDir, URLPrefix: urlPrefix}
		return nil
	}
}

// WithS3Storage uploads to an S3 bucket
func WithS3Storage(s3 S3Config) Option {
	return func(c *ServerConfig) error {
		if s3.Bucket == "" {
			return fmt.Errorf("bucket name cannot be empty")
		}
		if s3.Region == "" {
			s3.Region = c.S3.Region
		}
		c.StorageType = "s3"
		c.S3 = s3
		return nil
	}
}

// WithMaxUploadMB sets the multipart memory limit
func WithMaxUploadMB(mb int64) Option {
	return func(c *ServerConfig) error {
		if mb <= 0 {
			return fmt.Errorf("max upload size must be positive, got: %d", mb)
		}
		c.MaxUploadMB = mb
		return nil
	}
}

// WithAllowedExtensions replaces the upload extension allow-list
func WithAllowedExtensions(exts ...string) Option {
	return func(c *ServerConfig) error {
		if len(exts) == 0 {
			return fmt.Errorf("at least one extension is required")
		}
		c.AllowedExtensions = exts
		return nil
	}
}
