package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// EnvConfig is the process environment read by the server.
//
// Required:
//
//	AWS_ACCESS_KEY_ID      object-store access key
//	AWS_SECRET_ACCESS_KEY  object-store secret key
//	AWS_BUCKET_NAME        bucket receiving uploads
//	MONGO_URI              mongodb://, mongodb+srv:// or postgres:// connection string
//
// A missing required variable is an error; the server refuses to start.
type EnvConfig struct {
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-required:"true"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-required:"true"`
	BucketName      string `env:"AWS_BUCKET_NAME" env-required:"true"`
	Region          string `env:"AWS_REGION" env-default:"us-east-1"`
	S3Endpoint      string `env:"AWS_S3_ENDPOINT"`
	S3UsePathStyle  bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`
	S3PublicURLBase string `env:"AWS_S3_PUBLIC_URL_BASE"`
	S3CreateBucket  bool   `env:"AWS_S3_CREATE_BUCKET" env-default:"false"`
	S3SSE           string `env:"AWS_S3_SSE"`
	S3SSEKMSKeyID   string `env:"AWS_S3_SSE_KMS_KEY_ID"`

	MongoURI        string `env:"MONGO_URI" env-required:"true"`
	MongoDatabase   string `env:"MONGO_DATABASE" env-default:"saregama"`
	MongoCollection string `env:"MONGO_COLLECTION" env-default:"songs"`

	Port              string   `env:"PORT" env-default:"5000"`
	Environment       string   `env:"ENVIRONMENT" env-default:"production"`
	MaxUploadMB       int64    `env:"MAX_UPLOAD_MB" env-default:"64"`
	AllowedExtensions []string `env:"ALLOWED_EXTENSIONS" env-default:"mp3,wav,ogg" env-separator:","`
}

// LoadFromEnv reads EnvConfig from the process environment and builds a
// validated ServerConfig backed by S3 and the database named by MONGO_URI.
func LoadFromEnv() (*ServerConfig, error) {
	var env EnvConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	return Load(WithEnvConfig(env))
}

// WithEnvConfig applies an EnvConfig read from the environment
func WithEnvConfig(env EnvConfig) Option {
	return func(c *ServerConfig) error {
		dbType, err := DatabaseTypeForURL(env.MongoURI)
		if err != nil {
			return err
		}
		if dbType == "memory" {
			return fmt.Errorf("MONGO_URI must name a database server")
		}

		c.Port = env.Port
		c.Environment = env.Environment
		c.DatabaseType = dbType
		c.DatabaseURL = env.MongoURI
		c.DatabaseName = env.MongoDatabase
		c.Collection = env.MongoCollection

		c.StorageType = "s3"
		c.S3 = S3Config{
			Bucket:          env.BucketName,
			Region:          env.Region,
			AccessKeyID:     env.AccessKeyID,
			SecretAccessKey: env.SecretAccessKey,
			Endpoint:        env.S3Endpoint,
			UsePathStyle:    env.S3UsePathStyle,
			PublicURLBase:   env.S3PublicURLBase,
			CreateBucket:    env.S3CreateBucket,
			SSEAlgorithm:    env.S3SSE,
			SSEKMSKeyID:     env.S3SSEKMSKeyID,
		}

		c.MaxUploadMB = env.MaxUploadMB

		var exts []string
		for _, ext := range env.AllowedExtensions {
			if ext = strings.TrimSpace(ext); ext != "" {
				exts = append(exts, ext)
			}
		}
		if len(exts) > 0 {
			c.AllowedExtensions = exts
		}
		return nil
	}
}
