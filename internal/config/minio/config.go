// Package minio provides MinIO configuration for raw page archiving.
package minio

import (
	"errors"
	"time"
)

const (
	// defaultUploadTimeout is the default timeout for upload operations.
	defaultUploadTimeout = 30 * time.Second
)

// Config represents MinIO configuration for raw page archiving.
type Config struct {
	// Enabled toggles page archiving on/off
	Enabled bool `env:"MINIO_ENABLED" yaml:"enabled"`
	// Endpoint is the MinIO server address (e.g., "minio:9000")
	Endpoint string `env:"MINIO_ENDPOINT" yaml:"endpoint"`
	// AccessKey for MinIO authentication
	AccessKey string `env:"MINIO_ACCESS_KEY" yaml:"access_key"`
	// SecretKey for MinIO authentication
	SecretKey string `env:"MINIO_SECRET_KEY" yaml:"secret_key"`
	// UseSSL enables HTTPS for MinIO connections
	UseSSL bool `env:"MINIO_USE_SSL" yaml:"use_ssl"`
	// Bucket receives the archived pages
	Bucket string `env:"MINIO_BUCKET" yaml:"bucket"`
	// Prefix is prepended to every object key
	Prefix string `env:"MINIO_PREFIX" yaml:"prefix"`
	// UploadTimeout is the timeout for upload operations
	UploadTimeout time.Duration `env:"MINIO_UPLOAD_TIMEOUT" yaml:"upload_timeout"`
	// FailSilently continues collecting even if archiving fails
	FailSilently bool `env:"MINIO_FAIL_SILENTLY" yaml:"fail_silently"`
}

// New returns a new MinIO configuration with default values.
func New() Config {
	return Config{
		Enabled:       false,
		Endpoint:      "localhost:9000",
		UseSSL:        false,
		Bucket:        "kinder-pages",
		UploadTimeout: defaultUploadTimeout,
		FailSilently:  true,
	}
}

// Validate validates the MinIO configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Endpoint == "" {
		return errors.New("minio endpoint is required when enabled")
	}

	if c.AccessKey == "" {
		return errors.New("minio access key is required when enabled")
	}

	if c.SecretKey == "" {
		return errors.New("minio secret key is required when enabled")
	}

	if c.Bucket == "" {
		return errors.New("minio bucket is required when enabled")
	}

	if c.UploadTimeout <= 0 {
		return errors.New("minio upload timeout must be positive")
	}

	return nil
}
