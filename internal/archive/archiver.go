// Package archive mirrors downloaded pages into MinIO object storage.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/tknemuru/kindergarten-collecting/internal/config/minio"
	"github.com/tknemuru/kindergarten-collecting/internal/logger"
)

// ObjectStore is the subset of the MinIO client the archiver uses.
type ObjectStore interface {
	PutObject(
		ctx context.Context,
		bucketName, objectName string,
		reader io.Reader,
		objectSize int64,
		opts miniogo.PutObjectOptions,
	) (miniogo.UploadInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
}

// Archiver uploads pages to MinIO.
type Archiver struct {
	client ObjectStore
	config minio.Config
	logger logger.Interface
	now    func() time.Time
}

// NewArchiver creates a new page archiver. When archiving is disabled, or the
// client cannot be created and FailSilently is set, the archiver is a no-op.
func NewArchiver(cfg minio.Config, log logger.Interface) (*Archiver, error) {
	archiver := &Archiver{config: cfg, logger: log, now: time.Now}

	if !cfg.Enabled {
		log.Debug("MinIO archiving disabled")
		return archiver, nil
	}

	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		if cfg.FailSilently {
			log.Warn("Failed to create MinIO client, continuing without archiving", "error", err)
			return archiver, nil
		}
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	archiver.client = client

	log.Info("MinIO archiver initialized", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)
	return archiver, nil
}

// NewWithClient creates an archiver around an existing object store.
func NewWithClient(client ObjectStore, cfg minio.Config, log logger.Interface) *Archiver {
	return &Archiver{client: client, config: cfg, logger: log, now: time.Now}
}

// Enabled reports whether pages will actually be uploaded.
func (a *Archiver) Enabled() bool {
	return a.config.Enabled && a.client != nil
}

// Archive uploads body under a key mirroring the local path. Failures are
// swallowed and logged when FailSilently is set.
func (a *Archiver) Archive(ctx context.Context, rawURL, localPath string, body []byte) error {
	if !a.Enabled() {
		return nil
	}

	key := ObjectKey(a.config.Prefix, localPath)
	if a.config.UploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.UploadTimeout)
		defer cancel()
	}

	_, err := a.client.PutObject(ctx, a.config.Bucket, key, bytes.NewReader(body), int64(len(body)),
		miniogo.PutObjectOptions{
			ContentType: "text/html; charset=utf-8",
			UserMetadata: map[string]string{
				"url":        rawURL,
				"fetched-at": a.now().UTC().Format(time.RFC3339),
			},
		},
	)
	if err != nil {
		if a.config.FailSilently {
			a.logger.Warn("Failed to archive page, continuing", "url", rawURL, "object_key", key, "error", err)
			return nil
		}
		return fmt.Errorf("failed to upload page: %w", err)
	}

	a.logger.Debug("Uploaded page to MinIO", "object_key", key, "size", len(body), "url", rawURL)
	return nil
}

// ObjectKey maps a local page path to an object key under prefix.
// Leading "./", "../" and "/" segments are dropped so keys stay inside the prefix.
func ObjectKey(prefix, localPath string) string {
	clean := path.Clean("/" + filepath.ToSlash(localPath))
	clean = strings.TrimPrefix(clean, "/")
	if prefix == "" {
		return clean
	}
	return strings.TrimSuffix(prefix, "/") + "/" + clean
}

// HealthCheck verifies MinIO connectivity.
func (a *Archiver) HealthCheck(ctx context.Context) error {
	if !a.Enabled() {
		return nil
	}

	exists, err := a.client.BucketExists(ctx, a.config.Bucket)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if !exists {
		return errors.New("bucket " + a.config.Bucket + " does not exist")
	}
	return nil
}
