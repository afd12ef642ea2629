// storage/storage.go
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/fayhaa-municipality/complaints-api/config"
	logger "github.com/fayhaa-municipality/complaints-api/logging"
)

// Uploader stores a blob under a path and returns its public download URL.
type Uploader interface {
	Upload(ctx context.Context, path string, contentType string, data io.Reader, size int64) (string, error)
}

// BlobStore is the S3-compatible implementation of Uploader.
type BlobStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewBlobStore() (*BlobStore, error) {
	cfg := config.GetConfig().Storage

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	logger.Info("Connected to blob storage",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.Bucket))

	return &BlobStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
	}, nil
}

// Upload writes the object and returns the public URL clients store on the
// complaint record. Objects are immutable once written; a re-upload of the
// same path overwrites.
func (s *BlobStore) Upload(ctx context.Context, path string, contentType string, data io.Reader, size int64) (string, error) {
	start := time.Now()

	_, err := s.client.PutObject(ctx, s.bucket, path, data, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		logger.Error("Failed to upload object",
			zap.Error(err),
			zap.String("path", path),
			zap.Duration("duration", time.Since(start)))
		return "", fmt.Errorf("failed to upload %s: %w", path, err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, path)
	logger.Info("Object uploaded",
		zap.String("path", path),
		zap.Int64("size", size),
		zap.Duration("duration", time.Since(start)))

	return url, nil
}
