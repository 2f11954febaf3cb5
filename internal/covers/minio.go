package covers

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mrlokans/bookshelf/internal/config"
)

// MinIOStorage puts covers into an S3 compatible bucket.
type MinIOStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinIOStorage connects to MinIO and creates the bucket when missing.
func NewMinIOStorage(ctx context.Context, cfg config.MinIO) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinIOStorage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: publicBaseURL(cfg),
	}, nil
}

// Save uploads data under key name and returns its public URL.
func (s *MinIOStorage) Save(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		name,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload to minio: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, name), nil
}

// publicBaseURL is MINIO_PUBLIC_URL when set, otherwise the API endpoint.
func publicBaseURL(cfg config.MinIO) string {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/")
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + cfg.Endpoint
}
