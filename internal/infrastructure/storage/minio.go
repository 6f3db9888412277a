package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/lecture-insight-team/lecture-insight/pkg/config"
)

// Presigned links live long enough to be picked up from a status poll the
// next day; 7 days is the S3 presign ceiling anyway.
const downloadURLExpiry = 7 * 24 * time.Hour

// MinIOArtifactStore stores rendered report artifacts in a MinIO bucket
// under runs/<run id>/ and hands out presigned download URLs.
type MinIOArtifactStore struct {
	client    *minio.Client
	bucket    string
	publicURL string // public base URL when MinIO sits behind a reverse proxy
}

// NewMinIOArtifactStore creates the store and ensures its bucket exists
func NewMinIOArtifactStore(cfg *config.StorageConfig) (*MinIOArtifactStore, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	store := &MinIOArtifactStore{
		client:    minioClient,
		bucket:    cfg.BucketName,
		publicURL: cfg.PublicURL,
	}

	if err := store.ensureBucket(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return store, nil
}

// ensureBucket creates the bucket if it does not exist. Reports stay
// private; access goes through presigned URLs only.
func (m *MinIOArtifactStore) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}

	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Upload stores one rendered artifact and returns a presigned download URL
func (m *MinIOArtifactStore) Upload(ctx context.Context, runID, filename string, data []byte, contentType string) (string, error) {
	objectName := fmt.Sprintf("runs/%s/%s", runID, filename)

	_, err := m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload artifact: %w", err)
	}

	return m.downloadURL(ctx, objectName)
}

// downloadURL generates a presigned URL for an object. When a public URL is
// configured (MinIO behind a reverse proxy), the internal endpoint in the
// presigned URL is replaced with it; the signature stays valid because the
// proxy forwards Host.
func (m *MinIOArtifactStore) downloadURL(ctx context.Context, objectName string) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, m.bucket, objectName, downloadURLExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	if m.publicURL != "" {
		urlStr := url.String()
		// scheme://host/bucket/object?query: keep everything after host
		hostEnd := len(url.Scheme) + 3 + len(url.Host)
		if hostEnd < len(urlStr) {
			return m.publicURL + urlStr[hostEnd:], nil
		}
	}

	return url.String(), nil
}
