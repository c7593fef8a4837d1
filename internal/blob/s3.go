package blob

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/johnlatif16/Story-stories/internal/config"
)

// S3Store forwards uploads to an S3-compatible object store via minio-go.
type S3Store struct {
	client *minio.Client
	bucket string
	base   string
}

// NewS3Store builds a client for the configured endpoint and bucket.
func NewS3Store(cfg config.S3Config) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}

	scheme := "https"
	if !cfg.UseSSL {
		scheme = "http"
	}

	return &S3Store{
		client: client,
		bucket: cfg.Bucket,
		base:   fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket),
	}, nil
}

// Put streams the object to the bucket and returns its public URL.
func (s *S3Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("store object %q: %w", key, err)
	}
	return s.base + "/" + key, nil
}

// Remove deletes the object from the bucket.
func (s *S3Store) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q: %w", key, err)
	}
	return nil
}

// LocalKey always reports false: bucket assets are never cleaned up when a
// story is deleted.
func (s *S3Store) LocalKey(string) (string, bool) { return "", false }
