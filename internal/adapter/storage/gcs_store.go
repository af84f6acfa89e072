package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"paperplane/internal/config"
	"paperplane/internal/domain"
)

// GCSStore implements domain.ObjectStore on a Google Cloud Storage bucket.
type GCSStore struct {
	client  *gcs.Client
	bucket  string
	baseURL string
	logger  *zap.Logger
}

func NewGCSStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger, opts ...option.ClientOption) (*GCSStore, error) {
	if cfg.Bucket == "" {
		return nil, domain.NewConfigurationError("storage bucket is not configured")
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	opts = append(opts, option.WithScopes(gcs.ScopeReadWrite))

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = "https://storage.googleapis.com/" + cfg.Bucket
	}
	return &GCSStore{client: client, bucket: cfg.Bucket, baseURL: baseURL, logger: logger}, nil
}

func (s *GCSStore) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if w.ContentType == "" {
		w.ContentType = ContentTypeForKey(key)
	}
	if _, err := io.Copy(w, bytes.NewReader(body)); err != nil {
		_ = w.Close()
		return "", domain.NewStorageError(fmt.Sprintf("failed to write %s", key), err)
	}
	if err := w.Close(); err != nil {
		return "", domain.NewStorageError(fmt.Sprintf("failed to close writer for %s", key), err)
	}
	url := s.baseURL + "/" + key
	s.logger.Debug("Uploaded object to GCS", zap.String("key", key), zap.String("url", url))
	return url, nil
}

func (s *GCSStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return domain.NewStorageError(fmt.Sprintf("failed to delete %s", key), err)
	}
	return nil
}

func (s *GCSStore) KeyFromURL(rawURL string) (string, bool) {
	return keyFromBase(s.baseURL, rawURL)
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
