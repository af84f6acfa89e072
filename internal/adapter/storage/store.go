package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"paperplane/internal/config"
	"paperplane/internal/domain"
)

// New returns the object store selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (domain.ObjectStore, error) {
	switch cfg.Driver {
	case "", "s3":
		s, err := NewS3Store(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "gcs":
		s, err := NewGCSStore(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, domain.NewConfigurationError(fmt.Sprintf("unknown storage driver %q", cfg.Driver))
	}
}
