package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/outfitcult/internal/config"
)

// New builds the Storage selected by cfg.StorageDriver.
func New(ctx context.Context, cfg config.AppConfig, log *slog.Logger) (Storage, error) {
	switch cfg.StorageDriver {
	case "", "local":
		return NewLocalStorage(cfg.UploadDir, cfg.StorageBucket, cfg.UploadURLPath)
	case "minio":
		return NewMinioStorage(ctx,
			cfg.StorageEndpoint,
			cfg.StorageAccessKey,
			cfg.StorageSecretKey,
			cfg.StorageBucket,
			cfg.StoragePublicBase,
			cfg.StorageUseSSL,
			log,
		)
	case "s3":
		return NewS3Storage(ctx,
			cfg.StorageRegion,
			cfg.StorageEndpoint,
			cfg.StorageAccessKey,
			cfg.StorageSecretKey,
			cfg.StorageBucket,
			cfg.StoragePublicBase,
		)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
