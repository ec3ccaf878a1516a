package bootstrap

import (
	"log/slog"

	"stayfinder/internal/infra/storage/s3"
	"stayfinder/internal/pkg/config"
	"stayfinder/internal/usecase/commands"

	"go.uber.org/fx"
)

var StorageModule = fx.Module("storage",
	fx.Provide(
		NewImageStore,
	),
)

func NewImageStore(cfg config.Config, logger *slog.Logger) (commands.ImageStore, error) {
	if cfg.S3.Endpoint == "" {
		logger.Warn("S3_ENDPOINT is empty; image uploads are disabled")
		return s3.NoopUploader{}, nil
	}
	return s3.NewClient(
		cfg.S3.Endpoint,
		cfg.S3.UseSSL,
		cfg.S3.AccessKey,
		cfg.S3.SecretKey,
		cfg.S3.Bucket,
		cfg.S3.PublicBaseURL,
		logger,
	)
}
