package main

import (
	"context"
	"os"

	"github.com/fhuszti/video-studio-ms-go/internal/config"
	"github.com/fhuszti/video-studio-ms-go/internal/db"
	"github.com/fhuszti/video-studio-ms-go/internal/logger"
	"github.com/fhuszti/video-studio-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/video-studio-ms-go/internal/storage"
	"github.com/fhuszti/video-studio-ms-go/internal/usecase/video"
)

// reconcile-orphans removes edited videos left behind by commits whose
// record update failed. Run it periodically, e.g. from cron.
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	database, err := db.New(db.MariaDbConfig{
		DSN:             cfg.MariaDBDSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	strg, err := storage.NewMinioStorage(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.PublicBaseURL)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}

	repo := mariadb.NewTestimonialRepository(database.DB)
	reconciler := video.NewOrphanReconciler(repo, strg, cfg.VideosBucket, cfg.OrphanGracePeriod)

	out, err := reconciler.ReconcileOrphans(ctx)
	if err != nil {
		logger.Errorf(ctx, "❌  Orphan reconciliation failed: %v", err)
		os.Exit(1)
	}
	logger.Infof(ctx, "✅  Orphan reconciliation completed: scanned=%d removed=%d failed=%d", out.Scanned, out.Removed, out.Failed)
	if out.Failed > 0 {
		os.Exit(2)
	}
}
