package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/fhuszti/video-studio-ms-go/internal/config"
	"github.com/fhuszti/video-studio-ms-go/internal/db"
	"github.com/fhuszti/video-studio-ms-go/internal/logger"
	"github.com/fhuszti/video-studio-ms-go/internal/migration"
)

func main() {
	ctx := context.Background()
	down := flag.Bool("down", false, "revert the latest migration instead of applying pending ones")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	database, err := initDb(cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	defer func(database *db.Database) {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}(database)

	if *down {
		if err := migration.MigrateDown(database.DB); err != nil {
			logger.Errorf(ctx, "❌  Migration down failed: %v", err)
			os.Exit(1)
		}
		logger.Info(ctx, "✅  Latest migration reverted")
		return
	}

	if err := migration.MigrateUp(database.DB); err != nil {
		logger.Errorf(ctx, "❌  Migration up failed: %v", err)
		os.Exit(1)
	}

	logger.Info(ctx, "✅  Migrations applied successfully")
}

func initDb(cfg *config.Settings) (*db.Database, error) {
	sep := "?"
	if strings.Contains(cfg.MariaDBDSN, "?") {
		sep = "&"
	}
	return db.New(db.MariaDbConfig{
		DSN:             cfg.MariaDBDSN + sep + "multiStatements=true",
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
}
