package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/fhuszti/video-studio-ms-go/internal/cache"
	"github.com/fhuszti/video-studio-ms-go/internal/config"
	"github.com/fhuszti/video-studio-ms-go/internal/db"
	"github.com/fhuszti/video-studio-ms-go/internal/engine"
	workerHandler "github.com/fhuszti/video-studio-ms-go/internal/handler/worker"
	"github.com/fhuszti/video-studio-ms-go/internal/jobstore"
	"github.com/fhuszti/video-studio-ms-go/internal/lock"
	"github.com/fhuszti/video-studio-ms-go/internal/logger"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/video-studio-ms-go/internal/source"
	"github.com/fhuszti/video-studio-ms-go/internal/storage"
	"github.com/fhuszti/video-studio-ms-go/internal/task"
	"github.com/fhuszti/video-studio-ms-go/internal/usecase/video"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error(ctx, "⚠️  REDIS_ADDR must be set to run the worker")
		os.Exit(1)
	}

	logger.Init()

	database := initDb(cfg)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	strg := initStorage(cfg)
	if err := strg.InitBucket(cfg.VideosBucket); err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize bucket %q: %v", cfg.VideosBucket, err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	defer func() { _ = rdb.Close() }()

	repo := mariadb.NewTestimonialRepository(database.DB)
	ca := cache.NewCache(rdb)
	jobs := jobstore.NewRedisStore(rdb)
	eng := engine.New(engine.Config{Dir: cfg.EngineDir, WorkRoot: cfg.EngineWorkDir})
	defer func() {
		if err := eng.Close(); err != nil {
			logger.Warnf(ctx, "⚠️  engine close error: %v", err)
		}
	}()

	fetcher := source.NewHTTPFetcher(source.Config{Timeout: cfg.SourceFetchTimeout, MaxBytes: cfg.SourceMaxBytes})
	transcoder := video.NewTranscoder(eng, fetcher, cfg.TranscodeTimeout)
	committer := video.NewCommitter(repo, strg, ca, cfg.VideosBucket)
	editor := video.NewVideoEditor(repo, lock.NewRedisLocker(rdb), transcoder, committer, cfg.AssetLockTTL)
	runner := video.NewEditJobRunner(editor, jobs)
	loader := video.NewEngineLoader(eng, jobs, cfg.WorkerName)

	// a failed startup load is published and retried on request
	go func() {
		if err := loader.LoadEngine(ctx); err != nil {
			logger.Warnf(ctx, "⚠️  Media engine not loaded at startup: %v", err)
		}
	}()

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeEditVideo, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseEditVideoPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.EditVideoHandler(ctx, p, runner)
	})
	mux.HandleFunc(task.TypeLoadEngine, func(ctx context.Context, t *asynq.Task) error {
		return workerHandler.LoadEngineHandler(ctx, loader)
	})

	runWorker(ctx, mux, cfg)
}

func initDb(cfg *config.Settings) *db.Database {
	ctx := context.Background()
	logger.Info(ctx, "initialising database...")

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
	return database
}

func initStorage(cfg *config.Settings) port.Storage {
	strg, err := storage.NewMinioStorage(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioUseSSL,
		cfg.PublicBaseURL,
	)
	if err != nil {
		logger.Errorf(context.Background(), "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}

	return strg
}

func runWorker(ctx context.Context, mux *asynq.ServeMux, cfg *config.Settings) {
	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, asynq.Config{
		// the engine workspace serialises runs anyway
		Concurrency:     cfg.WorkerConcurrency,
		ShutdownTimeout: cfg.TranscodeTimeout,
	})

	if err := srv.Start(mux); err != nil {
		logger.Errorf(ctx, "❌  Worker failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "🚀 Worker started")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	done := make(chan struct{})
	go func() {
		srv.Shutdown() // stop accepting new tasks, finish in-flight
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(cfg.TranscodeTimeout + 5*time.Second):
		logger.Warn(ctx, "⚠️  Worker shutdown timed out")
	}
	logger.Info(ctx, "✅  Worker gracefully stopped")
}
