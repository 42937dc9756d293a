package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/fhuszti/video-studio-ms-go/internal/cache"
	"github.com/fhuszti/video-studio-ms-go/internal/config"
	"github.com/fhuszti/video-studio-ms-go/internal/db"
	"github.com/fhuszti/video-studio-ms-go/internal/engine"
	"github.com/fhuszti/video-studio-ms-go/internal/handler/api"
	"github.com/fhuszti/video-studio-ms-go/internal/jobstore"
	"github.com/fhuszti/video-studio-ms-go/internal/lock"
	"github.com/fhuszti/video-studio-ms-go/internal/logger"
	cMiddleware "github.com/fhuszti/video-studio-ms-go/internal/middleware"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/renderer"
	"github.com/fhuszti/video-studio-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/video-studio-ms-go/internal/source"
	"github.com/fhuszti/video-studio-ms-go/internal/storage"
	"github.com/fhuszti/video-studio-ms-go/internal/task"
	"github.com/fhuszti/video-studio-ms-go/internal/usecase/video"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
)

// editorRoles may change videos; every authenticated caller may read.
var editorRoles = []string{"editor", "admin"}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	database := initDb(ctx, cfg)

	r := initRouter(ctx, cfg.JWTPublicKey)

	strg := initStorage(ctx, cfg)
	if err := strg.InitBucket(cfg.VideosBucket); err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize bucket %q: %v", cfg.VideosBucket, err)
		os.Exit(1)
	}

	repo := mariadb.NewTestimonialRepository(database.DB)

	var (
		ca         port.Cache
		jobs       port.JobStore
		dispatcher port.TaskDispatcher
		shutdown   []func()
	)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		ca = cache.NewCache(rdb)
		jobs = jobstore.NewRedisStore(rdb)
		d := task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
		dispatcher = d
		shutdown = append(shutdown, func() {
			_ = d.Close()
			_ = rdb.Close()
		})
		logger.Info(ctx, "✅  Redis enabled, edits run on the worker")
	} else {
		// without Redis this process owns the engine and runs edits itself
		ca = cache.NewNoop()
		jobs = jobstore.NewMemoryStore()
		eng := engine.New(engine.Config{Dir: cfg.EngineDir, WorkRoot: cfg.EngineWorkDir})
		editor := initEditor(cfg, repo, strg, ca, lock.NewMemoryLocker(), eng)
		d := task.StartInlineDispatcher(ctx, video.NewEditJobRunner(editor, jobs), video.NewEngineLoader(eng, jobs, cfg.WorkerName))
		dispatcher = d
		shutdown = append(shutdown, func() {
			d.Wait()
			if err := eng.Close(); err != nil {
				logger.Warnf(ctx, "⚠️  engine close error: %v", err)
			}
		})
		logger.Warn(ctx, "⚠️  Redis not configured — caching is disabled and edits run in-process")
	}

	getVideoSvc := video.NewVideoGetter(repo)
	rendererSvc := renderer.NewHTTPRenderer(ca)
	r.With(cMiddleware.WithID()).
		Get("/testimonials/{id}/video", api.GetVideoHandler(rendererSvc, getVideoSvc))

	scheduleSvc := video.NewEditScheduler(repo, jobs, dispatcher, uuid.NewUUID)
	r.With(cMiddleware.RequireAnyRole(editorRoles...), cMiddleware.WithID()).
		Post("/testimonials/{id}/video/edits", api.ScheduleEditHandler(scheduleSvc))

	jobGetterSvc := video.NewEditJobGetter(jobs)
	r.With(cMiddleware.WithID()).
		Get("/jobs/{id}", api.GetEditJobHandler(jobGetterSvc))

	engineStatusSvc := video.NewEngineStatusGetter(jobs)
	r.Get("/engine", api.GetEngineStatusHandler(engineStatusSvc))
	r.With(cMiddleware.RequireAnyRole(editorRoles...)).
		Post("/engine/load", api.LoadEngineHandler(engineStatusSvc, dispatcher))

	listenRouter(ctx, r, cfg, database, shutdown)
}

func initDb(ctx context.Context, cfg *config.Settings) *db.Database {
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

func initRouter(ctx context.Context, jwtKey string) *chi.Mux {
	logger.Info(ctx, "initialising router...")

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(cMiddleware.WithDSTAuth(jwtKey))

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	return r
}

func initStorage(ctx context.Context, cfg *config.Settings) port.Storage {
	strg, err := storage.NewMinioStorage(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioUseSSL,
		cfg.PublicBaseURL,
	)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}

	return strg
}

func initEditor(cfg *config.Settings, repo port.TestimonialRepository, strg port.Storage, ca port.Cache, locker port.AssetLocker, eng port.MediaEngine) port.VideoEditor {
	fetcher := source.NewHTTPFetcher(source.Config{Timeout: cfg.SourceFetchTimeout, MaxBytes: cfg.SourceMaxBytes})
	transcoder := video.NewTranscoder(eng, fetcher, cfg.TranscodeTimeout)
	committer := video.NewCommitter(repo, strg, ca, cfg.VideosBucket)
	return video.NewVideoEditor(repo, locker, transcoder, committer, cfg.AssetLockTTL)
}

func listenRouter(ctx context.Context, r *chi.Mux, cfg *config.Settings, database *db.Database, shutdown []func()) {
	srv := &http.Server{Addr: ":" + strconv.Itoa(cfg.ServerPort), Handler: r}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	// block until we get SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		os.Exit(1)
	}
	for _, fn := range shutdown {
		fn()
	}
	logger.Info(ctx, "✅  Server gracefully stopped")

	if err := database.Close(); err != nil {
		logger.Errorf(ctx, "DB close error: %v", err)
		os.Exit(1)
	}
}
