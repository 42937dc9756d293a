package testutil

import (
	"context"

	"github.com/hibiken/asynq"

	workerHandler "github.com/fhuszti/video-studio-ms-go/internal/handler/worker"
	"github.com/fhuszti/video-studio-ms-go/internal/logger"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/task"
)

// StartWorker starts an asynq worker routing edit and engine tasks to the
// given services. It returns a function to gracefully shut down the worker.
func StartWorker(redisAddr string, runner port.EditJobRunner, loader port.EngineLoader) func() {
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

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{Concurrency: 1})
	if err := srv.Start(mux); err != nil {
		logger.Errorf(context.Background(), "worker stopped: %v", err)
	}

	return func() {
		srv.Shutdown()
	}
}
