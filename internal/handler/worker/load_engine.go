package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/fhuszti/video-studio-ms-go/internal/logger"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
)

// LoadEngineHandler handles an engine-load task. A failed load is published
// as the engine status; the user triggers the next attempt.
func LoadEngineHandler(ctx context.Context, svc port.EngineLoader) error {
	if err := svc.LoadEngine(ctx); err != nil {
		logger.Errorf(ctx, "❌  Failed to load media engine: %v", err)
		return fmt.Errorf("load engine: %w: %w", err, asynq.SkipRetry)
	}

	logger.Info(ctx, "✅  Media engine loaded")
	return nil
}
