package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/fhuszti/video-studio-ms-go/internal/logger"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
)

var errMissingIDs = errors.New("payload has no job or record id")

// EditVideoHandler handles an edit-video task.
// The outcome is already recorded on the job, so failures are archived
// instead of retried.
func EditVideoHandler(ctx context.Context, p port.EditVideoInput, svc port.EditJobRunner) error {
	if p.JobID.IsZero() || p.RecordID.IsZero() {
		logger.Errorf(ctx, "❌  Invalid edit-video payload: %v", errMissingIDs)
		return fmt.Errorf("%w: %w", errMissingIDs, asynq.SkipRetry)
	}

	if err := svc.RunEditJob(ctx, p); err != nil {
		return fmt.Errorf("edit job #%s: %w: %w", p.JobID, err, asynq.SkipRetry)
	}
	return nil
}
