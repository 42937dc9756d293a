package port

import (
	"context"

	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
)

// JobStore keeps edit job progress and the engine status readable from the API.
type JobStore interface {
	SaveJob(ctx context.Context, job *model.EditJob) error
	GetJob(ctx context.Context, id uuid.UUID) (*model.EditJob, error)
	SetEngineStatus(ctx context.Context, status model.EngineStatus) error
	GetEngineStatus(ctx context.Context) (model.EngineStatus, error)
}
