package video

import (
	"context"

	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
)

type editJobGetterSrv struct {
	jobs port.JobStore
}

var _ port.EditJobGetter = (*editJobGetterSrv)(nil)

func NewEditJobGetter(jobs port.JobStore) port.EditJobGetter {
	return &editJobGetterSrv{jobs: jobs}
}

func (s *editJobGetterSrv) GetEditJob(ctx context.Context, id uuid.UUID) (*model.EditJob, error) {
	return s.jobs.GetJob(ctx, id)
}
