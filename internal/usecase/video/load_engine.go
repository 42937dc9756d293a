package video

import (
	"context"
	"errors"
	"time"

	"github.com/fhuszti/video-studio-ms-go/internal/logger"
	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
)

type engineLoaderSrv struct {
	engine port.MediaEngine
	jobs   port.JobStore
	worker string
	now    func() time.Time
}

var _ port.EngineLoader = (*engineLoaderSrv)(nil)

// NewEngineLoader publishes statuses under worker, so each engine owner
// reports its own state.
func NewEngineLoader(engine port.MediaEngine, jobs port.JobStore, worker string) port.EngineLoader {
	return &engineLoaderSrv{engine: engine, jobs: jobs, worker: worker, now: time.Now}
}

// LoadEngine triggers a load, or joins the one in progress, and publishes
// the outcome for the API.
func (s *engineLoaderSrv) LoadEngine(ctx context.Context) error {
	if s.engine.State() != model.EngineReady {
		s.publish(ctx, model.EngineStatus{State: model.EngineLoading})
	}

	err := s.engine.Load(ctx)
	status := model.EngineStatus{State: s.engine.State()}
	if err != nil {
		status.State = model.EngineFailed
		status.Error = UserMessage(err)
	}
	s.publish(ctx, status)
	return err
}

func (s *engineLoaderSrv) publish(ctx context.Context, status model.EngineStatus) {
	status.Worker = s.worker
	status.UpdatedAt = s.now().UTC()
	if err := s.jobs.SetEngineStatus(ctx, status); err != nil {
		logger.Warnf(ctx, "⚠️  could not publish engine status %q: %v", status.State, err)
	}
}

type engineStatusGetterSrv struct {
	jobs port.JobStore
}

var _ port.EngineStatusGetter = (*engineStatusGetterSrv)(nil)

func NewEngineStatusGetter(jobs port.JobStore) port.EngineStatusGetter {
	return &engineStatusGetterSrv{jobs: jobs}
}

// GetEngineStatus reports unloaded when nothing was published yet.
func (s *engineStatusGetterSrv) GetEngineStatus(ctx context.Context) (model.EngineStatus, error) {
	st, err := s.jobs.GetEngineStatus(ctx)
	if errors.Is(err, ErrJobNotFound) {
		return model.EngineStatus{State: model.EngineUnloaded}, nil
	}
	return st, err
}
