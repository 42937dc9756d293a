package mock

import (
	"context"
	"errors"
	"sync"

	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
)

// ErrNotFound is returned by JobStore.GetJob when NotFoundErr is unset.
var ErrNotFound = errors.New("mock: not found")

// JobStore implements port.JobStore for tests. Saved jobs are copied so the
// full progress history can be asserted.
type JobStore struct {
	mu sync.Mutex

	Jobs    map[uuid.UUID]model.EditJob
	History []model.EditJob
	Engine  *model.EngineStatus
	Engines []model.EngineStatus

	NotFoundErr  error
	SaveErr      error
	GetErr       error
	SetEngineErr error
	GetEngineErr error
}

var _ port.JobStore = (*JobStore)(nil)

func (s *JobStore) SaveJob(ctx context.Context, job *model.EditJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	if s.Jobs == nil {
		s.Jobs = map[uuid.UUID]model.EditJob{}
	}
	s.Jobs[job.ID] = *job
	s.History = append(s.History, *job)
	return nil
}

func (s *JobStore) GetJob(ctx context.Context, id uuid.UUID) (*model.EditJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	j, ok := s.Jobs[id]
	if !ok {
		return nil, s.notFound()
	}
	return &j, nil
}

func (s *JobStore) SetEngineStatus(ctx context.Context, status model.EngineStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Engines = append(s.Engines, status)
	if s.SetEngineErr != nil {
		return s.SetEngineErr
	}
	s.Engine = &status
	return nil
}

func (s *JobStore) GetEngineStatus(ctx context.Context) (model.EngineStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetEngineErr != nil {
		return model.EngineStatus{}, s.GetEngineErr
	}
	if s.Engine == nil {
		return model.EngineStatus{}, s.notFound()
	}
	return *s.Engine, nil
}

func (s *JobStore) notFound() error {
	if s.NotFoundErr != nil {
		return s.NotFoundErr
	}
	return ErrNotFound
}
