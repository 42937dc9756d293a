package jobstore

import (
	"context"
	"sync"

	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/usecase/video"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
)

// MemoryStore serves single-process deployments running without Redis.
type MemoryStore struct {
	mu     sync.RWMutex
	jobs   map[uuid.UUID]model.EditJob
	engine map[string]model.EngineStatus
}

// compile-time check: *MemoryStore must satisfy port.JobStore
var _ port.JobStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:   make(map[uuid.UUID]model.EditJob),
		engine: make(map[string]model.EngineStatus),
	}
}

func (s *MemoryStore) SaveJob(ctx context.Context, job *model.EditJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = *job
	return nil
}

func (s *MemoryStore) GetJob(ctx context.Context, id uuid.UUID) (*model.EditJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, video.ErrJobNotFound
	}
	return &job, nil
}

func (s *MemoryStore) SetEngineStatus(ctx context.Context, status model.EngineStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine[status.Worker] = status
	return nil
}

func (s *MemoryStore) GetEngineStatus(ctx context.Context) (model.EngineStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.engine) == 0 {
		return model.EngineStatus{}, video.ErrJobNotFound
	}
	all := make([]model.EngineStatus, 0, len(s.engine))
	for _, st := range s.engine {
		all = append(all, st)
	}
	return model.FleetEngineStatus(all), nil
}
