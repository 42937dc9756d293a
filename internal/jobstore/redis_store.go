package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/usecase/video"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
	"github.com/redis/go-redis/v9"
)

// JobTTL bounds how long finished job progress stays readable.
const JobTTL = 24 * time.Hour

// RedisStore keeps job progress where both the API and the worker see it.
// Keys used:
//   - studio:job:<id>       edit job JSON, expires after JobTTL
//   - studio:engine:status  hash of worker name -> last engine status it published
type RedisStore struct {
	client *redis.Client
	prefix string
}

// compile-time check: *RedisStore must satisfy port.JobStore
var _ port.JobStore = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "studio"}
}

func (s *RedisStore) jobKey(id uuid.UUID) string { return fmt.Sprintf("%s:job:%s", s.prefix, id) }
func (s *RedisStore) engineKey() string         { return s.prefix + ":engine:status" }

func (s *RedisStore) SaveJob(ctx context.Context, job *model.EditJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	if err := s.client.Set(ctx, s.jobKey(job.ID), data, JobTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) GetJob(ctx context.Context, id uuid.UUID) (*model.EditJob, error) {
	data, err := s.client.Get(ctx, s.jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, video.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	var job model.EditJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("unmarshal failed: %w", err)
	}
	return &job, nil
}

func (s *RedisStore) SetEngineStatus(ctx context.Context, status model.EngineStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	if err := s.client.HSet(ctx, s.engineKey(), status.Worker, data).Err(); err != nil {
		return fmt.Errorf("redis hset failed: %w", err)
	}
	return nil
}

// GetEngineStatus reports the fleet view, see model.FleetEngineStatus.
func (s *RedisStore) GetEngineStatus(ctx context.Context) (model.EngineStatus, error) {
	entries, err := s.client.HGetAll(ctx, s.engineKey()).Result()
	if err != nil {
		return model.EngineStatus{}, fmt.Errorf("redis hgetall failed: %w", err)
	}
	if len(entries) == 0 {
		return model.EngineStatus{}, video.ErrJobNotFound
	}
	all := make([]model.EngineStatus, 0, len(entries))
	for worker, data := range entries {
		var st model.EngineStatus
		if err := json.Unmarshal([]byte(data), &st); err != nil {
			return model.EngineStatus{}, fmt.Errorf("unmarshal status of worker %q failed: %w", worker, err)
		}
		all = append(all, st)
	}
	return model.FleetEngineStatus(all), nil
}
