package jobstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/usecase/video"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
	"github.com/redis/go-redis/v9"
)

func makeRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb), mr
}

func stores(t *testing.T) map[string]port.JobStore {
	rs, _ := makeRedisStore(t)
	return map[string]port.JobStore{
		"redis":  rs,
		"memory": NewMemoryStore(),
	}
}

func TestStore_Jobs(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			id := uuid.NewUUID()

			if _, err := s.GetJob(ctx, id); !errors.Is(err, video.ErrJobNotFound) {
				t.Fatalf("expected ErrJobNotFound, got %v", err)
			}

			job := &model.EditJob{ID: id, RecordID: uuid.NewUUID(), Status: model.EditJobRunning, Stage: "processing", Label: "Processing video...", Percent: 20, CreatedAt: time.Now().UTC().Truncate(time.Second)}
			if err := s.SaveJob(ctx, job); err != nil {
				t.Fatalf("SaveJob: %v", err)
			}
			// the store keeps its own copy
			job.Percent = 99

			got, err := s.GetJob(ctx, id)
			if err != nil {
				t.Fatalf("GetJob: %v", err)
			}
			if got.Percent != 20 || got.Stage != "processing" || got.RecordID != job.RecordID || !got.CreatedAt.Equal(job.CreatedAt) {
				t.Errorf("unexpected job %+v", got)
			}
		})
	}
}

func TestStore_EngineStatus(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := s.GetEngineStatus(ctx); !errors.Is(err, video.ErrJobNotFound) {
				t.Fatalf("expected ErrJobNotFound, got %v", err)
			}
			want := model.EngineStatus{Worker: "worker-1", State: model.EngineFailed, Error: "boom", UpdatedAt: time.Now().UTC().Truncate(time.Second)}
			if err := s.SetEngineStatus(ctx, want); err != nil {
				t.Fatalf("SetEngineStatus: %v", err)
			}
			got, err := s.GetEngineStatus(ctx)
			if err != nil {
				t.Fatalf("GetEngineStatus: %v", err)
			}
			if got.Worker != want.Worker || got.State != want.State || got.Error != want.Error || !got.UpdatedAt.Equal(want.UpdatedAt) {
				t.Errorf("got %+v; want %+v", got, want)
			}
		})
	}
}

func TestStore_EngineStatusPerWorker(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Now().UTC().Truncate(time.Second)

			if err := s.SetEngineStatus(ctx, model.EngineStatus{Worker: "a", State: model.EngineReady, UpdatedAt: now}); err != nil {
				t.Fatalf("SetEngineStatus(a): %v", err)
			}
			// a later failure on another worker does not hide the ready one
			if err := s.SetEngineStatus(ctx, model.EngineStatus{Worker: "b", State: model.EngineFailed, Error: "no ffmpeg", UpdatedAt: now.Add(time.Minute)}); err != nil {
				t.Fatalf("SetEngineStatus(b): %v", err)
			}
			got, err := s.GetEngineStatus(ctx)
			if err != nil {
				t.Fatalf("GetEngineStatus: %v", err)
			}
			if got.State != model.EngineReady || got.Worker != "a" {
				t.Errorf("got %+v; want worker a ready", got)
			}

			// the ready worker restarting and failing leaves only failures
			if err := s.SetEngineStatus(ctx, model.EngineStatus{Worker: "a", State: model.EngineFailed, Error: "gone", UpdatedAt: now.Add(2 * time.Minute)}); err != nil {
				t.Fatalf("SetEngineStatus(a): %v", err)
			}
			got, err = s.GetEngineStatus(ctx)
			if err != nil {
				t.Fatalf("GetEngineStatus: %v", err)
			}
			if got.State != model.EngineFailed || got.Error != "gone" {
				t.Errorf("got %+v; want the latest failure", got)
			}
		})
	}
}

func TestRedisStore_JobExpires(t *testing.T) {
	s, mr := makeRedisStore(t)
	ctx := context.Background()
	id := uuid.NewUUID()

	if err := s.SaveJob(ctx, &model.EditJob{ID: id, Status: model.EditJobSucceeded}); err != nil {
		t.Fatalf("SaveJob: %v", err)
	}
	if ttl := mr.TTL("studio:job:" + id.String()); ttl != JobTTL {
		t.Errorf("TTL = %v; want %v", ttl, JobTTL)
	}
	mr.FastForward(JobTTL + time.Second)
	if _, err := s.GetJob(ctx, id); !errors.Is(err, video.ErrJobNotFound) {
		t.Errorf("expected expired job, got %v", err)
	}
}

func TestRedisStore_CorruptEngineStatus(t *testing.T) {
	s, mr := makeRedisStore(t)
	mr.HSet("studio:engine:status", "a", "{not json")
	if _, err := s.GetEngineStatus(context.Background()); err == nil || errors.Is(err, video.ErrJobNotFound) {
		t.Errorf("expected unmarshal error, got %v", err)
	}
}

func TestRedisStore_CorruptEntry(t *testing.T) {
	s, mr := makeRedisStore(t)
	id := uuid.NewUUID()
	if err := mr.Set("studio:job:"+id.String(), "{not json"); err != nil {
		t.Fatalf("mr.Set: %v", err)
	}
	if _, err := s.GetJob(context.Background(), id); err == nil || errors.Is(err, video.ErrJobNotFound) {
		t.Errorf("expected unmarshal error, got %v", err)
	}
}
