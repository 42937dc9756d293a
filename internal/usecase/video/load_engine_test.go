package video

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fhuszti/video-studio-ms-go/internal/mock"
	"github.com/fhuszti/video-studio-ms-go/internal/model"
)

func TestLoadEngine_PublishesReady(t *testing.T) {
	engine := &mock.MediaEngine{}
	jobs := &mock.JobStore{}

	if err := NewEngineLoader(engine, jobs, "worker-1").LoadEngine(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if engine.LoadCalls != 1 {
		t.Errorf("LoadCalls = %d; want 1", engine.LoadCalls)
	}
	if len(jobs.Engines) != 2 || jobs.Engines[0].State != model.EngineLoading || jobs.Engines[1].State != model.EngineReady {
		t.Errorf("published %+v; want loading then ready", jobs.Engines)
	}
	for _, st := range jobs.Engines {
		if st.Worker != "worker-1" {
			t.Errorf("status published under %q; want worker-1", st.Worker)
		}
	}
}

func TestLoadEngine_AlreadyReadySkipsLoading(t *testing.T) {
	engine := &mock.MediaEngine{EngineState: model.EngineReady}
	jobs := &mock.JobStore{}

	if err := NewEngineLoader(engine, jobs, "worker-1").LoadEngine(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs.Engines) != 1 || jobs.Engines[0].State != model.EngineReady {
		t.Errorf("published %+v; want only ready", jobs.Engines)
	}
}

func TestLoadEngine_PublishesFailure(t *testing.T) {
	engine := &mock.MediaEngine{LoadErr: fmt.Errorf("%w: ffmpeg not found", ErrEngineLoad)}
	jobs := &mock.JobStore{}

	err := NewEngineLoader(engine, jobs, "worker-1").LoadEngine(context.Background())
	if !errors.Is(err, ErrEngineLoad) {
		t.Fatalf("expected ErrEngineLoad, got %v", err)
	}
	if jobs.Engine == nil || jobs.Engine.State != model.EngineFailed || jobs.Engine.Error != UserMessage(err) {
		t.Errorf("published %+v", jobs.Engine)
	}

	// a manual retry loads again
	engine.LoadErr = nil
	if err := NewEngineLoader(engine, jobs, "worker-1").LoadEngine(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if engine.LoadCalls != 2 || jobs.Engine.State != model.EngineReady {
		t.Errorf("after retry: loads=%d status=%+v", engine.LoadCalls, jobs.Engine)
	}
}

func TestLoadEngine_PublishErrorIgnored(t *testing.T) {
	engine := &mock.MediaEngine{}
	if err := NewEngineLoader(engine, &mock.JobStore{SetEngineErr: errors.New("redis down")}, "worker-1").LoadEngine(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetEngineStatus(t *testing.T) {
	jobs := &mock.JobStore{NotFoundErr: ErrJobNotFound}
	svc := NewEngineStatusGetter(jobs)

	st, err := svc.GetEngineStatus(context.Background())
	if err != nil || st.State != model.EngineUnloaded {
		t.Fatalf("expected unloaded, got %+v, %v", st, err)
	}

	jobs.Engine = &model.EngineStatus{State: model.EngineReady}
	if st, _ := svc.GetEngineStatus(context.Background()); st.State != model.EngineReady {
		t.Errorf("state = %q; want ready", st.State)
	}

	jobs.GetEngineErr = errors.New("redis down")
	if _, err := svc.GetEngineStatus(context.Background()); err == nil {
		t.Error("expected store error to surface")
	}
}
