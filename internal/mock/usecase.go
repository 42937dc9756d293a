package mock

import (
	"context"

	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
)

type VideoEditor struct {
	Out    port.EditVideoOutput
	Events []port.ProgressEvent
	Err    error
	Called bool
	Input  port.EditVideoInput
}

var _ port.VideoEditor = (*VideoEditor)(nil)

func (m *VideoEditor) EditVideo(ctx context.Context, in port.EditVideoInput, onProgress port.ProgressFunc) (port.EditVideoOutput, error) {
	m.Called = true
	m.Input = in
	if onProgress != nil {
		for _, ev := range m.Events {
			onProgress(ctx, ev)
		}
	}
	if m.Err != nil {
		return port.EditVideoOutput{}, m.Err
	}
	return m.Out, nil
}

type EditScheduler struct {
	Out    port.ScheduleEditOutput
	Err    error
	Called bool
	Input  port.ScheduleEditInput
}

var _ port.EditScheduler = (*EditScheduler)(nil)

func (m *EditScheduler) ScheduleEdit(ctx context.Context, in port.ScheduleEditInput) (port.ScheduleEditOutput, error) {
	m.Called = true
	m.Input = in
	if m.Err != nil {
		return port.ScheduleEditOutput{}, m.Err
	}
	return m.Out, nil
}

type EditJobRunner struct {
	Err    error
	Called bool
	Input  port.EditVideoInput
	Done   chan struct{}
}

var _ port.EditJobRunner = (*EditJobRunner)(nil)

func (m *EditJobRunner) RunEditJob(ctx context.Context, in port.EditVideoInput) error {
	m.Called = true
	m.Input = in
	if m.Done != nil {
		close(m.Done)
	}
	return m.Err
}

type EditJobGetter struct {
	Job    *model.EditJob
	Err    error
	Called bool
}

var _ port.EditJobGetter = (*EditJobGetter)(nil)

func (m *EditJobGetter) GetEditJob(ctx context.Context, id uuid.UUID) (*model.EditJob, error) {
	m.Called = true
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Job, nil
}

type EngineLoader struct {
	Err    error
	Called bool
	Done   chan struct{}
}

var _ port.EngineLoader = (*EngineLoader)(nil)

func (m *EngineLoader) LoadEngine(ctx context.Context) error {
	m.Called = true
	if m.Done != nil {
		close(m.Done)
	}
	return m.Err
}

type EngineStatusGetter struct {
	Status model.EngineStatus
	Err    error
	Called bool
}

var _ port.EngineStatusGetter = (*EngineStatusGetter)(nil)

func (m *EngineStatusGetter) GetEngineStatus(ctx context.Context) (model.EngineStatus, error) {
	m.Called = true
	if m.Err != nil {
		return model.EngineStatus{}, m.Err
	}
	return m.Status, nil
}

type VideoGetter struct {
	Out    *port.GetVideoOutput
	Err    error
	Called bool
}

var _ port.VideoGetter = (*VideoGetter)(nil)

func (m *VideoGetter) GetVideo(ctx context.Context, id uuid.UUID) (*port.GetVideoOutput, error) {
	m.Called = true
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Out, nil
}

type OrphanReconciler struct {
	Out    port.ReconcileOutput
	Err    error
	Called bool
}

var _ port.OrphanReconciler = (*OrphanReconciler)(nil)

func (m *OrphanReconciler) ReconcileOrphans(ctx context.Context) (port.ReconcileOutput, error) {
	m.Called = true
	if m.Err != nil {
		return port.ReconcileOutput{}, m.Err
	}
	return m.Out, nil
}
