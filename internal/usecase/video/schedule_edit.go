package video

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/video-studio-ms-go/internal/logger"
	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
)

type editSchedulerSrv struct {
	repo       port.TestimonialRepository
	jobs       port.JobStore
	dispatcher port.TaskDispatcher
	genID      port.UUIDGen
	now        func() time.Time
}

var _ port.EditScheduler = (*editSchedulerSrv)(nil)

func NewEditScheduler(repo port.TestimonialRepository, jobs port.JobStore, dispatcher port.TaskDispatcher, genID port.UUIDGen) port.EditScheduler {
	return &editSchedulerSrv{repo: repo, jobs: jobs, dispatcher: dispatcher, genID: genID, now: time.Now}
}

// ScheduleEdit validates the request up front so that obviously bad edits
// never reach the engine, then queues a job.
func (s *editSchedulerSrv) ScheduleEdit(ctx context.Context, in port.ScheduleEditInput) (port.ScheduleEditOutput, error) {
	session, err := SessionFromParams(in.TrimStart, in.TrimEnd, in.Crop, in.VolumePercent)
	if err != nil {
		return port.ScheduleEditOutput{}, err
	}
	if !session.Dirty() {
		return port.ScheduleEditOutput{}, ErrNoChanges
	}

	if status, err := s.jobs.GetEngineStatus(ctx); err == nil && status.State == model.EngineFailed {
		return port.ScheduleEditOutput{}, fmt.Errorf("%w: %s", ErrEngineNotReady, status.Error)
	}

	_, current, err := loadVideoRecord(ctx, s.repo, port.EditVideoInput{RecordID: in.RecordID, CurrentVideoURL: in.CurrentVideoURL})
	if err != nil {
		return port.ScheduleEditOutput{}, err
	}

	now := s.now().UTC()
	job := &model.EditJob{
		ID:        s.genID(),
		RecordID:  in.RecordID,
		Status:    model.EditJobQueued,
		Stage:     StageIdle.String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.jobs.SaveJob(ctx, job); err != nil {
		return port.ScheduleEditOutput{}, fmt.Errorf("save job: %w", err)
	}

	task := port.EditVideoInput{
		JobID:           job.ID,
		RecordID:        in.RecordID,
		CurrentVideoURL: current,
		TrimStart:       session.TrimStart(),
		TrimEnd:         session.TrimEnd(),
		Crop:            string(session.Crop()),
		VolumePercent:   session.VolumePercent(),
	}
	if err := s.dispatcher.EnqueueEditVideo(ctx, task); err != nil {
		job.Status = model.EditJobFailed
		job.Error = UserMessage(err)
		job.UpdatedAt = s.now().UTC()
		if sErr := s.jobs.SaveJob(ctx, job); sErr != nil {
			logger.Warnf(ctx, "⚠️  could not mark job #%s as failed: %v", job.ID, sErr)
		}
		return port.ScheduleEditOutput{}, fmt.Errorf("enqueue edit: %w", err)
	}

	logger.Infof(ctx, "queued edit job #%s for testimonial #%s", job.ID, in.RecordID)
	return port.ScheduleEditOutput{JobID: job.ID}, nil
}
