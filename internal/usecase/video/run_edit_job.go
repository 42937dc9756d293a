package video

import (
	"context"
	"errors"
	"time"

	"github.com/fhuszti/video-studio-ms-go/internal/api_context"
	"github.com/fhuszti/video-studio-ms-go/internal/logger"
	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
)

type editJobRunnerSrv struct {
	editor port.VideoEditor
	jobs   port.JobStore
	now    func() time.Time
}

var _ port.EditJobRunner = (*editJobRunnerSrv)(nil)

func NewEditJobRunner(editor port.VideoEditor, jobs port.JobStore) port.EditJobRunner {
	return &editJobRunnerSrv{editor: editor, jobs: jobs, now: time.Now}
}

// RunEditJob executes a queued edit and mirrors every checkpoint into the
// job store. Store failures never abort the edit itself.
func (s *editJobRunnerSrv) RunEditJob(ctx context.Context, in port.EditVideoInput) error {
	ctx = api_context.WithJobID(ctx, in.JobID)

	job, err := s.jobs.GetJob(ctx, in.JobID)
	if err != nil {
		if !errors.Is(err, ErrJobNotFound) {
			logger.Warnf(ctx, "⚠️  could not load job state, starting fresh: %v", err)
		}
		job = &model.EditJob{ID: in.JobID, RecordID: in.RecordID, CreatedAt: s.now().UTC()}
	}

	job.Status = model.EditJobRunning
	job.Error = ""
	s.save(ctx, job)

	out, err := s.editor.EditVideo(ctx, in, func(ctx context.Context, ev port.ProgressEvent) {
		job.Stage = ev.Stage
		job.Label = ev.Label
		job.Percent = ev.Percent
		s.save(ctx, job)
	})
	if err != nil {
		job.Status = model.EditJobFailed
		job.Error = UserMessage(err)
		s.save(ctx, job)
		logger.Errorf(ctx, "❌  Edit of testimonial #%s failed: %v", in.RecordID, err)
		return err
	}

	job.Status = model.EditJobSucceeded
	job.NewVideoURL = out.NewVideoURL
	job.OldObjectRemoved = out.OldObjectRemoved
	s.save(ctx, job)
	logger.Infof(ctx, "✅  Edit of testimonial #%s completed", in.RecordID)
	return nil
}

func (s *editJobRunnerSrv) save(ctx context.Context, job *model.EditJob) {
	job.UpdatedAt = s.now().UTC()
	if err := s.jobs.SaveJob(ctx, job); err != nil {
		logger.Warnf(ctx, "⚠️  could not save progress of job #%s: %v", job.ID, err)
	}
}
