package port

import (
	"context"
	"time"

	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
)

type UUIDGen func() uuid.UUID

// ProgressEvent is one checkpoint of an edit run.
type ProgressEvent struct {
	Stage   string `json:"stage"`
	Label   string `json:"label"`
	Percent int    `json:"percent"`
}

// ProgressFunc receives progress checkpoints in order.
type ProgressFunc func(ctx context.Context, ev ProgressEvent)

// EditVideoInput carries the edit parameters of one run.
type EditVideoInput struct {
	JobID           uuid.UUID `json:"job_id"`
	RecordID        uuid.UUID `json:"record_id"`
	CurrentVideoURL string    `json:"current_video_url"`
	TrimStart       float64   `json:"trim_start"`
	TrimEnd         float64   `json:"trim_end"`
	Crop            string    `json:"crop"`
	VolumePercent   float64   `json:"volume_percent"`
}
type EditVideoOutput struct {
	NewVideoURL      string `json:"new_video_url"`
	OldObjectRemoved bool   `json:"old_object_removed"`
}

// VideoEditor runs the whole pipeline: transcode then commit.
type VideoEditor interface {
	EditVideo(ctx context.Context, in EditVideoInput, onProgress ProgressFunc) (EditVideoOutput, error)
}

// EditScheduler validates an edit request and queues it as a job.
type EditScheduler interface {
	ScheduleEdit(ctx context.Context, in ScheduleEditInput) (ScheduleEditOutput, error)
}
type ScheduleEditInput struct {
	RecordID        uuid.UUID
	CurrentVideoURL string
	TrimStart       float64
	TrimEnd         float64
	Crop            string
	VolumePercent   float64
}
type ScheduleEditOutput struct {
	JobID uuid.UUID `json:"job_id"`
}

// EditJobRunner executes a queued job and records its progress.
type EditJobRunner interface {
	RunEditJob(ctx context.Context, in EditVideoInput) error
}

// EditJobGetter returns the stored state of an edit job.
type EditJobGetter interface {
	GetEditJob(ctx context.Context, id uuid.UUID) (*model.EditJob, error)
}

// EngineLoader loads the media engine and publishes its state.
type EngineLoader interface {
	LoadEngine(ctx context.Context) error
}

// EngineStatusGetter returns the last published engine state.
type EngineStatusGetter interface {
	GetEngineStatus(ctx context.Context) (model.EngineStatus, error)
}

// VideoGetter returns the committed video of a testimonial.
type VideoGetter interface {
	GetVideo(ctx context.Context, id uuid.UUID) (*GetVideoOutput, error)
}
type GetVideoOutput struct {
	ID         uuid.UUID            `json:"id"`
	VideoURL   string               `json:"video_url"`
	Metadata   *model.VideoMetadata `json:"metadata,omitempty"`
	ValidUntil time.Time            `json:"valid_until"`
}

// OrphanReconciler deletes stored videos that no record references.
type OrphanReconciler interface {
	ReconcileOrphans(ctx context.Context) (ReconcileOutput, error)
}
type ReconcileOutput struct {
	Scanned int
	Removed int
	Failed  int
}
