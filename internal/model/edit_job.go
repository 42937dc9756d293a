package model

import (
	"time"

	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
)

type EditJobStatus string

const (
	EditJobQueued    EditJobStatus = "queued"
	EditJobRunning   EditJobStatus = "running"
	EditJobSucceeded EditJobStatus = "succeeded"
	EditJobFailed    EditJobStatus = "failed"
)

// EditJob is the externally visible progress of one edit run.
type EditJob struct {
	ID               uuid.UUID     `json:"id"`
	RecordID         uuid.UUID     `json:"record_id"`
	Status           EditJobStatus `json:"status"`
	Stage            string        `json:"stage"`
	Label            string        `json:"label"`
	Percent          int           `json:"percent"`
	Error            string        `json:"error,omitempty"`
	NewVideoURL      string        `json:"new_video_url,omitempty"`
	OldObjectRemoved bool          `json:"old_object_removed,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func (j *EditJob) Finished() bool {
	return j.Status == EditJobSucceeded || j.Status == EditJobFailed
}

type EngineState string

const (
	EngineUnloaded EngineState = "unloaded"
	EngineLoading  EngineState = "loading"
	EngineReady    EngineState = "ready"
	EngineFailed   EngineState = "failed"
)

// EngineStatus is what one worker publishes about its media engine.
type EngineStatus struct {
	Worker    string      `json:"worker,omitempty"`
	State     EngineState `json:"state"`
	Error     string      `json:"error,omitempty"`
	UpdatedAt time.Time   `json:"updated_at"`
}

var engineStateRank = map[EngineState]int{
	EngineFailed:   1,
	EngineUnloaded: 2,
	EngineLoading:  3,
	EngineReady:    4,
}

// FleetEngineStatus folds per-worker statuses into the one the API reports:
// a single ready worker is enough to take edits, and a failure only shows
// when no worker is ready or loading. Ties go to the most recent update.
func FleetEngineStatus(all []EngineStatus) EngineStatus {
	var best EngineStatus
	for i, st := range all {
		if i == 0 {
			best = st
			continue
		}
		r, br := engineStateRank[st.State], engineStateRank[best.State]
		if r > br || (r == br && st.UpdatedAt.After(best.UpdatedAt)) {
			best = st
		}
	}
	return best
}
