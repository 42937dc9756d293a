package task

import (
	"encoding/json"
	"fmt"

	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/hibiken/asynq"
)

const (
	TypeEditVideo  = "video:edit"
	TypeLoadEngine = "engine:load"
)

// Edits never retry on their own: a failed run is reported on the job and
// the user decides whether to try again.
var noRetry = asynq.MaxRetry(0)

// NewEditVideoTask creates an Asynq task running one edit job. The job id
// doubles as the task id so a job can never be queued twice.
func NewEditVideoTask(in port.EditVideoInput) (*asynq.Task, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("could not marshal edit-video payload: %w", err)
	}
	return asynq.NewTask(TypeEditVideo, data, noRetry, asynq.TaskID(in.JobID.String())), nil
}

// ParseEditVideoPayload parses the task payload to port.EditVideoInput.
func ParseEditVideoPayload(t *asynq.Task) (port.EditVideoInput, error) {
	var p port.EditVideoInput
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return port.EditVideoInput{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return p, nil
}

// NewLoadEngineTask asks a worker to (re)load its media engine.
func NewLoadEngineTask() *asynq.Task {
	return asynq.NewTask(TypeLoadEngine, nil, noRetry)
}
