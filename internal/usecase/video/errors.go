package video

import (
	"errors"
	"fmt"
)

// Pipeline error kinds. Every error leaving the pipeline wraps exactly one of
// them, so callers can branch with errors.Is.
var (
	ErrEngineLoad         = errors.New("engine: load failed")
	ErrEngineNotReady     = errors.New("engine: not ready")
	ErrNetwork            = errors.New("network: request failed")
	ErrSourceFetch        = errors.New("source: fetch failed")
	ErrUnsupportedSource  = errors.New("source: not a video")
	ErrInvalidParameter   = errors.New("edit: invalid parameter")
	ErrNoChanges          = errors.New("edit: no changes to apply")
	ErrTranscodeExecution = errors.New("transcode: execution failed")
	ErrUpload             = errors.New("commit: upload failed")
	ErrRecordUpdate       = errors.New("commit: record update failed")
	ErrVideoChanged       = errors.New("commit: video was replaced concurrently")
	ErrCommitInProgress   = errors.New("commit: another edit is in progress")
	ErrRecordNotFound     = errors.New("record: not found")
	ErrNotVideo           = errors.New("record: not a video testimonial")
	ErrJobNotFound        = errors.New("job: not found")
)

// Storage error kinds, mapped from the object store client.
var (
	ErrObjectNotFound = errors.New("storage: object not found")
	ErrObjectExists   = errors.New("storage: object already exists")
	ErrBucketNotFound = errors.New("storage: bucket not found")
	ErrUnauthorized   = errors.New("storage: unauthorized")
	ErrInternal       = errors.New("storage: internal error")
)

// StageError records the pipeline stage an error surfaced in.
type StageError struct {
	Stage Stage
	Kind  error
	Err   error
}

func (e *StageError) Error() string {
	switch {
	case e.Err == nil:
		return fmt.Sprintf("%s: %v", e.Stage, e.Kind)
	case errors.Is(e.Err, e.Kind):
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	default:
		return fmt.Sprintf("%s: %v: %v", e.Stage, e.Kind, e.Err)
	}
}

func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func stageErr(stage Stage, kind, err error) error {
	return &StageError{Stage: stage, Kind: kind, Err: err}
}

// UserMessage turns a pipeline error into text fit for the end user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEngineLoad), errors.Is(err, ErrEngineNotReady):
		return "The video editor is not available yet. Please retry loading it."
	case errors.Is(err, ErrUnsupportedSource):
		return "The current video could not be read as a video file."
	case errors.Is(err, ErrNetwork), errors.Is(err, ErrSourceFetch):
		return "The original video could not be downloaded. Check your connection and try again."
	case errors.Is(err, ErrNoChanges):
		return "There are no changes to save."
	case errors.Is(err, ErrInvalidParameter):
		return "The edit settings are not valid."
	case errors.Is(err, ErrTranscodeExecution):
		return "Processing the video failed. Please try again."
	case errors.Is(err, ErrUpload):
		return "Uploading the edited video failed. Your original video is unchanged."
	case errors.Is(err, ErrVideoChanged):
		return "This video was changed by someone else. Reload and try again."
	case errors.Is(err, ErrRecordUpdate):
		return "Saving the edited video failed. Your original video is unchanged."
	case errors.Is(err, ErrCommitInProgress):
		return "Another edit of this video is still being saved."
	case errors.Is(err, ErrRecordNotFound), errors.Is(err, ErrNotVideo):
		return "This testimonial has no video to edit."
	default:
		return "Failed to save video. Please try again."
	}
}
