package api

import (
	"errors"
	"net/http"

	"github.com/fhuszti/video-studio-ms-go/internal/usecase/video"
)

// writePipelineError answers with the status matching the error kind and
// the message the editor shows to the user.
func writePipelineError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, statusFor(err), ErrorResponse{Error: video.UserMessage(err), Code: codeFor(err)}, err)
}

// codeFor names the failure for clients; unknown errors get no code.
func codeFor(err error) string {
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}

var errorCodes = []struct {
	err  error
	code string
}{
	{video.ErrNoChanges, "no_changes"},
	{video.ErrInvalidParameter, "invalid_parameter"},
	{video.ErrRecordNotFound, "record_not_found"},
	{video.ErrNotVideo, "not_video"},
	{video.ErrVideoChanged, "video_changed"},
	{video.ErrCommitInProgress, "commit_in_progress"},
	{video.ErrEngineNotReady, "engine_not_ready"},
	{video.ErrEngineLoad, "engine_load_failed"},
	{video.ErrUnsupportedSource, "unsupported_source"},
	{video.ErrNetwork, "network"},
	{video.ErrSourceFetch, "source_fetch_failed"},
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, video.ErrNoChanges), errors.Is(err, video.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, video.ErrRecordNotFound), errors.Is(err, video.ErrNotVideo):
		return http.StatusNotFound
	case errors.Is(err, video.ErrVideoChanged), errors.Is(err, video.ErrCommitInProgress):
		return http.StatusConflict
	case errors.Is(err, video.ErrEngineNotReady), errors.Is(err, video.ErrEngineLoad):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
