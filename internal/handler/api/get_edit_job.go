package api

import (
	"errors"
	"net/http"

	"github.com/fhuszti/video-studio-ms-go/internal/api_context"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/usecase/video"
)

// GetEditJobHandler is polled by the editor while a job runs, so nothing is
// cached.
func GetEditJobHandler(svc port.EditJobGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, r, http.StatusBadRequest, "ID is required", nil)
			return
		}

		job, err := svc.GetEditJob(r.Context(), id)
		if err != nil {
			if errors.Is(err, video.ErrJobNotFound) {
				WriteError(w, r, http.StatusNotFound, "Job not found", nil)
				return
			}
			WriteError(w, r, http.StatusInternalServerError, "Could not get job", err)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		RespondJSON(w, http.StatusOK, job)
	}
}
