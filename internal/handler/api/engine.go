package api

import (
	"net/http"

	"github.com/fhuszti/video-studio-ms-go/internal/logger"
	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
)

func GetEngineStatusHandler(svc port.EngineStatusGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := svc.GetEngineStatus(r.Context())
		if err != nil {
			WriteError(w, r, http.StatusInternalServerError, "Could not get engine status", err)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		RespondJSON(w, http.StatusOK, status)
	}
}

// LoadEngineHandler asks the engine owner to (re)load. It answers at once;
// clients poll GET /engine for the outcome.
func LoadEngineHandler(svc port.EngineStatusGetter, tasks port.TaskDispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := svc.GetEngineStatus(r.Context())
		if err == nil && status.State == model.EngineReady {
			RespondJSON(w, http.StatusOK, status)
			return
		}

		if err := tasks.EnqueueLoadEngine(r.Context()); err != nil {
			WriteError(w, r, http.StatusInternalServerError, "Could not request engine load", err)
			return
		}

		w.WriteHeader(http.StatusAccepted)
		logger.Info(r.Context(), "✅  Requested engine load")
	}
}
