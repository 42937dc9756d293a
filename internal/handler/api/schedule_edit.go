package api

import (
	"encoding/json"
	"net/http"

	"github.com/fhuszti/video-studio-ms-go/internal/api_context"
	"github.com/fhuszti/video-studio-ms-go/internal/logger"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
	"github.com/fhuszti/video-studio-ms-go/internal/validation"
)

// ScheduleEditRequest mirrors the editor controls. Omitted fields keep the
// identity value of their control.
type ScheduleEditRequest struct {
	TrimStart       *float64 `json:"trim_start"      validate:"omitempty,gte=0,lte=1"`
	TrimEnd         *float64 `json:"trim_end"        validate:"omitempty,gte=0,lte=1"`
	Crop            string   `json:"crop"            validate:"omitempty,crop"`
	VolumePercent   *float64 `json:"volume_percent"  validate:"omitempty,gte=0,lte=200"`
	CurrentVideoURL string   `json:"current_video_url" validate:"omitempty,url"`
}

func (req ScheduleEditRequest) toInput(recordID uuid.UUID) port.ScheduleEditInput {
	in := port.ScheduleEditInput{
		RecordID:        recordID,
		CurrentVideoURL: req.CurrentVideoURL,
		TrimEnd:         1,
		Crop:            req.Crop,
		VolumePercent:   100,
	}
	if req.TrimStart != nil {
		in.TrimStart = *req.TrimStart
	}
	if req.TrimEnd != nil {
		in.TrimEnd = *req.TrimEnd
	}
	if req.VolumePercent != nil {
		in.VolumePercent = *req.VolumePercent
	}
	return in
}

func ScheduleEditHandler(svc port.EditScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, r, http.StatusBadRequest, "ID is required", nil)
			return
		}

		var req ScheduleEditRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, http.StatusBadRequest, "invalid request payload", err)
			return
		}

		if errs := validation.ValidateStruct(req); errs != nil {
			errsJSON, err := validation.ErrorsToJson(errs)
			if err != nil {
				WriteError(w, r, http.StatusInternalServerError, "failed to encode validation errors", err)
				return
			}
			RespondRawJSON(w, http.StatusBadRequest, []byte(errsJSON))
			logger.Warnf(r.Context(), "❌  Validation failed: %s", errsJSON)
			return
		}

		out, err := svc.ScheduleEdit(r.Context(), req.toInput(id))
		if err != nil {
			writePipelineError(w, r, err)
			return
		}

		w.Header().Set("Location", "/jobs/"+out.JobID.String())
		RespondJSON(w, http.StatusAccepted, out)
		logger.Infof(r.Context(), "✅  Scheduled edit job #%s for testimonial #%s", out.JobID, id)
	}
}
