package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fhuszti/video-studio-ms-go/internal/mock"
	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/usecase/video"
)

func TestGetEditJobHandler(t *testing.T) {
	job := &model.EditJob{
		ID:      testID,
		Status:  model.EditJobRunning,
		Stage:   "transcoding",
		Label:   "Encoding",
		Percent: 55,
	}

	tests := []struct {
		name             string
		svcErr           error
		wantStatus       int
		wantBodyContains string
	}{
		{"running job", nil, http.StatusOK, `"percent":55`},
		{"unknown job", video.ErrJobNotFound, http.StatusNotFound, "Job not found"},
		{"store error", errors.New("boom"), http.StatusInternalServerError, "Could not get job"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.EditJobGetter{Job: job, Err: tc.svcErr}
			rec := httptest.NewRecorder()
			GetEditJobHandler(svc)(rec, newRequest(t, http.MethodGet, "/jobs/"+testID.String(), "", &testID))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tc.wantBodyContains) {
				t.Errorf("body = %q; want to contain %q", rec.Body.String(), tc.wantBodyContains)
			}
			if tc.svcErr == nil {
				if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
					t.Errorf("Cache-Control = %q; want no-store", cc)
				}
				var got model.EditJob
				if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if got.ID != testID || got.Status != model.EditJobRunning {
					t.Errorf("job = %+v", got)
				}
			}
		})
	}
}
