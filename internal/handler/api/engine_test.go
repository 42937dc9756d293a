package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fhuszti/video-studio-ms-go/internal/mock"
	"github.com/fhuszti/video-studio-ms-go/internal/model"
)

func TestGetEngineStatusHandler(t *testing.T) {
	tests := []struct {
		name             string
		status           model.EngineStatus
		err              error
		wantStatus       int
		wantBodyContains string
	}{
		{"ready", model.EngineStatus{State: model.EngineReady}, nil, http.StatusOK, `"state":"ready"`},
		{"failed", model.EngineStatus{State: model.EngineFailed, Error: "missing binary"}, nil, http.StatusOK, "missing binary"},
		{"store error", model.EngineStatus{}, errors.New("boom"), http.StatusInternalServerError, "Could not get engine status"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.EngineStatusGetter{Status: tc.status, Err: tc.err}
			rec := httptest.NewRecorder()
			GetEngineStatusHandler(svc)(rec, httptest.NewRequest(http.MethodGet, "/engine", nil))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tc.wantBodyContains) {
				t.Errorf("body = %q; want to contain %q", rec.Body.String(), tc.wantBodyContains)
			}
		})
	}
}

func TestLoadEngineHandler(t *testing.T) {
	tests := []struct {
		name         string
		state        model.EngineState
		enqueueErr   error
		wantStatus   int
		wantEnqueued bool
	}{
		{"unloaded engine is loaded", model.EngineUnloaded, nil, http.StatusAccepted, true},
		{"failed engine is retried", model.EngineFailed, nil, http.StatusAccepted, true},
		{"ready engine is left alone", model.EngineReady, nil, http.StatusOK, false},
		{"queue down", model.EngineUnloaded, errors.New("redis down"), http.StatusInternalServerError, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.EngineStatusGetter{Status: model.EngineStatus{State: tc.state}}
			tasks := &mock.Dispatcher{LoadErr: tc.enqueueErr}
			rec := httptest.NewRecorder()
			LoadEngineHandler(svc, tasks)(rec, httptest.NewRequest(http.MethodPost, "/engine/load", nil))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if tasks.LoadCalled != tc.wantEnqueued {
				t.Errorf("enqueued = %v; want %v", tasks.LoadCalled, tc.wantEnqueued)
			}
		})
	}
}
