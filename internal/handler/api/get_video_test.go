package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fhuszti/video-studio-ms-go/internal/mock"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
	"github.com/fhuszti/video-studio-ms-go/internal/usecase/video"
)

func TestGetVideoHandler(t *testing.T) {
	body := []byte(`{"id":"aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee","video_url":"https://cdn.example.com/videos/a.mp4"}`)

	tests := []struct {
		name             string
		ctxID            *uuid.UUID
		renderErr        error
		wantStatus       int
		wantContentType  string
		wantCacheControl string
		wantETag         bool
		wantBodyContains string
	}{
		{
			name:             "happy path",
			ctxID:            &testID,
			wantStatus:       http.StatusOK,
			wantContentType:  "application/json",
			wantCacheControl: "private, max-age=60",
			wantETag:         true,
			wantBodyContains: "cdn.example.com/videos/a.mp4",
		},
		{
			name:             "record not found",
			ctxID:            &testID,
			renderErr:        fmt.Errorf("get: %w", video.ErrRecordNotFound),
			wantStatus:       http.StatusNotFound,
			wantContentType:  "application/json",
			wantCacheControl: "no-store, max-age=0, must-revalidate",
			wantBodyContains: "Video not found",
		},
		{
			name:             "not a video testimonial",
			ctxID:            &testID,
			renderErr:        video.ErrNotVideo,
			wantStatus:       http.StatusNotFound,
			wantContentType:  "application/json",
			wantBodyContains: "Video not found",
		},
		{
			name:             "renderer error",
			ctxID:            &testID,
			renderErr:        errors.New("boom"),
			wantStatus:       http.StatusInternalServerError,
			wantContentType:  "application/json",
			wantCacheControl: "no-store, max-age=0, must-revalidate",
			wantBodyContains: "Could not get video details",
		},
		{
			name:             "missing ID",
			ctxID:            nil,
			wantStatus:       http.StatusBadRequest,
			wantContentType:  "application/json",
			wantBodyContains: "ID is required",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rdr := &mock.Renderer{Body: body, Etag: `"0000abcd"`, Err: tc.renderErr}
			getter := &mock.VideoGetter{}
			handlerFn := GetVideoHandler(rdr, getter)

			rec := httptest.NewRecorder()
			handlerFn(rec, newRequest(t, http.MethodGet, "/testimonials/"+testID.String()+"/video", "", tc.ctxID))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != tc.wantContentType {
				t.Errorf("Content-Type = %q; want %q", ct, tc.wantContentType)
			}
			if tc.wantCacheControl != "" {
				if cc := rec.Header().Get("Cache-Control"); cc != tc.wantCacheControl {
					t.Errorf("Cache-Control = %q; want %q", cc, tc.wantCacheControl)
				}
			}
			if tc.wantETag {
				if et := rec.Header().Get("ETag"); et != rdr.Etag {
					t.Errorf("ETag = %q; want %q", et, rdr.Etag)
				}
			}
			if !strings.Contains(rec.Body.String(), tc.wantBodyContains) {
				t.Errorf("body = %q; want to contain %q", rec.Body.String(), tc.wantBodyContains)
			}
			if tc.ctxID == nil && rdr.Called {
				t.Error("renderer should not be called without an ID")
			}
		})
	}
}

func TestGetVideoHandler_IfNoneMatch(t *testing.T) {
	rdr := &mock.Renderer{Body: []byte(`{}`), Etag: `"0000abcd"`}
	handlerFn := GetVideoHandler(rdr, &mock.VideoGetter{})

	req := newRequest(t, http.MethodGet, "/testimonials/"+testID.String()+"/video", "", &testID)
	req.Header.Set("If-None-Match", `"0000abcd"`)
	rec := httptest.NewRecorder()
	handlerFn(rec, req)

	if rec.Code != http.StatusNotModified {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusNotModified)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q; want empty", rec.Body.String())
	}
	if et := rec.Header().Get("ETag"); et != rdr.Etag {
		t.Errorf("ETag = %q; want %q", et, rdr.Etag)
	}
}
