package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"

	"github.com/fhuszti/video-studio-ms-go/internal/mock"
)

func TestLoadEngineHandler(t *testing.T) {
	loadErr := errors.New("ffmpeg missing")

	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"loaded", nil, false},
		{"load failed", loadErr, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.EngineLoader{Err: tc.err}
			err := LoadEngineHandler(context.Background(), svc)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v; wantErr %v", err, tc.wantErr)
			}
			if !svc.Called {
				t.Error("loader not called")
			}
			if tc.wantErr {
				if !errors.Is(err, loadErr) || !errors.Is(err, asynq.SkipRetry) {
					t.Errorf("error %v should wrap the load error and skip retries", err)
				}
			}
		})
	}
}
