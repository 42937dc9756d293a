package port

import (
	"context"

	"github.com/fhuszti/video-studio-ms-go/internal/model"
)

// MediaInfo is what the engine learns about a file in its workspace.
// Zero values mean unknown.
type MediaInfo struct {
	DurationSeconds float64
	Width           int
	Height          int
}

// MediaEngine is the process-wide transcoding engine.
type MediaEngine interface {
	Load(ctx context.Context) error
	// AwaitLoad waits for an in-flight load without ever starting one.
	AwaitLoad(ctx context.Context) error
	State() model.EngineState
	Err() error
	// Acquire blocks until the caller owns the engine workspace.
	Acquire(ctx context.Context) (release func(), err error)
	WriteFile(name string, data []byte) error
	ReadFile(name string) ([]byte, error)
	DeleteFile(name string) error
	FileExists(name string) bool
	Exec(ctx context.Context, args ...string) error
	Probe(ctx context.Context, name string) (MediaInfo, error)
}

// SourceFetcher downloads the bytes of a remote video.
type SourceFetcher interface {
	FetchSource(ctx context.Context, url string) ([]byte, error)
}
