package port

import (
	"context"

	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
)

// HTTPRenderer mediates between HTTP handlers and the video getter use case.
// It returns the JSON representation of the result and an ETag derived from it.
type HTTPRenderer interface {
	// RenderGetVideo returns the cached JSON result and its ETag if available or
	// executes the underlying use case and caches the output otherwise.
	RenderGetVideo(ctx context.Context, getter VideoGetter, id uuid.UUID) ([]byte, string, error)
}
