package port

import (
	"context"
	"time"

	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
)

// Cache stores rendered video details per testimonial.
type Cache interface {
	GetVideoDetails(ctx context.Context, id uuid.UUID) ([]byte, error)
	GetEtagVideoDetails(ctx context.Context, id uuid.UUID) (string, error)
	SetVideoDetails(ctx context.Context, id uuid.UUID, data []byte, ttl time.Duration)
	SetEtagVideoDetails(ctx context.Context, id uuid.UUID, etag string, ttl time.Duration)
	DeleteVideoDetails(ctx context.Context, id uuid.UUID) error
	DeleteEtagVideoDetails(ctx context.Context, id uuid.UUID) error
}
