package port

import (
	"context"

	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
)

// TestimonialRepository defines persistence operations on testimonial records.
type TestimonialRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Testimonial, error)
	// UpdateVideo swaps video_url and video_metadata in one statement, only if
	// the stored video_url still equals expectedURL.
	UpdateVideo(ctx context.Context, id uuid.UUID, expectedURL, newURL string, meta model.VideoMetadata) error
	ListVideoURLs(ctx context.Context) ([]string, error)
}
