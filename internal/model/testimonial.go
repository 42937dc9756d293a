package model

import (
	"time"

	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
)

type TestimonialType string

const (
	TestimonialTypeText  TestimonialType = "text"
	TestimonialTypeVideo TestimonialType = "video"
)

// Testimonial is the record owning the replaceable video reference.
type Testimonial struct {
	ID             uuid.UUID       `json:"id"`
	SpaceID        uuid.UUID       `json:"space_id"`
	Type           TestimonialType `json:"type"`
	Content        *string         `json:"content,omitempty"`
	VideoURL       *string         `json:"video_url,omitempty"`
	VideoMetadata  *VideoMetadata  `json:"video_metadata,omitempty"`
	RespondentName *string         `json:"respondent_name,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CurrentVideoURL returns the committed video URL or "" for records without one.
func (t *Testimonial) CurrentVideoURL() string {
	if t.VideoURL == nil {
		return ""
	}
	return *t.VideoURL
}
