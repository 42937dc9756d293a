package mock

import (
	"context"

	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
)

// TestimonialRepo implements port.TestimonialRepository for tests.
type TestimonialRepo struct {
	Record  *model.Testimonial
	URLsOut []string

	GetErr    error
	UpdateErr error
	ListErr   error

	GetCalled    bool
	UpdateCalled bool
	ListCalled   bool

	UpdatedID   uuid.UUID
	ExpectedURL string
	NewURL      string
	Meta        model.VideoMetadata
}

var _ port.TestimonialRepository = (*TestimonialRepo)(nil)

func (m *TestimonialRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Testimonial, error) {
	m.GetCalled = true
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.Record, nil
}

func (m *TestimonialRepo) UpdateVideo(ctx context.Context, id uuid.UUID, expectedURL, newURL string, meta model.VideoMetadata) error {
	m.UpdateCalled = true
	m.UpdatedID = id
	m.ExpectedURL = expectedURL
	m.NewURL = newURL
	m.Meta = meta
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if m.Record != nil {
		m.Record.VideoURL = &newURL
		metaCopy := meta
		m.Record.VideoMetadata = &metaCopy
	}
	return nil
}

func (m *TestimonialRepo) ListVideoURLs(ctx context.Context) ([]string, error) {
	m.ListCalled = true
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.URLsOut, nil
}
