package mock

import (
	"context"

	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
)

type Renderer struct {
	Body   []byte
	Etag   string
	Err    error
	Called bool
}

var _ port.HTTPRenderer = (*Renderer)(nil)

func (r *Renderer) RenderGetVideo(ctx context.Context, getter port.VideoGetter, id uuid.UUID) ([]byte, string, error) {
	r.Called = true
	if r.Err != nil {
		return nil, "", r.Err
	}
	return r.Body, r.Etag, nil
}
