package video

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
)

// DetailsTTL bounds how long rendered video details may be served from cache.
const DetailsTTL = 5 * time.Minute

type videoGetterSrv struct {
	repo port.TestimonialRepository
	now  func() time.Time
}

var _ port.VideoGetter = (*videoGetterSrv)(nil)

func NewVideoGetter(repo port.TestimonialRepository) port.VideoGetter {
	return &videoGetterSrv{repo: repo, now: time.Now}
}

func (s *videoGetterSrv) GetVideo(ctx context.Context, id uuid.UUID) (*port.GetVideoOutput, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	if rec.Type != model.TestimonialTypeVideo || rec.CurrentVideoURL() == "" {
		return nil, ErrNotVideo
	}
	return &port.GetVideoOutput{
		ID:         rec.ID,
		VideoURL:   rec.CurrentVideoURL(),
		Metadata:   rec.VideoMetadata,
		ValidUntil: s.now().Add(DetailsTTL).UTC(),
	}, nil
}
