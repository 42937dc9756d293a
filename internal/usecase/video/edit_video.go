package video

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/video-studio-ms-go/internal/logger"
	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
)

type videoEditorSrv struct {
	repo       port.TestimonialRepository
	locker     port.AssetLocker
	transcoder *Transcoder
	committer  *Committer
	lockTTL    time.Duration
}

var _ port.VideoEditor = (*videoEditorSrv)(nil)

func NewVideoEditor(repo port.TestimonialRepository, locker port.AssetLocker, transcoder *Transcoder, committer *Committer, lockTTL time.Duration) port.VideoEditor {
	return &videoEditorSrv{repo: repo, locker: locker, transcoder: transcoder, committer: committer, lockTTL: lockTTL}
}

// SessionFromParams rebuilds an EditSession from serialised parameters.
// An empty crop means the original frame.
func SessionFromParams(trimStart, trimEnd float64, crop string, volumePercent float64) (*EditSession, error) {
	s := NewEditSession()
	if err := s.SetTrim(trimStart, trimEnd); err != nil {
		return nil, err
	}
	if crop == "" {
		crop = string(CropOriginal)
	}
	if err := s.SetCrop(crop); err != nil {
		return nil, err
	}
	if err := s.SetVolume(volumePercent); err != nil {
		return nil, err
	}
	return s, nil
}

// EditVideo transcodes the current video of a testimonial and commits the
// result, holding the asset lock for the whole run.
func (s *videoEditorSrv) EditVideo(ctx context.Context, in port.EditVideoInput, onProgress port.ProgressFunc) (port.EditVideoOutput, error) {
	session, err := SessionFromParams(in.TrimStart, in.TrimEnd, in.Crop, in.VolumePercent)
	if err != nil {
		return port.EditVideoOutput{}, err
	}
	if !session.Dirty() {
		return port.EditVideoOutput{}, ErrNoChanges
	}

	rec, current, err := loadVideoRecord(ctx, s.repo, in)
	if err != nil {
		return port.EditVideoOutput{}, err
	}

	token, ok, err := s.locker.TryLock(ctx, rec.ID, s.lockTTL)
	if err != nil {
		return port.EditVideoOutput{}, fmt.Errorf("acquire lock on testimonial #%s: %w", rec.ID, err)
	}
	if !ok {
		return port.EditVideoOutput{}, ErrCommitInProgress
	}
	defer func() {
		if err := s.locker.Unlock(context.WithoutCancel(ctx), rec.ID, token); err != nil {
			logger.Warnf(ctx, "⚠️  could not release lock on testimonial #%s: %v", rec.ID, err)
		}
	}()

	tracker := NewTracker(onProgress)
	encoded, err := s.transcoder.Run(ctx, TranscodeInput{SourceURL: current, Session: session}, tracker)
	if err != nil {
		return port.EditVideoOutput{}, err
	}

	out, err := s.committer.Commit(ctx, CommitInput{
		RecordID:         rec.ID,
		SpaceID:          rec.SpaceID,
		ExpectedVideoURL: current,
		Output:           encoded,
	}, tracker)
	if err != nil {
		return port.EditVideoOutput{}, err
	}
	return port.EditVideoOutput{NewVideoURL: out.NewVideoURL, OldObjectRemoved: out.OldObjectRemoved}, nil
}

// loadVideoRecord returns the record and the video URL the edit applies to.
// A caller-supplied URL that is no longer current means someone else
// committed in between.
func loadVideoRecord(ctx context.Context, repo port.TestimonialRepository, in port.EditVideoInput) (*model.Testimonial, string, error) {
	rec, err := repo.GetByID(ctx, in.RecordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrRecordNotFound
		}
		return nil, "", err
	}
	current := rec.CurrentVideoURL()
	if rec.Type != model.TestimonialTypeVideo || current == "" {
		return nil, "", ErrNotVideo
	}
	if in.CurrentVideoURL != "" && in.CurrentVideoURL != current {
		return nil, "", fmt.Errorf("%w: %w", ErrRecordUpdate, ErrVideoChanged)
	}
	return rec, current, nil
}
