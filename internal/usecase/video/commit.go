package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/video-studio-ms-go/internal/logger"
	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
)

// KeyPrefix is the namespace of every committed testimonial video.
const KeyPrefix = "testimonials/"

type CommitInput struct {
	RecordID uuid.UUID
	SpaceID  uuid.UUID
	// ExpectedVideoURL is the reference the edit started from.
	ExpectedVideoURL string
	Output           *EncodedOutput
}

type CommitOutput struct {
	NewVideoURL      string
	OldObjectRemoved bool
}

// Committer publishes an encoded output: upload, record swap, then removal
// of the superseded object.
type Committer struct {
	repo   port.TestimonialRepository
	strg   port.Storage
	cache  port.Cache
	bucket string
	now    func() time.Time
}

func NewCommitter(repo port.TestimonialRepository, strg port.Storage, cache port.Cache, bucket string) *Committer {
	return &Committer{repo: repo, strg: strg, cache: cache, bucket: bucket, now: time.Now}
}

// ObjectKey builds the storage key of a new rendition. The timestamp makes
// every commit write a key that did not exist before.
func ObjectKey(spaceID, recordID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("%s%s/%s_%d.mp4", KeyPrefix, spaceID, recordID, at.UnixMilli())
}

// Commit runs the steps strictly in order. A failed upload changes nothing;
// a failed record update leaves the record untouched and the new object
// orphaned; a failed removal of the old object is only reported.
func (c *Committer) Commit(ctx context.Context, in CommitInput, tr *Tracker) (CommitOutput, error) {
	if in.Output == nil || len(in.Output.Data) == 0 {
		return CommitOutput{}, stageErr(StageUploading, ErrUpload, errors.New("nothing to upload"))
	}

	tr.advance(ctx, StageUploading)
	key := ObjectKey(in.SpaceID, in.RecordID, c.now())
	exists, err := c.strg.FileExists(ctx, c.bucket, key)
	if err != nil {
		return CommitOutput{}, stageErr(StageUploading, ErrUpload, err)
	}
	if exists {
		return CommitOutput{}, stageErr(StageUploading, ErrUpload, fmt.Errorf("%w: %s", ErrObjectExists, key))
	}

	contentType := in.Output.ContentType
	if contentType == "" {
		contentType = OutputContentType
	}
	if err := c.strg.SaveFile(ctx, c.bucket, key, bytes.NewReader(in.Output.Data), int64(len(in.Output.Data)), map[string]string{
		"Content-Type": contentType,
	}); err != nil {
		return CommitOutput{}, stageErr(StageUploading, ErrUpload, err)
	}
	newURL := c.strg.PublicURL(c.bucket, key)

	tr.advance(ctx, StageUpdatingRecord)
	meta := model.VideoMetadata{
		DurationSeconds: in.Output.ResultDurationSeconds,
		AspectRatio:     string(in.Output.Crop),
		EditedAt:        in.Output.EditedAt,
		OriginalURL:     in.Output.OriginalSourceURL,
	}
	if err := c.repo.UpdateVideo(ctx, in.RecordID, in.ExpectedVideoURL, newURL, meta); err != nil {
		logger.Warnf(ctx, "⚠️  object %q is orphaned after failed update of testimonial #%s", key, in.RecordID)
		return CommitOutput{}, stageErr(StageUpdatingRecord, ErrRecordUpdate, err)
	}

	tr.advance(ctx, StageCleaningUp)
	removed := c.removePrevious(ctx, in.ExpectedVideoURL, key)
	c.invalidate(ctx, in.RecordID)

	tr.advance(ctx, StageComplete)
	logger.Infof(ctx, "✅  Testimonial #%s now points to %q", in.RecordID, newURL)
	return CommitOutput{NewVideoURL: newURL, OldObjectRemoved: removed}, nil
}

// removePrevious deletes the superseded object. Failures only produce a
// cleanup warning.
func (c *Committer) removePrevious(ctx context.Context, oldURL, newKey string) bool {
	if oldURL == "" {
		return false
	}
	oldKey, err := c.strg.ObjectKeyFromURL(c.bucket, oldURL)
	if err != nil {
		logger.Warnf(ctx, "⚠️  cleanup skipped, %q is not an object of bucket %q: %v", oldURL, c.bucket, err)
		return false
	}
	if oldKey == newKey {
		return false
	}
	if err := c.strg.RemoveFile(ctx, c.bucket, oldKey); err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return true
		}
		logger.Warnf(ctx, "⚠️  could not remove previous video %q: %v", oldKey, err)
		return false
	}
	return true
}

func (c *Committer) invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.cache.DeleteVideoDetails(ctx, id); err != nil {
		logger.Warnf(ctx, "⚠️  failed deleting cache for testimonial #%s: %v", id, err)
	}
	if err := c.cache.DeleteEtagVideoDetails(ctx, id); err != nil {
		logger.Warnf(ctx, "⚠️  failed deleting cache etag for testimonial #%s: %v", id, err)
	}
}
