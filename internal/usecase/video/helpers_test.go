package video

import (
	"context"
	"time"

	"github.com/fhuszti/video-studio-ms-go/internal/mock"
	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
	msuuid "github.com/fhuszti/video-studio-ms-go/internal/uuid"
	"github.com/google/uuid"
)

const (
	testBucket = "videos"
	oldKey     = "testimonials/11111111-2222-3333-4444-555555555555/old.mp4"
	oldURL     = "https://cdn.example.com/videos/" + oldKey
)

var (
	testRecordID = msuuid.UUID(uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"))
	testSpaceID  = msuuid.UUID(uuid.MustParse("11111111-2222-3333-4444-555555555555"))
	fixedNow     = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
)

func newVideoRecord() *model.Testimonial {
	u := oldURL
	return &model.Testimonial{
		ID:       testRecordID,
		SpaceID:  testSpaceID,
		Type:     model.TestimonialTypeVideo,
		VideoURL: &u,
	}
}

func newReadyEngine() *mock.MediaEngine {
	return &mock.MediaEngine{
		EngineState: model.EngineReady,
		ProbeOut:    port.MediaInfo{DurationSeconds: 20, Width: 1920, Height: 1080},
		ExecOutput:  []byte("encoded"),
	}
}

func newTranscoder(engine *mock.MediaEngine, fetcher *mock.SourceFetcher) *Transcoder {
	tc := NewTranscoder(engine, fetcher, time.Minute)
	tc.now = func() time.Time { return fixedNow }
	return tc
}

func newCommitter(repo *mock.TestimonialRepo, strg *mock.Storage, cache *mock.Cache) *Committer {
	c := NewCommitter(repo, strg, cache, testBucket)
	c.now = func() time.Time { return fixedNow }
	return c
}

func recordEvents(events *[]port.ProgressEvent) port.ProgressFunc {
	return func(_ context.Context, ev port.ProgressEvent) { *events = append(*events, ev) }
}
