package video

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/fhuszti/video-studio-ms-go/internal/mock"
	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
)

type editorDeps struct {
	repo    *mock.TestimonialRepo
	locker  *mock.AssetLocker
	engine  *mock.MediaEngine
	fetcher *mock.SourceFetcher
	strg    *mock.Storage
	cache   *mock.Cache
}

func newEditorDeps() *editorDeps {
	return &editorDeps{
		repo:    &mock.TestimonialRepo{Record: newVideoRecord()},
		locker:  &mock.AssetLocker{},
		engine:  newReadyEngine(),
		fetcher: &mock.SourceFetcher{Data: []byte("source-bytes")},
		strg:    &mock.Storage{},
		cache:   &mock.Cache{},
	}
}

func (d *editorDeps) editor() port.VideoEditor {
	return NewVideoEditor(d.repo, d.locker, newTranscoder(d.engine, d.fetcher), newCommitter(d.repo, d.strg, d.cache), time.Minute)
}

func editInput() port.EditVideoInput {
	return port.EditVideoInput{
		RecordID:        testRecordID,
		CurrentVideoURL: oldURL,
		TrimStart:       0.1,
		TrimEnd:         0.9,
		Crop:            "square",
		VolumePercent:   150,
	}
}

func TestEditVideo_Success(t *testing.T) {
	d := newEditorDeps()
	var events []port.ProgressEvent

	out, err := d.editor().EditVideo(context.Background(), editInput(), recordEvents(&events))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.NewVideoURL == "" || out.NewVideoURL == oldURL || !out.OldObjectRemoved {
		t.Errorf("unexpected output %+v", out)
	}
	if d.repo.Record.CurrentVideoURL() != out.NewVideoURL {
		t.Errorf("record points to %q; want %q", d.repo.Record.CurrentVideoURL(), out.NewVideoURL)
	}
	if !d.locker.TryLockCalled || !d.locker.UnlockCalled || d.locker.Held {
		t.Errorf("lock not taken and released: %+v", d.locker)
	}
	if d.locker.TTL != time.Minute {
		t.Errorf("lock TTL = %v; want 1m", d.locker.TTL)
	}

	if len(events) != 7 {
		t.Fatalf("expected 7 progress events, got %d: %+v", len(events), events)
	}
	last := -1
	for _, ev := range events {
		if ev.Percent <= last {
			t.Errorf("progress went from %d to %d", last, ev.Percent)
		}
		last = ev.Percent
	}
	if events[len(events)-1].Percent != 100 {
		t.Errorf("last event = %+v; want 100%%", events[len(events)-1])
	}
}

func TestEditVideo_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(d *editorDeps, in *port.EditVideoInput)
		wantErr  error
		wantLock bool
	}{
		{
			name: "no changes",
			mutate: func(d *editorDeps, in *port.EditVideoInput) {
				in.TrimStart, in.TrimEnd, in.Crop, in.VolumePercent = 0, 1, "original", 100
			},
			wantErr: ErrNoChanges,
		},
		{
			name:    "bad crop",
			mutate:  func(d *editorDeps, in *port.EditVideoInput) { in.Crop = "circle" },
			wantErr: ErrInvalidParameter,
		},
		{
			name:    "record missing",
			mutate:  func(d *editorDeps, in *port.EditVideoInput) { d.repo.GetErr = sql.ErrNoRows },
			wantErr: ErrRecordNotFound,
		},
		{
			name: "text testimonial",
			mutate: func(d *editorDeps, in *port.EditVideoInput) {
				d.repo.Record.Type = model.TestimonialTypeText
			},
			wantErr: ErrNotVideo,
		},
		{
			name:    "video replaced since the edit started",
			mutate:  func(d *editorDeps, in *port.EditVideoInput) { in.CurrentVideoURL = "https://cdn.example.com/videos/previous.mp4" },
			wantErr: ErrVideoChanged,
		},
		{
			name:     "another edit holds the lock",
			mutate:   func(d *editorDeps, in *port.EditVideoInput) { d.locker.Held = true },
			wantErr:  ErrCommitInProgress,
			wantLock: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := newEditorDeps()
			in := editInput()
			tc.mutate(d, &in)

			_, err := d.editor().EditVideo(context.Background(), in, nil)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if d.locker.TryLockCalled != tc.wantLock {
				t.Errorf("TryLockCalled = %v; want %v", d.locker.TryLockCalled, tc.wantLock)
			}
			if d.locker.UnlockCalled {
				t.Error("a lock that was not acquired must not be released")
			}
			if d.engine.AcquireCalled || d.strg.SaveCalled {
				t.Error("pipeline should not start")
			}
		})
	}
}

func TestEditVideo_LockErrorAndReleaseOnFailure(t *testing.T) {
	d := newEditorDeps()
	d.locker.TryLockErr = errors.New("redis down")
	if _, err := d.editor().EditVideo(context.Background(), editInput(), nil); err == nil || errors.Is(err, ErrCommitInProgress) {
		t.Fatalf("expected lock backend error, got %v", err)
	}

	d = newEditorDeps()
	d.strg.SaveErr = ErrInternal
	_, err := d.editor().EditVideo(context.Background(), editInput(), nil)
	if !errors.Is(err, ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}
	if !d.locker.UnlockCalled || d.locker.Token != "token-1" {
		t.Errorf("lock must be released with its token after a failure, got %+v", d.locker)
	}
	if d.repo.Record.CurrentVideoURL() != oldURL {
		t.Error("record changed after a failed upload")
	}
}

func TestEditVideo_EmptyCurrentURLUsesStoredOne(t *testing.T) {
	d := newEditorDeps()
	in := editInput()
	in.CurrentVideoURL = ""

	if _, err := d.editor().EditVideo(context.Background(), in, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.fetcher.URL != oldURL || d.repo.ExpectedURL != oldURL {
		t.Errorf("fetched %q, expected %q; want the stored URL %q", d.fetcher.URL, d.repo.ExpectedURL, oldURL)
	}
}
