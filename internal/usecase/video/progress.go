package video

import (
	"context"
	"fmt"
	"sync"

	"github.com/fhuszti/video-studio-ms-go/internal/logger"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
)

// Stage is a checkpoint of the edit pipeline. Stages only move forward.
type Stage int

const (
	StageIdle Stage = iota
	StageDownloading
	StageProcessing
	StageReadingOutput
	StageUploading
	StageUpdatingRecord
	StageCleaningUp
	StageComplete
)

type stageInfo struct {
	name    string
	label   string
	percent int
}

var stages = [...]stageInfo{
	StageIdle:           {"idle", "", 0},
	StageDownloading:    {"downloading", "Downloading video...", 5},
	StageProcessing:     {"processing", "Processing video...", 20},
	StageReadingOutput:  {"reading_output", "Preparing upload...", 60},
	StageUploading:      {"uploading", "Uploading to cloud...", 70},
	StageUpdatingRecord: {"updating_record", "Updating database...", 85},
	StageCleaningUp:     {"cleaning_up", "Cleaning up...", 95},
	StageComplete:       {"complete", "Complete!", 100},
}

func (s Stage) valid() bool { return s >= StageIdle && s <= StageComplete }

func (s Stage) String() string {
	if !s.valid() {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stages[s].name
}

func (s Stage) Label() string {
	if !s.valid() {
		return ""
	}
	return stages[s].label
}

func (s Stage) Percent() int {
	if !s.valid() {
		return 0
	}
	return stages[s].percent
}

// Tracker enforces forward-only stage transitions and forwards each
// checkpoint to an optional listener.
type Tracker struct {
	mu       sync.Mutex
	current  Stage
	listener port.ProgressFunc
}

func NewTracker(listener port.ProgressFunc) *Tracker {
	return &Tracker{current: StageIdle, listener: listener}
}

func (t *Tracker) Current() Stage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Advance moves to next. Moving backwards or staying put is an error; the
// percentage therefore never decreases.
func (t *Tracker) Advance(ctx context.Context, next Stage) error {
	t.mu.Lock()
	if !next.valid() || next <= t.current {
		cur := t.current
		t.mu.Unlock()
		return fmt.Errorf("invalid progress transition %s -> %s", cur, next)
	}
	t.current = next
	listener := t.listener
	t.mu.Unlock()

	if listener != nil {
		listener(ctx, port.ProgressEvent{Stage: next.String(), Label: next.Label(), Percent: next.Percent()})
	}
	return nil
}

// advance is Advance for call sites whose ordering is fixed by the code.
func (t *Tracker) advance(ctx context.Context, next Stage) {
	if t == nil {
		return
	}
	if err := t.Advance(ctx, next); err != nil {
		logger.Warnf(ctx, "⚠️  progress checkpoint skipped: %v", err)
	}
}
