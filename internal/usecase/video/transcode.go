package video

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/fhuszti/video-studio-ms-go/internal/logger"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
)

// Fixed workspace names. The engine serialises runs, so they never clash.
const (
	InputFile  = "input.mp4"
	OutputFile = "output.mp4"

	OutputContentType = "video/mp4"
)

// Encoder settings of the published rendition.
var encoderArgs = []string{
	"-c:v", "libx264", "-preset", "fast", "-crf", "23",
	"-c:a", "aac", "-b:a", "128k",
	"-movflags", "+faststart",
}

type TranscodeInput struct {
	SourceURL string
	Session   *EditSession
}

// EncodedOutput is the transient result of a successful run.
type EncodedOutput struct {
	Data                  []byte
	ContentType           string
	ResultDurationSeconds float64
	Crop                  CropSpec
	EditedAt              time.Time
	OriginalSourceURL     string
}

// Transcoder downloads a source, applies an EditSession through the media
// engine and returns the encoded bytes.
type Transcoder struct {
	engine  port.MediaEngine
	fetcher port.SourceFetcher
	timeout time.Duration
	now     func() time.Time
}

func NewTranscoder(engine port.MediaEngine, fetcher port.SourceFetcher, timeout time.Duration) *Transcoder {
	return &Transcoder{engine: engine, fetcher: fetcher, timeout: timeout, now: time.Now}
}

// Run executes one transcode. The workspace input and output files are
// removed on every exit path.
func (t *Transcoder) Run(ctx context.Context, in TranscodeInput, tr *Tracker) (*EncodedOutput, error) {
	if in.Session == nil {
		return nil, fmt.Errorf("%w: missing edit session", ErrInvalidParameter)
	}
	if err := t.engine.AwaitLoad(ctx); err != nil {
		return nil, stageErr(StageIdle, ErrEngineNotReady, err)
	}

	release, err := t.engine.Acquire(ctx)
	if err != nil {
		return nil, stageErr(StageIdle, ErrTranscodeExecution, err)
	}
	defer release()
	defer t.cleanup(ctx)

	tr.advance(ctx, StageDownloading)
	data, err := t.fetcher.FetchSource(ctx, in.SourceURL)
	if err != nil {
		return nil, stageErr(StageDownloading, ErrSourceFetch, err)
	}
	if err := t.engine.WriteFile(InputFile, data); err != nil {
		return nil, stageErr(StageDownloading, ErrTranscodeExecution, fmt.Errorf("write input: %w", err))
	}

	tr.advance(ctx, StageProcessing)
	info, err := t.engine.Probe(ctx, InputFile)
	if err != nil {
		return nil, stageErr(StageProcessing, ErrTranscodeExecution, fmt.Errorf("probe input: %w", err))
	}
	args, err := in.Session.ToTranscodeArgs(MediaDimensions{
		DurationSeconds: info.DurationSeconds,
		Width:           info.Width,
		Height:          info.Height,
	})
	if err != nil {
		return nil, stageErr(StageProcessing, ErrInvalidParameter, err)
	}

	execCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	logger.Infof(ctx, "transcoding %.2fs from %.2fs (crop %q, %s)...", args.DurationSeconds, args.StartSeconds, in.Session.Crop(), args.VolumeFilter)
	if err := t.engine.Exec(execCtx, args.EngineArgs(InputFile, OutputFile)...); err != nil {
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", t.timeout, err)
		}
		return nil, stageErr(StageProcessing, ErrTranscodeExecution, err)
	}

	tr.advance(ctx, StageReadingOutput)
	out, err := t.engine.ReadFile(OutputFile)
	if err != nil {
		return nil, stageErr(StageReadingOutput, ErrTranscodeExecution, fmt.Errorf("read output: %w", err))
	}
	if len(out) == 0 {
		return nil, stageErr(StageReadingOutput, ErrTranscodeExecution, errors.New("encoder produced an empty file"))
	}

	return &EncodedOutput{
		Data:                  out,
		ContentType:           OutputContentType,
		ResultDurationSeconds: args.DurationSeconds,
		Crop:                  in.Session.Crop(),
		EditedAt:              t.now().UTC(),
		OriginalSourceURL:     in.SourceURL,
	}, nil
}

func (t *Transcoder) cleanup(ctx context.Context) {
	for _, name := range []string{InputFile, OutputFile} {
		if err := t.engine.DeleteFile(name); err != nil {
			logger.Warnf(ctx, "⚠️  could not delete workspace file %q: %v", name, err)
		}
	}
}

// EngineArgs renders the encoder command line. Seeking after the input keeps
// the cut frame accurate.
func (a TranscodeArgs) EngineArgs(input, output string) []string {
	args := []string{
		"-i", input,
		"-ss", formatSeconds(a.StartSeconds),
		"-t", formatSeconds(a.DurationSeconds),
	}
	if a.CropFilter != "" {
		args = append(args, "-vf", a.CropFilter)
	}
	if a.VolumeFilter != "" {
		args = append(args, "-af", a.VolumeFilter)
	}
	args = append(args, encoderArgs...)
	return append(args, output)
}

// formatSeconds keeps millisecond precision.
func formatSeconds(s float64) string {
	return strconv.FormatFloat(math.Round(s*1000)/1000, 'f', -1, 64)
}
