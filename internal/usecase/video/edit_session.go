package video

import (
	"fmt"
	"math"
	"strconv"
)

// CropSpec is one of the preset aspect ratios offered to the editor.
type CropSpec string

const (
	CropOriginal  CropSpec = "original"
	CropSquare    CropSpec = "square"
	CropPortrait  CropSpec = "portrait"
	CropLandscape CropSpec = "landscape"
	CropClassic   CropSpec = "classic"
)

// ratio is width divided by height; 0 means keep the source frame.
var cropRatios = map[CropSpec]float64{
	CropOriginal:  0,
	CropSquare:    1,
	CropPortrait:  9.0 / 16.0,
	CropLandscape: 16.0 / 9.0,
	CropClassic:   4.0 / 3.0,
}

// ParseCropSpec validates a preset identifier.
func ParseCropSpec(s string) (CropSpec, error) {
	c := CropSpec(s)
	if _, ok := cropRatios[c]; !ok {
		return "", fmt.Errorf("%w: unknown crop %q", ErrInvalidParameter, s)
	}
	return c, nil
}

func (c CropSpec) Ratio() float64 { return cropRatios[c] }

const (
	// MinTrimFraction is the smallest selectable window, one slider step.
	MinTrimFraction = 0.01
	// MinOutputSeconds rejects windows too short to encode anything useful.
	MinOutputSeconds = 0.1

	MaxVolumePercent = 200
	defaultVolume    = 100
)

type editParams struct {
	trimStart     float64
	trimEnd       float64
	crop          CropSpec
	volumePercent float64
}

// EditSession holds the parameters of one transient edit.
type EditSession struct {
	initial editParams
	current editParams
}

// NewEditSession starts a session with the identity edit.
func NewEditSession() *EditSession {
	p := editParams{trimStart: 0, trimEnd: 1, crop: CropOriginal, volumePercent: defaultVolume}
	return &EditSession{initial: p, current: p}
}

func (s *EditSession) TrimStart() float64     { return s.current.trimStart }
func (s *EditSession) TrimEnd() float64       { return s.current.trimEnd }
func (s *EditSession) Crop() CropSpec         { return s.current.crop }
func (s *EditSession) VolumePercent() float64 { return s.current.volumePercent }

// VolumeMultiplier is the linear gain applied to the audio track.
func (s *EditSession) VolumeMultiplier() float64 { return s.current.volumePercent / 100 }

// SetTrim clamps both ends to [0,1]. A window narrower than MinTrimFraction
// (including inverted ones) is rejected and leaves the session untouched.
func (s *EditSession) SetTrim(start, end float64) error {
	if math.IsNaN(start) || math.IsNaN(end) {
		return fmt.Errorf("%w: trim is not a number", ErrInvalidParameter)
	}
	start = clamp(start, 0, 1)
	end = clamp(end, 0, 1)
	if end-start < MinTrimFraction-1e-9 {
		return fmt.Errorf("%w: trim window [%.3f, %.3f] is shorter than %.2f", ErrInvalidParameter, start, end, MinTrimFraction)
	}
	s.current.trimStart = start
	s.current.trimEnd = end
	return nil
}

func (s *EditSession) SetCrop(id string) error {
	c, err := ParseCropSpec(id)
	if err != nil {
		return err
	}
	s.current.crop = c
	return nil
}

func (s *EditSession) SetVolume(percent float64) error {
	if math.IsNaN(percent) || percent < 0 || percent > MaxVolumePercent {
		return fmt.Errorf("%w: volume %v outside [0, %d]", ErrInvalidParameter, percent, MaxVolumePercent)
	}
	s.current.volumePercent = percent
	return nil
}

// Dirty reports whether any parameter differs from the session start.
func (s *EditSession) Dirty() bool {
	return s.current != s.initial
}

// Reset restores the initial parameters.
func (s *EditSession) Reset() {
	s.current = s.initial
}

// TranscodeArgs is the engine-facing translation of an EditSession.
type TranscodeArgs struct {
	StartSeconds    float64
	DurationSeconds float64
	// CropFilter is empty when the frame is kept as is.
	CropFilter   string
	VolumeFilter string
}

// ToTranscodeArgs maps the session onto a source of the given dimensions.
// It has no side effects.
func (s *EditSession) ToTranscodeArgs(src MediaDimensions) (TranscodeArgs, error) {
	if src.DurationSeconds <= 0 || math.IsNaN(src.DurationSeconds) || math.IsInf(src.DurationSeconds, 0) {
		return TranscodeArgs{}, fmt.Errorf("%w: source duration %v is unknown", ErrInvalidParameter, src.DurationSeconds)
	}

	p := s.current
	start := p.trimStart * src.DurationSeconds
	dur := (p.trimEnd - p.trimStart) * src.DurationSeconds
	if dur < MinOutputSeconds {
		return TranscodeArgs{}, fmt.Errorf("%w: output would last %.3fs", ErrInvalidParameter, dur)
	}

	return TranscodeArgs{
		StartSeconds:    start,
		DurationSeconds: dur,
		CropFilter:      cropFilter(p.crop, src.Width, src.Height),
		VolumeFilter:    "volume=" + formatNumber(p.volumePercent/100),
	}, nil
}

// MediaDimensions is the subset of probe output the parameter model needs.
type MediaDimensions struct {
	DurationSeconds float64
	Width           int
	Height          int
}

// cropFilter keeps the full height and takes a centred window of
// height*ratio pixels. When that window would be wider than the frame it
// keeps the full width instead. Unknown dimensions fall back to the
// expression form evaluated by the encoder.
func cropFilter(c CropSpec, width, height int) string {
	ratio := c.Ratio()
	if ratio == 0 {
		return ""
	}
	if width <= 0 || height <= 0 {
		return "crop=ih*" + formatNumber(ratio) + ":ih"
	}

	w, h := even(float64(height)*ratio), even(float64(height))
	if c == CropSquare {
		w = h
	}
	if w > width {
		w = even(float64(width))
		h = even(float64(width) / ratio)
		if c == CropSquare {
			h = w
		}
	}
	return fmt.Sprintf("crop=%d:%d", w, h)
}

// even rounds down to the nearest even pixel count, as required by yuv420p.
// The epsilon absorbs float error in products like 1080*16/9.
func even(v float64) int {
	n := int(math.Floor(v + 1e-6))
	if n%2 != 0 {
		n--
	}
	if n < 2 {
		n = 2
	}
	return n
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
