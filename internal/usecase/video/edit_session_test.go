package video

import (
	"errors"
	"math"
	"testing"
)

func TestEditSession_DefaultsAndDirty(t *testing.T) {
	s := NewEditSession()
	if s.TrimStart() != 0 || s.TrimEnd() != 1 {
		t.Fatalf("trim = [%v, %v]; want [0, 1]", s.TrimStart(), s.TrimEnd())
	}
	if s.Crop() != CropOriginal {
		t.Errorf("crop = %q; want %q", s.Crop(), CropOriginal)
	}
	if s.VolumePercent() != 100 || s.VolumeMultiplier() != 1 {
		t.Errorf("volume = %v (x%v); want 100 (x1)", s.VolumePercent(), s.VolumeMultiplier())
	}
	if s.Dirty() {
		t.Fatal("fresh session should not be dirty")
	}

	if err := s.SetVolume(150); err != nil {
		t.Fatalf("SetVolume: %v", err)
	}
	if !s.Dirty() {
		t.Fatal("session should be dirty after a volume change")
	}
	if err := s.SetVolume(100); err != nil {
		t.Fatalf("SetVolume: %v", err)
	}
	if s.Dirty() {
		t.Fatal("session should be clean once parameters are back to their start values")
	}

	_ = s.SetCrop("square")
	_ = s.SetTrim(0.2, 0.4)
	s.Reset()
	if s.Dirty() || s.Crop() != CropOriginal || s.TrimStart() != 0 || s.TrimEnd() != 1 {
		t.Fatalf("Reset did not restore initial parameters: %+v", s.current)
	}
}

func TestEditSession_SetTrim(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
		wantStart  float64
		wantEnd    float64
		wantErr    bool
	}{
		{"regular window", 0.25, 0.75, 0.25, 0.75, false},
		{"clamped below zero", -0.5, 0.5, 0, 0.5, false},
		{"clamped above one", 0.5, 1.7, 0.5, 1, false},
		{"minimum gap", 0.3, 0.31, 0.3, 0.31, false},
		{"gap too small", 0.3, 0.305, 0, 1, true},
		{"inverted", 0.8, 0.2, 0, 1, true},
		{"both clamped to one", 1.2, 1.5, 0, 1, true},
		{"nan", math.NaN(), 0.5, 0, 1, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewEditSession()
			err := s.SetTrim(tc.start, tc.end)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidParameter) {
					t.Fatalf("expected ErrInvalidParameter, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.TrimStart() != tc.wantStart || s.TrimEnd() != tc.wantEnd {
				t.Errorf("trim = [%v, %v]; want [%v, %v]", s.TrimStart(), s.TrimEnd(), tc.wantStart, tc.wantEnd)
			}
		})
	}
}

func TestEditSession_SetCropAndVolume(t *testing.T) {
	s := NewEditSession()
	for _, id := range []string{"original", "square", "portrait", "landscape", "classic"} {
		if err := s.SetCrop(id); err != nil {
			t.Errorf("SetCrop(%q): %v", id, err)
		}
	}
	if err := s.SetCrop("panorama"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("SetCrop(panorama) = %v; want ErrInvalidParameter", err)
	}
	if s.Crop() != CropClassic {
		t.Errorf("rejected crop changed the session: %q", s.Crop())
	}

	for _, v := range []float64{0, 1, 100, 200} {
		if err := s.SetVolume(v); err != nil {
			t.Errorf("SetVolume(%v): %v", v, err)
		}
	}
	for _, v := range []float64{-1, 200.5, math.NaN()} {
		if err := s.SetVolume(v); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("SetVolume(%v) = %v; want ErrInvalidParameter", v, err)
		}
	}
}

func TestToTranscodeArgs_DurationFormula(t *testing.T) {
	tests := []struct {
		start, end, dur float64
	}{
		{0, 1, 20},
		{0.1, 0.9, 20},
		{0.25, 0.75, 20},
		{0.33, 0.66, 7.5},
		{0, 0.01, 3600},
		{0.5, 0.52, 61.237},
	}
	for _, tc := range tests {
		s := NewEditSession()
		if err := s.SetTrim(tc.start, tc.end); err != nil {
			t.Fatalf("SetTrim(%v, %v): %v", tc.start, tc.end, err)
		}
		src := MediaDimensions{DurationSeconds: tc.dur, Width: 1920, Height: 1080}
		a, err := s.ToTranscodeArgs(src)
		if err != nil {
			t.Fatalf("ToTranscodeArgs: %v", err)
		}
		want := (tc.end - tc.start) * tc.dur
		if math.Abs(a.DurationSeconds-want) > 1e-9 {
			t.Errorf("duration for [%v, %v] of %vs = %v; want %v", tc.start, tc.end, tc.dur, a.DurationSeconds, want)
		}
		if math.Abs(a.StartSeconds-tc.start*tc.dur) > 1e-9 {
			t.Errorf("start = %v; want %v", a.StartSeconds, tc.start*tc.dur)
		}

		again, _ := s.ToTranscodeArgs(src)
		if again != a {
			t.Errorf("ToTranscodeArgs is not deterministic: %+v vs %+v", a, again)
		}
	}
}

func TestToTranscodeArgs_TrimSquareLouder(t *testing.T) {
	s, err := SessionFromParams(0.1, 0.9, "square", 150)
	if err != nil {
		t.Fatalf("SessionFromParams: %v", err)
	}
	a, err := s.ToTranscodeArgs(MediaDimensions{DurationSeconds: 20, Width: 1920, Height: 1080})
	if err != nil {
		t.Fatalf("ToTranscodeArgs: %v", err)
	}
	if math.Abs(a.DurationSeconds-16) > 1e-9 {
		t.Errorf("duration = %v; want 16", a.DurationSeconds)
	}
	if math.Abs(a.StartSeconds-2) > 1e-9 {
		t.Errorf("start = %v; want 2", a.StartSeconds)
	}
	if a.CropFilter != "crop=1080:1080" {
		t.Errorf("crop filter = %q; want %q", a.CropFilter, "crop=1080:1080")
	}
	if a.VolumeFilter != "volume=1.5" {
		t.Errorf("volume filter = %q; want %q", a.VolumeFilter, "volume=1.5")
	}
}

func TestToTranscodeArgs_Errors(t *testing.T) {
	s := NewEditSession()
	_ = s.SetTrim(0.5, 0.51)

	if _, err := s.ToTranscodeArgs(MediaDimensions{DurationSeconds: 5}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("0.05s output: got %v; want ErrInvalidParameter", err)
	}
	for _, d := range []float64{0, -3, math.NaN(), math.Inf(1)} {
		if _, err := NewEditSession().ToTranscodeArgs(MediaDimensions{DurationSeconds: d}); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("duration %v: got %v; want ErrInvalidParameter", d, err)
		}
	}
}

func TestCropFilter(t *testing.T) {
	tests := []struct {
		name          string
		crop          CropSpec
		width, height int
		want          string
	}{
		{"original keeps frame", CropOriginal, 1920, 1080, ""},
		{"square on landscape", CropSquare, 1920, 1080, "crop=1080:1080"},
		{"square on portrait fits width", CropSquare, 1080, 1920, "crop=1080:1080"},
		{"portrait on landscape", CropPortrait, 1920, 1080, "crop=606:1080"},
		{"portrait on portrait", CropPortrait, 1080, 1920, "crop=1080:1920"},
		{"landscape on landscape", CropLandscape, 1920, 1080, "crop=1920:1080"},
		{"landscape on portrait fits width", CropLandscape, 1080, 1920, "crop=1080:606"},
		{"classic on landscape", CropClassic, 1920, 1080, "crop=1440:1080"},
		{"classic on odd height", CropClassic, 1280, 721, "crop=960:720"},
		{"unknown dimensions", CropSquare, 0, 0, "crop=ih*1:ih"},
		{"unknown dimensions portrait", CropPortrait, 0, 720, "crop=ih*0.5625:ih"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := cropFilter(tc.crop, tc.width, tc.height); got != tc.want {
				t.Errorf("cropFilter(%s, %d, %d) = %q; want %q", tc.crop, tc.width, tc.height, got, tc.want)
			}
		})
	}
}

func TestCropFilter_PortraitWidthFollowsRatio(t *testing.T) {
	for _, h := range []int{360, 720, 1080, 2160} {
		got := cropFilter(CropPortrait, 3840, h)
		w := even(float64(h) * 9 / 16)
		want := "crop=" + formatNumber(float64(w)) + ":" + formatNumber(float64(h))
		if got != want {
			t.Errorf("height %d: %q; want %q", h, got, want)
		}
	}
}

func TestEven(t *testing.T) {
	tests := map[float64]int{0: 2, 1: 2, 3: 2, 607.5: 606, 1080: 1080, 1081: 1080}
	for in, want := range tests {
		if got := even(in); got != want {
			t.Errorf("even(%v) = %d; want %d", in, got, want)
		}
	}
}

func TestSessionFromParams(t *testing.T) {
	s, err := SessionFromParams(0, 1, "", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Crop() != CropOriginal || s.Dirty() {
		t.Errorf("empty crop should mean an unchanged original frame, got %q dirty=%v", s.Crop(), s.Dirty())
	}
	if _, err := SessionFromParams(0, 1, "wide", 100); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("unknown crop: got %v; want ErrInvalidParameter", err)
	}
	if _, err := SessionFromParams(0.4, 0.4, "", 100); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("empty window: got %v; want ErrInvalidParameter", err)
	}
}
