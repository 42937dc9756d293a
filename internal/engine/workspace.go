package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/usecase/video"
)

// workspacePath resolves a bare file name inside the workspace.
func (e *Engine) workspacePath(name string) (string, error) {
	e.mu.Lock()
	dir, ready := e.workDir, e.state == model.EngineReady
	e.mu.Unlock()
	if !ready || dir == "" {
		return "", video.ErrEngineNotReady
	}
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid workspace file name %q", name)
	}
	return filepath.Join(dir, name), nil
}

func (e *Engine) WriteFile(name string, data []byte) error {
	p, err := e.workspacePath(name)
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o600)
}

func (e *Engine) ReadFile(name string) ([]byte, error) {
	p, err := e.workspacePath(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

// DeleteFile is a no-op for files that do not exist.
func (e *Engine) DeleteFile(name string) error {
	p, err := e.workspacePath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (e *Engine) FileExists(name string) bool {
	p, err := e.workspacePath(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// Exec runs the encoder in the workspace. File arguments are workspace names.
func (e *Engine) Exec(ctx context.Context, args ...string) error {
	e.mu.Lock()
	dir, bin, ready := e.workDir, e.ffmpeg, e.state == model.EngineReady
	e.mu.Unlock()
	if !ready {
		return video.ErrEngineNotReady
	}

	full := append([]string{"-hide_banner", "-nostdin", "-loglevel", "error", "-y"}, args...)
	_, err := e.runner.Run(ctx, dir, bin, full...)
	return err
}

type probeOutput struct {
	Streams []struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe reads duration and frame size of a workspace file.
func (e *Engine) Probe(ctx context.Context, name string) (port.MediaInfo, error) {
	if _, err := e.workspacePath(name); err != nil {
		return port.MediaInfo{}, err
	}
	e.mu.Lock()
	dir, bin := e.workDir, e.ffprobe
	e.mu.Unlock()

	out, err := e.runner.Run(ctx, dir, bin,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height:format=duration",
		"-of", "json",
		name,
	)
	if err != nil {
		return port.MediaInfo{}, err
	}
	return parseProbe(out)
}

func parseProbe(raw []byte) (port.MediaInfo, error) {
	var p probeOutput
	if err := json.Unmarshal(raw, &p); err != nil {
		return port.MediaInfo{}, fmt.Errorf("decode probe output: %w", err)
	}

	var info port.MediaInfo
	if p.Format.Duration != "" && p.Format.Duration != "N/A" {
		d, err := strconv.ParseFloat(p.Format.Duration, 64)
		if err != nil {
			return port.MediaInfo{}, fmt.Errorf("parse duration %q: %w", p.Format.Duration, err)
		}
		info.DurationSeconds = d
	}
	if len(p.Streams) > 0 {
		info.Width = p.Streams[0].Width
		info.Height = p.Streams[0].Height
	}
	return info, nil
}
