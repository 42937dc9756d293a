package engine

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/fhuszti/video-studio-ms-go/internal/logger"
	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/usecase/video"
)

// Config locates the engine binaries. Dir is a local, versioned directory
// shipped with the service; nothing is resolved from PATH.
type Config struct {
	Dir      string
	WorkRoot string
	Runner   Runner
}

// Engine owns the encoder binaries and a private workspace directory.
// One Engine is shared by every edit run of the process.
type Engine struct {
	dir      string
	workRoot string
	runner   Runner

	mu      sync.Mutex
	state   model.EngineState
	err     error
	loading chan struct{}
	loads   int

	ffmpeg  string
	ffprobe string
	workDir string

	// single-slot semaphore guarding the workspace
	slot chan struct{}
}

var _ port.MediaEngine = (*Engine)(nil)

func New(cfg Config) *Engine {
	r := cfg.Runner
	if r == nil {
		r = NewExecRunner()
	}
	return &Engine{
		dir:      cfg.Dir,
		workRoot: cfg.WorkRoot,
		runner:   r,
		state:    model.EngineUnloaded,
		slot:     make(chan struct{}, 1),
	}
}

// Load brings the engine to the ready state. It is idempotent: a ready
// engine returns at once and callers arriving during a load wait for that
// load instead of starting another. A failed load stays failed until Load
// is called again.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	switch e.state {
	case model.EngineReady:
		e.mu.Unlock()
		return nil
	case model.EngineLoading:
		wait := e.loading
		e.mu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.state == model.EngineReady {
			return nil
		}
		return e.err
	}

	e.state = model.EngineLoading
	e.err = nil
	e.loads++
	done := make(chan struct{})
	e.loading = done
	e.mu.Unlock()

	logger.Infof(ctx, "loading media engine from %q...", e.dir)
	ffmpeg, ffprobe, workDir, err := e.initialise(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	defer close(done)

	if err != nil {
		e.state = model.EngineFailed
		e.err = fmt.Errorf("%w: %v", video.ErrEngineLoad, err)
		logger.Errorf(ctx, "❌  Media engine failed to load: %v", err)
		return e.err
	}
	e.ffmpeg, e.ffprobe, e.workDir = ffmpeg, ffprobe, workDir
	e.state = model.EngineReady
	logger.Info(ctx, "✅  Media engine ready")
	return nil
}

// AwaitLoad returns nil once the engine is ready. It waits for a load in
// progress but never starts one, so failed loads stay failed until someone
// calls Load again.
func (e *Engine) AwaitLoad(ctx context.Context) error {
	e.mu.Lock()
	state, wait, lastErr := e.state, e.loading, e.err
	e.mu.Unlock()

	switch state {
	case model.EngineReady:
		return nil
	case model.EngineLoading:
		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
		return e.AwaitLoad(ctx)
	case model.EngineFailed:
		return fmt.Errorf("%w: %v", video.ErrEngineNotReady, lastErr)
	default:
		return video.ErrEngineNotReady
	}
}

func (e *Engine) initialise(ctx context.Context) (ffmpeg, ffprobe, workDir string, err error) {
	if e.dir == "" {
		return "", "", "", errors.New("engine directory is not configured")
	}
	if ffmpeg, err = e.resolve(ctx, "ffmpeg"); err != nil {
		return "", "", "", err
	}
	if ffprobe, err = e.resolve(ctx, "ffprobe"); err != nil {
		return "", "", "", err
	}
	if e.workRoot != "" {
		if err := os.MkdirAll(e.workRoot, 0o755); err != nil {
			return "", "", "", fmt.Errorf("create work root: %w", err)
		}
	}
	workDir, err = os.MkdirTemp(e.workRoot, "engine-*")
	if err != nil {
		return "", "", "", fmt.Errorf("create workspace: %w", err)
	}
	return ffmpeg, ffprobe, workDir, nil
}

// resolve checks that a binary exists in the engine directory and answers
// -version.
func (e *Engine) resolve(ctx context.Context, name string) (string, error) {
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	bin, err := filepath.Abs(filepath.Join(e.dir, name))
	if err != nil {
		return "", err
	}
	info, err := os.Stat(bin)
	if err != nil {
		return "", fmt.Errorf("locate %s: %w", name, err)
	}
	if info.IsDir() || (runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0) {
		return "", fmt.Errorf("%s is not an executable file", bin)
	}

	out, err := e.runner.Run(ctx, e.dir, bin, "-version")
	if err != nil {
		return "", fmt.Errorf("probe %s version: %w", name, err)
	}
	if line := firstLine(out); line != "" {
		logger.Debugf(ctx, "found %s", line)
	}
	return bin, nil
}

func (e *Engine) State() model.EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Ready() bool {
	return e.State() == model.EngineReady
}

// Err returns the error of the last failed load.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Acquire waits for exclusive use of the workspace. The fixed input and
// output names make concurrent runs unsafe.
func (e *Engine) Acquire(ctx context.Context) (func(), error) {
	select {
	case e.slot <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	var once sync.Once
	return func() { once.Do(func() { <-e.slot }) }, nil
}

// Close removes the workspace and returns the engine to the unloaded state.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == model.EngineLoading {
		return errors.New("engine is loading")
	}
	var err error
	if e.workDir != "" {
		err = os.RemoveAll(e.workDir)
	}
	e.workDir, e.ffmpeg, e.ffprobe = "", "", ""
	e.state = model.EngineUnloaded
	e.err = nil
	return err
}

func firstLine(b []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(b))
	if sc.Scan() {
		return sc.Text()
	}
	return ""
}
