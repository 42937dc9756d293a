package mock

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
)

// MediaEngine implements port.MediaEngine with an in-memory workspace.
// ExecFunc, when set, replaces the default Exec which writes ExecOutput to
// the last argument.
type MediaEngine struct {
	mu    sync.Mutex
	files map[string][]byte

	EngineState model.EngineState
	ProbeOut    port.MediaInfo
	ExecOutput  []byte
	ExecFunc    func(ctx context.Context, args ...string) error

	LoadErr    error
	AwaitErr   error
	AcquireErr error
	WriteErr   error
	ReadErr    error
	DeleteErr  error
	ProbeErr   error
	ExecErr    error

	LoadCalls     int
	AwaitCalled   bool
	AcquireCalled bool
	Released      bool
	ExecCalled    bool
	ExecArgs      []string
	Deleted       []string
}

var _ port.MediaEngine = (*MediaEngine)(nil)

func (e *MediaEngine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.LoadCalls++
	if e.LoadErr != nil {
		e.EngineState = model.EngineFailed
		return e.LoadErr
	}
	e.EngineState = model.EngineReady
	return nil
}

func (e *MediaEngine) AwaitLoad(ctx context.Context) error {
	e.AwaitCalled = true
	return e.AwaitErr
}

func (e *MediaEngine) State() model.EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.EngineState == "" {
		return model.EngineUnloaded
	}
	return e.EngineState
}

func (e *MediaEngine) Err() error {
	return e.LoadErr
}

func (e *MediaEngine) Acquire(ctx context.Context) (func(), error) {
	e.AcquireCalled = true
	if e.AcquireErr != nil {
		return nil, e.AcquireErr
	}
	return func() { e.Released = true }, nil
}

func (e *MediaEngine) WriteFile(name string, data []byte) error {
	if e.WriteErr != nil {
		return e.WriteErr
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.files == nil {
		e.files = map[string][]byte{}
	}
	e.files[name] = append([]byte(nil), data...)
	return nil
}

func (e *MediaEngine) ReadFile(name string) ([]byte, error) {
	if e.ReadErr != nil {
		return nil, e.ReadErr
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	data, ok := e.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (e *MediaEngine) DeleteFile(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Deleted = append(e.Deleted, name)
	delete(e.files, name)
	return e.DeleteErr
}

func (e *MediaEngine) FileExists(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.files[name]
	return ok
}

func (e *MediaEngine) Exec(ctx context.Context, args ...string) error {
	e.ExecCalled = true
	e.ExecArgs = args
	if e.ExecFunc != nil {
		return e.ExecFunc(ctx, args...)
	}
	if e.ExecErr != nil {
		return e.ExecErr
	}
	if len(args) == 0 {
		return errors.New("mock: no arguments")
	}
	return e.WriteFile(args[len(args)-1], e.ExecOutput)
}

func (e *MediaEngine) Probe(ctx context.Context, name string) (port.MediaInfo, error) {
	if e.ProbeErr != nil {
		return port.MediaInfo{}, e.ProbeErr
	}
	return e.ProbeOut, nil
}

// SourceFetcher implements port.SourceFetcher for tests.
type SourceFetcher struct {
	Data []byte
	Err  error

	Called bool
	URL    string
}

var _ port.SourceFetcher = (*SourceFetcher)(nil)

func (f *SourceFetcher) FetchSource(ctx context.Context, url string) ([]byte, error) {
	f.Called = true
	f.URL = url
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Data, nil
}
