package task

import (
	"context"
	"sync"

	"github.com/fhuszti/video-studio-ms-go/internal/logger"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
)

// InlineDispatcher runs tasks in background goroutines of the current
// process. It backs deployments without Redis, where the API owns the engine.
type InlineDispatcher struct {
	runner port.EditJobRunner
	loader port.EngineLoader
	wg     sync.WaitGroup
}

// compile-time check
var _ port.TaskDispatcher = (*InlineDispatcher)(nil)

func NewInlineDispatcher(runner port.EditJobRunner, loader port.EngineLoader) *InlineDispatcher {
	return &InlineDispatcher{runner: runner, loader: loader}
}

// StartInlineDispatcher also starts loading the engine, the way a worker
// does at boot, so the first edit does not find it unloaded.
func StartInlineDispatcher(ctx context.Context, runner port.EditJobRunner, loader port.EngineLoader) *InlineDispatcher {
	d := NewInlineDispatcher(runner, loader)
	_ = d.EnqueueLoadEngine(ctx)
	return d
}

// EnqueueEditVideo returns immediately. The run outlives the request but
// keeps its context values for logging.
func (d *InlineDispatcher) EnqueueEditVideo(ctx context.Context, in port.EditVideoInput) error {
	runCtx := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.runner.RunEditJob(runCtx, in); err != nil {
			logger.Errorf(runCtx, "❌  inline edit job #%s failed: %v", in.JobID, err)
		}
	}()
	return nil
}

func (d *InlineDispatcher) EnqueueLoadEngine(ctx context.Context) error {
	runCtx := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.loader.LoadEngine(runCtx); err != nil {
			logger.Errorf(runCtx, "❌  engine load failed: %v", err)
		}
	}()
	return nil
}

// Wait blocks until every started task has returned.
func (d *InlineDispatcher) Wait() {
	d.wg.Wait()
}
