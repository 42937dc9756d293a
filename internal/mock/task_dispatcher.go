package mock

import (
	"context"

	"github.com/fhuszti/video-studio-ms-go/internal/port"
)

// Dispatcher implements port.TaskDispatcher for tests.
type Dispatcher struct {
	EditErr error
	LoadErr error

	EditCalled bool
	LoadCalled bool
	EditInput  port.EditVideoInput
}

var _ port.TaskDispatcher = (*Dispatcher)(nil)

func (d *Dispatcher) EnqueueEditVideo(ctx context.Context, in port.EditVideoInput) error {
	d.EditCalled = true
	d.EditInput = in
	return d.EditErr
}

func (d *Dispatcher) EnqueueLoadEngine(ctx context.Context) error {
	d.LoadCalled = true
	return d.LoadErr
}
