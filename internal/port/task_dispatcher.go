package port

import "context"

// TaskDispatcher hands edit runs and engine loads over to whoever owns the
// media engine.
type TaskDispatcher interface {
	EnqueueEditVideo(ctx context.Context, in EditVideoInput) error
	EnqueueLoadEngine(ctx context.Context) error
}
