package port

import (
	"context"
	"time"

	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
)

// AssetLocker guarantees at most one edit commits per testimonial at a time.
type AssetLocker interface {
	// TryLock returns ok=false without waiting when the asset is already held.
	TryLock(ctx context.Context, id uuid.UUID, ttl time.Duration) (token string, ok bool, err error)
	Unlock(ctx context.Context, id uuid.UUID, token string) error
}
