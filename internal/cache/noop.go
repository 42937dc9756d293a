package cache

import (
	"context"
	"time"

	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
)

type NoopCache struct{}

// compile-time check: *NoopCache must satisfy port.Cache
var _ port.Cache = (*NoopCache)(nil)

func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) GetVideoDetails(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return nil, nil // always cache miss
}

func (n *NoopCache) GetEtagVideoDetails(ctx context.Context, id uuid.UUID) (string, error) {
	return "", nil
}

func (n *NoopCache) SetVideoDetails(ctx context.Context, id uuid.UUID, data []byte, ttl time.Duration) {
}

func (n *NoopCache) SetEtagVideoDetails(ctx context.Context, id uuid.UUID, etag string, ttl time.Duration) {
}

func (n *NoopCache) DeleteVideoDetails(ctx context.Context, id uuid.UUID) error { return nil }

func (n *NoopCache) DeleteEtagVideoDetails(ctx context.Context, id uuid.UUID) error {
	return nil
}
