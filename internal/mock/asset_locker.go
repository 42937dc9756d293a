package mock

import (
	"context"
	"time"

	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
)

// AssetLocker implements port.AssetLocker for tests.
type AssetLocker struct {
	Held bool

	TryLockErr error
	UnlockErr  error

	TryLockCalled bool
	UnlockCalled  bool
	TTL           time.Duration
	Token         string
}

var _ port.AssetLocker = (*AssetLocker)(nil)

func (l *AssetLocker) TryLock(ctx context.Context, id uuid.UUID, ttl time.Duration) (string, bool, error) {
	l.TryLockCalled = true
	l.TTL = ttl
	if l.TryLockErr != nil {
		return "", false, l.TryLockErr
	}
	if l.Held {
		return "", false, nil
	}
	l.Held = true
	return "token-1", true, nil
}

func (l *AssetLocker) Unlock(ctx context.Context, id uuid.UUID, token string) error {
	l.UnlockCalled = true
	l.Token = token
	l.Held = false
	return l.UnlockErr
}
