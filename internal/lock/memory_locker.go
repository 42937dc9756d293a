package lock

import (
	"context"
	"sync"
	"time"

	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
)

type heldLock struct {
	token   string
	expires time.Time
}

// MemoryLocker is the single-process variant of RedisLocker.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[uuid.UUID]heldLock
	now  func() time.Time
}

// compile-time check: *MemoryLocker must satisfy port.AssetLocker
var _ port.AssetLocker = (*MemoryLocker)(nil)

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[uuid.UUID]heldLock), now: time.Now}
}

func (l *MemoryLocker) TryLock(ctx context.Context, id uuid.UUID, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if h, ok := l.held[id]; ok && now.Before(h.expires) {
		return "", false, nil
	}
	token := uuid.NewUUID().String()
	l.held[id] = heldLock{token: token, expires: now.Add(ttl)}
	return token, true, nil
}

func (l *MemoryLocker) Unlock(ctx context.Context, id uuid.UUID, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if h, ok := l.held[id]; ok && h.token == token {
		delete(l.held, id)
	}
	return nil
}
