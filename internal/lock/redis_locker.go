package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
	"github.com/redis/go-redis/v9"
)

// release deletes the key only while it still holds the caller's token, so
// a run whose lock expired cannot free somebody else's.
var release = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is an expiring per-testimonial lock shared by every process.
type RedisLocker struct {
	client *redis.Client
	prefix string
}

// compile-time check: *RedisLocker must satisfy port.AssetLocker
var _ port.AssetLocker = (*RedisLocker)(nil)

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client, prefix: "studio:lock"}
}

func (l *RedisLocker) key(id uuid.UUID) string { return fmt.Sprintf("%s:%s", l.prefix, id) }

func (l *RedisLocker) TryLock(ctx context.Context, id uuid.UUID, ttl time.Duration) (string, bool, error) {
	token := uuid.NewUUID().String()
	ok, err := l.client.SetNX(ctx, l.key(id), token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("redis setnx failed: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (l *RedisLocker) Unlock(ctx context.Context, id uuid.UUID, token string) error {
	if err := release.Run(ctx, l.client, []string{l.key(id)}, token).Err(); err != nil {
		return fmt.Errorf("redis release failed: %w", err)
	}
	return nil
}
