package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/video-studio-ms-go/internal/logger"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
}

// compile-time check: *Cache must satisfy port.Cache
var _ port.Cache = (*Cache)(nil)

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// GetVideoDetails returns nil, nil on a cache miss.
func (c *Cache) GetVideoDetails(ctx context.Context, id uuid.UUID) ([]byte, error) {
	logger.Debugf(ctx, "getting entry in cache for testimonial #%s...", id)

	val, err := c.client.Get(ctx, getCacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

func (c *Cache) GetEtagVideoDetails(ctx context.Context, id uuid.UUID) (string, error) {
	val, err := c.client.Get(ctx, getEtagKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

// SetVideoDetails is best effort: a failed write only costs a cache miss.
func (c *Cache) SetVideoDetails(ctx context.Context, id uuid.UUID, data []byte, ttl time.Duration) {
	logger.Debugf(ctx, "creating entry in cache for testimonial #%s, valid for %s...", id, ttl)

	if err := c.client.Set(ctx, getCacheKey(id), data, ttl).Err(); err != nil {
		logger.Warnf(ctx, "⚠️  redis set failed for testimonial #%s: %v", id, err)
	}
}

func (c *Cache) SetEtagVideoDetails(ctx context.Context, id uuid.UUID, etag string, ttl time.Duration) {
	if err := c.client.Set(ctx, getEtagKey(id), etag, ttl).Err(); err != nil {
		logger.Warnf(ctx, "⚠️  redis set etag failed for testimonial #%s: %v", id, err)
	}
}

func (c *Cache) DeleteVideoDetails(ctx context.Context, id uuid.UUID) error {
	logger.Debugf(ctx, "deleting entry in cache for testimonial #%s...", id)

	if err := c.client.Del(ctx, getCacheKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func (c *Cache) DeleteEtagVideoDetails(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, getEtagKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func getCacheKey(id uuid.UUID) string {
	return "video:" + id.String()
}

func getEtagKey(id uuid.UUID) string {
	return "video:" + id.String() + ":etag"
}
