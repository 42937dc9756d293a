package mock

import (
	"context"
	"time"

	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
)

// Cache implements port.Cache for tests.
type Cache struct {
	Data []byte
	Etag string

	GetErr     error
	GetEtagErr error
	DelErr     error
	DelEtagErr error

	GetCalled     bool
	SetCalled     bool
	SetEtagCalled bool
	DelCalled     bool
	DelEtagCalled bool

	TTL time.Duration
}

var _ port.Cache = (*Cache)(nil)

func (c *Cache) GetVideoDetails(ctx context.Context, id uuid.UUID) ([]byte, error) {
	c.GetCalled = true
	return c.Data, c.GetErr
}

func (c *Cache) GetEtagVideoDetails(ctx context.Context, id uuid.UUID) (string, error) {
	return c.Etag, c.GetEtagErr
}

func (c *Cache) SetVideoDetails(ctx context.Context, id uuid.UUID, data []byte, ttl time.Duration) {
	c.SetCalled = true
	c.Data = data
	c.TTL = ttl
}

func (c *Cache) SetEtagVideoDetails(ctx context.Context, id uuid.UUID, etag string, ttl time.Duration) {
	c.SetEtagCalled = true
	c.Etag = etag
}

func (c *Cache) DeleteVideoDetails(ctx context.Context, id uuid.UUID) error {
	c.DelCalled = true
	return c.DelErr
}

func (c *Cache) DeleteEtagVideoDetails(ctx context.Context, id uuid.UUID) error {
	c.DelEtagCalled = true
	return c.DelEtagErr
}
