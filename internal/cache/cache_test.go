package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
	"github.com/redis/go-redis/v9"
)

func makeTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	// spin up in-memory Redis
	mr := miniredis.RunT(t)
	// point the real client at it
	rdb := redis.NewClient(&redis.Options{
		Addr:     mr.Addr(),
		Password: "",
		DB:       0,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCache(rdb), mr
}

func TestGetSetDeleteVideoDetails(t *testing.T) {
	c, mr := makeTestCache(t)
	ctx := context.Background()
	id := uuid.NewUUID()

	// 1) cache miss
	got, err := c.GetVideoDetails(ctx, id)
	if err != nil {
		t.Fatalf("GetVideoDetails miss: %v", err)
	}
	if got != nil {
		t.Errorf("GetVideoDetails miss: got %q; want nil", got)
	}

	// 2) set then hit
	data := []byte(`{"video_url":"https://cdn/videos/a.mp4"}`)
	c.SetVideoDetails(ctx, id, data, 2*time.Minute)
	got, err = c.GetVideoDetails(ctx, id)
	if err != nil {
		t.Fatalf("GetVideoDetails hit: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("GetVideoDetails hit: got %q; want %q", got, data)
	}
	if ttl := mr.TTL("video:" + id.String()); ttl != 2*time.Minute {
		t.Errorf("TTL = %v; want 2m", ttl)
	}

	// 3) expiry
	mr.FastForward(3 * time.Minute)
	if got, _ := c.GetVideoDetails(ctx, id); got != nil {
		t.Errorf("entry should have expired, got %q", got)
	}

	// 4) delete
	c.SetVideoDetails(ctx, id, data, time.Minute)
	if err := c.DeleteVideoDetails(ctx, id); err != nil {
		t.Fatalf("DeleteVideoDetails: %v", err)
	}
	if mr.Exists("video:" + id.String()) {
		t.Error("entry still present after delete")
	}
}

func TestGetSetDeleteEtag(t *testing.T) {
	c, mr := makeTestCache(t)
	ctx := context.Background()
	id := uuid.NewUUID()

	if etag, err := c.GetEtagVideoDetails(ctx, id); err != nil || etag != "" {
		t.Fatalf("miss: got %q, %v", etag, err)
	}

	c.SetEtagVideoDetails(ctx, id, `"0badf00d"`, time.Minute)
	etag, err := c.GetEtagVideoDetails(ctx, id)
	if err != nil || etag != `"0badf00d"` {
		t.Fatalf("hit: got %q, %v", etag, err)
	}
	if !strings.HasSuffix(mr.Keys()[0], ":etag") {
		t.Errorf("unexpected key %v", mr.Keys())
	}

	if err := c.DeleteEtagVideoDetails(ctx, id); err != nil {
		t.Fatalf("DeleteEtagVideoDetails: %v", err)
	}
	if len(mr.Keys()) != 0 {
		t.Errorf("keys left: %v", mr.Keys())
	}
}

func TestCache_RedisDown(t *testing.T) {
	c, mr := makeTestCache(t)
	ctx := context.Background()
	id := uuid.NewUUID()
	mr.Close()

	if _, err := c.GetVideoDetails(ctx, id); err == nil {
		t.Error("expected get error")
	}
	if err := c.DeleteVideoDetails(ctx, id); err == nil {
		t.Error("expected delete error")
	}
	// best effort, must not panic
	c.SetVideoDetails(ctx, id, []byte("x"), time.Minute)
}

func TestNoopCache(t *testing.T) {
	n := NewNoop()
	ctx := context.Background()
	id := uuid.NewUUID()
	n.SetVideoDetails(ctx, id, []byte("x"), time.Minute)
	if got, err := n.GetVideoDetails(ctx, id); got != nil || err != nil {
		t.Errorf("noop get = %q, %v", got, err)
	}
	if err := n.DeleteVideoDetails(ctx, id); err != nil {
		t.Errorf("noop delete = %v", err)
	}
}
