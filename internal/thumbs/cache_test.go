package thumbs

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestCache(t *testing.T) (*miniredis.Miniredis, *Cache) {
	t.Helper()
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(s.Close)
	return s, &Cache{Client: redis.NewClient(&redis.Options{Addr: s.Addr()})}
}

func TestCacheRoundTrip(t *testing.T) {
	_, c := setupTestCache(t)
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "u1", "a1"); err != nil || hit {
		t.Fatalf("expected miss, got hit=%v err=%v", hit, err)
	}

	if err := c.Set(ctx, "u1", "a1", "data:image/png;base64,xx"); err != nil {
		t.Fatalf("set: %v", err)
	}

	url, hit, err := c.Get(ctx, "u1", "a1")
	if err != nil || !hit {
		t.Fatalf("expected hit, got hit=%v err=%v", hit, err)
	}
	if url != "data:image/png;base64,xx" {
		t.Fatalf("unexpected cached url %q", url)
	}

	// Other users don't see it.
	if _, hit, _ := c.Get(ctx, "u2", "a1"); hit {
		t.Fatal("cache leaked across users")
	}
}

func TestCachePurge(t *testing.T) {
	_, c := setupTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "u1", "a1", "url"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Purge(ctx, "u1"); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "u1", "a1"); hit {
		t.Fatal("expected purge to drop cached thumbnails")
	}
}
