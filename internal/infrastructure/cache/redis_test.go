package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/cardscout/backend/internal/domain"
)

func TestRedisKey(t *testing.T) {
	tests := []struct {
		store    string
		cardName string
		want     string
	}{
		{"StoreX", "Lightning Bolt", "offers:StoreX:lightning bolt"},
		{"StoreX", "  Lightning   Bolt!  ", "offers:StoreX:lightning bolt"},
		{"TopDeckHero", "Jace, the Mind Sculptor", "offers:TopDeckHero:jace the mind sculptor"},
	}

	for _, tt := range tests {
		if got := redisKey(tt.store, tt.cardName); got != tt.want {
			t.Errorf("redisKey(%q, %q) = %q, want %q", tt.store, tt.cardName, got, tt.want)
		}
	}
}

// setupRedis starts an in-process Redis server and an offer cache on top.
func setupRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	c, err := NewRedis(context.Background(), "redis://"+server.Addr())
	if err != nil {
		t.Fatalf("NewRedis() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, server
}

func TestRedisPutAndGet(t *testing.T) {
	c, _ := setupRedis(t)
	ctx := context.Background()
	offers := testOffers("StoreX")

	if err := c.Put(ctx, "StoreX", "Lightning Bolt", offers, time.Hour); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := c.Get(ctx, "StoreX", "Lightning Bolt")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got) != len(offers) {
		t.Fatalf("Get() returned %d offers, want %d", len(got), len(offers))
	}
	for i := range offers {
		if got[i] != offers[i] {
			t.Errorf("offer %d = %+v, want %+v", i, got[i], offers[i])
		}
	}
}

func TestRedisGetMiss(t *testing.T) {
	c, _ := setupRedis(t)

	_, err := c.Get(context.Background(), "StoreX", "Lightning Bolt")
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestRedisExpiry(t *testing.T) {
	c, server := setupRedis(t)
	ctx := context.Background()

	if err := c.Put(ctx, "StoreX", "bolt", testOffers("StoreX"), time.Minute); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, err := c.Get(ctx, "StoreX", "bolt"); err != nil {
		t.Fatalf("Get() before expiry error = %v", err)
	}

	server.FastForward(2 * time.Minute)

	if _, err := c.Get(ctx, "StoreX", "bolt"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() after expiry error = %v, want ErrCacheMiss", err)
	}
}

func TestRedisCorruptEntryIsDeleted(t *testing.T) {
	c, server := setupRedis(t)
	ctx := context.Background()

	key := redisKey("StoreX", "bolt")
	if err := server.Set(key, "{not json"); err != nil {
		t.Fatalf("seed corrupt entry: %v", err)
	}

	if _, err := c.Get(ctx, "StoreX", "bolt"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Fatalf("Get() of corrupt entry error = %v, want ErrCacheMiss", err)
	}
	if server.Exists(key) {
		t.Error("corrupt entry should be deleted after the failed read")
	}
}

func TestRedisInvalidate(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) *Redis {
		t.Helper()
		c, _ := setupRedis(t)
		for _, store := range []string{"StoreX", "StoreY"} {
			for _, name := range []string{"Lightning Bolt", "Sol Ring"} {
				if err := c.Put(ctx, store, name, testOffers(store), time.Hour); err != nil {
					t.Fatalf("Put() error = %v", err)
				}
			}
		}
		return c
	}

	t.Run("single store", func(t *testing.T) {
		c := seed(t)
		removed, err := c.Invalidate(ctx, "StoreX")
		if err != nil {
			t.Fatalf("Invalidate() error = %v", err)
		}
		if removed != 2 {
			t.Errorf("Invalidate() removed = %d, want 2", removed)
		}
		if _, err := c.Get(ctx, "StoreX", "Lightning Bolt"); !errors.Is(err, domain.ErrCacheMiss) {
			t.Error("StoreX entry survived invalidation")
		}
		if _, err := c.Get(ctx, "StoreY", "Lightning Bolt"); err != nil {
			t.Error("StoreY entry was removed by StoreX invalidation")
		}
	})

	t.Run("everything", func(t *testing.T) {
		c := seed(t)
		removed, err := c.Invalidate(ctx, "")
		if err != nil {
			t.Fatalf("Invalidate() error = %v", err)
		}
		if removed != 4 {
			t.Errorf("Invalidate() removed = %d, want 4", removed)
		}
	})

	t.Run("empty cache", func(t *testing.T) {
		c, _ := setupRedis(t)
		removed, err := c.Invalidate(ctx, "")
		if err != nil {
			t.Fatalf("Invalidate() error = %v", err)
		}
		if removed != 0 {
			t.Errorf("Invalidate() removed = %d, want 0", removed)
		}
	})
}
