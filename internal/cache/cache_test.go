package cache

import (
	"context"
	"testing"
	"time"
)

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := New[string, int](0)
	defer c.Close()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set(ctx, "gas", 30, 12*time.Second)

	if v, ok := c.Get(ctx, "gas"); !ok || v != 30 {
		t.Fatalf("Get() = %d, %v, want 30, true", v, ok)
	}

	now = now.Add(12 * time.Second)
	if _, ok := c.Get(ctx, "gas"); ok {
		t.Errorf("entry should be expired at its deadline")
	}

	c.evictExpired()
	if c.Len() != 0 {
		t.Errorf("Len() = %d after eviction, want 0", c.Len())
	}
}

func TestCacheDelete(t *testing.T) {
	ctx := context.Background()
	c := New[string, string](time.Minute)
	defer c.Close()

	c.Set(ctx, "k", "v", time.Hour)
	c.Delete(ctx, "k")
	if _, ok := c.Get(ctx, "k"); ok {
		t.Errorf("deleted key still present")
	}
	c.Close()
	c.Close()
}
