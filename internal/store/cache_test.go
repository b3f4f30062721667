package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// memCache is an in-memory CountCache that ignores ttl.
type memCache struct {
	values map[string]int
	getErr error
	setErr error
	sets   int
}

func newMemCache() *memCache { return &memCache{values: map[string]int{}} }

func (m *memCache) Get(ctx context.Context, key string) (int, bool, error) {
	if m.getErr != nil {
		return 0, false, m.getErr
	}
	n, ok := m.values[key]
	return n, ok, nil
}

func (m *memCache) Set(ctx context.Context, key string, n int, ttl time.Duration) error {
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = n
	return nil
}

// countingCounter counts calls to Count.
type countingCounter struct {
	Static
	calls int
	err   error
}

func (c *countingCounter) Count(ctx context.Context) (int, error) {
	c.calls++
	if c.err != nil {
		return 0, c.err
	}
	return c.Static.Count(ctx)
}

func TestCached_Count(t *testing.T) {
	ctx := context.Background()
	inner := &countingCounter{Static: Static{Total: 42}}
	cache := newMemCache()
	c := NewCached(inner, cache, CountKey("items"), time.Minute)

	for i := 0; i < 3; i++ {
		n, err := c.Count(ctx)
		if err != nil {
			t.Fatalf("Count: %v", err)
		}
		if n != 42 {
			t.Errorf("Count = %d, want 42", n)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner Count called %d times, want 1", inner.calls)
	}
	if cache.values["pager:count:items"] != 42 {
		t.Errorf("cache = %v", cache.values)
	}
}

func TestCached_ItemsBypassCache(t *testing.T) {
	c := NewCached(Static{Total: 5}, newMemCache(), "k", time.Minute)
	items, err := c.Items(context.Background(), 3, 10)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 2 || items[0] != "Item 4" {
		t.Errorf("Items = %v", items)
	}
}

func TestCached_CacheErrorsFallThrough(t *testing.T) {
	ctx := context.Background()
	inner := &countingCounter{Static: Static{Total: 7}}
	cache := newMemCache()
	cache.getErr = errors.New("get failed")
	cache.setErr = errors.New("set failed")
	c := NewCached(inner, cache, "k", time.Minute)

	for i := 0; i < 2; i++ {
		n, err := c.Count(ctx)
		if err != nil || n != 7 {
			t.Fatalf("Count = %d, %v; want 7, nil", n, err)
		}
	}
	if inner.calls != 2 {
		t.Errorf("inner Count called %d times, want 2", inner.calls)
	}
}

func TestCached_CounterError(t *testing.T) {
	inner := &countingCounter{err: errors.New("db down")}
	cache := newMemCache()
	c := NewCached(inner, cache, "k", time.Minute)

	if _, err := c.Count(context.Background()); err == nil {
		t.Fatal("expected error from the wrapped counter")
	}
	if cache.sets != 0 {
		t.Error("failed counts should not be cached")
	}
}

func TestOpenRedis_InvalidURL(t *testing.T) {
	if _, err := OpenRedis(context.Background(), "http://not-redis"); err == nil {
		t.Error("expected error for a non-redis URL")
	}
}

func TestRedisCache(t *testing.T) {
	rawURL := os.Getenv("PAGER_TEST_REDIS_URL")
	if rawURL == "" {
		t.Skip("PAGER_TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	cache, err := OpenRedis(ctx, rawURL)
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	t.Cleanup(func() { cache.Close() })

	key := CountKey(t.Name())
	t.Cleanup(func() { _ = cache.Delete(context.Background(), key) })

	if _, ok, err := cache.Get(ctx, key); err != nil || ok {
		t.Fatalf("Get before Set = %v, %v; want miss", ok, err)
	}
	if err := cache.Set(ctx, key, 1234, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	n, ok, err := cache.Get(ctx, key)
	if err != nil || !ok || n != 1234 {
		t.Errorf("Get = %d, %v, %v; want 1234, true, nil", n, ok, err)
	}
}
