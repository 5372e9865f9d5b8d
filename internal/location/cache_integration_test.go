//go:build integration

package location

import (
	"context"
	"os"
	"testing"
	"time"

	"weather-dashboard/internal/config"
	"weather-dashboard/internal/types"
)

func TestRedisCache_Integration(t *testing.T) {
	addr := os.Getenv("WEATHER_CACHE_REDIS_ADDR")
	if addr == "" {
		t.Skip("WEATHER_CACHE_REDIS_ADDR not set")
	}

	ctx := context.Background()
	cache, err := NewSuggestionCache(ctx, config.CacheConfig{
		Driver: "redis",
		TTL:    5 * time.Second,
		Redis:  config.RedisConfig{Addr: addr},
	}, discardLogger())
	if err != nil {
		t.Fatalf("Failed to create redis cache: %v", err)
	}
	rc := cache.(*RedisCache)
	t.Cleanup(func() { _ = rc.Close() })

	key := cacheKey("integration-test-"+time.Now().Format(time.RFC3339Nano), 5)
	want := []Suggestion{{
		LocationInfo: types.LocationInfo{Name: "Aspen", State: "Colorado", Country: "US"},
		Coords:       types.NewCoords(39.19, -106.82),
	}}

	if _, ok, err := cache.Get(ctx, key); err != nil || ok {
		t.Fatalf("Get() before Set = %v, %v", ok, err)
	}
	if err := cache.Set(ctx, key, want); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok, err := cache.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if len(got) != 1 || got[0] != want[0] {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
	t.Logf("✓ round trip through redis at %s", addr)
}
