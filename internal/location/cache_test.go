package location

import (
	"context"
	"testing"
	"time"

	"weather-dashboard/internal/config"
	"weather-dashboard/internal/types"
)

func TestCacheKey(t *testing.T) {
	if cacheKey("London", 5) != cacheKey("london", 5) {
		t.Error("cache key should be case-insensitive")
	}
	if cacheKey("London", 5) == cacheKey("London", 6) {
		t.Error("cache key should include the limit")
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	cache := NewMemoryCache(time.Minute)
	cache.now = func() time.Time { return now }

	want := []Suggestion{{
		LocationInfo: types.LocationInfo{Name: "Aspen", State: "Colorado", Country: "US"},
		Coords:       types.NewCoords(39.19, -106.82),
	}}

	if _, ok, _ := cache.Get(ctx, "k"); ok {
		t.Fatal("expected miss on empty cache")
	}
	if err := cache.Set(ctx, "k", want); err != nil {
		t.Fatalf("Set() unexpected error = %v", err)
	}

	got, ok, err := cache.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v, %v, want hit", got, ok, err)
	}
	if len(got) != 1 || got[0] != want[0] {
		t.Errorf("Get() = %v, want %v", got, want)
	}

	// Callers cannot mutate the stored entry.
	got[0].Name = "changed"
	again, _, _ := cache.Get(ctx, "k")
	if again[0].Name != "Aspen" {
		t.Errorf("stored entry was mutated: %v", again)
	}

	now = now.Add(time.Minute)
	if _, ok, _ := cache.Get(ctx, "k"); ok {
		t.Error("expected miss after TTL")
	}
	if len(cache.entries) != 0 {
		t.Errorf("entries = %d, want expired entry removed", len(cache.entries))
	}
}

func TestMemoryCache_SweepsOnSet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	cache := NewMemoryCache(time.Second)
	cache.now = func() time.Time { return now }

	_ = cache.Set(ctx, "a", nil)
	now = now.Add(2 * time.Second)
	_ = cache.Set(ctx, "b", nil)

	if _, ok := cache.entries["a"]; ok {
		t.Error("expired entry a should be swept")
	}
	if _, ok := cache.entries["b"]; !ok {
		t.Error("entry b should be present")
	}
}

func TestNoopCache(t *testing.T) {
	var cache NoopCache
	if err := cache.Set(context.Background(), "k", []Suggestion{{}}); err != nil {
		t.Fatalf("Set() unexpected error = %v", err)
	}
	if _, ok, _ := cache.Get(context.Background(), "k"); ok {
		t.Error("NoopCache should never hit")
	}
}

func TestNewSuggestionCache(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		wantErr bool
		check   func(SuggestionCache) bool
	}{
		{name: "default", driver: "", check: func(c SuggestionCache) bool { _, ok := c.(*MemoryCache); return ok }},
		{name: "memory", driver: "Memory", check: func(c SuggestionCache) bool { _, ok := c.(*MemoryCache); return ok }},
		{name: "none", driver: "none", check: func(c SuggestionCache) bool { _, ok := c.(NoopCache); return ok }},
		{name: "unknown", driver: "memcached", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache, err := NewSuggestionCache(context.Background(), config.CacheConfig{Driver: tt.driver}, discardLogger())
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewSuggestionCache() unexpected error = %v", err)
			}
			if !tt.check(cache) {
				t.Errorf("NewSuggestionCache() = %T", cache)
			}
		})
	}
}
