package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"weather-dashboard/internal/config"
)

const (
	DefaultCacheTTL = time.Minute
	cacheKeyPrefix  = "weather:geocode:"
)

// SuggestionCache stores search results keyed by normalized query and limit.
// A miss is (nil, false, nil).
type SuggestionCache interface {
	Get(ctx context.Context, key string) ([]Suggestion, bool, error)
	Set(ctx context.Context, key string, suggestions []Suggestion) error
}

func cacheKey(query string, limit int) string {
	return cacheKeyPrefix + strings.ToLower(query) + ":" + strconv.Itoa(limit)
}

// NewSuggestionCache builds the cache selected by cfg.Driver. The redis
// driver pings the server once so a bad address fails at startup.
func NewSuggestionCache(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (SuggestionCache, error) {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	switch strings.ToLower(cfg.Driver) {
	case "", "memory":
		return NewMemoryCache(ttl), nil
	case "none":
		return NoopCache{}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}

		logger.Info("redis suggestion cache initialized", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
		return NewRedisCache(client, ttl), nil
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", cfg.Driver)
	}
}

// NoopCache never stores anything.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) ([]Suggestion, bool, error) { return nil, false, nil }
func (NoopCache) Set(context.Context, string, []Suggestion) error         { return nil }

type memoryEntry struct {
	suggestions []Suggestion
	expiresAt   time.Time
}

// MemoryCache is a process-local TTL cache. Expired entries are dropped
// lazily on read and swept on write.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]Suggestion, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return cloneSuggestions(entry.suggestions), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, suggestions []Suggestion) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = memoryEntry{
		suggestions: cloneSuggestions(suggestions),
		expiresAt:   now.Add(c.ttl),
	}
	return nil
}

func cloneSuggestions(s []Suggestion) []Suggestion {
	out := make([]Suggestion, len(s))
	copy(out, s)
	return out
}

// RedisCache stores suggestions as JSON with a TTL.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]Suggestion, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cache key: %w", err)
	}

	var suggestions []Suggestion
	if err := json.Unmarshal(data, &suggestions); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached suggestions: %w", err)
	}
	return suggestions, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, suggestions []Suggestion) error {
	data, err := json.Marshal(suggestions)
	if err != nil {
		return fmt.Errorf("failed to encode suggestions: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key: %w", err)
	}
	return nil
}

// Close releases the redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
