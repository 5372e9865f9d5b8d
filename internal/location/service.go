package location

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"weather-dashboard/internal/config"
	"weather-dashboard/internal/providers/openweather"
	"weather-dashboard/internal/types"
)

const (
	DefaultMinQueryLength = 2
	DefaultLimit          = 5
	DefaultMaxLimit       = 10
)

// Service resolves free-text place names to suggestions for autocomplete
type Service interface {
	// SearchLocations returns at most limit places matching query. Queries
	// shorter than the minimum length yield an empty result without an
	// upstream call.
	SearchLocations(ctx context.Context, query string, limit int) ([]Suggestion, error)
}

// GeocodeProvider defines the interface for forward geocoding providers
type GeocodeProvider interface {
	Geocode(ctx context.Context, query string, limit int) ([]openweather.GeocodeResult, error)
}

// Suggestion is a place with guaranteed coordinates.
type Suggestion struct {
	types.LocationInfo
	types.Coords
}

type locationService struct {
	geocodeProvider GeocodeProvider
	cache           SuggestionCache
	cfg             config.SearchConfig
	logger          *slog.Logger
}

// NewLocationService creates a location service backed by the OpenWeather geocoding API
func NewLocationService(client *openweather.Client, cache SuggestionCache, cfg config.SearchConfig, logger *slog.Logger) Service {
	return NewLocationServiceWithProvider(client, cache, cfg, logger)
}

// NewLocationServiceWithProvider creates a location service with a custom provider.
// A nil cache disables caching; zero search settings fall back to defaults.
func NewLocationServiceWithProvider(
	geocodeProvider GeocodeProvider,
	cache SuggestionCache,
	cfg config.SearchConfig,
	logger *slog.Logger,
) Service {
	if cache == nil {
		cache = NoopCache{}
	}
	if cfg.MinQueryLength <= 0 {
		cfg.MinQueryLength = DefaultMinQueryLength
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = DefaultMaxLimit
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultLimit
	}
	cfg.DefaultLimit = min(cfg.DefaultLimit, cfg.MaxLimit)

	return &locationService{
		geocodeProvider: geocodeProvider,
		cache:           cache,
		cfg:             cfg,
		logger:          logger.With("component", "location-service"),
	}
}

func (s *locationService) SearchLocations(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < s.cfg.MinQueryLength {
		return []Suggestion{}, nil
	}
	limit = s.clampLimit(limit)

	key := cacheKey(query, limit)
	if cached, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("suggestion cache read failed", "key", key, "error", err)
	} else if ok {
		s.logger.Debug("suggestion cache hit", "key", key)
		return cached, nil
	}

	results, err := s.geocodeProvider.Geocode(ctx, query, limit)
	if err != nil {
		s.logger.Error("failed to search locations", "query", query, "error", err)
		return nil, fmt.Errorf("failed to search locations: %w", err)
	}

	suggestions := translateSuggestions(results)

	if err := s.cache.Set(ctx, key, suggestions); err != nil {
		s.logger.Warn("suggestion cache write failed", "key", key, "error", err)
	}

	return suggestions, nil
}

func (s *locationService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultLimit
	}
	return min(limit, s.cfg.MaxLimit)
}

// translateSuggestions drops entries the provider returned without coordinates
func translateSuggestions(results []openweather.GeocodeResult) []Suggestion {
	suggestions := make([]Suggestion, 0, len(results))
	for _, r := range results {
		if r.Lat == nil || r.Lon == nil {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			LocationInfo: types.LocationInfo{
				Name:    r.Name,
				State:   r.State,
				Country: r.Country,
			},
			Coords: types.NewCoords(*r.Lat, *r.Lon),
		})
	}
	return suggestions
}
