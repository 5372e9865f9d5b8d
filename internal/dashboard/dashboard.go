// Package dashboard wires configuration into the weather and location
// services shared by the HTTP API and the CLI.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"weather-dashboard/internal/apiclient"
	"weather-dashboard/internal/config"
	"weather-dashboard/internal/location"
	"weather-dashboard/internal/providers/openweather"
	"weather-dashboard/internal/timezone"
	"weather-dashboard/internal/weather"
)

// Services holds the domain services built from one configuration
type Services struct {
	Weather  weather.Service
	Location location.Service

	closers []io.Closer
}

// New builds all services. Invalid client configuration is returned as an
// error; a missing timezone database only disables timezone lookup.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Services, error) {
	dataClient, err := apiclient.New(cfg.APIClientConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create weather API client: %w", err)
	}
	geoClient, err := apiclient.New(cfg.GeoClientConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocoding API client: %w", err)
	}
	provider := openweather.NewClient(dataClient, geoClient, logger)

	tzSvc, err := timezone.NewService()
	if err != nil {
		logger.Warn("timezone lookup disabled", "error", err)
	}

	cache, err := location.NewSuggestionCache(ctx, cfg.Cache, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create suggestion cache: %w", err)
	}

	s := &Services{
		Weather:  weather.NewWeatherService(provider, tzSvc, logger),
		Location: location.NewLocationService(provider, cache, cfg.Search, logger),
	}
	if c, ok := cache.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}

	logger.Info("services initialized", "cache", cfg.Cache.Driver, "timezone", tzSvc != nil)
	return s, nil
}

// Close releases external connections such as the redis pool
func (s *Services) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
