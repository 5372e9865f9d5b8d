package weather

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"weather-dashboard/internal/providers/openweather"
	"weather-dashboard/internal/timezone"
	"weather-dashboard/internal/types"
)

type ForecastProvider interface {
	GetCurrentWeather(ctx context.Context, loc openweather.Location, units types.Units) (*openweather.CurrentWeatherResponse, error)
	GetForecast(ctx context.Context, loc openweather.Location, units types.Units) (*openweather.ForecastResponse, error)
}

type AirQualityProvider interface {
	GetAirPollution(ctx context.Context, coords types.Coords) (*openweather.AirPollutionResponse, error)
}

type Service interface {
	FetchWeather(ctx context.Context, q Query) (*Report, error)
}

// Report is everything the dashboard shows for one location.
type Report struct {
	Weather    *openweather.CurrentWeatherResponse `json:"weather"`
	Forecast   *openweather.ForecastResponse       `json:"forecast"`
	AirQuality *AirQuality                         `json:"aqi"`
	Timezone   string                              `json:"timezone,omitempty"`
	Units      types.Units                         `json:"units"`
}

type weatherService struct {
	forecastProvider   ForecastProvider
	airQualityProvider AirQualityProvider
	timezoneService    timezone.Service
	logger             *slog.Logger
}

func NewWeatherService(client *openweather.Client, tzSvc timezone.Service, logger *slog.Logger) Service {
	return NewWeatherServiceWithProvider(client, client, tzSvc, logger)
}

// NewWeatherServiceWithProvider allows the providers to be swapped out. A nil
// airQualityProvider or timezoneService disables that part of the report.
func NewWeatherServiceWithProvider(
	forecastProvider ForecastProvider,
	airQualityProvider AirQualityProvider,
	timezoneService timezone.Service,
	logger *slog.Logger,
) Service {
	return &weatherService{
		forecastProvider:   forecastProvider,
		airQualityProvider: airQualityProvider,
		timezoneService:    timezoneService,
		logger:             logger.With("component", "weather-service"),
	}
}

func (s *weatherService) FetchWeather(ctx context.Context, q Query) (*Report, error) {
	if q.City == "" && q.Coords == nil {
		return nil, ErrMissingLocation
	}
	if q.Units == "" {
		q.Units = types.UnitsMetric
	}

	var (
		current  *openweather.CurrentWeatherResponse
		forecast *openweather.ForecastResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := s.forecastProvider.GetCurrentWeather(gctx, q.location(), q.Units)
		if err != nil {
			return err
		}
		current = resp
		return nil
	})
	g.Go(func() error {
		resp, err := s.forecastProvider.GetForecast(gctx, q.location(), q.Units)
		if err != nil {
			return err
		}
		forecast = resp
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to fetch weather", "query", q.String(), "error", err)
		return nil, fmt.Errorf("failed to fetch weather for %s: %w", q, err)
	}

	report := &Report{
		Weather:  current,
		Forecast: forecast,
		Units:    q.Units,
	}

	// The provider resolves city names, so its coordinates are authoritative.
	coords := types.NewCoords(current.Coord.Lat, current.Coord.Lon)
	if q.Coords != nil && current.Coord == (openweather.Coord{}) {
		coords = *q.Coords
	}

	report.AirQuality = s.airQuality(ctx, coords)
	report.Timezone = s.timezone(coords)

	return report, nil
}

func (s *weatherService) airQuality(ctx context.Context, coords types.Coords) *AirQuality {
	if s.airQualityProvider == nil {
		return nil
	}

	resp, err := s.airQualityProvider.GetAirPollution(ctx, coords)
	if err != nil {
		s.logger.Warn("air quality unavailable", "coordinates", coords.String(), "error", err)
		return nil
	}
	return summarizeAirQuality(resp)
}

func (s *weatherService) timezone(coords types.Coords) string {
	if s.timezoneService == nil {
		return ""
	}

	tz, err := s.timezoneService.GetTimezone(coords)
	if err != nil {
		s.logger.Warn("failed to determine timezone", "coordinates", coords.String(), "error", err)
		return ""
	}

	s.logger.Debug("determined timezone for location", "coordinates", coords.String(), "timezone", tz)
	return tz
}
