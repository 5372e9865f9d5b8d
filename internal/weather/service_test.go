package weather

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"weather-dashboard/internal/apiclient"
	"weather-dashboard/internal/providers/openweather"
	"weather-dashboard/internal/types"
)

type mockForecastProvider struct {
	mu          sync.Mutex
	locations   []openweather.Location
	currentErr  error
	forecastErr error
	coord       openweather.Coord
}

func (m *mockForecastProvider) record(loc openweather.Location) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations = append(m.locations, loc)
}

func (m *mockForecastProvider) GetCurrentWeather(ctx context.Context, loc openweather.Location, units types.Units) (*openweather.CurrentWeatherResponse, error) {
	m.record(loc)
	if m.currentErr != nil {
		return nil, m.currentErr
	}
	return &openweather.CurrentWeatherResponse{Name: "London", Coord: m.coord}, nil
}

func (m *mockForecastProvider) GetForecast(ctx context.Context, loc openweather.Location, units types.Units) (*openweather.ForecastResponse, error) {
	m.record(loc)
	if m.forecastErr != nil {
		return nil, m.forecastErr
	}
	// Block until the sibling failure cancels us, if there is one.
	if m.currentErr != nil {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	resp := &openweather.ForecastResponse{Cnt: 1}
	resp.List = []openweather.ForecastItem{{Dt: 1700000000}}
	return resp, nil
}

type mockAirQualityProvider struct {
	coords []types.Coords
	err    error
}

func (m *mockAirQualityProvider) GetAirPollution(ctx context.Context, coords types.Coords) (*openweather.AirPollutionResponse, error) {
	m.coords = append(m.coords, coords)
	if m.err != nil {
		return nil, m.err
	}
	resp := &openweather.AirPollutionResponse{List: []openweather.AirPollutionItem{{}}}
	resp.List[0].Main.AQI = 1
	return resp, nil
}

type mockTimezoneService struct {
	tz  string
	err error
}

func (m *mockTimezoneService) GetTimezone(coords types.Coords) (string, error) {
	return m.tz, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetchWeather_City(t *testing.T) {
	fp := &mockForecastProvider{coord: openweather.Coord{Lat: 51.51, Lon: -0.13}}
	aq := &mockAirQualityProvider{}
	svc := NewWeatherServiceWithProvider(fp, aq, &mockTimezoneService{tz: "Europe/London"}, discardLogger())

	q, _ := NewCityQuery("London", types.UnitsMetric)
	report, err := svc.FetchWeather(context.Background(), q)
	if err != nil {
		t.Fatalf("FetchWeather() unexpected error = %v", err)
	}

	if report.Weather == nil || report.Weather.Name != "London" {
		t.Errorf("Weather = %+v", report.Weather)
	}
	if report.Forecast == nil || len(report.Forecast.List) != 1 {
		t.Errorf("Forecast = %+v", report.Forecast)
	}
	if report.AirQuality == nil || report.AirQuality.IndexLabel != "Good" {
		t.Errorf("AirQuality = %+v", report.AirQuality)
	}
	if report.Timezone != "Europe/London" {
		t.Errorf("Timezone = %q", report.Timezone)
	}
	if report.Units != types.UnitsMetric {
		t.Errorf("Units = %q", report.Units)
	}

	if len(fp.locations) != 2 {
		t.Fatalf("provider calls = %d, want 2", len(fp.locations))
	}
	for _, loc := range fp.locations {
		if loc.City != "London" || loc.Coords != nil {
			t.Errorf("location = %+v, want city only", loc)
		}
	}

	// Air quality uses the coordinates the provider resolved the city to.
	if len(aq.coords) != 1 || aq.coords[0] != types.NewCoords(51.51, -0.13) {
		t.Errorf("air quality coords = %v", aq.coords)
	}
}

func TestFetchWeather_Coordinates(t *testing.T) {
	fp := &mockForecastProvider{}
	aq := &mockAirQualityProvider{}
	svc := NewWeatherServiceWithProvider(fp, aq, nil, discardLogger())

	q, _ := NewCoordsQuery(types.NewCoords(39.19, -106.82), types.UnitsImperial)
	report, err := svc.FetchWeather(context.Background(), q)
	if err != nil {
		t.Fatalf("FetchWeather() unexpected error = %v", err)
	}

	if report.Units != types.UnitsImperial {
		t.Errorf("Units = %q", report.Units)
	}
	if report.Timezone != "" {
		t.Errorf("Timezone = %q, want empty without a timezone service", report.Timezone)
	}
	// The mock echoes no coordinates, so the query's own are used.
	if len(aq.coords) != 1 || aq.coords[0] != types.NewCoords(39.19, -106.82) {
		t.Errorf("air quality coords = %v", aq.coords)
	}
}

func TestFetchWeather_ProviderError(t *testing.T) {
	tests := []struct {
		name        string
		currentErr  error
		forecastErr error
		wantErr     error
	}{
		{
			name:       "current weather not found",
			currentErr: &apiclient.Error{Kind: apiclient.KindNotFound, Message: "city not found", StatusCode: 404},
			wantErr:    apiclient.ErrNotFound,
		},
		{
			name:        "forecast server error",
			forecastErr: &apiclient.Error{Kind: apiclient.KindServerError, Message: "server error: please try again later", StatusCode: 503},
			wantErr:     apiclient.ErrServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := &mockForecastProvider{currentErr: tt.currentErr, forecastErr: tt.forecastErr}
			aq := &mockAirQualityProvider{}
			svc := NewWeatherServiceWithProvider(fp, aq, nil, discardLogger())

			q, _ := NewCityQuery("Atlantis", types.UnitsMetric)
			report, err := svc.FetchWeather(context.Background(), q)

			if report != nil {
				t.Errorf("report = %+v, want nil", report)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if len(aq.coords) != 0 {
				t.Errorf("air quality should not be fetched after a failure")
			}
		})
	}
}

func TestFetchWeather_OptionalPartsFail(t *testing.T) {
	fp := &mockForecastProvider{coord: openweather.Coord{Lat: 51.51, Lon: -0.13}}
	aq := &mockAirQualityProvider{err: errors.New("boom")}
	tz := &mockTimezoneService{err: errors.New("no zone")}
	svc := NewWeatherServiceWithProvider(fp, aq, tz, discardLogger())

	q, _ := NewCityQuery("London", types.UnitsMetric)
	report, err := svc.FetchWeather(context.Background(), q)
	if err != nil {
		t.Fatalf("FetchWeather() unexpected error = %v", err)
	}
	if report.AirQuality != nil {
		t.Errorf("AirQuality = %+v, want nil", report.AirQuality)
	}
	if report.Timezone != "" {
		t.Errorf("Timezone = %q, want empty", report.Timezone)
	}
}

func TestFetchWeather_MissingLocation(t *testing.T) {
	fp := &mockForecastProvider{}
	svc := NewWeatherServiceWithProvider(fp, nil, nil, discardLogger())

	_, err := svc.FetchWeather(context.Background(), Query{})
	if !errors.Is(err, ErrMissingLocation) {
		t.Errorf("error = %v, want ErrMissingLocation", err)
	}
	if len(fp.locations) != 0 {
		t.Errorf("provider calls = %d, want 0", len(fp.locations))
	}
}
