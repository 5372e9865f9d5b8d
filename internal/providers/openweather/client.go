package openweather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"weather-dashboard/internal/apiclient"
	"weather-dashboard/internal/types"
)

// API Docs: https://openweathermap.org/api
// Sample requests:
// - https://api.openweathermap.org/data/2.5/weather?q=London&units=metric&appid=KEY
// - https://api.openweathermap.org/data/2.5/forecast?lat=51.5&lon=-0.12&units=metric&appid=KEY
// - https://api.openweathermap.org/data/2.5/air_pollution?lat=51.5&lon=-0.12&appid=KEY
// - https://api.openweathermap.org/geo/1.0/direct?q=Lon&limit=5&appid=KEY
const (
	EndpointWeather      = "/weather"
	EndpointForecast     = "/forecast"
	EndpointAirPollution = "/air_pollution"
	EndpointGeocode      = "/direct"
)

var errNoLocation = errors.New("location requires a city or coordinates")

// Getter is the part of apiclient.Client this package needs.
type Getter interface {
	GetJSON(ctx context.Context, endpoint string, params apiclient.Params, out any) error
}

// Location selects a place either by city name or by coordinates.
type Location struct {
	City   string
	Coords *types.Coords
}

func (l Location) params() (apiclient.Params, error) {
	switch {
	case l.Coords != nil:
		return apiclient.Params{"lat": l.Coords.Latitude, "lon": l.Coords.Longitude}, nil
	case l.City != "":
		return apiclient.Params{"q": l.City}, nil
	default:
		return nil, errNoLocation
	}
}

type Client struct {
	data   Getter
	geo    Getter
	logger *slog.Logger
}

// NewClient wires the data API and the geocoding API clients. They share the
// API key but live under different base URLs.
func NewClient(data, geo Getter, logger *slog.Logger) *Client {
	return &Client{
		data:   data,
		geo:    geo,
		logger: logger.With("component", "openweather-client"),
	}
}

// GetCurrentWeather fetches current conditions for a location.
func (c *Client) GetCurrentWeather(ctx context.Context, loc Location, units types.Units) (*CurrentWeatherResponse, error) {
	params, err := loc.params()
	if err != nil {
		return nil, err
	}
	params["units"] = string(units)

	var resp CurrentWeatherResponse
	if err := c.data.GetJSON(ctx, EndpointWeather, params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch current weather: %w", err)
	}

	c.logger.Debug("fetched current weather", "name", resp.Name, "country", resp.Sys.Country)
	return &resp, nil
}

// GetForecast fetches the 5 day / 3 hour forecast for a location.
func (c *Client) GetForecast(ctx context.Context, loc Location, units types.Units) (*ForecastResponse, error) {
	params, err := loc.params()
	if err != nil {
		return nil, err
	}
	params["units"] = string(units)

	var resp ForecastResponse
	if err := c.data.GetJSON(ctx, EndpointForecast, params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}

	c.logger.Debug("fetched forecast", "items", len(resp.List), "city", resp.City.Name)
	return &resp, nil
}

// GetAirPollution fetches current air quality for coordinates.
func (c *Client) GetAirPollution(ctx context.Context, coords types.Coords) (*AirPollutionResponse, error) {
	params := apiclient.Params{"lat": coords.Latitude, "lon": coords.Longitude}

	var resp AirPollutionResponse
	if err := c.data.GetJSON(ctx, EndpointAirPollution, params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch air pollution: %w", err)
	}
	return &resp, nil
}

// Geocode resolves free text to candidate places.
func (c *Client) Geocode(ctx context.Context, query string, limit int) ([]GeocodeResult, error) {
	params := apiclient.Params{"q": query, "limit": limit}

	var resp []GeocodeResult
	if err := c.geo.GetJSON(ctx, EndpointGeocode, params, &resp); err != nil {
		return nil, fmt.Errorf("failed to geocode: %w", err)
	}

	c.logger.Debug("geocoded query", "results", len(resp))
	return resp, nil
}
