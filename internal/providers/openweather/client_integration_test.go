//go:build integration

package openweather

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"weather-dashboard/internal/apiclient"
	"weather-dashboard/internal/types"
)

func newLiveClient(t *testing.T) *Client {
	t.Helper()

	apiKey := os.Getenv("WEATHER_OPENWEATHER_APIKEY")
	if apiKey == "" {
		t.Skip("WEATHER_OPENWEATHER_APIKEY not set")
	}

	logger := slog.Default()
	data, err := apiclient.New(apiclient.Config{BaseURL: "https://api.openweathermap.org/data/2.5", APIKey: apiKey}, logger)
	if err != nil {
		t.Fatalf("Failed to create data client: %v", err)
	}
	geo, err := apiclient.New(apiclient.Config{BaseURL: "https://api.openweathermap.org/geo/1.0", APIKey: apiKey}, logger)
	if err != nil {
		t.Fatalf("Failed to create geo client: %v", err)
	}
	return NewClient(data, geo, logger)
}

func TestClient_GetCurrentWeather_Integration(t *testing.T) {
	client := newLiveClient(t)

	t.Logf("Making API call to OpenWeather current weather API...")

	resp, err := client.GetCurrentWeather(context.Background(), Location{City: "London"}, types.UnitsMetric)
	if err != nil {
		t.Fatalf("Failed to get current weather: %v", err)
	}

	rawJSON, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal response: %v", err)
	}
	t.Logf("Raw API Response:\n%s", string(rawJSON))

	if resp.Name == "" {
		t.Error("Name is empty")
	}
	if len(resp.Weather) == 0 {
		t.Error("No weather conditions")
	}

	t.Log("✓ API call successful, response structure valid")
}

func TestClient_Geocode_Integration(t *testing.T) {
	client := newLiveClient(t)

	results, err := client.Geocode(context.Background(), "Aspen", 5)
	if err != nil {
		t.Fatalf("Failed to geocode: %v", err)
	}

	for _, r := range results {
		t.Logf("  %s, %s, %s", r.Name, r.State, r.Country)
	}
	if len(results) == 0 {
		t.Error("No geocode results")
	}

	t.Log("✓ API call successful, response structure valid")
}
