package openweather

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"weather-dashboard/internal/apiclient"
	"weather-dashboard/internal/types"
)

type recordedRequest struct {
	path  string
	query url.Values
}

func newFakeProvider(t *testing.T) (*Client, *[]recordedRequest) {
	t.Helper()

	var (
		mu       sync.Mutex
		requests []recordedRequest
	)
	mux := http.NewServeMux()
	record := func(r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		requests = append(requests, recordedRequest{path: r.URL.Path, query: r.URL.Query()})
	}

	mux.HandleFunc("/data/2.5/weather", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if r.URL.Query().Get("q") == "Atlantis" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"cod":"404","message":"city not found"}`)
			return
		}
		_, _ = io.WriteString(w, `{"coord":{"lat":51.51,"lon":-0.13},"name":"London","main":{"temp":15.2,"humidity":70},"weather":[{"main":"Clouds","description":"overcast clouds","icon":"04d"}],"sys":{"country":"GB"},"timezone":3600}`)
	})
	mux.HandleFunc("/data/2.5/forecast", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		_, _ = io.WriteString(w, `{"cnt":2,"list":[{"dt":1700000000,"main":{"temp":14},"dt_txt":"2023-11-14 22:00:00"},{"dt":1700010800,"main":{"temp":13}}],"city":{"name":"London","country":"GB","coord":{"lat":51.51,"lon":-0.13}}}`)
	})
	mux.HandleFunc("/data/2.5/air_pollution", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		_, _ = io.WriteString(w, `{"coord":{"lat":51.51,"lon":-0.13},"list":[{"main":{"aqi":2},"components":{"pm2_5":8.5,"pm10":20.1},"dt":1700000000}]}`)
	})
	mux.HandleFunc("/geo/1.0/direct", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		_, _ = io.WriteString(w, `[{"name":"London","lat":51.5073,"lon":-0.1276,"country":"GB","state":"England"},{"name":"Nowhere","country":"XX"}]`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	retry := &apiclient.RetryConfig{MaxRetries: 0}

	data, err := apiclient.New(apiclient.Config{BaseURL: srv.URL + "/data/2.5", APIKey: "k", Retry: retry}, logger)
	if err != nil {
		t.Fatalf("apiclient.New() error = %v", err)
	}
	geo, err := apiclient.New(apiclient.Config{BaseURL: srv.URL + "/geo/1.0", APIKey: "k", Retry: retry}, logger)
	if err != nil {
		t.Fatalf("apiclient.New() error = %v", err)
	}

	return NewClient(data, geo, logger), &requests
}

func TestClient_GetCurrentWeather(t *testing.T) {
	client, requests := newFakeProvider(t)
	coords := types.NewCoords(51.51, -0.13)

	tests := []struct {
		name      string
		loc       Location
		units     types.Units
		wantQuery map[string]string
	}{
		{
			name:      "by city",
			loc:       Location{City: "London"},
			units:     types.UnitsMetric,
			wantQuery: map[string]string{"q": "London", "units": "metric", "appid": "k"},
		},
		{
			name:      "by coordinates",
			loc:       Location{Coords: &coords},
			units:     types.UnitsImperial,
			wantQuery: map[string]string{"lat": "51.51", "lon": "-0.13", "units": "imperial"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			*requests = nil

			resp, err := client.GetCurrentWeather(context.Background(), tt.loc, tt.units)
			if err != nil {
				t.Fatalf("GetCurrentWeather() unexpected error = %v", err)
			}
			if resp.Name != "London" || resp.Main.Temp != 15.2 {
				t.Errorf("response = %+v", resp)
			}
			if len(*requests) != 1 {
				t.Fatalf("requests = %d, want 1", len(*requests))
			}
			got := (*requests)[0]
			for k, want := range tt.wantQuery {
				if got.query.Get(k) != want {
					t.Errorf("query %s = %q, want %q", k, got.query.Get(k), want)
				}
			}
		})
	}
}

func TestClient_GetCurrentWeather_NotFound(t *testing.T) {
	client, _ := newFakeProvider(t)

	_, err := client.GetCurrentWeather(context.Background(), Location{City: "Atlantis"}, types.UnitsMetric)

	if !errors.Is(err, apiclient.ErrNotFound) {
		t.Fatalf("error = %v, want NotFound", err)
	}
	if e, ok := apiclient.AsError(err); !ok || e.Message != "city not found" {
		t.Errorf("error = %v, want provider message", err)
	}
}

func TestClient_RequiresLocation(t *testing.T) {
	client, requests := newFakeProvider(t)

	if _, err := client.GetForecast(context.Background(), Location{}, types.UnitsMetric); err == nil {
		t.Error("GetForecast() expected error for empty location")
	}
	if len(*requests) != 0 {
		t.Errorf("requests = %d, want 0", len(*requests))
	}
}

func TestClient_GetForecast(t *testing.T) {
	client, _ := newFakeProvider(t)

	resp, err := client.GetForecast(context.Background(), Location{City: "London"}, types.UnitsMetric)
	if err != nil {
		t.Fatalf("GetForecast() unexpected error = %v", err)
	}
	if len(resp.List) != 2 || resp.City.Name != "London" {
		t.Errorf("response = %+v", resp)
	}
}

func TestClient_GetAirPollution(t *testing.T) {
	client, _ := newFakeProvider(t)

	resp, err := client.GetAirPollution(context.Background(), types.NewCoords(51.51, -0.13))
	if err != nil {
		t.Fatalf("GetAirPollution() unexpected error = %v", err)
	}
	if len(resp.List) != 1 || resp.List[0].Main.AQI != 2 || resp.List[0].Components.PM25 != 8.5 {
		t.Errorf("response = %+v", resp)
	}
}

func TestClient_Geocode(t *testing.T) {
	client, requests := newFakeProvider(t)

	results, err := client.Geocode(context.Background(), "Lon", 5)
	if err != nil {
		t.Fatalf("Geocode() unexpected error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Lat == nil || *results[0].Lat != 51.5073 {
		t.Errorf("results[0].Lat = %v", results[0].Lat)
	}
	if results[1].Lat != nil {
		t.Errorf("results[1].Lat = %v, want nil", *results[1].Lat)
	}

	got := (*requests)[0]
	if got.path != "/geo/1.0/direct" || got.query.Get("limit") != "5" || got.query.Get("q") != "Lon" {
		t.Errorf("request = %+v", got)
	}
}
