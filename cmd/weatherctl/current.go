package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"weather-dashboard/internal/types"
	"weather-dashboard/internal/weather"
)

type currentOptions struct {
	city  string
	lat   string
	lon   string
	units string
}

func newCurrentCmd(root *rootOptions, newServices servicesFunc) *cobra.Command {
	opts := &currentOptions{}

	cmd := &cobra.Command{
		Use:   "current",
		Short: "Show current weather, forecast and air quality",
		Example: `  weatherctl current --city London
  weatherctl current --lat 39.19 --lon -106.82 --units imperial -o text`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := root.validate(); err != nil {
				return err
			}
			query, err := weather.ParseQuery(opts.city, opts.lat, opts.lon, opts.units)
			if err != nil {
				return err
			}

			services, err := newServices(cmd.Context(), root.verbose, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = services.Close() }()

			report, err := services.Weather.FetchWeather(cmd.Context(), query)
			if err != nil {
				return err
			}

			if root.format == formatText {
				return writeReport(cmd.OutOrStdout(), report)
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&opts.city, "city", "", "City name")
	cmd.Flags().StringVar(&opts.lat, "lat", "", "Latitude in decimal degrees")
	cmd.Flags().StringVar(&opts.lon, "lon", "", "Longitude in decimal degrees")
	cmd.Flags().StringVar(&opts.units, "units", "metric", "metric or imperial")

	return cmd
}

func writeReport(w io.Writer, r *weather.Report) error {
	cur := r.Weather
	temp := r.Units.TemperatureSymbol()

	description := ""
	if len(cur.Weather) > 0 {
		description = cur.Weather[0].Description
	}

	_, _ = fmt.Fprintf(w, "%s, %s: %.1f°%s %s\n", cur.Name, cur.Sys.Country, cur.Main.Temp, temp, description)
	_, _ = fmt.Fprintf(w, "  feels like %.1f°%s, humidity %.0f%%, wind %.1f %s %s\n",
		cur.Main.FeelsLike, temp, cur.Main.Humidity, cur.Wind.Speed, r.Units.WindSpeedUnit(),
		types.CardinalDirection(cur.Wind.Deg))

	if r.AirQuality != nil {
		_, _ = fmt.Fprintf(w, "  air quality %s (US AQI %d, %s)\n",
			r.AirQuality.IndexLabel, r.AirQuality.USAQI, r.AirQuality.USAQICategory)
	}

	loc := time.UTC
	if r.Timezone != "" {
		if l, err := time.LoadLocation(r.Timezone); err == nil {
			loc = l
		}
		_, _ = fmt.Fprintf(w, "  timezone %s\n", r.Timezone)
	}

	if r.Forecast != nil {
		for i, item := range r.Forecast.List {
			if i == 8 {
				break
			}
			_, _ = fmt.Fprintf(w, "  %s  %.1f°%s\n",
				time.Unix(item.Dt, 0).In(loc).Format("Mon 15:04"), item.Main.Temp, temp)
		}
	}
	return nil
}
