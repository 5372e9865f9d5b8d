package weather

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"weather-dashboard/internal/providers/openweather"
	"weather-dashboard/internal/types"
)

var (
	ErrMissingLocation    = errors.New("either city or coordinates (lat/lon) are required")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidUnits       = errors.New("units must be metric or imperial")
)

// Query is a validated weather lookup: a city name or a coordinate pair.
type Query struct {
	City   string
	Coords *types.Coords
	Units  types.Units
}

// ParseQuery validates raw request values. A full lat/lon pair is always
// range-checked, but a city name takes precedence when both are given.
func ParseQuery(city, lat, lon, units string) (Query, error) {
	u, err := types.ParseUnits(units)
	if err != nil {
		return Query{}, fmt.Errorf("%w: %q", ErrInvalidUnits, units)
	}

	q := Query{City: strings.TrimSpace(city), Units: u}

	lat, lon = strings.TrimSpace(lat), strings.TrimSpace(lon)
	if lat != "" && lon != "" {
		latitude, latErr := strconv.ParseFloat(lat, 64)
		longitude, lonErr := strconv.ParseFloat(lon, 64)
		if latErr != nil || lonErr != nil {
			return Query{}, ErrInvalidCoordinates
		}
		coords := types.NewCoords(latitude, longitude)
		if !coords.Valid() {
			return Query{}, ErrInvalidCoordinates
		}
		if q.City == "" {
			q.Coords = &coords
		}
	}

	if q.City == "" && q.Coords == nil {
		return Query{}, ErrMissingLocation
	}
	return q, nil
}

// NewCityQuery builds a query for a city name.
func NewCityQuery(city string, units types.Units) (Query, error) {
	return ParseQuery(city, "", "", string(units))
}

// NewCoordsQuery builds a query for a coordinate pair.
func NewCoordsQuery(coords types.Coords, units types.Units) (Query, error) {
	if !coords.Valid() {
		return Query{}, ErrInvalidCoordinates
	}
	if _, err := types.ParseUnits(string(units)); err != nil {
		return Query{}, fmt.Errorf("%w: %q", ErrInvalidUnits, units)
	}
	if units == "" {
		units = types.UnitsMetric
	}
	return Query{Coords: &coords, Units: units}, nil
}

func (q Query) location() openweather.Location {
	return openweather.Location{City: q.City, Coords: q.Coords}
}

func (q Query) String() string {
	if q.Coords != nil {
		return q.Coords.String()
	}
	return q.City
}
