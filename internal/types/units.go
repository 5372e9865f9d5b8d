package types

import (
	"fmt"
	"strings"
)

// Units is the measurement system requested from the provider
type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

// ParseUnits accepts "metric" or "imperial" in any case; empty means metric.
func ParseUnits(s string) (Units, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(UnitsMetric):
		return UnitsMetric, nil
	case string(UnitsImperial):
		return UnitsImperial, nil
	default:
		return "", fmt.Errorf("unsupported units %q", s)
	}
}

// TemperatureSymbol returns C or F.
func (u Units) TemperatureSymbol() string {
	if u == UnitsImperial {
		return "F"
	}
	return "C"
}

// WindSpeedUnit is what the provider reports wind speed in for these units.
func (u Units) WindSpeedUnit() string {
	if u == UnitsImperial {
		return "mph"
	}
	return "m/s"
}
