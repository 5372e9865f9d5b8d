package weather

import (
	"math"

	"weather-dashboard/internal/providers/openweather"
)

// AirQuality summarizes the latest air pollution reading for a location.
type AirQuality struct {
	// Index is the provider's 1-5 scale.
	Index      int    `json:"index"`
	IndexLabel string `json:"indexLabel"`

	// USAQI is the US EPA index derived from particulate concentrations.
	USAQI         int    `json:"usAqi"`
	USAQICategory string `json:"usAqiCategory"`

	PM25 float64 `json:"pm2_5"`
	PM10 float64 `json:"pm10"`
	O3   float64 `json:"o3"`
	NO2  float64 `json:"no2"`
	SO2  float64 `json:"so2"`
	CO   float64 `json:"co"`

	Dt int64 `json:"dt"`
}

var indexLabels = map[int]string{
	1: "Good",
	2: "Fair",
	3: "Moderate",
	4: "Poor",
	5: "Very Poor",
}

// IndexLabel names a provider air quality index value.
func IndexLabel(index int) string {
	if label, ok := indexLabels[index]; ok {
		return label
	}
	return "Unknown"
}

type breakpoint struct {
	cLow, cHigh float64
	iLow, iHigh float64
}

// EPA breakpoints, concentrations in µg/m³.
var (
	pm25Breakpoints = []breakpoint{
		{0.0, 12.0, 0, 50},
		{12.1, 35.4, 51, 100},
		{35.5, 55.4, 101, 150},
		{55.5, 150.4, 151, 200},
		{150.5, 250.4, 201, 300},
		{250.5, 350.4, 301, 400},
		{350.5, 500.4, 401, 500},
	}
	pm10Breakpoints = []breakpoint{
		{0, 54, 0, 50},
		{55, 154, 51, 100},
		{155, 254, 101, 150},
		{255, 354, 151, 200},
		{355, 424, 201, 300},
		{425, 504, 301, 400},
		{505, 604, 401, 500},
	}
)

// subIndex linearly interpolates a concentration into its AQI band.
// Values between two bands fall into the upper one, values past the
// table are capped at 500.
func subIndex(c float64, table []breakpoint) int {
	if c <= 0 {
		return 0
	}
	for _, bp := range table {
		if c <= bp.cHigh {
			if c < bp.cLow {
				c = bp.cLow
			}
			v := (bp.iHigh-bp.iLow)/(bp.cHigh-bp.cLow)*(c-bp.cLow) + bp.iLow
			return int(math.Round(v))
		}
	}
	return 500
}

// USAQI returns the US EPA AQI as the higher of the PM2.5 and PM10 sub-indices.
func USAQI(pm25, pm10 float64) int {
	return max(subIndex(pm25, pm25Breakpoints), subIndex(pm10, pm10Breakpoints))
}

// USAQICategory returns the EPA category for an AQI value.
func USAQICategory(aqi int) string {
	switch {
	case aqi <= 50:
		return "Good"
	case aqi <= 100:
		return "Moderate"
	case aqi <= 150:
		return "Unhealthy for Sensitive Groups"
	case aqi <= 200:
		return "Unhealthy"
	case aqi <= 300:
		return "Very Unhealthy"
	default:
		return "Hazardous"
	}
}

// summarizeAirQuality uses the first list entry, which is the current
// reading. It returns nil when the provider sent no readings.
func summarizeAirQuality(resp *openweather.AirPollutionResponse) *AirQuality {
	if resp == nil || len(resp.List) == 0 {
		return nil
	}

	item := resp.List[0]
	c := item.Components
	us := USAQI(c.PM25, c.PM10)

	return &AirQuality{
		Index:         item.Main.AQI,
		IndexLabel:    IndexLabel(item.Main.AQI),
		USAQI:         us,
		USAQICategory: USAQICategory(us),
		PM25:          c.PM25,
		PM10:          c.PM10,
		O3:            c.O3,
		NO2:           c.NO2,
		SO2:           c.SO2,
		CO:            c.CO,
		Dt:            item.Dt,
	}
}
