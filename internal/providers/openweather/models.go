package openweather

type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type MainReadings struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  float64 `json:"pressure"`
	Humidity  float64 `json:"humidity"`
}

type Wind struct {
	Speed float64 `json:"speed"`
	Deg   float64 `json:"deg"`
	Gust  float64 `json:"gust,omitempty"`
}

type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CurrentWeatherResponse is the /weather payload.
type CurrentWeatherResponse struct {
	Coord      Coord        `json:"coord"`
	Weather    []Condition  `json:"weather"`
	Main       MainReadings `json:"main"`
	Visibility int          `json:"visibility"`
	Wind       Wind         `json:"wind"`
	Clouds     struct {
		All int `json:"all"`
	} `json:"clouds"`
	Dt  int64 `json:"dt"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Timezone int    `json:"timezone"` // shift from UTC in seconds
	ID       int    `json:"id"`
	Name     string `json:"name"`
}

type ForecastItem struct {
	Dt         int64        `json:"dt"`
	Main       MainReadings `json:"main"`
	Weather    []Condition  `json:"weather"`
	Wind       Wind         `json:"wind"`
	Visibility int          `json:"visibility"`
	Pop        float64      `json:"pop"`
	DtTxt      string       `json:"dt_txt"`
}

// ForecastResponse is the /forecast payload (5 days in 3-hour steps).
type ForecastResponse struct {
	Cnt  int            `json:"cnt"`
	List []ForecastItem `json:"list"`
	City struct {
		ID       int    `json:"id"`
		Name     string `json:"name"`
		Country  string `json:"country"`
		Coord    Coord  `json:"coord"`
		Timezone int    `json:"timezone"`
		Sunrise  int64  `json:"sunrise"`
		Sunset   int64  `json:"sunset"`
	} `json:"city"`
}

type PollutantComponents struct {
	CO   float64 `json:"co"`
	NO   float64 `json:"no"`
	NO2  float64 `json:"no2"`
	O3   float64 `json:"o3"`
	SO2  float64 `json:"so2"`
	PM25 float64 `json:"pm2_5"`
	PM10 float64 `json:"pm10"`
	NH3  float64 `json:"nh3"`
}

type AirPollutionItem struct {
	Main struct {
		AQI int `json:"aqi"` // 1 = Good ... 5 = Very Poor
	} `json:"main"`
	Components PollutantComponents `json:"components"`
	Dt         int64               `json:"dt"`
}

// AirPollutionResponse is the /air_pollution payload.
type AirPollutionResponse struct {
	Coord Coord              `json:"coord"`
	List  []AirPollutionItem `json:"list"`
}

// GeocodeResult is one entry of the /direct payload. Lat and Lon are
// pointers so entries without coordinates can be told apart from 0,0.
type GeocodeResult struct {
	Name       string            `json:"name"`
	LocalNames map[string]string `json:"local_names,omitempty"`
	Lat        *float64          `json:"lat"`
	Lon        *float64          `json:"lon"`
	Country    string            `json:"country"`
	State      string            `json:"state,omitempty"`
}
