package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"weather-dashboard/internal/apiclient"
	"weather-dashboard/internal/weather"
)

// GetWeatherInput defines the query parameters for the weather endpoint
type GetWeatherInput struct {
	City  string `form:"city"`  // City name, takes precedence over coordinates
	Lat   string `form:"lat"`   // Latitude in decimal degrees
	Lon   string `form:"lon"`   // Longitude in decimal degrees
	Units string `form:"units"` // metric or imperial
}

// ErrorResponse is returned with every non-2xx status
type ErrorResponse struct {
	Error string `json:"error" example:"City not found"`
}

// handleGetWeather godoc
// @Summary Get current weather and forecast
// @Description Current conditions, the 5 day / 3 hour forecast, air quality and the IANA timezone for a city or a coordinate pair
// @Tags weather
// @Produce json
// @Param city query string false "City name" example(London)
// @Param lat query number false "Latitude in decimal degrees" minimum(-90) maximum(90)
// @Param lon query number false "Longitude in decimal degrees" minimum(-180) maximum(180)
// @Param units query string false "Units" Enums(metric, imperial) default(metric)
// @Success 200 {object} weather.Report
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/weather [get]
func (app *App) handleGetWeather(c *gin.Context) {
	var input GetWeatherInput
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	query, err := weather.ParseQuery(input.City, input.Lat, input.Lon, input.Units)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationMessage(err)})
		return
	}

	report, err := app.weatherService.FetchWeather(c.Request.Context(), query)
	if err != nil {
		_ = c.Error(err)
		if errors.Is(err, apiclient.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "City not found"})
			return
		}
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to fetch weather data"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, weather.ErrMissingLocation):
		return "Either city or coordinates (lat/lon) are required"
	case errors.Is(err, weather.ErrInvalidCoordinates):
		return "Invalid coordinates"
	default:
		return err.Error()
	}
}
