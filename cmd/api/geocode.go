package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"weather-dashboard/internal/apiclient"
	"weather-dashboard/internal/location"
)

// GeocodeInput defines the query parameters for the geocode endpoint
type GeocodeInput struct {
	Query string `form:"q"`
	Limit int    `form:"limit"`
}

// GeocodeResponse wraps place suggestions
type GeocodeResponse struct {
	Suggestions []location.Suggestion `json:"suggestions"`
}

// handleGeocode godoc
// @Summary Search places
// @Description Autocomplete suggestions for a free-text place name. Queries shorter than two characters return an empty list.
// @Tags location
// @Produce json
// @Param q query string true "Place name" example(Lond)
// @Param limit query int false "Maximum suggestions" minimum(1) maximum(10) default(5)
// @Success 200 {object} GeocodeResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/geocode [get]
func (app *App) handleGeocode(c *gin.Context) {
	var input GeocodeInput
	if err := c.ShouldBindQuery(&input); err != nil {
		// A malformed limit falls back to the default.
		input = GeocodeInput{Query: c.Query("q")}
	}

	suggestions, err := app.locationService.SearchLocations(c.Request.Context(), input.Query, input.Limit)
	if err != nil {
		_ = c.Error(err)
		msg := err.Error()
		if e, ok := apiclient.AsError(err); ok {
			msg = e.Message
		}
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: fmt.Sprintf("Geocode failed: %s", msg)})
		return
	}

	c.JSON(http.StatusOK, GeocodeResponse{Suggestions: suggestions})
}
