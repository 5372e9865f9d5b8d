package timezone

import (
	"fmt"

	"github.com/ringsaturn/tzf"

	"weather-dashboard/internal/types"
)

// Service resolves coordinates to IANA timezone names
type Service interface {
	GetTimezone(coords types.Coords) (string, error)
}

// service implements timezone lookup using tzf. The finder is read-only
// after construction and safe for concurrent use.
type service struct {
	finder tzf.F
}

// NewService loads the timezone polygons (~50MB in memory). Build it once at
// startup and share it.
func NewService() (Service, error) {
	finder, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize timezone finder: %w", err)
	}
	return &service{finder: finder}, nil
}

// GetTimezone returns timezone names like "America/Denver" or "Europe/London"
func (s *service) GetTimezone(coords types.Coords) (string, error) {
	if !coords.Valid() {
		return "", fmt.Errorf("invalid coordinates %s", coords)
	}

	name := s.finder.GetTimezoneName(coords.Longitude, coords.Latitude)
	if name == "" {
		return "", fmt.Errorf("could not determine timezone for coordinates %s", coords)
	}

	return name, nil
}
