package types

var cardinalDirections = [16]string{
	"N", "NNE", "NE", "ENE",
	"E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW",
	"W", "WNW", "NW", "NNW",
}

// CardinalDirection converts a meteorological wind direction in degrees to
// one of 16 compass points.
func CardinalDirection(degrees float64) string {
	index := int(degrees/22.5+.5) % 16 // .5 for rounding
	if index < 0 {
		index += 16
	}
	return cardinalDirections[index]
}
