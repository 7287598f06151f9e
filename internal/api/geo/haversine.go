package geo

import (
	"math"

	"github.com/roamly-ai/roamly/internal/types"
)

const earthRadiusKm = 6371

// HaversineKm returns the great-circle distance between two coordinate pairs,
// rounded to two decimals.
func HaversineKm(a, b types.Coordinates) float64 {
	dLat := degToRad(b.Latitude - a.Latitude)
	dLon := degToRad(b.Longitude - a.Longitude)

	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(degToRad(a.Latitude))*
			math.Cos(degToRad(b.Latitude))*
			math.Pow(math.Sin(dLon/2), 2)

	c := 2 * math.Asin(math.Sqrt(h))
	return math.Round(earthRadiusKm*c*100) / 100
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
