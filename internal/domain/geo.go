package domain

import (
	"fmt"
	"math"
)

// earthRadiusMiles is the mean Earth radius used for great-circle distances.
const earthRadiusMiles = 3958.8

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DistanceMiles returns the great-circle distance between two points using
// the haversine formula.
func DistanceMiles(a, b Geo) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMiles * c
}

// FormatHeight renders inches as feet and inches, e.g. 74 -> 6'2".
// Returns "N/A" for zero, negative or NaN input.
func FormatHeight(inches float64) string {
	if math.IsNaN(inches) || inches <= 0 {
		return "N/A"
	}
	feet := int(inches / 12)
	rest := int(math.Round(math.Mod(inches, 12)))
	if rest == 12 {
		feet++
		rest = 0
	}
	return fmt.Sprintf("%d'%d\"", feet, rest)
}
