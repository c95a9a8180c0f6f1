package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	PlaceName        string
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Geo returns the result's coordinates, or nil when the provider found nothing.
func (r GeocodingResult) Geo() *Geo {
	if r.Lat == 0 && r.Lon == 0 {
		return nil
	}
	return &Geo{Lat: r.Lat, Lon: r.Lon}
}

// Geocoder resolves a user's home location for distance filtering.
type Geocoder interface {
	// ForwardGeocode converts a postal code (or free-form place) to coordinates.
	ForwardGeocode(ctx context.Context, query string) (GeocodingResult, error)
}
