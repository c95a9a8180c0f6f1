package shortlist

import (
	"context"
	"fmt"

	"github.com/couchcryptid/baseball-program-finder/internal/domain"
)

// GeocodeHome resolves a ZIP code to the home location used by the distance
// filter. A nil Geo with a nil error means the provider found no match.
func (s *Service) GeocodeHome(ctx context.Context, zip string) (*domain.Geo, error) {
	if s.geocoder == nil {
		return nil, ErrGeocoderUnavailable
	}
	res, err := s.geocoder.ForwardGeocode(ctx, zip)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", zip, err)
	}
	geo := res.Geo()
	if geo == nil {
		s.logger.Debug("home zip not found", "zip", zip)
	}
	return geo, nil
}
