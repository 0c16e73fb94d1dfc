package geolocation

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/outreach/internal/geocoding"
	"github.com/UnknownOlympus/outreach/internal/models"
)

// AddressLocator positions the device by geocoding an address the user typed.
// It is the command-line stand-in for a browser's positioning API; accuracy
// hints are ignored.
type AddressLocator struct {
	geocoder geocoding.Provider
	address  string
}

// NewAddressLocator creates a locator that always resolves address.
func NewAddressLocator(geocoder geocoding.Provider, address string) *AddressLocator {
	return &AddressLocator{geocoder: geocoder, address: address}
}

// CurrentPosition implements Locator.
func (al *AddressLocator) CurrentPosition(ctx context.Context, _ PositionOptions) (models.Coordinates, error) {
	fix, err := al.geocoder.Geocode(ctx, al.address)
	switch {
	case err == nil && fix != nil:
		return *fix, nil
	case errors.Is(err, context.DeadlineExceeded):
		return models.Coordinates{}, &PositionError{Code: Timeout, Message: err.Error()}
	case err == nil:
		return models.Coordinates{}, &PositionError{Code: PositionUnavailable, Message: "no result"}
	default:
		return models.Coordinates{}, &PositionError{Code: PositionUnavailable, Message: err.Error()}
	}
}
