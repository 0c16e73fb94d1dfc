package geocoding

import (
	"context"
	"net/http"

	"github.com/UnknownOlympus/outreach/internal/models"
)

// Provider resolves between street addresses and coordinates.
// Geocode turns a free-form address into coordinates, ReverseGeocode turns
// coordinates into a human-readable address line.
type Provider interface {
	Geocode(ctx context.Context, address string) (*models.Coordinates, error)
	ReverseGeocode(ctx context.Context, coords models.Coordinates) (string, error)
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
