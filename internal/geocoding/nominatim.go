package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/UnknownOlympus/outreach/internal/models"
)

// NominatimBaseURL is the public OpenStreetMap Nominatim endpoint.
const NominatimBaseURL = "https://nominatim.openstreetmap.org"

// nominatimUserAgent identifies the service per the Nominatim usage policy:
// https://operations.osmfoundation.org/policies/nominatim/
const nominatimUserAgent = "Outreach-Report-Relay/1.0 (https://github.com/UnknownOlympus/outreach)"

// NominatimProvider implements the Provider interface using OpenStreetMap's Nominatim API.
// The public instance allows 1 request/second for fair use.
type NominatimProvider struct {
	client   HTTPClient
	baseURL  string
	language string
	log      *slog.Logger
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type nominatimReverse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// Common errors for Nominatim provider.
var (
	ErrNominatimEmptyResponse = errors.New("nominatim API returned empty response")
	ErrNominatimInvalidCoords = errors.New("nominatim API returned invalid coordinates")
)

// NewNominatimProvider creates a provider for the public Nominatim instance.
func NewNominatimProvider(language string, log *slog.Logger) *NominatimProvider {
	const timeout = 10

	return NewNominatimProviderWithClient(&http.Client{Timeout: timeout * time.Second}, NominatimBaseURL, language, log)
}

// NewNominatimProviderWithClient creates a Nominatim provider with a custom HTTP client and base URL.
func NewNominatimProviderWithClient(client HTTPClient, baseURL, language string, log *slog.Logger) *NominatimProvider {
	if language == "" {
		language = "hu,en"
	}

	return &NominatimProvider{
		client:   client,
		baseURL:  baseURL,
		language: language,
		log:      log,
	}
}

// Geocode returns the coordinates of the top search result for address.
func (np *NominatimProvider) Geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	np.log.DebugContext(ctx, "Geocoding using Nominatim", "address", address)

	query := url.Values{}
	query.Set("q", address)
	query.Set("format", "json")
	query.Set("limit", "1")

	var places []nominatimPlace
	if err := np.get(ctx, "/search", query, &places); err != nil {
		return nil, err
	}

	if len(places) == 0 {
		return nil, ErrNominatimEmptyResponse
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid latitude: %s", ErrNominatimInvalidCoords, places[0].Lat)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid longitude: %s", ErrNominatimInvalidCoords, places[0].Lon)
	}

	return &models.Coordinates{Latitude: lat, Longitude: lon}, nil
}

// ReverseGeocode returns the display name of the place at coords.
func (np *NominatimProvider) ReverseGeocode(ctx context.Context, coords models.Coordinates) (string, error) {
	np.log.DebugContext(ctx, "Reverse geocoding using Nominatim",
		"lat", coords.Latitude, "lng", coords.Longitude)

	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	query.Set("format", "json")

	var place nominatimReverse
	if err := np.get(ctx, "/reverse", query, &place); err != nil {
		return "", err
	}

	// Nominatim answers 200 with an "error" field when nothing is found.
	if place.Error != "" || place.DisplayName == "" {
		return "", ErrNominatimEmptyResponse
	}

	return place.DisplayName, nil
}

func (np *NominatimProvider) get(ctx context.Context, path string, query url.Values, out any) error {
	reqURL, err := url.Parse(np.baseURL + path)
	if err != nil {
		return fmt.Errorf("failed to parse base URL: %w", err)
	}
	reqURL.RawQuery = query.Encode()

	np.log.DebugContext(ctx, "Nominatim request URL", "url", reqURL.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", nominatimUserAgent)
	req.Header.Set("Accept-Language", np.language)

	resp, err := np.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		np.log.ErrorContext(ctx, "Nominatim API error", "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("nominatim API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode nominatim response: %w", err)
	}

	return nil
}
