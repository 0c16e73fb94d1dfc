// Package cliparse handles the reporter's command-line configuration. Flags fall
// back to environment variables; flags take precedence.
package cliparse

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
)

// Config is the reporter configuration.
type Config struct {
	Env      string
	RelayURL string
	CacheDir string

	List bool

	Name        string
	Description string
	PhotoPath   string

	// Manual coordinates pick; HasCoordinates is set when both flags were given.
	Latitude       float64
	Longitude      float64
	HasCoordinates bool

	Address        string
	Geocoder       string
	GeocoderAPIKey string
}

// ParseFlags parses args (without the program name) and validates the result.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := pflag.NewFlagSet("reporter", pflag.ContinueOnError)

	fs.StringVarP(&cfg.RelayURL, "relay", "r", "", "Relay endpoint URL (env OUTREACH_RELAY_URL)")
	fs.StringVar(&cfg.CacheDir, "cache-dir", "", "Directory of the local report cache (env OUTREACH_CACHE_DIR)")
	fs.StringVar(&cfg.Env, "env", "", "Logger flavour: local, development or production (env OUTREACH_ENV)")
	fs.BoolVarP(&cfg.List, "list", "l", false, "Print the locally cached reports and exit")

	fs.StringVarP(&cfg.Name, "name", "n", "", "Reporter name")
	fs.StringVarP(&cfg.Description, "description", "d", "", "What you saw")
	fs.StringVarP(&cfg.PhotoPath, "photo", "p", "", "Path of an image to attach")

	fs.Float64Var(&cfg.Latitude, "lat", 0, "Latitude of the manual pick")
	fs.Float64Var(&cfg.Longitude, "lng", 0, "Longitude of the manual pick")
	fs.StringVarP(&cfg.Address, "address", "a", "", "Locate by street address instead of coordinates")
	fs.StringVar(&cfg.Geocoder, "geocoder", "", "Geocoder for --address: nominatim or google (env GEOCODER_PROVIDER)")
	fs.StringVar(&cfg.GeocoderAPIKey, "geocoder-key", "", "Google geocoding key (env GEOCODER_API_KEY)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	latSet, lngSet := fs.Changed("lat"), fs.Changed("lng")
	if latSet != lngSet {
		return Config{}, errors.New("--lat and --lng must be given together")
	}
	cfg.HasCoordinates = latSet && lngSet

	fallback(&cfg.RelayURL, "OUTREACH_RELAY_URL", "http://localhost:8888/api/send-report")
	fallback(&cfg.CacheDir, "OUTREACH_CACHE_DIR", defaultCacheDir())
	fallback(&cfg.Env, "OUTREACH_ENV", "production")
	fallback(&cfg.Geocoder, "GEOCODER_PROVIDER", "nominatim")
	fallback(&cfg.GeocoderAPIKey, "GEOCODER_API_KEY", "")
	cfg.Geocoder = strings.ToLower(cfg.Geocoder)

	if cfg.List {
		return cfg, nil
	}

	if cfg.Name == "" || cfg.Description == "" {
		return Config{}, errors.New("--name and --description are required")
	}
	if cfg.HasCoordinates && cfg.Address != "" {
		return Config{}, errors.New("use either --lat/--lng or --address, not both")
	}
	if !cfg.HasCoordinates && cfg.Address == "" {
		return Config{}, errors.New("location required (use --lat/--lng or --address)")
	}

	return cfg, nil
}

func fallback(value *string, env, def string) {
	if *value != "" {
		return
	}
	if v := os.Getenv(env); v != "" {
		*value = v
		return
	}
	*value = def
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".outreach"
	}

	return filepath.Join(dir, "outreach")
}
