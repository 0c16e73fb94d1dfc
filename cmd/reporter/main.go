package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/UnknownOlympus/outreach/internal/cache"
	"github.com/UnknownOlympus/outreach/internal/client"
	"github.com/UnknownOlympus/outreach/internal/cliparse"
	"github.com/UnknownOlympus/outreach/internal/coords"
	"github.com/UnknownOlympus/outreach/internal/geocoding"
	"github.com/UnknownOlympus/outreach/internal/geolocation"
	"github.com/UnknownOlympus/outreach/internal/models"
	"github.com/UnknownOlympus/outreach/internal/photo"
	"github.com/UnknownOlympus/outreach/internal/report"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
)

const (
	envLocal = "local"
	envDev   = "development"
)

func main() {
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := setupLogger(cfg.Env)
	fs := afero.NewOsFs()

	store := cache.New(fs, cfg.CacheDir, cache.DefaultSlot, logger)
	store.Load()

	if cfg.List {
		printReports(os.Stdout, store.Reports())
		return
	}

	if err = run(ctx, cfg, fs, store, logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg cliparse.Config, fs afero.Fs, store *cache.Cache, logger *slog.Logger) error {
	bus := coords.NewBus()

	encoder := photo.NewEncoder(fs)
	if cfg.PhotoPath != "" {
		encoder.Select(cfg.PhotoPath)
	}

	if cfg.HasCoordinates {
		bus.Set(models.Coordinates{Latitude: cfg.Latitude, Longitude: cfg.Longitude})
	} else {
		geocoder, err := geocoding.NewProvider(geocoding.ProviderConfig{
			Type:   geocoding.ProviderType(cfg.Geocoder),
			APIKey: cfg.GeocoderAPIKey,
			Logger: logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create geocoder: %w", err)
		}

		locator := geolocation.NewCachedLocator(geolocation.NewAddressLocator(geocoder, cfg.Address))
		if _, err = geolocation.NewResolver(locator, nil, bus, logger).Resolve(ctx); err != nil {
			return errors.New(geolocation.UserMessage(err))
		}
	}

	form := report.NewForm(bus)
	form.Name = cfg.Name
	form.Description = cfg.Description

	if cfg.PhotoPath != "" {
		payload, err := encoder.Payload(ctx)
		if err != nil {
			return fmt.Errorf("failed to attach photo: %w", err)
		}
		form.Photo = payload
	}

	r, err := form.Build()
	if err != nil {
		return err
	}

	updates, cancel := store.Subscribe()
	defer cancel()
	<-updates

	if err = client.New(cfg.RelayURL, store, logger).Submit(ctx, r); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Bejelentés elküldve: %s (%.5f, %.5f)\n", r.Name, r.Latitude, r.Longitude)
	fmt.Fprintf(os.Stdout, "Helyben tárolt bejelentések: %d\n", len(<-updates))

	return nil
}

func printReports(w io.Writer, reports []models.Report) {
	if len(reports) == 0 {
		fmt.Fprintln(w, "Nincs helyben tárolt bejelentés.")
		return
	}

	for _, r := range reports {
		photoMark := ""
		if r.HasPhoto() {
			photoMark = " [fotó]"
		}
		fmt.Fprintf(w, "%.5f,%.5f\t%s%s\t%s\n", r.Latitude, r.Longitude, r.Name, photoMark, r.Description)
	}
}

// setupLogger writes to stderr so that stdout stays reserved for command output.
func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug, AddSource: true}))
	case envDev:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
}
