package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/outreach/internal/config"
	"github.com/UnknownOlympus/outreach/internal/geocoding"
	"github.com/UnknownOlympus/outreach/internal/mail"
	"github.com/UnknownOlympus/outreach/internal/metrics"
	"github.com/UnknownOlympus/outreach/internal/relay"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// Relay routes. The second path keeps old form deployments working.
const (
	routeSendReport       = "/api/send-report"
	routeLegacySendReport = "/.netlify/functions/send-report"
)

func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// The provider is selected once. A failure is not fatal: the relay keeps
	// answering and reports the configuration error on every request.
	provider, providerErr := mail.NewProvider(mail.ProviderConfig{
		Type:   mail.ParseProviderType(cfg.Mail.Provider),
		APIKey: cfg.Mail.APIKey,
		SMTP: mail.SMTPConfig{
			Host:     cfg.Mail.SMTP.Host,
			Port:     cfg.Mail.SMTP.Port,
			Username: cfg.Mail.SMTP.Username,
			Password: cfg.Mail.SMTP.Password,
		},
		RateLimit: cfg.Mail.RateLimit,
		Logger:    logger,
	})
	if providerErr != nil {
		logger.ErrorContext(ctx, "Mail provider not configured", "provider", cfg.Mail.Provider, "error", providerErr)
	} else {
		logger.InfoContext(ctx, "Mail provider initialized", "provider", provider.Name())
	}

	var geocoder geocoding.Provider
	if cfg.Geocoder.Provider != "" {
		var err error
		geocoder, err = geocoding.NewProvider(geocoding.ProviderConfig{
			Type:     geocoding.ProviderType(cfg.Geocoder.Provider),
			APIKey:   cfg.Geocoder.APIKey,
			Language: cfg.Geocoder.Language,
			Logger:   logger,
		})
		if err != nil {
			logger.WarnContext(ctx, "Address enrichment disabled", "error", err)
		} else {
			logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.Geocoder.Provider)
		}
	}

	handler := relay.NewHandler(relay.Options{
		From:            cfg.Notification.From,
		To:              cfg.Notification.To,
		SubjectPrefix:   cfg.Notification.SubjectPrefix,
		AllowOrigin:     cfg.AllowOrigin,
		Provider:        provider,
		ProviderErr:     providerErr,
		Geocoder:        geocoder,
		GeocoderTimeout: cfg.Geocoder.Timeout,
		Metrics:         appMetrics,
		Logger:          logger,
	})

	mux := http.NewServeMux()
	mux.Handle(routeSendReport, relay.WithLogging(logger, handler))
	mux.Handle(routeLegacySendReport, relay.WithLogging(logger, handler))

	go startMonitoringServer(ctx, logger, reg, providerErr, cfg.HealthPort)

	if err := serve(ctx, logger, mux, cfg.Port); err != nil {
		logger.ErrorContext(ctx, "Relay server failed", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Relay stopped gracefully.")
}

// serve runs the relay until ctx is canceled, then drains in-flight requests.
func serve(ctx context.Context, log *slog.Logger, handler http.Handler, port int) error {
	const (
		readTimeout     = 10 * time.Second
		writeTimeout    = 30 * time.Second
		shutdownTimeout = 15 * time.Second
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "Starting relay server", "port", port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.InfoContext(ctx, "Shutdown signal received. Stopping relay...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down relay server: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// startMonitoringServer serves /healthz and /metrics on port. The health check
// fails while the mail provider is not configured.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	providerErr error,
	port int,
) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		status, body := http.StatusOK, "OK"
		if providerErr != nil {
			status, body = http.StatusServiceUnavailable, "Mail provider not configured"
		}
		writer.WriteHeader(status)
		if _, err := writer.Write([]byte(body)); err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	dropTime := func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey {
			return slog.Attr{}
		}
		return a
	}

	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:       slog.LevelWarn,
			ReplaceAttr: dropTime,
		}))
	default:
		log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:       slog.LevelError,
			ReplaceAttr: dropTime,
		}))
		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))

		return log
	}
}
