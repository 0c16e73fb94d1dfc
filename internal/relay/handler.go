// Package relay implements the notification relay: a stateless HTTP endpoint
// that turns a submitted report into an HTML email and forwards it through the
// configured mail provider.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/UnknownOlympus/outreach/internal/geocoding"
	"github.com/UnknownOlympus/outreach/internal/mail"
	"github.com/UnknownOlympus/outreach/internal/metrics"
	"github.com/UnknownOlympus/outreach/internal/models"
	"github.com/prometheus/client_golang/prometheus"
)

// Options configures a Handler.
type Options struct {
	From          string // From is the sender address; empty is reported per request.
	To            string // To is the recipient address; empty is reported per request.
	SubjectPrefix string
	AllowOrigin   string

	// Provider is the mail backend selected at startup. When it could not be
	// built, ProviderErr holds the reason and every request fails with a
	// configuration error.
	Provider    mail.Provider
	ProviderErr error

	// Geocoder optionally enriches notifications with a street address.
	Geocoder        geocoding.Provider
	GeocoderTimeout time.Duration

	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Handler is the notification relay endpoint. It holds no per-request state
// and is safe for concurrent use.
type Handler struct {
	opts Options
	log  *slog.Logger
}

// reportRequest is the wire form of a report. Coordinates are pointers so that
// absent fields can be told apart from zero.
type reportRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Photo       *string  `json:"photo"`
}

// NewHandler creates the relay handler. A nil Logger falls back to slog.Default
// and nil Metrics to collectors on a private registry.
func NewHandler(opts Options) *Handler {
	if opts.AllowOrigin == "" {
		opts.AllowOrigin = "*"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewMetrics(prometheus.NewRegistry())
	}

	return &Handler{opts: opts, log: opts.Logger}
}

// ServeHTTP runs one request through method gate, payload parse, configuration
// check, provider check, render and dispatch, stopping at the first failure.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.log.With("request_id", RequestID(ctx))

	h.opts.Metrics.InFlightRequests.Inc()
	defer h.opts.Metrics.InFlightRequests.Dec()

	setCORSHeaders(w, h.opts.AllowOrigin)

	switch r.Method {
	case http.MethodOptions:
		h.opts.Metrics.Requests.WithLabelValues("preflight").Inc()
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		h.fail(w, log, "method_not_allowed", http.StatusMethodNotAllowed, envelope{Error: errMethodNotAllowed})
		return
	}

	req, err := decodeReport(r.Body)
	if err != nil {
		log.WarnContext(ctx, "Rejected malformed payload", "error", err)
		h.fail(w, log, "bad_request", http.StatusBadRequest, envelope{Error: errInvalidJSON})
		return
	}

	coords, ok := req.coordinates()
	if !ok {
		h.fail(w, log, "bad_request", http.StatusBadRequest, envelope{Error: errMissingCoordinates})
		return
	}

	var photo string
	if req.Photo != nil {
		if photo, err = normalizePhoto(*req.Photo); err != nil {
			log.WarnContext(ctx, "Rejected photo", "photo_bytes", len(*req.Photo), "error", err)
			h.fail(w, log, "bad_request", http.StatusBadRequest, envelope{Error: errInvalidPhoto})
			return
		}
	}

	if h.opts.From == "" || h.opts.To == "" {
		log.ErrorContext(ctx, "Sender or recipient address is not configured")
		h.fail(w, log, "config_error", http.StatusInternalServerError, envelope{Error: errMissingAddresses})
		return
	}

	if h.opts.Provider == nil {
		detail := "no mail provider"
		if h.opts.ProviderErr != nil {
			detail = h.opts.ProviderErr.Error()
		}
		log.ErrorContext(ctx, "Mail provider is not available", "detail", detail)
		h.fail(w, log, "config_error", http.StatusInternalServerError,
			envelope{Error: errProviderNotReady, Detail: detail})
		return
	}

	n := notification{
		Name:        req.Name,
		Description: req.Description,
		Coordinates: &coords,
		Photo:       photo,
		Address:     h.lookupAddress(ctx, log, coords),
	}

	html, err := render(n)
	if err != nil {
		log.ErrorContext(ctx, "Failed to render notification", "error", err)
		h.fail(w, log, "render_error", http.StatusInternalServerError, envelope{Error: errRenderFailed})
		return
	}

	msg := mail.Message{
		From:    h.opts.From,
		To:      h.opts.To,
		Subject: subject(h.opts.SubjectPrefix, req.Name),
		HTML:    html,
	}

	if err = h.dispatch(ctx, msg); err != nil {
		h.failDispatch(ctx, w, log, err)
		return
	}

	log.InfoContext(ctx, "Report relayed", "provider", h.opts.Provider.Name(), "photo", n.Photo != "")
	h.opts.Metrics.Requests.WithLabelValues("ok").Inc()
	writeJSON(w, log, http.StatusOK, envelope{OK: true})
}

func (h *Handler) dispatch(ctx context.Context, msg mail.Message) error {
	provider := h.opts.Provider.Name()

	start := time.Now()
	err := h.opts.Provider.Send(ctx, msg)
	h.opts.Metrics.DispatchSeconds.WithLabelValues(provider).Observe(time.Since(start).Seconds())

	return err
}

func (h *Handler) failDispatch(ctx context.Context, w http.ResponseWriter, log *slog.Logger, err error) {
	provider := h.opts.Provider.Name()

	var providerErr *mail.ProviderError
	if errors.As(err, &providerErr) {
		log.ErrorContext(ctx, "Mail provider rejected notification",
			"provider", provider, "status", providerErr.Status, "body", providerErr.Body)
		h.opts.Metrics.ProviderErrors.WithLabelValues(provider, "provider").Inc()
		h.fail(w, log, "provider_error", http.StatusInternalServerError, envelope{
			Error:  providerErr.Provider + " error",
			Status: providerErr.Status,
			Detail: providerErr.Body,
		})
		return
	}

	log.ErrorContext(ctx, "Mail provider call failed", "provider", provider, "error", err)
	h.opts.Metrics.ProviderErrors.WithLabelValues(provider, "transport").Inc()
	h.fail(w, log, "transport_error", http.StatusInternalServerError,
		envelope{Error: errProviderCall, Detail: err.Error()})
}

func (h *Handler) fail(w http.ResponseWriter, log *slog.Logger, outcome string, statusCode int, body envelope) {
	h.opts.Metrics.Requests.WithLabelValues(outcome).Inc()
	writeJSON(w, log, statusCode, body)
}

// lookupAddress reverse geocodes coords when a geocoder is configured.
// Failures only cost the address line.
func (h *Handler) lookupAddress(ctx context.Context, log *slog.Logger, coords models.Coordinates) string {
	if h.opts.Geocoder == nil {
		return ""
	}

	if h.opts.GeocoderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.GeocoderTimeout)
		defer cancel()
	}

	address, err := h.opts.Geocoder.ReverseGeocode(ctx, coords)
	if err != nil {
		log.WarnContext(ctx, "Reverse geocoding failed", "error", err)
		h.opts.Metrics.GeocoderLookups.WithLabelValues("failure").Inc()
		return ""
	}

	h.opts.Metrics.GeocoderLookups.WithLabelValues("success").Inc()

	return address
}

// decodeReport parses the request body. An empty body counts as an empty object.
func decodeReport(body io.Reader) (reportRequest, error) {
	var req reportRequest

	raw, err := io.ReadAll(body)
	if err != nil {
		return req, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return req, nil
	}

	err = json.Unmarshal(raw, &req)

	return req, err
}

func (r reportRequest) coordinates() (models.Coordinates, bool) {
	if r.Latitude == nil || r.Longitude == nil {
		return models.Coordinates{}, false
	}

	coords := models.Coordinates{Latitude: *r.Latitude, Longitude: *r.Longitude}

	return coords, coords.Valid()
}
