package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the relay's Prometheus collectors.
type Metrics struct {
	Requests         *prometheus.CounterVec
	ProviderErrors   *prometheus.CounterVec
	DispatchSeconds  *prometheus.HistogramVec
	GeocoderLookups  *prometheus.CounterVec
	InFlightRequests prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "relay_requests_total",
			Help: "Total number of relay requests by outcome.",
		}, []string{"outcome"}),
		ProviderErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "relay_provider_errors_total",
			Help: "Total number of failed deliveries to the mail provider.",
		}, []string{"provider", "kind"}),
		DispatchSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "relay_provider_dispatch_duration_seconds",
			Help:    "Duration of requests to the mail provider.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		GeocoderLookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "relay_geocoder_lookups_total",
			Help: "Total number of reverse geocoding lookups by status.",
		}, []string{"status"}),
		InFlightRequests: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "relay_in_flight_requests",
			Help: "Current number of relay requests being handled.",
		}),
	}
}
