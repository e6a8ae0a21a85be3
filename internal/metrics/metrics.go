package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the status board
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec
	HTTPRateLimited      prometheus.Counter

	// Probe Metrics
	ProbeDuration *prometheus.HistogramVec
	ServiceUp     *prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
	RefreshesTotal   prometheus.Counter
}

// NewMetricsRegistry registers every metric with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statusboard_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "statusboard_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "statusboard_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),
		HTTPRateLimited: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "statusboard_http_rate_limited_total",
				Help: "Requests rejected by the per-client rate limiter",
			},
		),

		// Probe Metrics
		ProbeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "statusboard_probe_duration_seconds",
				Help:    "Dependency probe latency in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"service"},
		),
		ServiceUp: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "statusboard_service_up",
				Help: "1 if the last probe of the service reported OK, 0 otherwise",
			},
			[]string{"service"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "statusboard_cache_hits_total",
				Help: "Status snapshots served from cache",
			},
		),
		CacheMissesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "statusboard_cache_misses_total",
				Help: "Status snapshot lookups that required a refresh",
			},
		),
		RefreshesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "statusboard_refreshes_total",
				Help: "Full health check runs",
			},
		),
	}
}
