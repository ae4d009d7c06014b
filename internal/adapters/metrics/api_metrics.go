package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// APIMetricsCollector handles ticketing API request metrics
type APIMetricsCollector struct {
	apiRequestsTotal   *prometheus.CounterVec
	apiRequestDuration *prometheus.HistogramVec
	apiRateLimitWait   *prometheus.HistogramVec
	apiNetworkErrors   *prometheus.CounterVec
}

// NewAPIMetricsCollector creates a new API metrics collector
func NewAPIMetricsCollector() *APIMetricsCollector {
	return &APIMetricsCollector{
		apiRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "api_requests_total",
				Help:      "Ticketing API requests by method, endpoint and status code",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		// seat-layout polling runs at millisecond granularity, so the low buckets matter
		apiRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "api_request_duration_seconds",
				Help:      "Ticketing API round trip distribution",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 10.0},
			},
			[]string{"method", "endpoint"},
		),

		apiRateLimitWait: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "api_rate_limit_wait_seconds",
				Help:      "Time spent waiting for the client rate limiter",
				Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1.0},
			},
			[]string{"method", "endpoint"},
		),

		apiNetworkErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "api_network_errors_total",
				Help:      "Ticketing API requests that produced no response",
			},
			[]string{"method", "endpoint"},
		),
	}
}

// Register registers all API metrics with the Prometheus registry
func (c *APIMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.apiRequestsTotal,
		c.apiRequestDuration,
		c.apiRateLimitWait,
		c.apiNetworkErrors,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordAPIRequest records an API request completion
func (c *APIMetricsCollector) RecordAPIRequest(method, endpoint string, statusCode int, duration float64) {
	c.apiRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	c.apiRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordNetworkError records a request that failed before a response arrived
func (c *APIMetricsCollector) RecordNetworkError(method, endpoint string) {
	c.apiNetworkErrors.WithLabelValues(method, endpoint).Inc()
}

// RecordRateLimitWait records time spent waiting for rate limiter
func (c *APIMetricsCollector) RecordRateLimitWait(method, endpoint string, duration float64) {
	c.apiRateLimitWait.WithLabelValues(method, endpoint).Observe(duration)
}
