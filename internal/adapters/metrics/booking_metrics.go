package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// BookingMetricsCollector handles availability, selection, reservation and stage metrics
type BookingMetricsCollector struct {
	pollAttempts   *prometheus.CounterVec
	seatsRequested *prometheus.CounterVec
	seatsSelected  *prometheus.CounterVec
	reservations   *prometheus.CounterVec
	stageDuration  *prometheus.HistogramVec
	stagesTotal    *prometheus.CounterVec
}

// NewBookingMetricsCollector creates a new booking metrics collector
func NewBookingMetricsCollector() *BookingMetricsCollector {
	return &BookingMetricsCollector{
		pollAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "poll_attempts_total",
				Help:      "Seat layout polls by outcome (available, waiting, transient, fatal)",
			},
			[]string{"outcome"},
		),

		seatsRequested: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "seats_requested_total",
				Help:      "Seats requested from the selector by policy",
			},
			[]string{"policy"},
		),

		seatsSelected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "seats_selected_total",
				Help:      "Seats chosen by the selector by policy",
			},
			[]string{"policy"},
		),

		reservations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "reservations_total",
				Help:      "Reservation worker outcomes by status",
			},
			[]string{"status"},
		),

		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "stage_duration_seconds",
				Help:      "Booking pipeline stage duration distribution",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0, 120.0, 600.0},
			},
			[]string{"stage", "status"},
		),

		stagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "stages_total",
				Help:      "Booking pipeline stages by status",
			},
			[]string{"stage", "status"},
		),
	}
}

// Register registers all booking metrics with the Prometheus registry
func (c *BookingMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.pollAttempts,
		c.seatsRequested,
		c.seatsSelected,
		c.reservations,
		c.stageDuration,
		c.stagesTotal,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordPollAttempt counts one availability poll
func (c *BookingMetricsCollector) RecordPollAttempt(outcome string) {
	c.pollAttempts.WithLabelValues(outcome).Inc()
}

// RecordSeatsSelected counts requested and chosen seats
func (c *BookingMetricsCollector) RecordSeatsSelected(policy string, requested, selected int) {
	c.seatsRequested.WithLabelValues(policy).Add(float64(requested))
	c.seatsSelected.WithLabelValues(policy).Add(float64(selected))
}

// RecordReservation counts one reservation worker outcome
func (c *BookingMetricsCollector) RecordReservation(status string) {
	c.reservations.WithLabelValues(status).Inc()
}

// RecordStage records a pipeline stage result and duration
func (c *BookingMetricsCollector) RecordStage(stage string, duration float64, success bool) {
	status := statusLabel(success)
	c.stageDuration.WithLabelValues(stage, status).Observe(duration)
	c.stagesTotal.WithLabelValues(stage, status).Inc()
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
