package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "railbook"
	// Subsystem for booking bot metrics
	subsystem = "bot"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalBookingCollector is the singleton booking metrics collector
	// Set by SetGlobalBookingCollector() when metrics are enabled
	globalBookingCollector BookingMetricsRecorder
)

// BookingMetricsRecorder defines the interface for recording booking run events
// This interface is used by application code to record metrics
type BookingMetricsRecorder interface {
	RecordPollAttempt(outcome string)
	RecordSeatsSelected(policy string, requested, selected int)
	RecordReservation(status string)
	RecordStage(stage string, duration float64, success bool)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalBookingCollector sets the global booking metrics collector
func SetGlobalBookingCollector(collector BookingMetricsRecorder) {
	globalBookingCollector = collector
}

// RecordPollAttempt records one availability poll outcome globally
func RecordPollAttempt(outcome string) {
	if globalBookingCollector != nil {
		globalBookingCollector.RecordPollAttempt(outcome)
	}
}

// RecordSeatsSelected records a seat selection globally
func RecordSeatsSelected(policy string, requested, selected int) {
	if globalBookingCollector != nil {
		globalBookingCollector.RecordSeatsSelected(policy, requested, selected)
	}
}

// RecordReservation records one reservation worker outcome globally
func RecordReservation(status string) {
	if globalBookingCollector != nil {
		globalBookingCollector.RecordReservation(status)
	}
}

// RecordStage records a pipeline stage completion globally
func RecordStage(stage string, duration float64, success bool) {
	if globalBookingCollector != nil {
		globalBookingCollector.RecordStage(stage, duration, success)
	}
}
