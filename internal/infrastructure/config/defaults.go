package config

import (
	"os"
	"path/filepath"
	"time"
)

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// API defaults
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://railspaapi.shohoz.com/v1.0/app"
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 30 * time.Second
	}
	if cfg.API.RateLimit.Requests == 0 {
		cfg.API.RateLimit.Requests = 1000
	}
	if cfg.API.RateLimit.Burst == 0 {
		cfg.API.RateLimit.Burst = 20
	}

	// Selection defaults
	if cfg.Selection.MaxSeats == 0 {
		cfg.Selection.MaxSeats = 4
	}

	// Polling defaults
	if cfg.Polling.MinInterval == 0 {
		cfg.Polling.MinInterval = time.Millisecond
	}
	if cfg.Polling.TripRetryDelay == 0 {
		cfg.Polling.TripRetryDelay = time.Second
	}
	if cfg.Polling.ReserveRetryDelay == 0 {
		cfg.Polling.ReserveRetryDelay = 100 * time.Millisecond
	}
	if cfg.Polling.StepRetryDelay == 0 {
		cfg.Polling.StepRetryDelay = time.Second
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	// Metrics defaults
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Run defaults
	if cfg.Run.LockFile == "" {
		cfg.Run.LockFile = filepath.Join(os.TempDir(), "railbook.lock")
	}
}
