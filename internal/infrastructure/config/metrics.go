package config

import (
	"net"
	"strconv"
)

// MetricsConfig controls the optional Prometheus endpoint of a booking run
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Bind address; localhost keeps the endpoint off the network
	Host string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port int    `mapstructure:"port" validate:"omitempty,min=1024,max=65535"`
	Path string `mapstructure:"path" validate:"omitempty,startswith=/"`
}

// Address is the host:port the metrics server listens on
func (m MetricsConfig) Address() string {
	return net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
}
