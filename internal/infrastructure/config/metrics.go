package config

import "fmt"

// MetricsConfig controls the Prometheus endpoint of the colony daemon
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Bind address; localhost unless the scraper runs elsewhere
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"omitempty,min=1024,max=65535"`
	Path string `mapstructure:"path" validate:"omitempty,startswith=/"`
}

// Addr is the host:port the metrics server listens on
func (m MetricsConfig) Addr() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}
