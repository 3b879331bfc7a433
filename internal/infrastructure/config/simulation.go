package config

import "time"

// SimulationConfig holds settings of the simulated world driven by the CLI and daemon
type SimulationConfig struct {
	// Scenario file (YAML); empty uses the built-in starter room
	Scenario string `mapstructure:"scenario"`

	// Delay between ticks in the daemon
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"required"`

	// Ticks to run; 0 runs until stopped (daemon only)
	MaxTicks int `mapstructure:"max_ticks" validate:"min=0"`

	// Run identifier written with every log line; generated when empty
	RunID string `mapstructure:"run_id"`
}
