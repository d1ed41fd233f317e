// Package config defines player configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsAddr configures the metrics HTTP listen address, e.g. ":9090".
	// Empty disables the endpoint.
	MetricsAddr string `koanf:"metrics_addr"`

	// OutPort and InPort name the MIDI ports to bind. An empty OutPort
	// plays offline, printing events instead of transmitting them.
	OutPort string `koanf:"out_port"`
	InPort  string `koanf:"in_port"`

	// TicksPerSecond maps the tick timeline onto the wall clock.
	TicksPerSecond float64 `koanf:"ticks_per_second"`

	// Lookahead bounds how many events are scheduled on the device ahead
	// of playback.
	Lookahead int `koanf:"lookahead"`

	// QuantizeGrid snaps event times to this many ticks before playback.
	// Zero disables quantization.
	QuantizeGrid float64 `koanf:"quantize_grid"`

	// HumanizeTiming and HumanizeVelocity bound random performance
	// perturbation. Zero disables each.
	HumanizeTiming   float64 `koanf:"humanize_timing"`
	HumanizeVelocity int     `koanf:"humanize_velocity"`

	// Transpose shifts all notes by this many semitones.
	Transpose int `koanf:"transpose"`

	// VelocityScale multiplies note velocities.
	VelocityScale float64 `koanf:"velocity_scale"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		MetricsAddr:    ":9090",
		TicksPerSecond: 960,
		Lookahead:      64,
		VelocityScale:  1.0,
	}
}
