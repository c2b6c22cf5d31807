// Package config defines process configuration and its loading hooks.
//
// Conventions follow the rest of the module: defaults first, then an
// optional YAML file, then environment variables; sentinel error kinds for
// callers to match on.
package config

import "runtime"

// Config contains process configuration for the scheduler CLI and the batch
// execution pool. Solver tunables here are defaults; a Problem cannot
// override them, only options on the service can.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Algorithm is the default algorithm when a problem omits one.
	Algorithm string `koanf:"algorithm"`

	// WorkerCount sets the number of batch workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory batch job queue.
	QueueSize int `koanf:"queue_size"`

	// AnnealingTemperature is the initial annealing temperature.
	AnnealingTemperature float64 `koanf:"annealing_temperature"`

	// AnnealingCooling is the geometric cooling factor in (0,1).
	AnnealingCooling float64 `koanf:"annealing_cooling"`

	// AnnealingMaxIterations bounds the annealing loop.
	AnnealingMaxIterations int `koanf:"annealing_max_iterations"`

	// AnnealingSeed fixes the random source when non-zero; zero keeps the
	// solver stochastic.
	AnnealingSeed int64 `koanf:"annealing_seed"`

	// HybridMaxRequests and HybridMaxHosts bound the problem size for which
	// hybrid mode attempts the annealing solver first.
	HybridMaxRequests int `koanf:"hybrid_max_requests"`
	HybridMaxHosts    int `koanf:"hybrid_max_hosts"`

	// AcceptanceRatio is the scheduled fraction an annealing result must
	// exceed for hybrid mode to keep it.
	AcceptanceRatio float64 `koanf:"acceptance_ratio"`

	// UtilizationSlotsPerHost is the placeholder per-host slot count in the
	// average-utilization denominator.
	UtilizationSlotsPerHost int `koanf:"utilization_slots_per_host"`

	// BufferMinutes is applied when a problem's constraints omit it.
	BufferMinutes int `koanf:"buffer_minutes"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:                "info",
		Algorithm:               "hybrid",
		WorkerCount:             runtime.NumCPU(),
		QueueSize:               1024,
		AnnealingTemperature:    1000,
		AnnealingCooling:        0.95,
		AnnealingMaxIterations:  1000,
		HybridMaxRequests:       50,
		HybridMaxHosts:          10,
		AcceptanceRatio:         0.7,
		UtilizationSlotsPerHost: 4,
		BufferMinutes:           15,
	}
}
