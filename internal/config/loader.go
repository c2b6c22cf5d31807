package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces environment overrides, e.g. QSCHED_WORKER_COUNT.
const envPrefix = "QSCHED_"

// Load builds a Config by layering, from lowest to highest precedence:
//  1. defaults (New())
//  2. YAML file named by QSCHED_CONFIG, if set
//  3. environment variables with the QSCHED_ prefix
func Load() (*Config, error) {
	cfg := *New()

	k := koanf.New(".")

	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// QSCHED_WORKER_COUNT -> worker_count; underscores are preserved to
	// match the koanf tags on the struct.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.WorkerCount <= 0 {
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	}
	if c.AnnealingCooling <= 0 || c.AnnealingCooling >= 1 {
		return fmt.Errorf("%w: annealing_cooling must be in (0,1)", ErrInvalidConfig)
	}
	if c.AnnealingMaxIterations <= 0 {
		return fmt.Errorf("%w: annealing_max_iterations must be positive", ErrInvalidConfig)
	}
	if c.AcceptanceRatio <= 0 || c.AcceptanceRatio >= 1 {
		return fmt.Errorf("%w: acceptance_ratio must be in (0,1)", ErrInvalidConfig)
	}
	return nil
}
