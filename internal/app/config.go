package app

import (
	"errors"
	"fmt"
)

// Config holds the process-level settings of an App. Harvest settings come
// from the configuration files named by ConfigPaths; Workers and OutputDir
// override them when set.
type Config struct {
	ConfigPaths []string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	Workers         int
	OutputDir       string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ConfigPaths) == 0 {
		return nil, errors.New("at least one configuration path is required")
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port out of range: %d", cfg.HealthcheckPort)
	}
	return &cfg, nil
}
