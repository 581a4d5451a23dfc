package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Validate Redis
	if c.Redis.Address == "" {
		return fmt.Errorf("redis.address is required")
	}

	// Validate limits
	if c.Limits.MaxGlobal < 0 {
		return fmt.Errorf("limits.max_global must not be negative")
	}
	if c.Limits.MaxPerChat < 0 {
		return fmt.Errorf("limits.max_per_chat must not be negative")
	}
	if c.Limits.ReservationMinutes < 1 {
		return fmt.Errorf("limits.reservation_minutes must be at least 1")
	}
	if c.Limits.WindowMinutes < 1 {
		return fmt.Errorf("limits.window_minutes must be at least 1")
	}
	if c.Limits.MaxReserveRetries < 1 {
		return fmt.Errorf("limits.max_reserve_retries must be at least 1")
	}

	return nil
}
