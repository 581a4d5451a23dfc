package config

import (
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Redis   RedisConfig   `yaml:"redis"`
	Limits  LimitsConfig  `yaml:"limits"`
	Logging LoggingConfig `yaml:"logging"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Address     string `yaml:"address"`
	PasswordEnv string `yaml:"password_env"`
	DB          int    `yaml:"db"`
	KeyPrefix   string `yaml:"key_prefix"`
}

// LimitsConfig holds generation ceilings, windows, and the bound on the
// reserve retry loop. A ceiling of 0 means unlimited.
type LimitsConfig struct {
	MaxGlobal          int      `yaml:"max_global"`
	MaxPerChat         int      `yaml:"max_per_chat"`
	ReservationMinutes int      `yaml:"reservation_minutes"`
	WindowMinutes      int      `yaml:"window_minutes"`
	MaxReserveRetries  int      `yaml:"max_reserve_retries"`
	BlockedPatterns    []string `yaml:"blocked_patterns,omitempty"`
}

// ReservationTTL returns the reservation window as a Duration. History,
// rotation and recent-suggestion records share the same window.
func (l *LimitsConfig) ReservationTTL() time.Duration {
	return time.Duration(l.ReservationMinutes) * time.Minute
}

// Window returns the attempt-counter window as a Duration
func (l *LimitsConfig) Window() time.Duration {
	return time.Duration(l.WindowMinutes) * time.Minute
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}
