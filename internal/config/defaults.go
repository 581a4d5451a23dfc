package config

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Redis: RedisConfig{
			Address:   "localhost:6379",
			DB:        0,
			KeyPrefix: "chatpop:",
		},
		Limits: LimitsConfig{
			MaxGlobal:          10,
			MaxPerChat:         5,
			ReservationMinutes: 30,
			WindowMinutes:      60,
			MaxReserveRetries:  25,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
