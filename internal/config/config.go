package config

// Config holds runtime configuration for the server.
type Config struct {
	Port            string
	LineupSize      int
	ShutdownTimeout Duration
	Catalog         CatalogConfig
	Metrics         MetricsConfig
	Log             LogConfig
	// AdminToken guards the admin endpoints. Empty disables them.
	AdminToken string
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:            envOrDefault(envPort, defaultPort),
		LineupSize:      intEnvOrDefault(envLineupSize, defaultLineupSize),
		ShutdownTimeout: durationEnvOrDefault(envShutdownTimeout, defaultShutdownTimeout),
		Catalog:         loadCatalog(),
		Metrics:         loadMetrics(),
		Log: LogConfig{
			Level:  envOrDefault(envLogLevel, defaultLogLevel),
			Format: envOrDefault(envLogFormat, defaultLogFormat),
		},
		AdminToken: envOrDefault(envAdminToken, ""),
	}
}
