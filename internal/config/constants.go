package config

import "time"

const (
	envPort            = "PORT"
	envLineupSize      = "LINEUP_SIZE"
	envShutdownTimeout = "SHUTDOWN_TIMEOUT"
	envCatalogDriver   = "CATALOG_DRIVER"
	envCatalogDSN      = "CATALOG_DSN"
	envSeedOnStart     = "SEED_ON_START"
	envSeedFile        = "SEED_FILE"
	envMetricsPort     = "METRICS_PORT"
	envMetricsOn       = "METRICS_ENABLED"
	envOtelEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService     = "OTEL_SERVICE_NAME"
	envOtelInsecure    = "OTEL_EXPORTER_OTLP_INSECURE"
	envLogLevel        = "LOG_LEVEL"
	envLogFormat       = "LOG_FORMAT"
	envAdminToken      = "ADMIN_TOKEN"

	defaultPort = "5000"
	// Squad page shows the best eleven.
	defaultLineupSize      = 11
	defaultShutdownTimeout = 10 * Duration(time.Second)
	defaultCatalogDriver   = "sqlite"
	defaultCatalogDSN      = "file:fantasy_pl.db"
	defaultSeedOnStart     = true
	defaultMetricsPort     = "9090"
	defaultServiceName     = "fantasy-squad-service"
	defaultLogLevel        = "info"
	defaultLogFormat       = "text"
)
