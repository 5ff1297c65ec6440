package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.LineupSize != defaultLineupSize {
		t.Fatalf("expected default lineup size %d, got %d", defaultLineupSize, cfg.LineupSize)
	}
	if cfg.ShutdownTimeout != defaultShutdownTimeout {
		t.Fatalf("expected default shutdown timeout %s, got %s", defaultShutdownTimeout, cfg.ShutdownTimeout)
	}
	if cfg.Catalog.Driver != defaultCatalogDriver || cfg.Catalog.DSN != defaultCatalogDSN {
		t.Fatalf("unexpected catalog defaults %+v", cfg.Catalog)
	}
	if !cfg.Catalog.SeedOnStart || cfg.Catalog.SeedFile != "" {
		t.Fatalf("expected seeding on start from embedded roster, got %+v", cfg.Catalog)
	}
	if cfg.Metrics.ServiceName != defaultServiceName {
		t.Fatalf("expected default service name, got %s", cfg.Metrics.ServiceName)
	}
	if cfg.Log.Level != defaultLogLevel || cfg.Log.Format != defaultLogFormat {
		t.Fatalf("unexpected log defaults %+v", cfg.Log)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(envPort, "8080")
	t.Setenv(envLineupSize, "5")
	t.Setenv(envShutdownTimeout, "3s")
	t.Setenv(envCatalogDriver, "Postgres")
	t.Setenv(envCatalogDSN, "postgres://squad@localhost/squad")
	t.Setenv(envSeedOnStart, "false")
	t.Setenv(envSeedFile, "/etc/squad/roster.yaml")
	t.Setenv(envLogFormat, "json")
	t.Setenv(envAdminToken, "s3cret")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.LineupSize != 5 {
		t.Fatalf("expected lineup size 5, got %d", cfg.LineupSize)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("expected shutdown timeout 3s, got %s", cfg.ShutdownTimeout)
	}
	if cfg.Catalog.Driver != "postgres" {
		t.Fatalf("expected lower-cased driver, got %s", cfg.Catalog.Driver)
	}
	if cfg.Catalog.DSN != "postgres://squad@localhost/squad" {
		t.Fatalf("expected dsn override, got %s", cfg.Catalog.DSN)
	}
	if cfg.Catalog.SeedOnStart {
		t.Fatalf("expected seeding disabled")
	}
	if cfg.Catalog.SeedFile != "/etc/squad/roster.yaml" {
		t.Fatalf("expected seed file override, got %s", cfg.Catalog.SeedFile)
	}
	if cfg.Log.Format != "json" {
		t.Fatalf("expected json log format, got %s", cfg.Log.Format)
	}
	if cfg.AdminToken != "s3cret" {
		t.Fatalf("expected admin token override, got %q", cfg.AdminToken)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv(envShutdownTimeout, "not-a-duration")
	t.Setenv(envLineupSize, "-3")

	cfg := Load()

	if cfg.ShutdownTimeout != defaultShutdownTimeout {
		t.Fatalf("expected default shutdown timeout on invalid value, got %s", cfg.ShutdownTimeout)
	}
	if cfg.LineupSize != defaultLineupSize {
		t.Fatalf("expected default lineup size on invalid value, got %d", cfg.LineupSize)
	}
}

func TestLoadDotEnvMissingFileIgnored(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
}

func TestLoadDotEnvDoesNotOverrideExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("PORT=7000\nLINEUP_SIZE=7\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv(envPort, "6000")
	t.Setenv(envLineupSize, "")
	os.Unsetenv(envLineupSize)

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv(envLineupSize) })

	cfg := Load()
	if cfg.Port != "6000" {
		t.Fatalf("expected existing PORT to win, got %s", cfg.Port)
	}
	if cfg.LineupSize != 7 {
		t.Fatalf("expected LINEUP_SIZE from file, got %d", cfg.LineupSize)
	}
}
