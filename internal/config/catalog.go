package config

import "strings"

// CatalogConfig selects and seeds the player catalog.
type CatalogConfig struct {
	Driver      string // sqlite, postgres or memory
	DSN         string
	SeedOnStart bool
	SeedFile    string // empty uses the embedded roster
}

func loadCatalog() CatalogConfig {
	return CatalogConfig{
		Driver:      strings.ToLower(envOrDefault(envCatalogDriver, defaultCatalogDriver)),
		DSN:         envOrDefault(envCatalogDSN, defaultCatalogDSN),
		SeedOnStart: boolEnvOrDefault(envSeedOnStart, defaultSeedOnStart),
		SeedFile:    envOrDefault(envSeedFile, ""),
	}
}
