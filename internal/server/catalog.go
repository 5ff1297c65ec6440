package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/preston-bernstein/fantasy-squad-service/internal/app/roster"
	"github.com/preston-bernstein/fantasy-squad-service/internal/config"
	"github.com/preston-bernstein/fantasy-squad-service/internal/domain/players"
	"github.com/preston-bernstein/fantasy-squad-service/internal/logging"
	"github.com/preston-bernstein/fantasy-squad-service/internal/seed"
	"github.com/preston-bernstein/fantasy-squad-service/internal/store"
	"github.com/preston-bernstein/fantasy-squad-service/internal/store/bunstore"
	"github.com/preston-bernstein/fantasy-squad-service/internal/store/bunstore/migrations"
)

// DriverMemory keeps the catalog in process memory.
const DriverMemory = "memory"

// Catalog is everything the server needs from a player store.
type Catalog interface {
	roster.Catalog
	seed.Target
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
	Close() error
}

// catalogFactory opens the configured catalog and brings its schema up to date.
type catalogFactory struct {
	logger *slog.Logger
}

func newCatalogFactory(logger *slog.Logger) catalogFactory {
	return catalogFactory{logger: logger}
}

func (f catalogFactory) open(ctx context.Context, cfg config.CatalogConfig) (Catalog, error) {
	logger := f.logger
	if logger != nil {
		logger = logger.With(slog.String(logging.FieldDriver, cfg.Driver))
	}

	switch cfg.Driver {
	case DriverMemory:
		logging.Info(logger, "using in-memory catalog")
		return store.NewMemoryStore(), nil
	case bunstore.DriverSQLite, bunstore.DriverPostgres:
		s, err := bunstore.Open(ctx, cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := migrations.Migrate(ctx, s.DB(), logger); err != nil {
			_ = s.Close()
			return nil, err
		}
		logging.Info(logger, "catalog opened")
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported catalog driver %q", cfg.Driver)
	}
}

// loadSquad reads the seed roster from cfg.SeedFile, or the embedded roster when unset.
func loadSquad(cfg config.CatalogConfig) ([]players.Player, error) {
	if cfg.SeedFile == "" {
		return seed.Default()
	}
	return seed.Load(cfg.SeedFile)
}

// seedCatalog fills an empty catalog when seeding on start is enabled.
func seedCatalog(ctx context.Context, cat Catalog, cfg config.CatalogConfig, logger *slog.Logger) error {
	if !cfg.SeedOnStart {
		return nil
	}
	squad, err := loadSquad(cfg)
	if err != nil {
		return fmt.Errorf("load seed roster: %w", err)
	}
	if _, err := seed.Apply(ctx, cat, squad, logger); err != nil {
		return err
	}
	return nil
}

// OpenCatalog opens, migrates and optionally seeds the configured catalog.
func OpenCatalog(ctx context.Context, cfg config.CatalogConfig, logger *slog.Logger) (Catalog, error) {
	cat, err := newCatalogFactory(logger).open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := seedCatalog(ctx, cat, cfg, logger); err != nil {
		_ = cat.Close()
		return nil, err
	}
	return cat, nil
}
