package migrations

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	"github.com/preston-bernstein/fantasy-squad-service/internal/logging"
)

// Migrations holds every catalog schema migration.
var Migrations = migrate.NewMigrations()

// Migrate creates the bookkeeping tables when needed and applies pending migrations.
func Migrate(ctx context.Context, db *bun.DB, logger *slog.Logger) error {
	migrator := migrate.NewMigrator(db, Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if group.IsZero() {
		logging.Info(logger, "no new migrations to run")
		return nil
	}
	logging.Info(logger, "migrated catalog", slog.String("group", group.String()))
	return nil
}

// Rollback reverts the last applied migration group.
func Rollback(ctx context.Context, db *bun.DB, logger *slog.Logger) error {
	migrator := migrate.NewMigrator(db, Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	group, err := migrator.Rollback(ctx)
	if err != nil {
		return fmt.Errorf("rollback migrations: %w", err)
	}
	if group.IsZero() {
		logging.Info(logger, "no groups to roll back")
		return nil
	}
	logging.Info(logger, "rolled back catalog", slog.String("group", group.String()))
	return nil
}

// Status reports applied and pending migration names.
func Status(ctx context.Context, db *bun.DB) (applied, pending []string, err error) {
	migrator := migrate.NewMigrator(db, Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, nil, fmt.Errorf("init migrations: %w", err)
	}
	ms, err := migrator.MigrationsWithStatus(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("migration status: %w", err)
	}
	for _, m := range ms.Applied() {
		applied = append(applied, m.Name)
	}
	for _, m := range ms.Unapplied() {
		pending = append(pending, m.Name)
	}
	return applied, pending, nil
}
