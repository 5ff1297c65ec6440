// Package bunstore provides a SQL-backed player catalog built on bun.
package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite"

	"github.com/preston-bernstein/fantasy-squad-service/internal/domain/players"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store persists the player catalog through bun.
type Store struct {
	db *bun.DB
}

// Open connects to the database named by driver and dsn and verifies the connection.
// Migrations are not applied here.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("catalog dsn is required")
	}

	var db *bun.DB
	switch driver {
	case DriverSQLite:
		sqlDB, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite db: %w", err)
		}
		// SQLite allows one writer; a single connection also keeps :memory: databases alive.
		sqlDB.SetMaxOpenConns(1)
		db = bun.NewDB(sqlDB, sqlitedialect.New())
	case DriverPostgres:
		sqlDB := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		db = bun.NewDB(sqlDB, pgdialect.New())
	default:
		return nil, fmt.Errorf("unsupported catalog driver %q", driver)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s db: %w", driver, err)
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying handle for migrations.
func (s *Store) DB() *bun.DB {
	return s.db
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Get retrieves a player by id, returning players.ErrNotFound when absent.
func (s *Store) Get(ctx context.Context, id int64) (players.Player, error) {
	return getPlayer(ctx, s.db, id)
}

// All returns every player ordered by id.
func (s *Store) All(ctx context.Context) ([]players.Player, error) {
	var rows []PlayerRow
	if err := s.db.NewSelect().Model(&rows).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	out := make([]players.Player, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toPlayer())
	}
	return out, nil
}

// Filter returns the players matching pred ordered by id. A nil pred matches everything.
func (s *Store) Filter(ctx context.Context, pred func(players.Player) bool) ([]players.Player, error) {
	all, err := s.All(ctx)
	if err != nil || pred == nil {
		return all, err
	}
	out := all[:0]
	for _, p := range all {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Count returns the number of stored players.
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.db.NewSelect().Model((*PlayerRow)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return n, nil
}

// Insert adds new players in one transaction and returns them with their assigned ids.
func (s *Store) Insert(ctx context.Context, items []players.Player) ([]players.Player, error) {
	if len(items) == 0 {
		return nil, nil
	}
	var out []players.Player
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		out, err = insertPlayers(ctx, tx, items)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert players: %w", err)
	}
	return out, nil
}

// InsertIfEmpty counts and inserts in one transaction, writing items only when
// the players table is empty. It returns the inserted players and the count
// found beforehand. Postgres takes a table lock so concurrent seeders queue.
func (s *Store) InsertIfEmpty(ctx context.Context, items []players.Player) ([]players.Player, int, error) {
	var (
		out      []players.Player
		existing int
	)
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if s.db.Dialect().Name() == dialect.PG {
			if _, err := tx.ExecContext(ctx, "LOCK TABLE players IN SHARE ROW EXCLUSIVE MODE"); err != nil {
				return err
			}
		}
		n, err := tx.NewSelect().Model((*PlayerRow)(nil)).Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			existing = n
			return nil
		}
		out, err = insertPlayers(ctx, tx, items)
		return err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to seed players: %w", err)
	}
	return out, existing, nil
}

func insertPlayers(ctx context.Context, db bun.IDB, items []players.Player) ([]players.Player, error) {
	if len(items) == 0 {
		return nil, nil
	}
	rows := make([]*PlayerRow, 0, len(items))
	for _, p := range items {
		rows = append(rows, toRow(p))
	}
	if _, err := db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return nil, err
	}
	out := make([]players.Player, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toPlayer())
	}
	return out, nil
}

// Apply runs fn inside one database transaction. The transaction commits only
// when fn returns nil; any error rolls back every Save made through the Tx.
func (s *Store) Apply(ctx context.Context, fn func(tx players.Tx) error) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(&bunTx{tx: tx})
	})
}

type bunTx struct {
	tx bun.Tx
}

func (t *bunTx) Get(ctx context.Context, id int64) (players.Player, error) {
	return getPlayer(ctx, t.tx, id)
}

func (t *bunTx) Save(ctx context.Context, p players.Player) error {
	res, err := t.tx.NewUpdate().
		Model(toRow(p)).
		Column("name", "position", "team", "points", "market_value", "bid_value", "role").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save player %d: %w", p.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected for player %d: %w", p.ID, err)
	}
	if affected == 0 {
		return players.ErrNotFound
	}
	return nil
}

func getPlayer(ctx context.Context, db bun.IDB, id int64) (players.Player, error) {
	row := new(PlayerRow)
	err := db.NewSelect().Model(row).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return players.Player{}, players.ErrNotFound
		}
		return players.Player{}, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	return row.toPlayer(), nil
}
