// Package seed loads the initial squad and writes it into an empty catalog.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/preston-bernstein/fantasy-squad-service/internal/domain/players"
	"github.com/preston-bernstein/fantasy-squad-service/internal/logging"
)

//go:embed roster.yaml
var defaultRoster []byte

type entry struct {
	Name        string  `yaml:"name"`
	Position    string  `yaml:"position"`
	Team        string  `yaml:"team"`
	Points      int     `yaml:"points"`
	MarketValue float64 `yaml:"market_value"`
	BidValue    float64 `yaml:"bid_value"`
}

// Target is the subset of a catalog the seeder writes to.
// InsertIfEmpty must check emptiness and insert atomically.
type Target interface {
	InsertIfEmpty(ctx context.Context, items []players.Player) (inserted []players.Player, existing int, err error)
}

// Default returns the embedded squad.
func Default() ([]players.Player, error) {
	return Parse(defaultRoster)
}

// Load reads a squad file, falling back to the embedded squad when path is empty.
func Load(path string) ([]players.Player, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a squad document keyed by role label. Players are returned
// grouped in role order (start, bench, reserve) and file order within a role.
func Parse(data []byte) ([]players.Player, error) {
	var doc map[string][]entry
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode seed roster: %w", err)
	}

	byRole := make(map[players.Role][]entry, len(doc))
	for label, entries := range doc {
		role, err := players.ParseRole(label)
		if err != nil {
			return nil, fmt.Errorf("seed roster section %q: %w", label, err)
		}
		byRole[role] = append(byRole[role], entries...)
	}

	var out []players.Player
	for _, role := range players.Roles {
		for i, e := range byRole[role] {
			if err := e.validate(); err != nil {
				return nil, fmt.Errorf("seed roster %s[%d]: %w", role, i, err)
			}
			out = append(out, players.Player{
				Name:        e.Name,
				Position:    e.Position,
				Team:        e.Team,
				Points:      e.Points,
				MarketValue: e.MarketValue,
				BidValue:    e.BidValue,
				Role:        role,
			})
		}
	}
	return out, nil
}

func (e entry) validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if e.Points < 0 {
		return fmt.Errorf("points must be non-negative")
	}
	for _, v := range []float64{e.MarketValue, e.BidValue} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("values must be finite and non-negative")
		}
	}
	return nil
}

// Apply inserts squad into target when target is empty and returns how many
// players were written. A populated catalog is left untouched.
func Apply(ctx context.Context, target Target, squad []players.Player, logger *slog.Logger) (int, error) {
	inserted, existing, err := target.InsertIfEmpty(ctx, squad)
	if err != nil {
		return 0, fmt.Errorf("insert seed players: %w", err)
	}
	if existing > 0 {
		logging.Info(logger, "catalog already seeded", slog.Int(logging.FieldCount, existing))
		return 0, nil
	}
	logging.Info(logger, "seeded catalog", slog.Int(logging.FieldCount, len(inserted)))
	return len(inserted), nil
}
