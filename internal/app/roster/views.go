package roster

import (
	"cmp"
	"context"
	"slices"

	"github.com/preston-bernstein/fantasy-squad-service/internal/domain/players"
)

// Partition splits the squad by role. Each slice is ordered by id and never nil.
type Partition struct {
	Starters []players.Player `json:"starters"`
	Bench    []players.Player `json:"bench"`
	Reserves []players.Player `json:"reserves"`
}

// Total counts the players across all three groups.
func (p Partition) Total() int {
	return len(p.Starters) + len(p.Bench) + len(p.Reserves)
}

// PartitionByRole reads the catalog once and groups every player by role.
func (e *Engine) PartitionByRole(ctx context.Context) (Partition, error) {
	all, err := e.catalog.All(ctx)
	if err != nil {
		return Partition{}, &PersistenceError{Op: "partition", Err: err}
	}
	return PartitionPlayers(all), nil
}

// PartitionPlayers groups ps by role, keeping the input order within each group.
func PartitionPlayers(ps []players.Player) Partition {
	part := Partition{
		Starters: []players.Player{},
		Bench:    []players.Player{},
		Reserves: []players.Player{},
	}
	for _, p := range ps {
		switch p.Role {
		case players.RoleStart:
			part.Starters = append(part.Starters, p)
		case players.RoleBench:
			part.Bench = append(part.Bench, p)
		case players.RoleReserve:
			part.Reserves = append(part.Reserves, p)
		}
	}
	return part
}

// ByRole lists the players currently holding role, ordered by id.
func (e *Engine) ByRole(ctx context.Context, role players.Role) ([]players.Player, error) {
	if !role.Valid() {
		return nil, &ValidationError{Field: "role", Value: string(role), Reason: "must be start, bench or reserve"}
	}
	ps, err := e.catalog.Filter(ctx, func(p players.Player) bool { return p.Role == role })
	if err != nil {
		return nil, &PersistenceError{Op: "by_role", Err: err}
	}
	if ps == nil {
		ps = []players.Player{}
	}
	return ps, nil
}

// Players returns the whole squad ordered by id.
func (e *Engine) Players(ctx context.Context) ([]players.Player, error) {
	ps, err := e.catalog.All(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "players", Err: err}
	}
	if ps == nil {
		ps = []players.Player{}
	}
	return ps, nil
}

// TopByPoints returns up to n players with the most points, regardless of role.
func (e *Engine) TopByPoints(ctx context.Context, n int) ([]players.Player, error) {
	all, err := e.catalog.All(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "top_by_points", Err: err}
	}
	return TopPlayers(all, n), nil
}

// TopPlayers orders by points descending with ties broken by ascending id and
// keeps the first n. n <= 0 yields an empty slice. ps is not modified.
func TopPlayers(ps []players.Player, n int) []players.Player {
	if n <= 0 {
		return []players.Player{}
	}
	sorted := slices.Clone(ps)
	slices.SortStableFunc(sorted, func(a, b players.Player) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n:n]
}
