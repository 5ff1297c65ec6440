package testutil

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/preston-bernstein/fantasy-squad-service/internal/domain/players"
)

var positions = []string{"GK", "DEF", "MID", "FWD"}

// SamplePlayer returns a minimal player fixture with the provided id, role and points.
func SamplePlayer(id int64, role players.Role, points int) players.Player {
	return players.Player{
		ID:          id,
		Name:        fmt.Sprintf("Player %d", id),
		Position:    positions[int(id)%len(positions)],
		Team:        "Test FC",
		Points:      points,
		MarketValue: 5.0,
		BidValue:    4.5,
		Role:        role,
	}
}

// SampleSquad returns three players: 1 starting, 2 on the bench, 3 in reserve.
func SampleSquad() []players.Player {
	return []players.Player{
		SamplePlayer(1, players.RoleStart, 250),
		SamplePlayer(2, players.RoleBench, 230),
		SamplePlayer(3, players.RoleReserve, 220),
	}
}

// SquadGenerator builds deterministic random squads from a seed.
type SquadGenerator struct {
	faker *gofakeit.Faker
}

// NewSquadGenerator returns a generator seeded with seed.
func NewSquadGenerator(seed int64) *SquadGenerator {
	return &SquadGenerator{faker: gofakeit.New(uint64(seed))}
}

// Squad returns n players with ids 1..n and random roles and stats.
func (g *SquadGenerator) Squad(n int) []players.Player {
	out := make([]players.Player, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, players.Player{
			ID:          int64(i),
			Name:        g.faker.Name(),
			Position:    g.faker.RandomString(positions),
			Team:        g.faker.Company(),
			Points:      g.faker.Number(0, 300),
			MarketValue: g.faker.Float64Range(3.5, 15),
			BidValue:    g.faker.Float64Range(3.5, 15),
			Role:        players.Roles[g.faker.Number(0, len(players.Roles)-1)],
		})
	}
	return out
}

// Role picks a random valid role.
func (g *SquadGenerator) Role() players.Role {
	return players.Roles[g.faker.Number(0, len(players.Roles)-1)]
}

// Pick returns a random index in [0, n).
func (g *SquadGenerator) Pick(n int) int {
	return g.faker.Number(0, n-1)
}
