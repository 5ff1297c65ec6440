package bunstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/preston-bernstein/fantasy-squad-service/internal/domain/players"
)

// PlayerRow is the players table.
type PlayerRow struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID          int64   `bun:"id,pk,autoincrement"`
	Name        string  `bun:"name,notnull"`
	Position    string  `bun:"position,notnull"`
	Team        string  `bun:"team,notnull"`
	Points      int     `bun:"points,notnull,default:0"`
	MarketValue float64 `bun:"market_value,notnull,default:0"`
	BidValue    float64 `bun:"bid_value,notnull,default:0"`
	Role        string  `bun:"role,notnull,default:'bench'"`
}

// TeamRow is the teams table. Nothing queries it yet.
type TeamRow struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Name        string    `bun:"name,notnull"`
	ManagerName string    `bun:"manager_name,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func toRow(p players.Player) *PlayerRow {
	return &PlayerRow{
		ID:          p.ID,
		Name:        p.Name,
		Position:    p.Position,
		Team:        p.Team,
		Points:      p.Points,
		MarketValue: p.MarketValue,
		BidValue:    p.BidValue,
		Role:        string(p.Role),
	}
}

func (r *PlayerRow) toPlayer() players.Player {
	return players.Player{
		ID:          r.ID,
		Name:        r.Name,
		Position:    r.Position,
		Team:        r.Team,
		Points:      r.Points,
		MarketValue: r.MarketValue,
		BidValue:    r.BidValue,
		Role:        players.Role(r.Role),
	}
}
