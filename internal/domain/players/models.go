package players

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Role is the roster category a player currently occupies.
type Role string

const (
	RoleStart   Role = "start"
	RoleBench   Role = "bench"
	RoleReserve Role = "reserve"
)

// Roles lists every role in display order.
var Roles = []Role{RoleStart, RoleBench, RoleReserve}

// ErrUnknownRole is returned by ParseRole for labels outside the closed set.
var ErrUnknownRole = errors.New("unknown role")

// ErrNotFound is returned by catalogs when no player has the requested id.
var ErrNotFound = errors.New("player not found")

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStart, RoleBench, RoleReserve:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// ParseRole normalizes a role label and rejects anything outside Roles.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
	return role, nil
}

// Player is a squad member as stored in the catalog.
type Player struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Position    string  `json:"position"`
	Team        string  `json:"team"`
	Points      int     `json:"points"`
	MarketValue float64 `json:"marketValue"`
	BidValue    float64 `json:"bidValue"`
	Role        Role    `json:"role"`
}

// Tx is the write side of a single catalog batch. Saves made through a Tx
// become visible together when the batch commits, or not at all.
type Tx interface {
	Get(ctx context.Context, id int64) (Player, error)
	Save(ctx context.Context, p Player) error
}
