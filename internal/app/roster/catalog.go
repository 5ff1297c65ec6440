package roster

import (
	"context"

	"github.com/preston-bernstein/fantasy-squad-service/internal/domain/players"
)

// Catalog is the keyed player store the engine reads and writes.
// Get returns players.ErrNotFound for unknown ids. All and Filter return
// players ordered by id. Apply runs fn as one atomic write batch: every Save
// made through the Tx commits together, or none does.
type Catalog interface {
	Get(ctx context.Context, id int64) (players.Player, error)
	All(ctx context.Context) ([]players.Player, error)
	Filter(ctx context.Context, pred func(players.Player) bool) ([]players.Player, error)
	Apply(ctx context.Context, fn func(tx players.Tx) error) error
}
