package testutil

import (
	"context"
	"testing"

	"github.com/preston-bernstein/fantasy-squad-service/internal/app/roster"
	"github.com/preston-bernstein/fantasy-squad-service/internal/domain/players"
	"github.com/preston-bernstein/fantasy-squad-service/internal/store"
)

// NewMemoryCatalog returns a memory store preloaded with ps.
func NewMemoryCatalog(t *testing.T, ps []players.Player) *store.MemoryStore {
	t.Helper()
	ms := store.NewMemoryStore()
	if len(ps) > 0 {
		if _, err := ms.Insert(context.Background(), ps); err != nil {
			t.Fatalf("failed to seed memory catalog: %v", err)
		}
	}
	return ms
}

// NewEngineWithPlayers builds a roster engine backed by an in-memory catalog preloaded with ps.
func NewEngineWithPlayers(t *testing.T, ps []players.Player) (*roster.Engine, *store.MemoryStore) {
	t.Helper()
	ms := NewMemoryCatalog(t, ps)
	return roster.NewEngine(ms, nil, nil), ms
}
