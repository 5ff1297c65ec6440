package store

import (
	"context"
	"slices"
	"sync"

	"github.com/preston-bernstein/fantasy-squad-service/internal/domain/players"
)

// MemoryStore keeps a thread-safe player catalog in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	players map[int64]players.Player
	nextID  int64
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		players: make(map[int64]players.Player),
		nextID:  1,
	}
}

// Get retrieves a player by ID.
func (s *MemoryStore) Get(ctx context.Context, id int64) (players.Player, error) {
	if err := ctx.Err(); err != nil {
		return players.Player{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[id]
	if !ok {
		return players.Player{}, players.ErrNotFound
	}
	return p, nil
}

// All returns a copy of every player ordered by id.
func (s *MemoryStore) All(ctx context.Context) ([]players.Player, error) {
	return s.Filter(ctx, nil)
}

// Filter returns the players matching pred ordered by id. A nil pred matches everything.
func (s *MemoryStore) Filter(ctx context.Context, pred func(players.Player) bool) ([]players.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]players.Player, 0, len(s.players))
	for _, p := range s.players {
		if pred == nil || pred(p) {
			result = append(result, p)
		}
	}
	slices.SortFunc(result, func(a, b players.Player) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return result, nil
}

// Count returns the number of stored players.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players), nil
}

// Insert adds new players, assigning ids to those without one, and returns them.
// Ids are never reused.
func (s *MemoryStore) Insert(ctx context.Context, items []players.Player) ([]players.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(items), nil
}

// InsertIfEmpty inserts items only when the catalog holds no players. It
// returns the inserted players and the count found beforehand.
func (s *MemoryStore) InsertIfEmpty(ctx context.Context, items []players.Player) ([]players.Player, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := len(s.players); n > 0 {
		return nil, n, nil
	}
	return s.insertLocked(items), 0, nil
}

func (s *MemoryStore) insertLocked(items []players.Player) []players.Player {
	out := make([]players.Player, 0, len(items))
	for _, p := range items {
		if p.ID == 0 {
			p.ID = s.nextID
		}
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
		s.players[p.ID] = p
		out = append(out, p)
	}
	return out
}

// Apply runs fn as one batch. Saves are staged and merged into the catalog only
// when fn succeeds. The write lock is held for the whole batch, so fn must use
// the supplied Tx rather than calling back into the store.
func (s *MemoryStore) Apply(ctx context.Context, fn func(tx players.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{base: s.players, staged: make(map[int64]players.Player)}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for id, p := range tx.staged {
		s.players[id] = p
	}
	return nil
}

// Ping always succeeds; the memory catalog has no backing connection.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

type memoryTx struct {
	base   map[int64]players.Player
	staged map[int64]players.Player
}

func (t *memoryTx) Get(ctx context.Context, id int64) (players.Player, error) {
	if err := ctx.Err(); err != nil {
		return players.Player{}, err
	}
	if p, ok := t.staged[id]; ok {
		return p, nil
	}
	p, ok := t.base[id]
	if !ok {
		return players.Player{}, players.ErrNotFound
	}
	return p, nil
}

func (t *memoryTx) Save(ctx context.Context, p players.Player) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := t.base[p.ID]; !ok {
		return players.ErrNotFound
	}
	t.staged[p.ID] = p
	return nil
}
