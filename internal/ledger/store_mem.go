package ledger

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps the ledger in process memory. Used by tests and as
// the backing ledger for the in-memory match store.
type MemoryStore struct {
	mu      sync.Mutex
	players map[string]*Player
	order   []string // insertion order, for stable leaderboard ties
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{players: make(map[string]*Player)}
}

func (m *MemoryStore) Ensure(ctx context.Context, id, displayName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLocked(id, displayName)
	return nil
}

func (m *MemoryStore) ensureLocked(id, displayName string) *Player {
	p, ok := m.players[id]
	if !ok {
		p = &Player{ID: id, DisplayName: displayName, Rating: DefaultRating}
		m.players[id] = p
		m.order = append(m.order, id)
	}
	if displayName != "" {
		p.DisplayName = displayName
	}
	return p
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryStore) Top(ctx context.Context, limit int) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Player, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.players[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) AdjustRating(ctx context.Context, id string, amount int) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Rating += amount
	if p.Rating < 0 {
		p.Rating = 0
	}
	cp := *p
	return &cp, nil
}

// ApplySettlement mutates one player's row for a match result. Called
// by the in-memory match store under its own settlement lock; the
// ratingDelta is already signed and the floor is applied here.
func (m *MemoryStore) ApplySettlement(id string, ratingDelta int, won bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.ensureLocked(id, "")
	p.Rating += ratingDelta
	if p.Rating < 0 {
		p.Rating = 0
	}
	if won {
		p.Wins++
		p.Streak++
	} else {
		p.Losses++
		p.Streak = 0
	}
}
