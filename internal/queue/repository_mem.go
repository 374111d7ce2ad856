package queue

import (
	"context"
	"sync"
)

type memRepo struct {
	mu      sync.Mutex
	lists   map[string][]string // format -> players, oldest first
	players map[string]string   // player -> format
}

func NewMemoryRepo() Repo {
	return &memRepo{
		lists:   make(map[string][]string),
		players: make(map[string]string),
	}
}

func (m *memRepo) Enqueue(ctx context.Context, format, player string, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[format] = append(m.lists[format], player)
	m.players[player] = format
	// TTL ignored, the memory repo is for tests and single-node runs
	return nil
}

func (m *memRepo) PopN(ctx context.Context, format string, n int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.lists[format]
	if n > len(list) {
		n = len(list)
	}
	batch := make([]string, n)
	copy(batch, list[:n])
	rest := list[n:]
	if len(rest) == 0 {
		delete(m.lists, format)
	} else {
		m.lists[format] = rest
	}
	for _, p := range batch {
		delete(m.players, p)
	}
	return batch, nil
}

func (m *memRepo) Remove(ctx context.Context, player string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	format, ok := m.players[player]
	if !ok {
		return false, nil
	}
	list := m.lists[format]
	for i, p := range list {
		if p == player {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(m.lists, format)
	} else {
		m.lists[format] = list
	}
	delete(m.players, player)
	return true, nil
}

func (m *memRepo) FormatOf(ctx context.Context, player string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.players[player], nil
}

func (m *memRepo) Count(ctx context.Context, format string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.lists[format])), nil
}

func (m *memRepo) List(ctx context.Context, format string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.lists[format]))
	copy(out, m.lists[format])
	return out, nil
}
