package match

import (
	"context"
	"sync"

	"github.com/exotiicpro1-sg/Familia-Ranked/internal/ledger"
)

// memStore keeps match records in memory, backed by the in-memory
// ledger for settlement writes. The single mutex makes the
// formed→reported transition and the ledger updates one atomic unit,
// mirroring the postgres transaction.
type memStore struct {
	mu      sync.Mutex
	matches map[string]*Match
	players *ledger.MemoryStore
}

func NewMemoryStore(players *ledger.MemoryStore) Store {
	return &memStore{
		matches: make(map[string]*Match),
		players: players,
	}
}

func (s *memStore) Insert(ctx context.Context, m *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[m.Code]; ok {
		return ErrCodeTaken
	}
	cp := *m
	s.matches[m.Code] = &cp
	return nil
}

func (s *memStore) Get(ctx context.Context, code string) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[code]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *memStore) SetHandles(ctx context.Context, code, channel, voiceA, voiceB string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[code]
	if !ok {
		return ErrNotFound
	}
	m.ChannelHandle = channel
	m.VoiceAHandle = voiceA
	m.VoiceBHandle = voiceB
	return nil
}

func (s *memStore) Settle(ctx context.Context, code string, winner Team, updates []SettlementUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[code]
	if !ok {
		return ErrNotFound
	}
	if m.State != StateFormed {
		return ErrAlreadyResolved
	}
	m.State = StateReported
	m.Winner = winner
	for _, u := range updates {
		s.players.ApplySettlement(u.PlayerID, u.RatingDelta, u.Won)
	}
	return nil
}

func (s *memStore) Void(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[code]
	if !ok {
		return ErrNotFound
	}
	if m.State != StateFormed {
		return ErrAlreadyResolved
	}
	m.State = StateVoided
	return nil
}
