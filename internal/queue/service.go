package queue

import (
	"context"
	"sort"
	"sync"

	"github.com/exotiicpro1-sg/Familia-Ranked/config"
	"github.com/exotiicpro1-sg/Familia-Ranked/internal/ledger"
	"github.com/exotiicpro1-sg/Familia-Ranked/internal/utils"
	"github.com/exotiicpro1-sg/Familia-Ranked/internal/websocket"
)

// Broadcaster is the slice of the hub the queue needs: snapshots go to
// every connected client.
type Broadcaster interface {
	BroadcastAll(msg websocket.OutgoingMessage)
}

// Batch is a full complement of players removed from one queue,
// already split into the two team rosters.
type Batch struct {
	Format string
	TeamA  []string
	TeamB  []string
}

// Service owns the waiting lists. One mutex serializes join, leave and
// the batch trigger across every format, which is what keeps two
// concurrent joins from both seeing a nearly-full queue and forming
// overlapping batches, and what makes the one-queue-per-player check
// race free.
type Service struct {
	mu      sync.Mutex
	repo    Repo
	formats map[string]config.Format
	players ledger.Store
	ttl     int
	hub     Broadcaster

	// OnMatchReady receives each formed batch, outside the queue lock.
	OnMatchReady func(Batch)
}

func NewService(repo Repo, formats map[string]config.Format, players ledger.Store, ttlSeconds int, hub Broadcaster) *Service {
	return &Service{
		repo:    repo,
		formats: formats,
		players: players,
		ttl:     ttlSeconds,
		hub:     hub,
	}
}

// Join appends the player to the format's list and forms as many full
// batches as the list then supports (one, under normal FIFO admission;
// the loop guards the invariant anyway). The ledger upsert is advisory
// only — a storage hiccup there must not block queue admission.
func (s *Service) Join(ctx context.Context, playerID, displayName, format string) error {
	f, ok := s.formats[format]
	if !ok {
		return ErrInvalidFormat
	}

	if err := s.players.Ensure(ctx, playerID, displayName); err != nil {
		utils.Error.Printf("ensure player %s: %v", playerID, err)
	}

	s.mu.Lock()
	current, err := s.repo.FormatOf(ctx, playerID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if current != "" {
		s.mu.Unlock()
		return ErrAlreadyQueued
	}
	if err := s.repo.Enqueue(ctx, format, playerID, s.ttl); err != nil {
		s.mu.Unlock()
		return err
	}

	var batches []Batch
	for {
		cnt, err := s.repo.Count(ctx, format)
		if err != nil {
			utils.Error.Printf("count queue %s: %v", format, err)
			break
		}
		if cnt < int64(f.Size) {
			break
		}
		raw, err := s.repo.PopN(ctx, format, f.Size)
		if err != nil {
			utils.Error.Printf("pop queue %s: %v", format, err)
			break
		}
		if len(raw) < f.Size {
			break
		}
		teamA, teamB := splitTeams(raw)
		batches = append(batches, Batch{Format: format, TeamA: teamA, TeamB: teamB})
	}
	snap := s.snapshotLocked(ctx)
	s.mu.Unlock()

	s.publish(snap)
	for _, b := range batches {
		if s.OnMatchReady != nil {
			s.OnMatchReady(b)
		}
	}
	return nil
}

// Leave removes the player from whichever list holds them. Only valid
// pre-trigger; once a batch has formed there is nothing to leave.
func (s *Service) Leave(ctx context.Context, playerID string) error {
	s.mu.Lock()
	removed, err := s.repo.Remove(ctx, playerID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if !removed {
		s.mu.Unlock()
		return ErrNotQueued
	}
	snap := s.snapshotLocked(ctx)
	s.mu.Unlock()

	s.publish(snap)
	return nil
}

// Snapshot returns every format's current waiting list.
func (s *Service) Snapshot(ctx context.Context) []FormatStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(ctx)
}

func (s *Service) snapshotLocked(ctx context.Context) []FormatStatus {
	names := make([]string, 0, len(s.formats))
	for name := range s.formats {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]FormatStatus, 0, len(names))
	for _, name := range names {
		players, err := s.repo.List(ctx, name)
		if err != nil {
			utils.Error.Printf("list queue %s: %v", name, err)
			players = nil
		}
		out = append(out, FormatStatus{
			Format:  name,
			Needed:  s.formats[name].Size,
			Players: players,
		})
	}
	return out
}

func (s *Service) publish(snap []FormatStatus) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastAll(websocket.OutgoingMessage{
		Event: "queue_update",
		Data:  snap,
	})
}

// splitTeams partitions a batch by alternating assignment: even
// positions to team A, odd to team B. Keeps the earliest joiners from
// clustering on one side while preserving FIFO captaincy (oldest
// player captains A, second-oldest captains B).
func splitTeams(batch []string) (teamA, teamB []string) {
	for i, p := range batch {
		if i%2 == 0 {
			teamA = append(teamA, p)
		} else {
			teamB = append(teamB, p)
		}
	}
	return teamA, teamB
}
