package match

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	mrand "math/rand"
	"time"

	"github.com/exotiicpro1-sg/Familia-Ranked/config"
	"github.com/exotiicpro1-sg/Familia-Ranked/internal/ledger"
	"github.com/exotiicpro1-sg/Familia-Ranked/internal/provision"
	"github.com/exotiicpro1-sg/Familia-Ranked/internal/utils"
	"github.com/exotiicpro1-sg/Familia-Ranked/internal/websocket"
)

// Broadcaster is the slice of the hub the lifecycle needs.
type Broadcaster interface {
	BroadcastAll(msg websocket.OutgoingMessage)
	BroadcastToPlayers(ids []string, msg websocket.OutgoingMessage)
}

// Service runs the match state machine: creation out of a queue batch,
// settlement on a captain's report, administrative void. All durable
// writes go through the Store; room provisioning and cleanup are
// fire-and-forget commands on the dispatcher.
type Service struct {
	store      Store
	players    ledger.Store
	formats    map[string]config.Format
	hub        Broadcaster
	dispatcher *provision.Dispatcher

	// CleanupGrace is how long settled matches keep their rooms before
	// the release command is issued.
	CleanupGrace time.Duration
	// CodeAttempts bounds the collision-retry loop for match codes.
	CodeAttempts int
}

func NewService(store Store, players ledger.Store, formats map[string]config.Format, hub Broadcaster, dispatcher *provision.Dispatcher) *Service {
	return &Service{
		store:        store,
		players:      players,
		formats:      formats,
		hub:          hub,
		dispatcher:   dispatcher,
		CleanupGrace: time.Minute,
		CodeAttempts: 5,
	}
}

// AttachHandles stores provisioned room handles on the match record.
// Wired as the dispatcher's OnProvisioned callback.
func (s *Service) AttachHandles(code string, h provision.Handles) {
	if err := s.store.SetHandles(context.Background(), code, h.Channel, h.VoiceA, h.VoiceB); err != nil {
		utils.Error.Printf("attach handles for match %s: %v", code, err)
	}
}

// Create persists a formed match for the two rosters and requests its
// rooms. Called by the queue service once a batch has been atomically
// removed from a queue, so it runs outside the queue lock.
func (s *Service) Create(ctx context.Context, format string, teamA, teamB []string) (*Match, error) {
	f, ok := s.formats[format]
	if !ok {
		return nil, ErrUnknownFormat
	}

	m := &Match{
		Format:    format,
		TeamA:     teamA,
		TeamB:     teamB,
		Map:       pick(f.Maps),
		Mode:      pick(f.Modes),
		State:     StateFormed,
		CreatedAt: time.Now(),
	}

	for attempt := 0; ; attempt++ {
		m.Code = newCode()
		err := s.store.Insert(ctx, m)
		if err == nil {
			break
		}
		if errors.Is(err, ErrCodeTaken) && attempt < s.CodeAttempts {
			continue
		}
		return nil, fmt.Errorf("create match: %w", err)
	}

	s.dispatcher.Provision(provision.Request{
		MatchCode: m.Code,
		Format:    m.Format,
		TeamA:     m.TeamA,
		TeamB:     m.TeamB,
	})

	s.hub.BroadcastToPlayers(m.Roster(), websocket.OutgoingMessage{
		Event: "match_created",
		Data: map[string]any{
			"code":     m.Code,
			"format":   m.Format,
			"map":      m.Map,
			"mode":     m.Mode,
			"teamA":    m.TeamA,
			"teamB":    m.TeamB,
			"captainA": m.CaptainA(),
			"captainB": m.CaptainB(),
		},
	})

	utils.Info.Printf("match %s formed (%s, %s/%s) A=%v B=%v", m.Code, m.Format, m.Map, m.Mode, m.TeamA, m.TeamB)
	return m, nil
}

// Result is a settled report: the resolved winning team and the rating
// change applied to each participant.
type Result struct {
	Match  *Match             `json:"match"`
	Winner Team               `json:"winner"`
	Deltas []SettlementUpdate `json:"deltas"`
}

// Report settles a match. Non-admin reporters must captain one of the
// teams. The outcome may be absolute ("A"/"B") or relative to the
// reporter ("win"/"loss"); it is resolved to an absolute team before
// anything else happens. Settlement is atomic: the state flip and
// every ledger write commit together or the match stays Formed.
func (s *Service) Report(ctx context.Context, code, reporter string, outcome Outcome, admin bool) (*Result, error) {
	m, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if m.State != StateFormed {
		return nil, ErrAlreadyResolved
	}
	if !admin && reporter != m.CaptainA() && reporter != m.CaptainB() {
		return nil, ErrForbidden
	}

	winner, err := outcome.Winner(m, reporter)
	if err != nil {
		return nil, err
	}

	winners, losers := m.TeamA, m.TeamB
	if winner == TeamB {
		winners, losers = m.TeamB, m.TeamA
	}

	updates := make([]SettlementUpdate, 0, len(winners)+len(losers))
	for _, id := range winners {
		streak := 0
		p, err := s.players.Get(ctx, id)
		switch {
		case err == nil:
			streak = p.Streak
		case errors.Is(err, ledger.ErrNotFound):
			// first sight of this player, streak stays zero
		default:
			return nil, fmt.Errorf("report %s: %w", code, err)
		}
		updates = append(updates, SettlementUpdate{PlayerID: id, RatingDelta: WinDelta(streak), Won: true})
	}
	for _, id := range losers {
		updates = append(updates, SettlementUpdate{PlayerID: id, RatingDelta: LossDelta, Won: false})
	}

	if err := s.store.Settle(ctx, code, winner, updates); err != nil {
		return nil, err
	}

	m.State = StateReported
	m.Winner = winner
	s.releaseRooms(m)

	s.hub.BroadcastAll(websocket.OutgoingMessage{
		Event: "match_reported",
		Data: map[string]any{
			"code":   m.Code,
			"winner": winner,
			"deltas": updates,
		},
	})

	utils.Info.Printf("match %s reported, team %s wins", code, winner)
	return &Result{Match: m, Winner: winner, Deltas: updates}, nil
}

// Void retires a formed match without touching the ledger. Admin only;
// enforced by the adapter.
func (s *Service) Void(ctx context.Context, code string) (*Match, error) {
	m, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.store.Void(ctx, code); err != nil {
		return nil, err
	}
	m.State = StateVoided
	s.releaseRooms(m)

	s.hub.BroadcastToPlayers(m.Roster(), websocket.OutgoingMessage{
		Event: "match_voided",
		Data:  map[string]any{"code": m.Code},
	})

	utils.Info.Printf("match %s voided", code)
	return m, nil
}

// Get looks up a match record by code.
func (s *Service) Get(ctx context.Context, code string) (*Match, error) {
	return s.store.Get(ctx, code)
}

func (s *Service) releaseRooms(m *Match) {
	h := provision.Handles{Channel: m.ChannelHandle, VoiceA: m.VoiceAHandle, VoiceB: m.VoiceBHandle}
	s.dispatcher.ScheduleCleanup(provision.Cleanup{
		MatchCode: m.Code,
		Handles:   h.List(),
	}, s.CleanupGrace)
}

const codeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newCode returns a 7-char base-36 token. Collisions are rare and the
// store's insert detects them, so the caller just retries.
func newCode() string {
	b := make([]byte, 7)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b)
}

func pick(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[mrand.Intn(len(pool))]
}
