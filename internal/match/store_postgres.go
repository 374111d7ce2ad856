package match

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

type postgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) Insert(ctx context.Context, m *Match) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO matches (code, format, team_a, team_b, state, map, mode, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (code) DO NOTHING`,
		m.Code, m.Format, pq.Array(m.TeamA), pq.Array(m.TeamB),
		string(StateFormed), m.Map, m.Mode, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", m.Code, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCodeTaken
	}
	return nil
}

func (s *postgresStore) Get(ctx context.Context, code string) (*Match, error) {
	var m Match
	var state, winner string
	err := s.db.QueryRowContext(ctx, `
		SELECT code, format, team_a, team_b, state, winner, map, mode,
		       channel_handle, voice_a_handle, voice_b_handle, created_at
		FROM matches WHERE code = $1`, code).
		Scan(&m.Code, &m.Format, pq.Array(&m.TeamA), pq.Array(&m.TeamB),
			&state, &winner, &m.Map, &m.Mode,
			&m.ChannelHandle, &m.VoiceAHandle, &m.VoiceBHandle, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get match %s: %w", code, err)
	}
	m.State = State(state)
	m.Winner = Team(winner)
	return &m, nil
}

func (s *postgresStore) SetHandles(ctx context.Context, code, channel, voiceA, voiceB string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE matches
		SET channel_handle = $2, voice_a_handle = $3, voice_b_handle = $4
		WHERE code = $1`,
		code, channel, voiceA, voiceB)
	if err != nil {
		return fmt.Errorf("set handles %s: %w", code, err)
	}
	return nil
}

// Settle flips the match to reported and applies every ledger row in
// one transaction. The state flip is a compare-and-set on
// state = 'formed': the loser of a concurrent report race updates zero
// rows and the whole transaction rolls back, leaving its ledger
// untouched.
func (s *postgresStore) Settle(ctx context.Context, code string, winner Team, updates []SettlementUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("settle %s: begin: %w", code, err)
	}
	defer tx.Rollback()

	if err := s.casState(ctx, tx, code, StateReported, string(winner)); err != nil {
		return err
	}

	for _, u := range updates {
		// Players are normally upserted on queue join; force-reported
		// matches may still reference unseen ids.
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO players (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`,
			u.PlayerID); err != nil {
			return fmt.Errorf("settle %s: ensure %s: %w", code, u.PlayerID, err)
		}
		var q string
		if u.Won {
			q = `UPDATE players
			     SET rating = rating + $2, wins = wins + 1, streak = streak + 1
			     WHERE id = $1`
		} else {
			q = `UPDATE players
			     SET rating = GREATEST(0, rating + $2), losses = losses + 1, streak = 0
			     WHERE id = $1`
		}
		if _, err := tx.ExecContext(ctx, q, u.PlayerID, u.RatingDelta); err != nil {
			return fmt.Errorf("settle %s: player %s: %w", code, u.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("settle %s: commit: %w", code, err)
	}
	return nil
}

func (s *postgresStore) Void(ctx context.Context, code string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("void %s: begin: %w", code, err)
	}
	defer tx.Rollback()
	if err := s.casState(ctx, tx, code, StateVoided, ""); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *postgresStore) casState(ctx context.Context, tx *sql.Tx, code string, to State, winner string) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE matches SET state = $2, winner = $3
		WHERE code = $1 AND state = $4`,
		code, string(to), winner, string(StateFormed))
	if err != nil {
		return fmt.Errorf("transition %s -> %s: %w", code, to, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	// Zero rows: either the code is unknown or someone beat us to the
	// transition.
	var cur string
	err = tx.QueryRowContext(ctx, `SELECT state FROM matches WHERE code = $1`, code).Scan(&cur)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("transition %s: %w", code, err)
	}
	return ErrAlreadyResolved
}
