package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type postgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) Ensure(ctx context.Context, id, displayName string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (id, display_name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE
		SET display_name = CASE WHEN EXCLUDED.display_name <> '' THEN EXCLUDED.display_name ELSE players.display_name END`,
		id, displayName)
	if err != nil {
		return fmt.Errorf("ensure player %s: %w", id, err)
	}
	return nil
}

func (s *postgresStore) Get(ctx context.Context, id string) (*Player, error) {
	var p Player
	err := s.db.QueryRowContext(ctx, `
		SELECT id, display_name, rating, wins, losses, streak
		FROM players WHERE id = $1`, id).
		Scan(&p.ID, &p.DisplayName, &p.Rating, &p.Wins, &p.Losses, &p.Streak)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player %s: %w", id, err)
	}
	return &p, nil
}

func (s *postgresStore) Top(ctx context.Context, limit int) ([]Player, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, display_name, rating, wins, losses, streak
		FROM players
		ORDER BY rating DESC, seq ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard query: %w", err)
	}
	defer rows.Close()

	var out []Player
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.Rating, &p.Wins, &p.Losses, &p.Streak); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *postgresStore) AdjustRating(ctx context.Context, id string, amount int) (*Player, error) {
	var p Player
	err := s.db.QueryRowContext(ctx, `
		UPDATE players
		SET rating = GREATEST(0, rating + $2)
		WHERE id = $1
		RETURNING id, display_name, rating, wins, losses, streak`,
		id, amount).
		Scan(&p.ID, &p.DisplayName, &p.Rating, &p.Wins, &p.Losses, &p.Streak)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("adjust rating %s: %w", id, err)
	}
	return &p, nil
}
