package storage

import (
	"database/sql"

	_ "github.com/lib/pq"
)

var DB *sql.DB

func InitPostgres(dsn string) error {
	var err error
	DB, err = sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	if err := DB.Ping(); err != nil {
		return err
	}
	return ensureSchema(DB)
}

// ensureSchema creates the ladder tables on first boot. Matches are
// never deleted; the seq column on players preserves first-seen order
// for stable leaderboard ties.
func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS players (
  id            TEXT PRIMARY KEY,
  display_name  TEXT NOT NULL DEFAULT '',
  rating        INT  NOT NULL DEFAULT 1000,
  wins          INT  NOT NULL DEFAULT 0,
  losses        INT  NOT NULL DEFAULT 0,
  streak        INT  NOT NULL DEFAULT 0,
  seq           BIGSERIAL
);

CREATE TABLE IF NOT EXISTS matches (
  code            TEXT PRIMARY KEY,
  format          TEXT NOT NULL,
  team_a          TEXT[] NOT NULL,
  team_b          TEXT[] NOT NULL,
  state           TEXT NOT NULL DEFAULT 'formed',
  winner          TEXT NOT NULL DEFAULT '',
  map             TEXT NOT NULL DEFAULT '',
  mode            TEXT NOT NULL DEFAULT '',
  channel_handle  TEXT NOT NULL DEFAULT '',
  voice_a_handle  TEXT NOT NULL DEFAULT '',
  voice_b_handle  TEXT NOT NULL DEFAULT '',
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
`)
	return err
}
