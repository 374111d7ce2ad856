package ledger

import (
	"context"
	"errors"
)

// Player is one row of the ranking ledger. Players are created lazily
// the first time they queue or look up stats and are never deleted.
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Rating      int    `json:"rating"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	Streak      int    `json:"streak"`
}

const DefaultRating = 1000

var ErrNotFound = errors.New("player not found")

// Store is the durable ledger. Rating never drops below zero; Top
// orders by rating descending with ties broken by first-seen order.
// Win/loss counters are only written through match settlement, which
// owns its own transaction (see the match package stores).
type Store interface {
	// Ensure creates the player with default stats if absent. The
	// display name is refreshed on every call so renames stick.
	Ensure(ctx context.Context, id, displayName string) error
	Get(ctx context.Context, id string) (*Player, error)
	Top(ctx context.Context, limit int) ([]Player, error)
	// AdjustRating applies a moderator correction, floored at zero.
	AdjustRating(ctx context.Context, id string, amount int) (*Player, error)
}
