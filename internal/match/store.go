package match

import "context"

// SettlementUpdate is one player's share of a settlement. RatingDelta
// is already signed; the store applies the zero floor and the
// win/loss/streak counter changes implied by Won.
type SettlementUpdate struct {
	PlayerID    string `json:"playerId"`
	RatingDelta int    `json:"ratingDelta"`
	Won         bool   `json:"won"`
}

// Store is the durable match record. Matches are retained forever once
// inserted. Settle and Void are compare-and-set transitions out of
// StateFormed: exactly one concurrent caller wins, every other caller
// observes ErrAlreadyResolved, and the per-player ledger writes of
// Settle commit atomically with the state flip or not at all.
type Store interface {
	// Insert persists a new match in StateFormed. ErrCodeTaken signals
	// a code collision so the caller can retry with a fresh code.
	Insert(ctx context.Context, m *Match) error
	Get(ctx context.Context, code string) (*Match, error)
	// SetHandles records the provisioned room handles. Best effort;
	// a match settled before provisioning finished stays settled.
	SetHandles(ctx context.Context, code, channel, voiceA, voiceB string) error
	Settle(ctx context.Context, code string, winner Team, updates []SettlementUpdate) error
	Void(ctx context.Context, code string) error
}
