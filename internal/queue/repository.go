package queue

import "context"

// Repo holds the per-format waiting lists. Order is insertion order
// (FIFO); the reverse index keeps a player in at most one list across
// all formats. Callers serialize mutations — the service wraps every
// repo call in its queue lock — so implementations only need to be
// individually safe, not to coordinate check-then-pop sequences.
type Repo interface {
	// Enqueue appends the player to the format's list and records the
	// reverse index entry. ttlSeconds bounds how long an abandoned
	// reverse entry may linger (redis only).
	Enqueue(ctx context.Context, format, player string, ttlSeconds int) error
	// PopN removes and returns the n oldest entries of the format's
	// list. Returns fewer than n only if the list is shorter.
	PopN(ctx context.Context, format string, n int) ([]string, error)
	// Remove takes the player out of whichever list holds them.
	// Reports false if the player was not queued anywhere.
	Remove(ctx context.Context, player string) (bool, error)
	// FormatOf returns the format the player is waiting in, or "".
	FormatOf(ctx context.Context, player string) (string, error)
	Count(ctx context.Context, format string) (int64, error)
	// List returns the format's entries oldest-first without removal.
	List(ctx context.Context, format string) ([]string, error)
}
