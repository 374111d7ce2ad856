package queue

import "errors"

var (
	ErrInvalidFormat = errors.New("unknown format")
	ErrAlreadyQueued = errors.New("player already queued")
	ErrNotQueued     = errors.New("player not queued")
)

// JoinRequest is the adapter's queue-join payload.
type JoinRequest struct {
	Format string `json:"format" binding:"required"`
}

// FormatStatus is one format's waiting list, emitted to the
// presentation layer after every queue mutation.
type FormatStatus struct {
	Format  string   `json:"format"`
	Needed  int      `json:"needed"`
	Players []string `json:"players"`
}
