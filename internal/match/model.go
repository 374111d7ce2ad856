package match

import (
	"errors"
	"strings"
	"time"
)

// Team identifies one side of a match.
type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)

// State is the match lifecycle. Formed matches may transition exactly
// once, to Reported or Voided; both are terminal.
type State string

const (
	StateFormed   State = "formed"
	StateReported State = "reported"
	StateVoided   State = "voided"
)

var (
	ErrNotFound        = errors.New("match not found")
	ErrAlreadyResolved = errors.New("match already resolved")
	ErrForbidden       = errors.New("reporter is not a captain")
	ErrCodeTaken       = errors.New("match code already taken")
	ErrUnknownFormat   = errors.New("unknown format")
	ErrInvalidOutcome  = errors.New("invalid outcome")
)

// Match is a formed game between two equal rosters. The first entry of
// each roster is that team's captain. Handles are filled in after the
// chat platform provisions the rooms; the core never interprets them.
type Match struct {
	Code          string    `json:"code"`
	Format        string    `json:"format"`
	TeamA         []string  `json:"teamA"`
	TeamB         []string  `json:"teamB"`
	Map           string    `json:"map"`
	Mode          string    `json:"mode"`
	State         State     `json:"state"`
	Winner        Team      `json:"winner,omitempty"`
	ChannelHandle string    `json:"channelHandle,omitempty"`
	VoiceAHandle  string    `json:"voiceAHandle,omitempty"`
	VoiceBHandle  string    `json:"voiceBHandle,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (m *Match) CaptainA() string {
	if len(m.TeamA) == 0 {
		return ""
	}
	return m.TeamA[0]
}

func (m *Match) CaptainB() string {
	if len(m.TeamB) == 0 {
		return ""
	}
	return m.TeamB[0]
}

// TeamOf reports which roster the player belongs to.
func (m *Match) TeamOf(player string) (Team, bool) {
	for _, p := range m.TeamA {
		if p == player {
			return TeamA, true
		}
	}
	for _, p := range m.TeamB {
		if p == player {
			return TeamB, true
		}
	}
	return "", false
}

// Roster returns both teams in order, A first.
func (m *Match) Roster() []string {
	out := make([]string, 0, len(m.TeamA)+len(m.TeamB))
	out = append(out, m.TeamA...)
	out = append(out, m.TeamB...)
	return out
}

// Outcome is a reported result normalized at the adapter boundary.
// Callers either name the winning team outright or speak relative to
// their own roster ("win" / "loss"); internally only the absolute team
// survives resolution.
type Outcome struct {
	team     Team // set when absolute
	relative int  // +1 reporter's team won, -1 lost, 0 absolute
}

// ParseOutcome accepts "A"/"B" (absolute) and "win"/"loss" (relative
// to the reporter).
func ParseOutcome(raw string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "a":
		return Outcome{team: TeamA}, nil
	case "b":
		return Outcome{team: TeamB}, nil
	case "win", "w":
		return Outcome{relative: 1}, nil
	case "loss", "lose", "l":
		return Outcome{relative: -1}, nil
	}
	return Outcome{}, ErrInvalidOutcome
}

// Winner resolves the outcome to an absolute winning team. Relative
// outcomes require the reporter to sit on one of the rosters.
func (o Outcome) Winner(m *Match, reporter string) (Team, error) {
	if o.relative == 0 {
		return o.team, nil
	}
	side, ok := m.TeamOf(reporter)
	if !ok {
		return "", ErrInvalidOutcome
	}
	if o.relative > 0 {
		return side, nil
	}
	if side == TeamA {
		return TeamB, nil
	}
	return TeamA, nil
}
