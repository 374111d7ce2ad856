package match

// Rating adjustments. Wins pay out on a streak ladder evaluated against
// the streak held before the win lands; losses cost a flat amount and
// the ledger floors the resulting rating at zero.
const (
	winBase    = 25
	winHot     = 40
	winBlazing = 70

	hotStreak     = 3
	blazingStreak = 9

	// LossDelta is the signed rating change applied to every loser.
	LossDelta = -15
)

// WinDelta returns the rating gain for a winner whose streak before
// this win was streakBefore.
func WinDelta(streakBefore int) int {
	switch {
	case streakBefore >= blazingStreak:
		return winBlazing
	case streakBefore >= hotStreak:
		return winHot
	default:
		return winBase
	}
}
