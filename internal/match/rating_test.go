package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWinDelta(t *testing.T) {
	cases := []struct {
		streak int
		want   int
	}{
		{0, 25},
		{1, 25},
		{2, 25},
		{3, 40},
		{5, 40},
		{8, 40},
		{9, 70},
		{12, 70},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, WinDelta(c.streak), "streak %d", c.streak)
	}
}

func TestWinDeltaMonotonic(t *testing.T) {
	prev := WinDelta(0)
	for streak := 1; streak <= 20; streak++ {
		cur := WinDelta(streak)
		assert.GreaterOrEqual(t, cur, prev, "delta dropped at streak %d", streak)
		prev = cur
	}
}

func TestLossDelta(t *testing.T) {
	assert.Equal(t, -15, LossDelta)
}
