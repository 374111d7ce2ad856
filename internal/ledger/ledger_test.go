package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnsureCreatesWithDefaults(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	assert.NoError(t, store.Ensure(ctx, "p1", "Player One"))

	p, err := store.Get(ctx, "p1")
	assert.NoError(t, err)
	assert.Equal(t, DefaultRating, p.Rating)
	assert.Equal(t, 0, p.Wins)
	assert.Equal(t, 0, p.Losses)
	assert.Equal(t, 0, p.Streak)

	// second ensure is a no-op apart from the name refresh
	assert.NoError(t, store.Ensure(ctx, "p1", "Renamed"))
	p, err = store.Get(ctx, "p1")
	assert.NoError(t, err)
	assert.Equal(t, "Renamed", p.DisplayName)
	assert.Equal(t, DefaultRating, p.Rating)
}

func TestGetUnknownPlayer(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTopOrderingWithStableTies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d"} {
		assert.NoError(t, store.Ensure(ctx, id, id))
	}
	// a and b tie at 1100, a was inserted first; c leads; d stays at 1000
	_, err := store.AdjustRating(ctx, "a", 100)
	assert.NoError(t, err)
	_, err = store.AdjustRating(ctx, "b", 100)
	assert.NoError(t, err)
	_, err = store.AdjustRating(ctx, "c", 200)
	assert.NoError(t, err)

	top, err := store.Top(ctx, 3)
	assert.NoError(t, err)
	assert.Len(t, top, 3)
	assert.Equal(t, "c", top[0].ID)
	assert.Equal(t, "a", top[1].ID)
	assert.Equal(t, "b", top[2].ID)

	all, err := store.Top(ctx, 10)
	assert.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "d", all[3].ID)
}

func TestAdjustRatingFloorsAtZero(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	assert.NoError(t, store.Ensure(ctx, "p1", ""))
	p, err := store.AdjustRating(ctx, "p1", -5000)
	assert.NoError(t, err)
	assert.Equal(t, 0, p.Rating)

	_, err = store.AdjustRating(ctx, "ghost", 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplySettlement(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	assert.NoError(t, store.Ensure(ctx, "w", ""))
	assert.NoError(t, store.Ensure(ctx, "l", ""))

	store.ApplySettlement("w", 25, true)
	store.ApplySettlement("l", -15, false)

	w, _ := store.Get(ctx, "w")
	assert.Equal(t, 1025, w.Rating)
	assert.Equal(t, 1, w.Wins)
	assert.Equal(t, 1, w.Streak)

	l, _ := store.Get(ctx, "l")
	assert.Equal(t, 985, l.Rating)
	assert.Equal(t, 1, l.Losses)
	assert.Equal(t, 0, l.Streak)
}

func TestApplySettlementLossFloor(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	assert.NoError(t, store.Ensure(ctx, "p", ""))
	_, err := store.AdjustRating(ctx, "p", -990) // rating 10
	assert.NoError(t, err)

	store.ApplySettlement("p", -15, false)
	p, _ := store.Get(ctx, "p")
	assert.Equal(t, 0, p.Rating, "rating must floor at zero, not go negative")
}
