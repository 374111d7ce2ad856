package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/exotiicpro1-sg/Familia-Ranked/config"
	"github.com/exotiicpro1-sg/Familia-Ranked/internal/ledger"
	ws "github.com/exotiicpro1-sg/Familia-Ranked/internal/websocket"
)

// mockHub captures queue_update broadcasts.
type mockHub struct {
	mu   sync.Mutex
	msgs []ws.OutgoingMessage
}

func (m *mockHub) BroadcastAll(msg ws.OutgoingMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
}

func (m *mockHub) last() (ws.OutgoingMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.msgs) == 0 {
		return ws.OutgoingMessage{}, false
	}
	return m.msgs[len(m.msgs)-1], true
}

func testFormats() map[string]config.Format {
	return map[string]config.Format{
		"4s": {Name: "4s", Size: 4, Maps: []string{"Terminal"}, Modes: []string{"Hardpoint"}},
		"6s": {Name: "6s", Size: 6, Maps: []string{"Skidrow"}, Modes: []string{"Control"}},
	}
}

func newTestService(repo Repo) (*Service, *mockHub, *[]Batch) {
	hub := &mockHub{}
	svc := NewService(repo, testFormats(), ledger.NewMemoryStore(), 60, hub)
	batches := &[]Batch{}
	var mu sync.Mutex
	svc.OnMatchReady = func(b Batch) {
		mu.Lock()
		defer mu.Unlock()
		*batches = append(*batches, b)
	}
	return svc, hub, batches
}

func TestJoinUnknownFormat(t *testing.T) {
	svc, _, _ := newTestService(NewMemoryRepo())
	err := svc.Join(context.Background(), "p1", "P1", "2s")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestExactBatchingFIFO(t *testing.T) {
	svc, _, batches := newTestService(NewMemoryRepo())
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		assert.NoError(t, svc.Join(ctx, fmt.Sprintf("p%d", i), "", "4s"))
		assert.Empty(t, *batches, "no batch before the queue fills")
	}

	// fourth join triggers exactly one batch with alternating teams
	assert.NoError(t, svc.Join(ctx, "p4", "", "4s"))
	assert.Len(t, *batches, 1)
	b := (*batches)[0]
	assert.Equal(t, "4s", b.Format)
	assert.Equal(t, []string{"p1", "p3"}, b.TeamA)
	assert.Equal(t, []string{"p2", "p4"}, b.TeamB)

	cnt, err := svc.repo.Count(ctx, "4s")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), cnt, "queue must be drained exactly")
}

func TestSingleQueueAcrossFormats(t *testing.T) {
	svc, _, _ := newTestService(NewMemoryRepo())
	ctx := context.Background()

	assert.NoError(t, svc.Join(ctx, "p1", "", "4s"))
	assert.ErrorIs(t, svc.Join(ctx, "p1", "", "6s"), ErrAlreadyQueued)
	assert.ErrorIs(t, svc.Join(ctx, "p1", "", "4s"), ErrAlreadyQueued)

	assert.NoError(t, svc.Leave(ctx, "p1"))
	assert.NoError(t, svc.Join(ctx, "p1", "", "6s"))
}

func TestLeave(t *testing.T) {
	svc, _, batches := newTestService(NewMemoryRepo())
	ctx := context.Background()

	assert.ErrorIs(t, svc.Leave(ctx, "ghost"), ErrNotQueued)

	assert.NoError(t, svc.Join(ctx, "p1", "", "4s"))
	assert.NoError(t, svc.Leave(ctx, "p1"))
	assert.ErrorIs(t, svc.Leave(ctx, "p1"), ErrNotQueued)

	// p1 left, so three more joins must not trigger
	for i := 2; i <= 4; i++ {
		assert.NoError(t, svc.Join(ctx, fmt.Sprintf("p%d", i), "", "4s"))
	}
	assert.Empty(t, *batches)
}

func TestSnapshotEmittedOnMutation(t *testing.T) {
	svc, hub, _ := newTestService(NewMemoryRepo())
	ctx := context.Background()

	assert.NoError(t, svc.Join(ctx, "p1", "", "4s"))
	msg, ok := hub.last()
	assert.True(t, ok, "join must publish a snapshot")
	assert.Equal(t, "queue_update", msg.Event)

	snap, ok := msg.Data.([]FormatStatus)
	assert.True(t, ok)
	byFormat := map[string]FormatStatus{}
	for _, fs := range snap {
		byFormat[fs.Format] = fs
	}
	assert.Equal(t, []string{"p1"}, byFormat["4s"].Players)
	assert.Equal(t, 4, byFormat["4s"].Needed)
	assert.Empty(t, byFormat["6s"].Players)

	assert.NoError(t, svc.Leave(ctx, "p1"))
	msg, _ = hub.last()
	snap = msg.Data.([]FormatStatus)
	for _, fs := range snap {
		assert.Empty(t, fs.Players)
	}
}

func TestConcurrentJoinsFormDisjointBatches(t *testing.T) {
	svc, _, batches := newTestService(NewMemoryRepo())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = svc.Join(ctx, fmt.Sprintf("p%d", i), "", "4s")
		}(i)
	}
	wg.Wait()

	assert.Len(t, *batches, 2, "8 joins at size 4 form exactly 2 batches")
	seen := map[string]bool{}
	for _, b := range *batches {
		assert.Len(t, b.TeamA, 2)
		assert.Len(t, b.TeamB, 2)
		for _, p := range append(append([]string{}, b.TeamA...), b.TeamB...) {
			assert.False(t, seen[p], "player %s appears in two batches", p)
			seen[p] = true
		}
	}
	assert.Len(t, seen, 8)

	cnt, err := svc.repo.Count(ctx, "4s")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), cnt)
}

// ---------- redis repo (miniredis) ----------

func newRedisRepo(t *testing.T) (Repo, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisRepo(rdb), mr
}

func TestRedisRepoFIFO(t *testing.T) {
	repo, _ := newRedisRepo(t)
	ctx := context.Background()

	for _, p := range []string{"a", "b", "c"} {
		assert.NoError(t, repo.Enqueue(ctx, "4s", p, 60))
	}

	list, err := repo.List(ctx, "4s")
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, list)

	batch, err := repo.PopN(ctx, "4s", 2)
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, batch, "PopN must take the oldest entries")

	// popped players lose their reverse index
	f, err := repo.FormatOf(ctx, "a")
	assert.NoError(t, err)
	assert.Equal(t, "", f)

	f, err = repo.FormatOf(ctx, "c")
	assert.NoError(t, err)
	assert.Equal(t, "4s", f)

	cnt, err := repo.Count(ctx, "4s")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), cnt)
}

func TestRedisRepoRemove(t *testing.T) {
	repo, mr := newRedisRepo(t)
	ctx := context.Background()

	removed, err := repo.Remove(ctx, "ghost")
	assert.NoError(t, err)
	assert.False(t, removed)

	assert.NoError(t, repo.Enqueue(ctx, "6s", "a", 60))
	removed, err = repo.Remove(ctx, "a")
	assert.NoError(t, err)
	assert.True(t, removed)

	assert.False(t, mr.Exists(queueKey("6s")), "empty queue key is cleaned up")
	f, err := repo.FormatOf(ctx, "a")
	assert.NoError(t, err)
	assert.Equal(t, "", f)
}

func TestServiceWithRedisRepo(t *testing.T) {
	repo, _ := newRedisRepo(t)
	svc, _, batches := newTestService(repo)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		assert.NoError(t, svc.Join(ctx, fmt.Sprintf("p%d", i), "", "4s"))
	}
	assert.Len(t, *batches, 1)
	assert.Equal(t, []string{"p1", "p3"}, (*batches)[0].TeamA)
	assert.Equal(t, []string{"p2", "p4"}, (*batches)[0].TeamB)

	cnt, err := repo.Count(ctx, "4s")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), cnt)
}

func TestSplitTeams(t *testing.T) {
	a, b := splitTeams([]string{"p1", "p2", "p3", "p4", "p5", "p6"})
	assert.Equal(t, []string{"p1", "p3", "p5"}, a)
	assert.Equal(t, []string{"p2", "p4", "p6"}, b)
}
