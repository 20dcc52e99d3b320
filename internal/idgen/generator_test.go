package idgen

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually driven clock. Sleep advances it.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps int
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	c.sleeps++
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func newTestGenerator(t *testing.T, clock *fakeClock, node int) *Generator {
	t.Helper()
	g, err := New(Options{NodeID: node, Clock: clock.Now, Sleep: clock.Sleep})
	require.NoError(t, err)
	return g
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		node    int
		wantErr bool
	}{
		{name: "node zero", node: 0},
		{name: "max node", node: MaxNode},
		{name: "negative node", node: -1, wantErr: true},
		{name: "node too large", node: MaxNode + 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(Options{NodeID: tt.node})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidNode)
				assert.Nil(t, g)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultMaxClockDrift, g.maxDrift)
		})
	}
}

func TestNext_Layout(t *testing.T) {
	at := Epoch.Add(1234 * time.Millisecond)
	clock := newFakeClock(at)
	g := newTestGenerator(t, clock, 2)

	first, err := g.Next()
	require.NoError(t, err)
	second, err := g.Next()
	require.NoError(t, err)

	p := Decompose(first)
	assert.True(t, p.Time.Equal(at), "time part should round-trip, got %s", p.Time)
	assert.Equal(t, uint64(2), p.Node)
	assert.Equal(t, uint64(0), p.Sequence)

	p = Decompose(second)
	assert.Equal(t, uint64(1), p.Sequence)
	assert.Less(t, first, second)
	assert.Less(t, second, uint64(1)<<63, "ids must fit a signed 64-bit column")
}

func TestNext_StrictlyIncreasing(t *testing.T) {
	g, err := New(Options{NodeID: 1})
	require.NoError(t, err)

	prev, err := g.Next()
	require.NoError(t, err)
	for i := 0; i < 10000; i++ {
		id, err := g.Next()
		require.NoError(t, err)
		require.Greater(t, id, prev)
		prev = id
	}
}

func TestNext_ConcurrentCallersNeverCollide(t *testing.T) {
	g, err := New(Options{NodeID: 0})
	require.NoError(t, err)

	const workers = 32
	const perWorker = 2000

	ids := make(chan uint64, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id, err := g.Next()
				if err != nil {
					t.Errorf("Next() failed: %v", err)
					return
				}
				ids <- id
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint64]struct{}, workers*perWorker)
	for id := range ids {
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %d", id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, workers*perWorker)
}

func TestNext_SequenceExhaustionWaitsForNextMillisecond(t *testing.T) {
	at := Epoch.Add(time.Hour)
	clock := newFakeClock(at)
	g := newTestGenerator(t, clock, 0)

	var last uint64
	for i := 0; i <= maxSequence; i++ {
		id, err := g.Next()
		require.NoError(t, err)
		last = id
	}
	require.Equal(t, 0, clock.sleeps, "no waiting while the sequence has room")
	require.Equal(t, uint64(maxSequence), Decompose(last).Sequence)

	id, err := g.Next()
	require.NoError(t, err)

	assert.Greater(t, id, last)
	assert.GreaterOrEqual(t, clock.sleeps, 1)
	p := Decompose(id)
	assert.Equal(t, uint64(0), p.Sequence)
	assert.True(t, p.Time.Equal(at.Add(time.Millisecond)))
}

func TestNext_ClockRegression(t *testing.T) {
	at := Epoch.Add(24 * time.Hour)

	t.Run("within drift waits for the clock", func(t *testing.T) {
		clock := newFakeClock(at)
		g := newTestGenerator(t, clock, 0)

		before, err := g.Next()
		require.NoError(t, err)

		clock.Set(at.Add(-5 * time.Millisecond))
		after, err := g.Next()
		require.NoError(t, err)

		assert.Greater(t, after, before)
		assert.GreaterOrEqual(t, clock.sleeps, 1)
	})

	t.Run("beyond drift fails explicitly", func(t *testing.T) {
		clock := newFakeClock(at)
		g := newTestGenerator(t, clock, 0)

		before, err := g.Next()
		require.NoError(t, err)

		clock.Set(at.Add(-time.Second))
		id, err := g.Next()
		assert.ErrorIs(t, err, ErrClockMovedBackwards)
		assert.Zero(t, id)

		clock.Set(at.Add(time.Millisecond))
		recovered, err := g.Next()
		require.NoError(t, err)
		assert.Greater(t, recovered, before)
	})
}

func TestNext_ClockBeforeEpoch(t *testing.T) {
	clock := newFakeClock(Epoch.Add(-time.Minute))
	g := newTestGenerator(t, clock, 0)

	_, err := g.Next()
	assert.ErrorIs(t, err, ErrClockBeforeEpoch)
}

func TestMustNext(t *testing.T) {
	clock := newFakeClock(Epoch.Add(time.Hour))
	g := newTestGenerator(t, clock, 1)

	id := g.MustNext()
	assert.Equal(t, uint64(1), Decompose(id).Node)

	clock.Set(Epoch.Add(-time.Second))
	assert.Panics(t, func() { g.MustNext() })
}
