package audit

import (
	"context"
	"testing"
	"time"

	"github.com/phrazzld/cards-api/internal/domain"
	"github.com/phrazzld/cards-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func actorCtx(id uint64) context.Context {
	return auth.WithActor(context.Background(), auth.Actor{ID: id})
}

func TestStamp_Added(t *testing.T) {
	t.Parallel()

	s := NewStamper(fixedClock(t0), nil)
	card := &domain.Card{ID: 1}
	status := &domain.CardStatus{ID: domain.StatusDone}

	err := s.Stamp(actorCtx(7), Entry{Entity: card, State: Added}, Entry{Entity: status, State: Added})
	require.NoError(t, err)

	assert.Equal(t, t0, card.CreatedAt)
	assert.Equal(t, t0, card.ModifiedAt)
	assert.Equal(t, uint64(7), card.CreatedByID)
	assert.Nil(t, card.ModifiedByID)

	assert.Equal(t, t0, status.CreatedAt)
	assert.Equal(t, t0, status.ModifiedAt)
}

func TestStamp_Modified(t *testing.T) {
	t.Parallel()

	s := NewStamper(fixedClock(t1), nil)
	card := &domain.Card{ID: 1, CreatedByID: 3, CreatedAt: t0, ModifiedAt: t0}

	require.NoError(t, s.Stamp(actorCtx(9), Entry{Entity: card, State: Modified}))

	assert.Equal(t, t0, card.CreatedAt, "creation time never changes on update")
	assert.Equal(t, uint64(3), card.CreatedByID, "creator never changes on update")
	assert.Equal(t, t1, card.ModifiedAt)
	require.NotNil(t, card.ModifiedByID)
	assert.Equal(t, uint64(9), *card.ModifiedByID)
}

func TestStamp_ClockRegressionKeepsOrdering(t *testing.T) {
	t.Parallel()

	s := NewStamper(fixedClock(t0.Add(-time.Minute)), nil)
	card := &domain.Card{ID: 1, CreatedByID: 3, CreatedAt: t0, ModifiedAt: t0}

	require.NoError(t, s.Stamp(actorCtx(3), Entry{Entity: card, State: Modified}))
	assert.False(t, card.ModifiedAt.Before(card.CreatedAt))
	assert.Equal(t, t0, card.ModifiedAt)
}

func TestStamp_NoActorLeavesEverythingUntouched(t *testing.T) {
	t.Parallel()

	s := NewStamper(fixedClock(t1), nil)
	status := &domain.CardStatus{ID: domain.StatusToDo}
	card := &domain.Card{ID: 1, CreatedAt: t0, ModifiedAt: t0}

	// The status entry comes first and needs no actor; it must still not be
	// stamped because the batch as a whole fails.
	err := s.Stamp(context.Background(),
		Entry{Entity: status, State: Added},
		Entry{Entity: card, State: Modified},
	)

	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	assert.True(t, status.CreatedAt.IsZero())
	assert.Equal(t, t0, card.ModifiedAt)
	assert.Nil(t, card.ModifiedByID)
}

func TestStamp_ActorNotRequiredForPlainAuditable(t *testing.T) {
	t.Parallel()

	s := NewStamper(fixedClock(t0), nil)
	user := &domain.User{ID: 1}

	require.NoError(t, s.Stamp(context.Background(), Entry{Entity: user, State: Added}))
	assert.Equal(t, t0, user.CreatedAt)
	assert.Equal(t, t0, user.ModifiedAt)
}

func TestStamp_SingleClockReadPerCall(t *testing.T) {
	t.Parallel()

	calls := 0
	s := NewStamper(func() time.Time {
		calls++
		return t0.Add(time.Duration(calls) * time.Second)
	}, nil)

	a := &domain.Card{ID: 1}
	b := &domain.Card{ID: 2}
	require.NoError(t, s.Stamp(actorCtx(1), Entry{Entity: a, State: Added}, Entry{Entity: b, State: Added}))

	assert.Equal(t, 1, calls)
	assert.Equal(t, a.CreatedAt, b.CreatedAt)
}

func TestStamp_IgnoresNonAuditableAndUnknownState(t *testing.T) {
	t.Parallel()

	s := NewStamper(fixedClock(t0), nil)
	card := &domain.Card{ID: 1}

	err := s.Stamp(context.Background(),
		Entry{Entity: "not an entity", State: Added},
		Entry{Entity: card, State: State(0)},
	)
	require.NoError(t, err)
	assert.True(t, card.CreatedAt.IsZero())
}
