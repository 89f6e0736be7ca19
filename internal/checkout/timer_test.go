package checkout

import (
	"context"
	"testing"
	"time"

	"boletera/internal/shared/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestTimerRemainingTime(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start
	svc := NewTimerService(NewMemoryRepository()).WithClock(func() time.Time { return now })
	checkoutID := uuid.New()

	timer, err := svc.CreateForCheckout(context.Background(), checkoutID, 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, start.Add(15*time.Minute), timer.ExpiryTime)

	status, err := svc.GetRemainingTime(context.Background(), checkoutID)
	require.NoError(t, err)
	assert.Equal(t, int64(15*60*1000), status.RemainingMs)
	assert.Equal(t, 15, status.RemainingMinutes)
	assert.False(t, status.IsExpired)

	// 14m30s in: half a minute rounds up to a whole one
	now = start.Add(14*time.Minute + 30*time.Second)
	status, err = svc.GetRemainingTime(context.Background(), checkoutID)
	require.NoError(t, err)
	assert.Equal(t, int64(30*1000), status.RemainingMs)
	assert.Equal(t, 1, status.RemainingMinutes)
	assert.False(t, status.IsExpired)

	// past expiry: clamped to zero, flagged expired
	now = start.Add(16 * time.Minute)
	status, err = svc.GetRemainingTime(context.Background(), checkoutID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), status.RemainingMs)
	assert.Equal(t, 0, status.RemainingMinutes)
	assert.True(t, status.IsExpired)
}

func TestTimerNotFoundWithoutActiveTimer(t *testing.T) {
	svc := NewTimerService(NewMemoryRepository())

	_, err := svc.GetRemainingTime(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTimerExtendFromCurrentExpiry(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start
	svc := NewTimerService(NewMemoryRepository()).WithClock(func() time.Time { return now })
	checkoutID := uuid.New()

	_, err := svc.CreateForCheckout(context.Background(), checkoutID, 15*time.Minute)
	require.NoError(t, err)

	// extend at minute 5: expiry moves to start+25, not now+10
	now = start.Add(5 * time.Minute)
	timer, err := svc.ExtendTimer(context.Background(), checkoutID, 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, start.Add(25*time.Minute), timer.ExpiryTime)
	assert.Equal(t, start.Add(25*time.Minute), timer.SeatHoldUntil)

	status, err := svc.GetRemainingTime(context.Background(), checkoutID)
	require.NoError(t, err)
	assert.Equal(t, int64(20*60*1000), status.RemainingMs)
}

func TestTimerDeactivateIsIdempotent(t *testing.T) {
	svc := NewTimerService(NewMemoryRepository())
	checkoutID := uuid.New()

	_, err := svc.CreateForCheckout(context.Background(), checkoutID, 15*time.Minute)
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateTimer(context.Background(), checkoutID))
	require.NoError(t, svc.DeactivateTimer(context.Background(), checkoutID))

	_, err = svc.GetRemainingTime(context.Background(), checkoutID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTimerNewTimerSupersedesOld(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTimerService(NewMemoryRepository()).WithClock(fixedClock(start))
	checkoutID := uuid.New()

	_, err := svc.CreateForCheckout(context.Background(), checkoutID, 5*time.Minute)
	require.NoError(t, err)
	second, err := svc.CreateForCheckout(context.Background(), checkoutID, 15*time.Minute)
	require.NoError(t, err)

	status, err := svc.GetRemainingTime(context.Background(), checkoutID)
	require.NoError(t, err)
	assert.Equal(t, int64(15*60*1000), status.RemainingMs)
	assert.Equal(t, start.Add(15*time.Minute), second.ExpiryTime)
}

func TestCheckoutStateTransitions(t *testing.T) {
	assert.True(t, CanTransition(StateActive, StatePending))
	assert.True(t, CanTransition(StateActive, StateCancelled))
	assert.True(t, CanTransition(StatePending, StateCompleted))
	assert.True(t, CanTransition(StatePending, StateCancelled))

	assert.False(t, CanTransition(StateActive, StateCompleted))
	assert.False(t, CanTransition(StateCompleted, StateCancelled))
	assert.False(t, CanTransition(StateCancelled, StateActive))
	assert.False(t, CanTransition(StatePending, StateActive))

	assert.True(t, IsTerminal(StateCompleted))
	assert.True(t, IsTerminal(StateCancelled))
	assert.False(t, IsTerminal(StateActive))
	assert.False(t, IsTerminal(StatePending))
}
