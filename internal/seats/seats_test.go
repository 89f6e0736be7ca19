package seats

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boletera/internal/shared/apperrors"
	"boletera/internal/shared/config"
)

func seatTestConfig() *config.Config {
	return &config.Config{
		Redis: config.RedisConfig{SeatSelectionTTL: 2 * time.Minute},
	}
}

func createTestSeats(t *testing.T, svc Service, n int) (uuid.UUID, uuid.UUID, []Seat) {
	t.Helper()
	eventID := uuid.New()
	zoneID := uuid.New()

	defs := make([]SeatDefinition, n)
	for i := range defs {
		defs[i] = SeatDefinition{Identifier: string(rune('A'+i)) + "1", X: float64(i), Y: 0}
	}

	seats, err := svc.CreateSeats(context.Background(), CreateSeatsRequest{
		EventID: eventID.String(),
		ZoneID:  zoneID.String(),
		Seats:   defs,
	})
	require.NoError(t, err)
	require.Len(t, seats, n)
	return eventID, zoneID, seats
}

func TestCreateSeatsRejectsDuplicateIdentifiers(t *testing.T) {
	svc := NewService(NewMemoryRepository(), NewMemoryHolds(), nil, seatTestConfig())

	_, err := svc.CreateSeats(context.Background(), CreateSeatsRequest{
		EventID: uuid.New().String(),
		ZoneID:  uuid.New().String(),
		Seats: []SeatDefinition{
			{Identifier: "A1"},
			{Identifier: "A1"},
		},
	})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestReserveSeatsAllOrNothing(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, NewMemoryHolds(), nil, seatTestConfig())
	_, _, created := createTestSeats(t, svc, 3)
	ctx := context.Background()
	until := time.Now().Add(15 * time.Minute)

	// Take one seat out of play first.
	require.NoError(t, repo.ReserveSeats(ctx, []uuid.UUID{created[1].ID}, until))

	// A batch including the taken seat must fail without touching the rest.
	err := repo.ReserveSeats(ctx, []uuid.UUID{created[0].ID, created[1].ID, created[2].ID}, until)
	require.Error(t, err)

	first, err := repo.GetByID(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, first.Status)

	third, err := repo.GetByID(ctx, created[2].ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, third.Status)
}

func TestMarkSoldRequiresReservation(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, NewMemoryHolds(), nil, seatTestConfig())
	_, _, created := createTestSeats(t, svc, 2)
	ctx := context.Background()

	// Not reserved yet, so the conditional update must refuse.
	err := repo.MarkSold(ctx, []uuid.UUID{created[0].ID})
	require.Error(t, err)

	until := time.Now().Add(15 * time.Minute)
	require.NoError(t, repo.ReserveSeats(ctx, []uuid.UUID{created[0].ID}, until))
	require.NoError(t, repo.MarkSold(ctx, []uuid.UUID{created[0].ID}))

	seat, err := repo.GetByID(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSold, seat.Status)
	assert.Nil(t, seat.ReservedUntil)
}

func TestReleaseExpiredFreesOnlyTimedOutSeats(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, NewMemoryHolds(), nil, seatTestConfig())
	_, _, created := createTestSeats(t, svc, 3)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.ReserveSeats(ctx, []uuid.UUID{created[0].ID}, now.Add(-time.Minute)))
	require.NoError(t, repo.ReserveSeats(ctx, []uuid.UUID{created[1].ID}, now.Add(10*time.Minute)))

	released, err := repo.ReleaseExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), released)

	expired, err := repo.GetByID(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, expired.Status)

	live, err := repo.GetByID(ctx, created[1].ID)
	require.NoError(t, err)
	assert.Equal(t, StatusReserved, live.Status)
}

func TestSelectSeatBlocksSecondSession(t *testing.T) {
	repo := NewMemoryRepository()
	holds := NewMemoryHolds()
	svc := NewService(repo, holds, nil, seatTestConfig())
	_, _, created := createTestSeats(t, svc, 1)
	ctx := context.Background()

	req := SelectSeatRequest{SeatID: created[0].ID.String(), SessionID: "session-a"}
	require.NoError(t, svc.SelectSeat(ctx, req))

	// Re-select by the owner refreshes the hold.
	require.NoError(t, svc.SelectSeat(ctx, req))

	err := svc.SelectSeat(ctx, SelectSeatRequest{
		SeatID:    created[0].ID.String(),
		SessionID: "session-b",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	// Owner lets go; the other session can now take it.
	require.NoError(t, svc.DeselectSeat(ctx, req))
	assert.NoError(t, svc.SelectSeat(ctx, SelectSeatRequest{
		SeatID:    created[0].ID.String(),
		SessionID: "session-b",
	}))
}

func TestGetSeatsByZoneOverlaysHolds(t *testing.T) {
	repo := NewMemoryRepository()
	holds := NewMemoryHolds()
	svc := NewService(repo, holds, nil, seatTestConfig())
	_, zoneID, created := createTestSeats(t, svc, 2)
	ctx := context.Background()

	require.NoError(t, svc.SelectSeat(ctx, SelectSeatRequest{
		SeatID:    created[0].ID.String(),
		SessionID: "session-a",
	}))

	// Another session sees the first seat as held.
	views, err := svc.GetSeatsByZone(ctx, zoneID.String(), "session-b")
	require.NoError(t, err)
	require.Len(t, views, 2)

	byID := map[uuid.UUID]SeatView{}
	for _, v := range views {
		byID[v.ID] = v
	}
	assert.True(t, byID[created[0].ID].IsHeld)
	assert.False(t, byID[created[1].ID].IsHeld)

	// The owner's own hold is not flagged against them.
	views, err = svc.GetSeatsByZone(ctx, zoneID.String(), "session-a")
	require.NoError(t, err)
	for _, v := range views {
		assert.False(t, v.IsHeld)
	}
}

func TestAdminReleaseSeat(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, NewMemoryHolds(), nil, seatTestConfig())
	_, _, created := createTestSeats(t, svc, 1)
	ctx := context.Background()

	// Releasing an available seat is an invalid state.
	err := svc.ReleaseSeat(ctx, created[0].ID.String())
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	require.NoError(t, repo.ReserveSeats(ctx, []uuid.UUID{created[0].ID}, time.Now().Add(15*time.Minute)))
	require.NoError(t, svc.ReleaseSeat(ctx, created[0].ID.String()))

	seat, err := repo.GetByID(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, seat.Status)
}
