package zones

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boletera/internal/shared/apperrors"
)

func TestCreateAndGetZone(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	eventID := uuid.New()
	zone, err := svc.CreateZone(ctx, CreateZoneRequest{
		EventID:  eventID.String(),
		Name:     "Platea",
		Color:    "#ff0000",
		Price:    75.0,
		Capacity: 200,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, zone.ID)

	got, err := svc.GetZone(ctx, zone.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Platea", got.Name)
	assert.Equal(t, 75.0, got.Price)
	assert.Equal(t, eventID, got.EventID)
}

func TestCreateZoneRejectsBadEventID(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil)

	_, err := svc.CreateZone(context.Background(), CreateZoneRequest{
		EventID: "not-a-uuid",
		Name:    "Platea",
		Price:   75.0,
	})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUpdateZonePartial(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	zone, err := svc.CreateZone(ctx, CreateZoneRequest{
		EventID: uuid.New().String(),
		Name:    "Balcon",
		Price:   40.0,
	})
	require.NoError(t, err)

	newPrice := 45.0
	updated, err := svc.UpdateZone(ctx, zone.ID.String(), UpdateZoneRequest{Price: &newPrice})
	require.NoError(t, err)

	assert.Equal(t, 45.0, updated.Price)
	assert.Equal(t, "Balcon", updated.Name)
}

func TestDeleteZone(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	zone, err := svc.CreateZone(ctx, CreateZoneRequest{
		EventID: uuid.New().String(),
		Name:    "Palco",
		Price:   120.0,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteZone(ctx, zone.ID.String()))

	_, err = svc.GetZone(ctx, zone.ID.String())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEventRevenueSumsAcrossZones(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	eventID := uuid.New()
	platea, err := svc.CreateZone(ctx, CreateZoneRequest{
		EventID: eventID.String(), Name: "Platea", Price: 75.0, Capacity: 200,
	})
	require.NoError(t, err)
	balcon, err := svc.CreateZone(ctx, CreateZoneRequest{
		EventID: eventID.String(), Name: "Balcon", Price: 40.0, Capacity: 100,
	})
	require.NoError(t, err)

	mem := repo.(*memoryRepository)
	mem.SetSoldSeats(platea.ID, 10)
	mem.SetSoldSeats(balcon.ID, 3)

	summary, err := svc.GetEventRevenue(ctx, eventID.String())
	require.NoError(t, err)

	assert.Equal(t, eventID, summary.EventID)
	assert.Len(t, summary.Zones, 2)
	assert.Equal(t, 13, summary.TotalSold)
	assert.InDelta(t, 750.0+120.0, summary.TotalRevenue, 0.001)

	byName := map[string]ZoneRevenue{}
	for _, z := range summary.Zones {
		byName[z.ZoneName] = z
	}
	assert.Equal(t, 10, byName["Platea"].SoldSeats)
	assert.InDelta(t, 750.0, byName["Platea"].Revenue, 0.001)
	assert.Equal(t, 3, byName["Balcon"].SoldSeats)
	assert.InDelta(t, 120.0, byName["Balcon"].Revenue, 0.001)
}

func TestEventRevenueEmptyEvent(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil)

	summary, err := svc.GetEventRevenue(context.Background(), uuid.New().String())
	require.NoError(t, err)

	assert.Empty(t, summary.Zones)
	assert.Zero(t, summary.TotalRevenue)
	assert.Zero(t, summary.TotalSold)
}
