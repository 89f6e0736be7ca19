package checkout

import (
	"context"
	"testing"
	"time"

	"boletera/internal/cart"
	"boletera/internal/payments"
	"boletera/internal/seats"
	"boletera/internal/shared/apperrors"
	"boletera/internal/shared/config"
	"boletera/internal/tickets"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	svc      Service
	repo     Repository
	timers   *TimerService
	seatRepo seats.Repository
	ticketsR tickets.Repository
	manager  *cart.Manager
	gateway  *payments.MockGateway
	eventID  uuid.UUID
	zoneID   uuid.UUID
	seats    []seats.Seat
}

func newCheckoutFixture(t *testing.T, seatCount int) *checkoutFixture {
	t.Helper()

	cfg := &config.Config{
		Checkout: config.CheckoutConfig{
			HoldMinutes:        15,
			ExtendMinutes:      10,
			MaxSeatsPerSession: 10,
		},
		Payment: config.PaymentConfig{Currency: "eur", TaxRate: 0.21},
	}

	repo := NewMemoryRepository()
	timers := NewTimerService(repo)
	seatRepo := seats.NewMemoryRepository()
	ticketRepo := tickets.NewMemoryRepository()
	manager := cart.NewManager()
	gateway := payments.NewMockGateway(&cfg.Payment)

	eventID := uuid.New()
	zoneID := uuid.New()
	batch := make([]seats.Seat, seatCount)
	for i := range batch {
		batch[i] = seats.Seat{EventID: eventID, ZoneID: zoneID, Identifier: "GA-" + uuid.New().String()[:4]}
	}
	require.NoError(t, seatRepo.CreateBatch(context.Background(), batch))

	svc := NewService(repo, timers, seatRepo, manager, seats.NewMemoryHolds(),
		tickets.NewService(ticketRepo), gateway, nil, cfg)

	return &checkoutFixture{
		svc:      svc,
		repo:     repo,
		timers:   timers,
		seatRepo: seatRepo,
		ticketsR: ticketRepo,
		manager:  manager,
		gateway:  gateway,
		eventID:  eventID,
		zoneID:   zoneID,
		seats:    batch,
	}
}

func (f *checkoutFixture) fillCart(t *testing.T, sessionID string, seatIdx ...int) {
	t.Helper()
	err := f.manager.Update(sessionID, func(c *cart.Cart) error {
		for _, i := range seatIdx {
			seat := f.seats[i]
			if err := c.AddSeat(f.eventID, cart.Item{
				SeatID:         seat.ID,
				ZoneID:         f.zoneID,
				SeatIdentifier: seat.Identifier,
				Price:          50,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestBeginCheckoutReservesSeatsAndStartsTimer(t *testing.T) {
	f := newCheckoutFixture(t, 2)
	f.fillCart(t, "sess-1", 0, 1)

	resp, err := f.svc.BeginCheckout(context.Background(), uuid.New(), BeginCheckoutRequest{CartSessionID: "sess-1"})
	require.NoError(t, err)
	assert.Equal(t, StateActive, resp.Session.State)
	assert.Equal(t, 2, resp.Session.SeatCount)
	assert.Equal(t, 100.0, resp.Session.TotalAmount)
	require.NotNil(t, resp.Timer)
	assert.False(t, resp.Timer.IsExpired)

	for _, seat := range f.seats {
		got, err := f.seatRepo.GetByID(context.Background(), seat.ID)
		require.NoError(t, err)
		assert.Equal(t, seats.StatusReserved, got.Status)
		require.NotNil(t, got.ReservedUntil)
	}
}

func TestBeginCheckoutRejectsEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t, 1)

	_, err := f.svc.BeginCheckout(context.Background(), uuid.New(), BeginCheckoutRequest{CartSessionID: "nobody"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestBeginCheckoutAllOrNothingReservation(t *testing.T) {
	f := newCheckoutFixture(t, 2)
	f.fillCart(t, "first", 0)
	f.fillCart(t, "second", 0, 1)

	_, err := f.svc.BeginCheckout(context.Background(), uuid.New(), BeginCheckoutRequest{CartSessionID: "first"})
	require.NoError(t, err)

	// seat 0 is reserved by the first checkout; the second must fail
	// without touching seat 1
	_, err = f.svc.BeginCheckout(context.Background(), uuid.New(), BeginCheckoutRequest{CartSessionID: "second"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	untouched, err := f.seatRepo.GetByID(context.Background(), f.seats[1].ID)
	require.NoError(t, err)
	assert.Equal(t, seats.StatusAvailable, untouched.Status)
}

func TestConfirmIssuesTicketsAndSellsSeats(t *testing.T) {
	f := newCheckoutFixture(t, 2)
	f.fillCart(t, "sess-1", 0, 1)
	userID := uuid.New()

	resp, err := f.svc.BeginCheckout(context.Background(), userID, BeginCheckoutRequest{CartSessionID: "sess-1"})
	require.NoError(t, err)

	result, err := f.svc.Confirm(context.Background(), resp.Session.ID.String())
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, result.Session.State)
	assert.Len(t, result.Tickets, 2)
	require.NotNil(t, result.Payment)
	assert.Contains(t, result.Payment.PaymentID, "pi_")
	// 100.00 plus 21% tax, in cents
	assert.Equal(t, int64(12100), result.Payment.AmountCents)

	for _, seat := range f.seats {
		got, err := f.seatRepo.GetByID(context.Background(), seat.ID)
		require.NoError(t, err)
		assert.Equal(t, seats.StatusSold, got.Status)
	}

	for _, ticket := range result.Tickets {
		assert.Equal(t, tickets.StatusValid, ticket.Status)
		assert.Equal(t, userID, ticket.UserID)
		assert.NotEmpty(t, ticket.QRCode)
	}

	// cart is gone and the timer stopped
	assert.True(t, f.manager.Snapshot("sess-1").IsEmpty())
	_, err = f.timers.GetRemainingTime(context.Background(), resp.Session.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestConfirmChargesBeginTimeLinesDespiteCartEdits(t *testing.T) {
	f := newCheckoutFixture(t, 2)
	f.fillCart(t, "sess-1", 0, 1)
	ctx := context.Background()

	resp, err := f.svc.BeginCheckout(ctx, uuid.New(), BeginCheckoutRequest{CartSessionID: "sess-1"})
	require.NoError(t, err)
	require.Len(t, resp.Session.Lines, 2)

	// The shopper drops a seat from the cart after the checkout began.
	err = f.manager.Update("sess-1", func(c *cart.Cart) error {
		return c.RemoveSeat(f.seats[0].ID)
	})
	require.NoError(t, err)

	result, err := f.svc.Confirm(ctx, resp.Session.ID.String())
	require.NoError(t, err)

	// The begin-time snapshot is what settles: both seats ticketed and
	// sold, both priced into the charge.
	assert.Len(t, result.Tickets, 2)
	assert.Equal(t, int64(12100), result.Payment.AmountCents)
	for _, seat := range f.seats {
		got, err := f.seatRepo.GetByID(ctx, seat.ID)
		require.NoError(t, err)
		assert.Equal(t, seats.StatusSold, got.Status)
	}
}

func TestConfirmPaymentFailureCompensates(t *testing.T) {
	f := newCheckoutFixture(t, 2)
	f.fillCart(t, "sess-1", 0, 1)

	resp, err := f.svc.BeginCheckout(context.Background(), uuid.New(), BeginCheckoutRequest{CartSessionID: "sess-1"})
	require.NoError(t, err)

	f.gateway.FailNext()
	_, err = f.svc.Confirm(context.Background(), resp.Session.ID.String())
	assert.ErrorIs(t, err, apperrors.ErrUpstream)

	session, err := f.svc.GetSession(context.Background(), resp.Session.ID.String())
	require.NoError(t, err)
	assert.Equal(t, StateCancelled, session.State)

	// seats are back on sale, no tickets exist
	for _, seat := range f.seats {
		got, err := f.seatRepo.GetByID(context.Background(), seat.ID)
		require.NoError(t, err)
		assert.Equal(t, seats.StatusAvailable, got.Status)
	}
	issued, err := f.ticketsR.GetByCheckoutID(context.Background(), resp.Session.ID)
	require.NoError(t, err)
	assert.Empty(t, issued)

	// the cart survives so the shopper can retry
	assert.Len(t, f.manager.Snapshot("sess-1").Items, 2)
}

func TestConfirmOnlyOneWinnerUnderRace(t *testing.T) {
	f := newCheckoutFixture(t, 1)
	f.fillCart(t, "sess-1", 0)

	resp, err := f.svc.BeginCheckout(context.Background(), uuid.New(), BeginCheckoutRequest{CartSessionID: "sess-1"})
	require.NoError(t, err)

	_, err = f.svc.Confirm(context.Background(), resp.Session.ID.String())
	require.NoError(t, err)

	_, err = f.svc.Confirm(context.Background(), resp.Session.ID.String())
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestCancelReleasesSeats(t *testing.T) {
	f := newCheckoutFixture(t, 1)
	f.fillCart(t, "sess-1", 0)

	resp, err := f.svc.BeginCheckout(context.Background(), uuid.New(), BeginCheckoutRequest{CartSessionID: "sess-1"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(context.Background(), resp.Session.ID.String()))

	seat, err := f.seatRepo.GetByID(context.Background(), f.seats[0].ID)
	require.NoError(t, err)
	assert.Equal(t, seats.StatusAvailable, seat.Status)

	// cancelling twice is rejected, the state is terminal
	err = f.svc.Cancel(context.Background(), resp.Session.ID.String())
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestExtendTimerMovesSeatDeadline(t *testing.T) {
	f := newCheckoutFixture(t, 1)
	f.fillCart(t, "sess-1", 0)

	resp, err := f.svc.BeginCheckout(context.Background(), uuid.New(), BeginCheckoutRequest{CartSessionID: "sess-1"})
	require.NoError(t, err)

	before, err := f.seatRepo.GetByID(context.Background(), f.seats[0].ID)
	require.NoError(t, err)
	require.NotNil(t, before.ReservedUntil)

	status, err := f.svc.ExtendTimer(context.Background(), resp.Session.ID.String())
	require.NoError(t, err)
	assert.Greater(t, status.RemainingMs, int64(15*60*1000))

	after, err := f.seatRepo.GetByID(context.Background(), f.seats[0].ID)
	require.NoError(t, err)
	require.NotNil(t, after.ReservedUntil)
	assert.True(t, after.ReservedUntil.After(*before.ReservedUntil))
}

func TestSweepCancelsExpiredCheckouts(t *testing.T) {
	f := newCheckoutFixture(t, 1)
	f.fillCart(t, "sess-1", 0)

	resp, err := f.svc.BeginCheckout(context.Background(), uuid.New(), BeginCheckoutRequest{CartSessionID: "sess-1"})
	require.NoError(t, err)

	jp := NewJobProcessor(f.repo, f.seatRepo, time.Minute)
	jp.nowFn = func() time.Time { return time.Now().Add(20 * time.Minute) }

	jp.Sweep(context.Background())

	session, err := f.svc.GetSession(context.Background(), resp.Session.ID.String())
	require.NoError(t, err)
	assert.Equal(t, StateCancelled, session.State)

	seat, err := f.seatRepo.GetByID(context.Background(), f.seats[0].ID)
	require.NoError(t, err)
	assert.Equal(t, seats.StatusAvailable, seat.Status)

	_, err = f.timers.GetRemainingTime(context.Background(), resp.Session.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSweepSkipsPendingSessions(t *testing.T) {
	f := newCheckoutFixture(t, 1)
	f.fillCart(t, "sess-1", 0)

	resp, err := f.svc.BeginCheckout(context.Background(), uuid.New(), BeginCheckoutRequest{CartSessionID: "sess-1"})
	require.NoError(t, err)

	// payment in flight
	require.NoError(t, f.repo.TransitionState(context.Background(), resp.Session.ID, StateActive, StatePending))

	jp := NewJobProcessor(f.repo, f.seatRepo, time.Minute)
	jp.nowFn = func() time.Time { return time.Now().Add(20 * time.Minute) }
	jp.Sweep(context.Background())

	session, err := f.svc.GetSession(context.Background(), resp.Session.ID.String())
	require.NoError(t, err)
	assert.Equal(t, StatePending, session.State)
}
