package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boletera/internal/scanner"
	"boletera/internal/seats"
	"boletera/internal/tickets"
)

// Full purchase lifecycle: cart through confirmed checkout, then the issued
// QR is scanned at the gate once successfully and refused on the replay.
func TestPurchaseToGateFlow(t *testing.T) {
	f := newCheckoutFixture(t, 2)
	f.fillCart(t, "sess-e2e", 0, 1)
	ctx := context.Background()
	userID := uuid.New()

	resp, err := f.svc.BeginCheckout(ctx, userID, BeginCheckoutRequest{CartSessionID: "sess-e2e"})
	require.NoError(t, err)

	result, err := f.svc.Confirm(ctx, resp.Session.ID.String())
	require.NoError(t, err)
	require.Len(t, result.Tickets, 2)
	require.NotNil(t, result.Payment)

	for _, seat := range f.seats {
		got, err := f.seatRepo.GetByID(ctx, seat.ID)
		require.NoError(t, err)
		assert.Equal(t, seats.StatusSold, got.Status)
	}

	// The gate scans the first ticket's QR code.
	ticketSvc := tickets.NewService(f.ticketsR)
	debouncer := scanner.NewDebouncer(2 * time.Second)
	gate := scanner.NewService(ticketSvc, debouncer)
	scannerID := uuid.New()

	outcome, err := gate.Scan(ctx, scannerID, scanner.ScanRequest{
		Payload: result.Tickets[0].QRCode,
		EventID: f.eventID.String(),
	})
	require.NoError(t, err)
	assert.True(t, outcome.Admitted)
	require.NotNil(t, outcome.Ticket)
	assert.Equal(t, tickets.StatusUsed, outcome.Ticket.Status)

	// Replay of the same QR after the debounce window is refused by the
	// ledger, not just the debouncer.
	fresh := scanner.NewService(ticketSvc, scanner.NewDebouncer(2*time.Second))
	outcome, err = fresh.Scan(ctx, scannerID, scanner.ScanRequest{
		Payload: result.Tickets[0].QRCode,
	})
	require.NoError(t, err)
	assert.False(t, outcome.Admitted)
	assert.Equal(t, scanner.ReasonAlreadyUsed, outcome.Reason)

	// The second ticket still admits its own holder.
	outcome, err = gate.Scan(ctx, scannerID, scanner.ScanRequest{
		Payload: result.Tickets[1].QRCode,
	})
	require.NoError(t, err)
	assert.True(t, outcome.Admitted)
}
