package scanner

import (
	"context"
	"testing"
	"time"

	"boletera/internal/tickets"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScannerFixture(t *testing.T) (Service, tickets.Service) {
	t.Helper()
	ticketSvc := tickets.NewService(tickets.NewMemoryRepository())
	return NewService(ticketSvc, NewDebouncer(2*time.Second)), ticketSvc
}

func issueTicket(t *testing.T, ticketSvc tickets.Service) *tickets.Ticket {
	t.Helper()
	issued, err := ticketSvc.IssueTickets(context.Background(), uuid.New(), uuid.New(), uuid.New(),
		[]tickets.Line{{SeatID: uuid.New(), ZoneID: uuid.New(), Price: 55}}, "pi_test")
	require.NoError(t, err)
	return &issued[0]
}

func TestScanAdmitsValidTicket(t *testing.T) {
	svc, ticketSvc := newScannerFixture(t)
	ticket := issueTicket(t, ticketSvc)
	scannerID := uuid.New()

	outcome, err := svc.Scan(context.Background(), scannerID, ScanRequest{Payload: ticket.QRCode})
	require.NoError(t, err)
	assert.True(t, outcome.Admitted)
	require.NotNil(t, outcome.Ticket)
	assert.Equal(t, tickets.StatusUsed, outcome.Ticket.Status)
	require.NotNil(t, outcome.Ticket.UsedBy)
	assert.Equal(t, scannerID, *outcome.Ticket.UsedBy)
}

func TestScanDebouncesRepeatReads(t *testing.T) {
	svc, ticketSvc := newScannerFixture(t)
	ticket := issueTicket(t, ticketSvc)

	first, err := svc.Scan(context.Background(), uuid.New(), ScanRequest{Payload: ticket.QRCode})
	require.NoError(t, err)
	assert.True(t, first.Admitted)

	// same frame read again a moment later
	second, err := svc.Scan(context.Background(), uuid.New(), ScanRequest{Payload: ticket.QRCode})
	require.NoError(t, err)
	assert.False(t, second.Admitted)
	assert.Equal(t, ReasonDuplicateScan, second.Reason)
}

func TestScanDeniesSecondUseAfterWindow(t *testing.T) {
	ticketSvc := tickets.NewService(tickets.NewMemoryRepository())
	debouncer := NewDebouncer(2 * time.Second)
	now := time.Now()
	debouncer.nowFn = func() time.Time { return now }
	svc := NewService(ticketSvc, debouncer)
	ticket := issueTicket(t, ticketSvc)

	first, err := svc.Scan(context.Background(), uuid.New(), ScanRequest{Payload: ticket.QRCode})
	require.NoError(t, err)
	assert.True(t, first.Admitted)

	// well past the debounce window the ledger still says no
	now = now.Add(5 * time.Second)
	second, err := svc.Scan(context.Background(), uuid.New(), ScanRequest{Payload: ticket.QRCode})
	require.NoError(t, err)
	assert.False(t, second.Admitted)
	assert.Equal(t, ReasonAlreadyUsed, second.Reason)
}

func TestScanDeniesMalformedPayload(t *testing.T) {
	svc, _ := newScannerFixture(t)

	outcome, err := svc.Scan(context.Background(), uuid.New(), ScanRequest{Payload: "{{{"})
	require.NoError(t, err)
	assert.False(t, outcome.Admitted)
	assert.Equal(t, ReasonMalformed, outcome.Reason)
}

func TestScanDeniesUnknownTicket(t *testing.T) {
	svc, _ := newScannerFixture(t)

	// a well-formed payload pointing at a ticket that was never issued
	ghost := &tickets.Ticket{
		ID:          uuid.New(),
		EventID:     uuid.New(),
		SeatID:      uuid.New(),
		UserID:      uuid.New(),
		PurchasedAt: time.Now(),
	}
	payload, err := tickets.EncodeQRPayload(ghost)
	require.NoError(t, err)

	outcome, err := svc.Scan(context.Background(), uuid.New(), ScanRequest{Payload: payload})
	require.NoError(t, err)
	assert.False(t, outcome.Admitted)
	assert.Equal(t, ReasonUnknownTicket, outcome.Reason)
}

func TestScanDeniesCancelledTicket(t *testing.T) {
	svc, ticketSvc := newScannerFixture(t)
	ticket := issueTicket(t, ticketSvc)
	require.NoError(t, ticketSvc.CancelTicketsByCheckout(context.Background(), ticket.CheckoutID))

	outcome, err := svc.Scan(context.Background(), uuid.New(), ScanRequest{Payload: ticket.QRCode})
	require.NoError(t, err)
	assert.False(t, outcome.Admitted)
	assert.Equal(t, ReasonCancelled, outcome.Reason)
}

func TestScanDeniesWrongEventGate(t *testing.T) {
	svc, ticketSvc := newScannerFixture(t)
	ticket := issueTicket(t, ticketSvc)

	outcome, err := svc.Scan(context.Background(), uuid.New(), ScanRequest{
		Payload: ticket.QRCode,
		EventID: uuid.New().String(),
	})
	require.NoError(t, err)
	assert.False(t, outcome.Admitted)
	assert.Equal(t, ReasonWrongEvent, outcome.Reason)

	// the ticket is untouched and admits at the right gate
	again, err := svc.Scan(context.Background(), uuid.New(), ScanRequest{
		Payload: ticket.QRCode,
		EventID: ticket.EventID.String(),
	})
	require.NoError(t, err)
	assert.False(t, again.Admitted)
	assert.Equal(t, ReasonDuplicateScan, again.Reason)
}

func TestDebouncerWindow(t *testing.T) {
	d := NewDebouncer(2 * time.Second)
	now := time.Now()
	d.nowFn = func() time.Time { return now }

	assert.True(t, d.Allow("payload-a"))
	assert.False(t, d.Allow("payload-a"))
	assert.True(t, d.Allow("payload-b"))

	now = now.Add(2 * time.Second)
	assert.True(t, d.Allow("payload-a"))
}
