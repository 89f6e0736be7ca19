package tickets

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"boletera/internal/shared/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueOne(t *testing.T, svc Service) *Ticket {
	t.Helper()
	tickets, err := svc.IssueTickets(context.Background(), uuid.New(), uuid.New(), uuid.New(),
		[]Line{{SeatID: uuid.New(), ZoneID: uuid.New(), Price: 45}}, "pi_test")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	return &tickets[0]
}

func TestIssueTicketsBuildsQRPayload(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ticket := issueOne(t, svc)

	var payload QRPayload
	require.NoError(t, json.Unmarshal([]byte(ticket.QRCode), &payload))

	assert.Equal(t, ticket.ID.String(), payload.TicketID)
	assert.Equal(t, ticket.EventID.String(), payload.EventID)
	assert.Equal(t, ticket.SeatID.String(), payload.SeatID)
	assert.Equal(t, ticket.UserID.String(), payload.UserID)
	assert.Equal(t, BuildSignature(payload.TicketID, payload.EventID, payload.SeatID), payload.Signature)
	assert.Equal(t, StatusValid, ticket.Status)
	assert.Equal(t, "pi_test", ticket.PaymentID)
}

func TestIssueTicketsRejectsEmptyLines(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	_, err := svc.IssueTickets(context.Background(), uuid.New(), uuid.New(), uuid.New(), nil, "pi_test")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUseTicketIsSingleUse(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ticket := issueOne(t, svc)
	scannerID := uuid.New()

	used, err := svc.UseTicket(context.Background(), ticket.ID.String(), scannerID)
	require.NoError(t, err)
	assert.Equal(t, StatusUsed, used.Status)
	require.NotNil(t, used.UsedBy)
	assert.Equal(t, scannerID, *used.UsedBy)
	assert.NotNil(t, used.UsedAt)

	_, err = svc.UseTicket(context.Background(), ticket.ID.String(), scannerID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestUseTicketConcurrentScannersAdmitOnce(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ticket := issueOne(t, svc)

	const scanners = 8
	var wg sync.WaitGroup
	results := make(chan error, scanners)

	for i := 0; i < scanners; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.UseTicket(context.Background(), ticket.ID.String(), uuid.New())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	admitted := 0
	for err := range results {
		if err == nil {
			admitted++
		} else {
			assert.ErrorIs(t, err, apperrors.ErrInvalidState)
		}
	}
	assert.Equal(t, 1, admitted)
}

func TestValidateTicketDoesNotMutate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ticket := issueOne(t, svc)

	for i := 0; i < 3; i++ {
		got, err := svc.ValidateTicket(context.Background(), ticket.ID.String())
		require.NoError(t, err)
		assert.Equal(t, StatusValid, got.Status)
	}
}

func TestValidateTicketUnknownID(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	_, err := svc.ValidateTicket(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.ValidateTicket(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestDecodeQRPayload(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ticket := issueOne(t, svc)

	payload, err := DecodeQRPayload(ticket.QRCode)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID.String(), payload.TicketID)
	assert.WithinDuration(t, ticket.PurchasedAt, payload.Timestamp, time.Second)
}

func TestDecodeQRPayloadRejectsTampering(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ticket := issueOne(t, svc)

	var payload QRPayload
	require.NoError(t, json.Unmarshal([]byte(ticket.QRCode), &payload))

	// swap the seat to someone else's without updating the signature
	payload.SeatID = uuid.New().String()
	tampered, err := json.Marshal(payload)
	require.NoError(t, err)

	_, err = DecodeQRPayload(string(tampered))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestDecodeQRPayloadRejectsGarbage(t *testing.T) {
	_, err := DecodeQRPayload("not json at all")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = DecodeQRPayload(`{"ticketId":""}`)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCancelTicketsByCheckout(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	checkoutID := uuid.New()

	tickets, err := svc.IssueTickets(context.Background(), checkoutID, uuid.New(), uuid.New(),
		[]Line{
			{SeatID: uuid.New(), ZoneID: uuid.New(), Price: 30},
			{SeatID: uuid.New(), ZoneID: uuid.New(), Price: 30},
		}, "pi_test")
	require.NoError(t, err)

	require.NoError(t, svc.CancelTicketsByCheckout(context.Background(), checkoutID))

	for _, ticket := range tickets {
		got, err := svc.ValidateTicket(context.Background(), ticket.ID.String())
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, got.Status)
	}
}
