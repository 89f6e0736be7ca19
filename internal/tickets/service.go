package tickets

import (
	"context"
	"fmt"
	"time"

	"boletera/internal/shared/apperrors"
	"boletera/pkg/logger"

	"github.com/google/uuid"
)

// Line is one seat to issue a ticket for. The checkout service maps
// cart items into lines so this package stays ignorant of carts.
type Line struct {
	SeatID uuid.UUID
	ZoneID uuid.UUID
	Price  float64
}

type Service interface {
	// IssueTickets creates one ticket per line in a single transaction,
	// each with its QR payload precomputed.
	IssueTickets(ctx context.Context, checkoutID, userID, eventID uuid.UUID, lines []Line, paymentID string) ([]Ticket, error)

	// ValidateTicket is a pure read; it never mutates ticket state.
	ValidateTicket(ctx context.Context, ticketID string) (*Ticket, error)

	// UseTicket marks a valid ticket used by the given scanner. Exactly
	// one concurrent caller wins.
	UseTicket(ctx context.Context, ticketID string, scannerID uuid.UUID) (*Ticket, error)

	GetTicketsByUser(ctx context.Context, userID string) ([]Ticket, error)
	GetTicketsByCheckout(ctx context.Context, checkoutID uuid.UUID) ([]Ticket, error)
	CancelTicketsByCheckout(ctx context.Context, checkoutID uuid.UUID) error
}

type service struct {
	repo  Repository
	nowFn func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, nowFn: time.Now}
}

func (s *service) IssueTickets(ctx context.Context, checkoutID, userID, eventID uuid.UUID, lines []Line, paymentID string) ([]Ticket, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no seats to issue tickets for", apperrors.ErrValidation)
	}

	purchasedAt := s.nowFn()
	batch := make([]Ticket, 0, len(lines))
	for _, line := range lines {
		ticket := Ticket{
			ID:          uuid.New(),
			CheckoutID:  checkoutID,
			UserID:      userID,
			EventID:     eventID,
			SeatID:      line.SeatID,
			ZoneID:      line.ZoneID,
			Price:       line.Price,
			Status:      StatusValid,
			PaymentID:   paymentID,
			PurchasedAt: purchasedAt,
		}

		qr, err := EncodeQRPayload(&ticket)
		if err != nil {
			return nil, err
		}
		ticket.QRCode = qr
		batch = append(batch, ticket)
	}

	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to issue tickets: %w", err)
	}

	for _, ticket := range batch {
		logger.GetDefault().LogTicketIssued(ctx, ticket.ID.String(), ticket.EventID.String(), ticket.SeatID.String())
	}
	return batch, nil
}

func (s *service) ValidateTicket(ctx context.Context, ticketID string) (*Ticket, error) {
	id, err := uuid.Parse(ticketID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid ticket ID", apperrors.ErrValidation)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) UseTicket(ctx context.Context, ticketID string, scannerID uuid.UUID) (*Ticket, error) {
	id, err := uuid.Parse(ticketID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid ticket ID", apperrors.ErrValidation)
	}

	if err := s.repo.MarkUsed(ctx, id, scannerID, s.nowFn()); err != nil {
		return nil, err
	}

	ticket, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.GetDefault().LogTicketRedeemed(ctx, ticket.ID.String(), scannerID.String())
	return ticket, nil
}

func (s *service) GetTicketsByUser(ctx context.Context, userID string) ([]Ticket, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID", apperrors.ErrValidation)
	}
	return s.repo.GetByUserID(ctx, id)
}

func (s *service) GetTicketsByCheckout(ctx context.Context, checkoutID uuid.UUID) ([]Ticket, error) {
	return s.repo.GetByCheckoutID(ctx, checkoutID)
}

func (s *service) CancelTicketsByCheckout(ctx context.Context, checkoutID uuid.UUID) error {
	return s.repo.CancelByCheckoutID(ctx, checkoutID)
}
