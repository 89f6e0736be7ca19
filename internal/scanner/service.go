package scanner

import (
	"context"
	"errors"
	"fmt"

	"boletera/internal/shared/apperrors"
	"boletera/internal/tickets"
	"boletera/pkg/logger"
	"boletera/pkg/metrics"

	"github.com/google/uuid"
)

// Deny reasons reported to gate staff.
const (
	ReasonDuplicateScan = "duplicate_scan"
	ReasonMalformed     = "malformed_payload"
	ReasonUnknownTicket = "unknown_ticket"
	ReasonAlreadyUsed   = "already_used"
	ReasonCancelled     = "ticket_cancelled"
	ReasonWrongEvent    = "wrong_event"
)

type ScanRequest struct {
	Payload string `json:"payload" binding:"required"`
	// EventID scopes the scan to the gate's event when set.
	EventID string `json:"event_id"`
}

type ScanOutcome struct {
	Admitted bool            `json:"admitted"`
	Reason   string          `json:"reason,omitempty"`
	Ticket   *tickets.Ticket `json:"ticket,omitempty"`
}

type Service interface {
	// Scan decides admission for one QR read. Denied scans never mutate
	// ticket state.
	Scan(ctx context.Context, scannerID uuid.UUID, req ScanRequest) (*ScanOutcome, error)
}

// Publisher is satisfied by the notifications producer; nil disables
// event publishing.
type Publisher interface {
	PublishTicketRedeemed(ctx context.Context, checkoutID, ticketID string)
}

type service struct {
	ticketSvc tickets.Service
	debouncer *Debouncer
	publisher Publisher
}

func NewService(ticketSvc tickets.Service, debouncer *Debouncer) Service {
	return &service{ticketSvc: ticketSvc, debouncer: debouncer}
}

// NewServiceWithPublisher also attaches the lifecycle-event publisher.
func NewServiceWithPublisher(ticketSvc tickets.Service, debouncer *Debouncer, publisher Publisher) Service {
	return &service{ticketSvc: ticketSvc, debouncer: debouncer, publisher: publisher}
}

func (s *service) Scan(ctx context.Context, scannerID uuid.UUID, req ScanRequest) (*ScanOutcome, error) {
	if !s.debouncer.Allow(req.Payload) {
		return s.deny(ctx, ReasonDuplicateScan, nil), nil
	}

	payload, err := tickets.DecodeQRPayload(req.Payload)
	if err != nil {
		return s.deny(ctx, ReasonMalformed, nil), nil
	}

	ticket, err := s.ticketSvc.ValidateTicket(ctx, payload.TicketID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrValidation) {
			return s.deny(ctx, ReasonUnknownTicket, nil), nil
		}
		return nil, err
	}

	// The payload identity must match the ledger row it points at.
	if ticket.SeatID.String() != payload.SeatID || ticket.EventID.String() != payload.EventID {
		return s.deny(ctx, ReasonMalformed, nil), nil
	}

	if req.EventID != "" && req.EventID != ticket.EventID.String() {
		return s.deny(ctx, ReasonWrongEvent, ticket), nil
	}

	switch ticket.Status {
	case tickets.StatusCancelled:
		return s.deny(ctx, ReasonCancelled, ticket), nil
	case tickets.StatusUsed:
		return s.deny(ctx, ReasonAlreadyUsed, ticket), nil
	}

	// The conditional update is what actually guarantees single
	// admission; the status check above only produces a nicer reason.
	used, err := s.ticketSvc.UseTicket(ctx, payload.TicketID, scannerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) {
			return s.deny(ctx, ReasonAlreadyUsed, ticket), nil
		}
		return nil, fmt.Errorf("failed to redeem ticket: %w", err)
	}

	metrics.ScanResult(true, "")
	if s.publisher != nil {
		s.publisher.PublishTicketRedeemed(ctx, used.CheckoutID.String(), used.ID.String())
	}
	return &ScanOutcome{Admitted: true, Ticket: used}, nil
}

func (s *service) deny(ctx context.Context, reason string, ticket *tickets.Ticket) *ScanOutcome {
	logger.GetDefault().LogScanDenied(ctx, reason)
	metrics.ScanResult(false, reason)
	return &ScanOutcome{Admitted: false, Reason: reason, Ticket: ticket}
}
