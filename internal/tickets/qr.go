package tickets

import (
	"encoding/json"
	"fmt"
	"time"

	"boletera/internal/shared/apperrors"
)

// QRPayload is the JSON encoded into a ticket's QR code. Scanners send
// the decoded string back verbatim, so field names are part of the wire
// contract.
type QRPayload struct {
	TicketID  string    `json:"ticketId"`
	EventID   string    `json:"eventId"`
	SeatID    string    `json:"seatId"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
	Signature string    `json:"signature"`
}

// BuildSignature derives the payload signature from the ticket
// identity fields. It is a tamper check against casual edits, not a
// cryptographic one; the ledger lookup is what actually authorizes
// admission.
func BuildSignature(ticketID, eventID, seatID string) string {
	return fmt.Sprintf("%s-%s-%s", ticketID, eventID, seatID)
}

// EncodeQRPayload renders the payload for a ticket at purchase time.
func EncodeQRPayload(t *Ticket) (string, error) {
	payload := QRPayload{
		TicketID:  t.ID.String(),
		EventID:   t.EventID.String(),
		SeatID:    t.SeatID.String(),
		UserID:    t.UserID.String(),
		Timestamp: t.PurchasedAt,
		Signature: BuildSignature(t.ID.String(), t.EventID.String(), t.SeatID.String()),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR payload: %w", err)
	}
	return string(raw), nil
}

// DecodeQRPayload parses scanner input and checks the signature against
// the identity fields.
func DecodeQRPayload(raw string) (*QRPayload, error) {
	var payload QRPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed QR payload", apperrors.ErrValidation)
	}

	if payload.TicketID == "" || payload.EventID == "" || payload.SeatID == "" {
		return nil, fmt.Errorf("%w: QR payload missing identity fields", apperrors.ErrValidation)
	}

	expected := BuildSignature(payload.TicketID, payload.EventID, payload.SeatID)
	if payload.Signature != expected {
		return nil, fmt.Errorf("%w: QR signature mismatch", apperrors.ErrValidation)
	}

	return &payload, nil
}
