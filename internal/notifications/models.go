package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Ticket lifecycle event types published to Kafka.
const (
	EventTicketsIssued     = "tickets.issued"
	EventTicketRedeemed    = "ticket.redeemed"
	EventCheckoutCancelled = "checkout.cancelled"
)

// TicketEvent is the message published for every ticket lifecycle
// change. Downstream consumers (email, push, analytics) fan out from
// the one topic.
type TicketEvent struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	CheckoutID string    `json:"checkout_id"`
	TicketID   string    `json:"ticket_id,omitempty"`
	Count      int       `json:"count,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e *TicketEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PartitionKey keeps all events of one checkout on one partition so
// consumers see them in order.
func (e *TicketEvent) PartitionKey() string {
	return e.CheckoutID
}
