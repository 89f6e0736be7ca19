package payments

import (
	"context"
	"time"
)

// Request is the charge attempt for one checkout.
type Request struct {
	CheckoutID string  `json:"checkout_id"`
	UserID     string  `json:"user_id"`
	Amount     float64 `json:"amount"` // order total before tax
	Currency   string  `json:"currency"`
}

// Result is the gateway's answer. AmountCents includes tax and is in
// the smallest currency unit.
type Result struct {
	PaymentID   string    `json:"payment_id"`
	Status      string    `json:"status"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	ProcessedAt time.Time `json:"processed_at"`
}

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Gateway abstracts the payment provider so checkout never knows which
// processor is behind it.
type Gateway interface {
	Process(ctx context.Context, req Request) (*Result, error)
}
