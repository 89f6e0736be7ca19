package payments

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"boletera/internal/shared/apperrors"
	"boletera/internal/shared/config"

	"github.com/google/uuid"
)

// MockGateway simulates the payment provider: every charge succeeds,
// gets a pi_-prefixed intent id and the configured tax applied in
// cents. failNext lets tests exercise the compensation path.
type MockGateway struct {
	cfg      *config.PaymentConfig
	failNext bool
}

func NewMockGateway(cfg *config.PaymentConfig) *MockGateway {
	return &MockGateway{cfg: cfg}
}

// FailNext makes the next Process call return a declined result.
func (g *MockGateway) FailNext() {
	g.failNext = true
}

func (g *MockGateway) Process(ctx context.Context, req Request) (*Result, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	currency := req.Currency
	if currency == "" {
		currency = g.cfg.Currency
	}

	if g.failNext {
		g.failNext = false
		return nil, fmt.Errorf("%w: payment declined", apperrors.ErrUpstream)
	}

	amountCents := int64(math.Round(req.Amount * (1 + g.cfg.TaxRate) * 100))

	return &Result{
		PaymentID:   "pi_" + strings.ReplaceAll(uuid.New().String(), "-", ""),
		Status:      StatusSucceeded,
		AmountCents: amountCents,
		Currency:    currency,
		ProcessedAt: time.Now(),
	}, nil
}
