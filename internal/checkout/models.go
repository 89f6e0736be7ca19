package checkout

import (
	"time"

	"github.com/google/uuid"
)

// CheckoutSession tracks one purchase attempt from BeginCheckout until
// tickets are issued or the attempt dies. CartSessionID ties it back to
// the in-memory cart it was started from.
type CheckoutSession struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	EventID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"event_id"`
	CartSessionID string         `gorm:"not null" json:"cart_session_id"`
	State         string         `gorm:"type:varchar(20);check:state IN ('active', 'pending', 'completed', 'cancelled');default:'active';index" json:"state"`
	SeatCount     int            `gorm:"not null" json:"seat_count"`
	TotalAmount   float64        `gorm:"not null" json:"total_amount"`
	PaymentID     string         `json:"payment_id,omitempty"`
	Lines         []CheckoutLine `gorm:"foreignKey:CheckoutID" json:"lines,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (CheckoutSession) TableName() string {
	return "checkout_sessions"
}

// SeatIDs returns the seats frozen into this checkout at begin time.
func (s *CheckoutSession) SeatIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(s.Lines))
	for i, line := range s.Lines {
		ids[i] = line.SeatID
	}
	return ids
}

// CheckoutLine is one seat of the checkout, priced as it was when the
// checkout began. Tickets are issued and seats sold from these lines,
// never from the live cart, so cart edits after BeginCheckout cannot
// skew what the session charges for.
type CheckoutLine struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CheckoutID uuid.UUID `gorm:"type:uuid;not null;index" json:"checkout_id"`
	SeatID     uuid.UUID `gorm:"type:uuid;not null" json:"seat_id"`
	ZoneID     uuid.UUID `gorm:"type:uuid;not null" json:"zone_id"`
	Price      float64   `gorm:"not null" json:"price"`
}

func (CheckoutLine) TableName() string {
	return "checkout_lines"
}

// PurchaseTimer bounds how long a checkout may hold its seats. At most
// one active timer exists per checkout.
type PurchaseTimer struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CheckoutID    uuid.UUID `gorm:"type:uuid;not null;index" json:"checkout_id"`
	StartTime     time.Time `gorm:"not null" json:"start_time"`
	ExpiryTime    time.Time `gorm:"not null;index" json:"expiry_time"`
	SeatHoldUntil time.Time `gorm:"not null" json:"seat_hold_until"`
	IsActive      bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (PurchaseTimer) TableName() string {
	return "purchase_timers"
}

type BeginCheckoutRequest struct {
	CartSessionID string `json:"cart_session_id" binding:"required"`
}

type CheckoutResponse struct {
	Session *CheckoutSession `json:"session"`
	Timer   *TimerStatus     `json:"timer,omitempty"`
}

// TimerStatus is the remaining-time view clients poll while the
// purchase countdown runs.
type TimerStatus struct {
	RemainingMs      int64 `json:"remainingMs"`
	RemainingMinutes int   `json:"remainingMinutes"`
	IsExpired        bool  `json:"isExpired"`
}
