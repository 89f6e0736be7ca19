package tickets

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusValid     = "valid"
	StatusUsed      = "used"
	StatusCancelled = "cancelled"
)

type Ticket struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CheckoutID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"checkout_id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	EventID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"event_id"`
	SeatID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_tickets_seat_active,where:status <> 'cancelled'" json:"seat_id"`
	ZoneID      uuid.UUID  `gorm:"type:uuid;not null" json:"zone_id"`
	Price       float64    `gorm:"not null" json:"price"`
	QRCode      string     `gorm:"type:text;not null" json:"qr_code"`
	Status      string     `gorm:"type:varchar(20);check:status IN ('valid', 'used', 'cancelled');default:'valid';index" json:"status"`
	PaymentID   string     `json:"payment_id"`
	PurchasedAt time.Time  `gorm:"not null" json:"purchased_at"`
	UsedAt      *time.Time `json:"used_at,omitempty"`
	UsedBy      *uuid.UUID `gorm:"type:uuid" json:"used_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Ticket) TableName() string {
	return "tickets"
}

func (t *Ticket) IsUsable() bool {
	return t.Status == StatusValid
}
