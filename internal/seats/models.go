package seats

import (
	"time"

	"github.com/google/uuid"
)

// Seat statuses. Transitions are guarded by conditional updates in the
// repository; a seat never moves straight from available to sold.
const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
	StatusSold      = "sold"
)

type Seat struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"event_id"`
	ZoneID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"zone_id"`
	Identifier    string     `gorm:"not null" json:"identifier"` // e.g. "VIP-A3"
	X             float64    `json:"x"`                          // display coordinates only
	Y             float64    `json:"y"`
	Status        string     `gorm:"type:varchar(20);check:status IN ('available', 'reserved', 'sold');default:'available';index" json:"status"`
	ReservedUntil *time.Time `gorm:"index" json:"reserved_until,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Seat) TableName() string {
	return "seats"
}

func (s *Seat) IsAvailable() bool {
	return s.Status == StatusAvailable
}

type CreateSeatsRequest struct {
	EventID string           `json:"event_id" binding:"required,uuid"`
	ZoneID  string           `json:"zone_id" binding:"required,uuid"`
	Seats   []SeatDefinition `json:"seats" binding:"required,min=1,dive"`
}

type SeatDefinition struct {
	Identifier string  `json:"identifier" binding:"required"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

// SeatView is a seat decorated with the live selection-hold flag from
// Redis. Held seats are still "available" in Postgres; the hold only
// exists so other browsers grey them out.
type SeatView struct {
	Seat
	IsHeld bool `json:"is_held"`
}

type SelectSeatRequest struct {
	SeatID    string `json:"seat_id" binding:"required,uuid"`
	SessionID string `json:"session_id" binding:"required"`
}
