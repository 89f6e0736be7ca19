package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the root entity zones and tickets hang off
type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Venue       string    `gorm:"not null" json:"venue"`
	StartsAt    time.Time `gorm:"index;not null" json:"starts_at"`
	Status      string    `gorm:"type:varchar(20);check:status IN ('draft', 'published', 'finished');default:'draft'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName sets the table name for Event
func (Event) TableName() string {
	return "events"
}

func (e *Event) IsPublished() bool {
	return e.Status == "published"
}

// CreateEventRequest represents an admin event creation request
type CreateEventRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	Venue       string    `json:"venue" binding:"required"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
}

// UpdateEventRequest represents an admin event update request
type UpdateEventRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Venue       *string    `json:"venue"`
	StartsAt    *time.Time `json:"starts_at"`
	Status      *string    `json:"status" binding:"omitempty,oneof=draft published finished"`
}
