package zones

import (
	"time"

	"github.com/google/uuid"
)

// Zone is a priced section of an event's venue. Every seat belongs to
// exactly one zone and sells at the zone price.
type Zone struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	Name      string    `gorm:"not null" json:"name"`
	Color     string    `gorm:"type:varchar(16)" json:"color"`
	Price     float64   `gorm:"not null" json:"price"`
	Capacity  int       `gorm:"not null;default:0" json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Zone) TableName() string {
	return "zones"
}

type CreateZoneRequest struct {
	EventID  string  `json:"event_id" binding:"required,uuid"`
	Name     string  `json:"name" binding:"required"`
	Color    string  `json:"color"`
	Price    float64 `json:"price" binding:"required,gt=0"`
	Capacity int     `json:"capacity" binding:"omitempty,min=0"`
}

type UpdateZoneRequest struct {
	Name     *string  `json:"name"`
	Color    *string  `json:"color"`
	Price    *float64 `json:"price" binding:"omitempty,gt=0"`
	Capacity *int     `json:"capacity" binding:"omitempty,min=0"`
}

// ZoneRevenue is the admin revenue summary for one zone: sold seats
// multiplied by the zone price, with the live seat breakdown.
type ZoneRevenue struct {
	ZoneID    uuid.UUID `json:"zone_id"`
	ZoneName  string    `json:"zone_name"`
	Price     float64   `json:"price"`
	SoldSeats int       `json:"sold_seats"`
	Revenue   float64   `json:"revenue"`
}

// EventRevenueSummary aggregates zone revenue across an event.
type EventRevenueSummary struct {
	EventID      uuid.UUID     `json:"event_id"`
	Zones        []ZoneRevenue `json:"zones"`
	TotalRevenue float64       `json:"total_revenue"`
	TotalSold    int           `json:"total_sold"`
}
