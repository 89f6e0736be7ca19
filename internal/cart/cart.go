package cart

import (
	"fmt"

	"boletera/internal/shared/apperrors"

	"github.com/google/uuid"
)

// Item is one seat in the cart, priced at its zone's price.
type Item struct {
	SeatID         uuid.UUID `json:"seat_id"`
	ZoneID         uuid.UUID `json:"zone_id"`
	SeatIdentifier string    `json:"seat_identifier"`
	ZoneName       string    `json:"zone_name"`
	Price          float64   `json:"price"`
}

// Cart holds a session's seat selection before checkout. A cart only
// ever contains seats from one event; the running total always equals
// the sum of item prices.
type Cart struct {
	EventID uuid.UUID `json:"event_id"`
	Items   []Item    `json:"items"`
	Total   float64   `json:"total"`
}

func New() *Cart {
	return &Cart{Items: []Item{}}
}

// AddSeat appends a seat to the cart. A seat from a different event
// replaces the cart contents: the old event's lines are dropped and the
// total restarts at the new seat's price. Duplicates are rejected.
func (c *Cart) AddSeat(eventID uuid.UUID, item Item) error {
	if len(c.Items) > 0 && c.EventID != eventID {
		c.Clear()
	}
	for _, existing := range c.Items {
		if existing.SeatID == item.SeatID {
			return fmt.Errorf("%w: seat %s already in cart", apperrors.ErrInvalidState, item.SeatIdentifier)
		}
	}

	c.EventID = eventID
	c.Items = append(c.Items, item)
	c.Total += item.Price
	return nil
}

// RemoveSeat drops a seat from the cart. Removing the last seat resets
// the event binding so the next add can be for any event.
func (c *Cart) RemoveSeat(seatID uuid.UUID) error {
	for i, item := range c.Items {
		if item.SeatID == seatID {
			c.Total -= item.Price
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			if len(c.Items) == 0 {
				c.EventID = uuid.Nil
				c.Total = 0
			}
			return nil
		}
	}
	return fmt.Errorf("%w: seat not in cart", apperrors.ErrNotFound)
}

func (c *Cart) Clear() {
	c.EventID = uuid.Nil
	c.Items = []Item{}
	c.Total = 0
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) SeatIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(c.Items))
	for i, item := range c.Items {
		ids[i] = item.SeatID
	}
	return ids
}
