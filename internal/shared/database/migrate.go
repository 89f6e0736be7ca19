package database

import (
	"boletera/internal/checkout"
	"boletera/internal/events"
	"boletera/internal/seats"
	"boletera/internal/tickets"
	"boletera/internal/zones"

	"gorm.io/gorm"
)

// Migrate runs auto-migration for all domain models
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&events.Event{},
		&zones.Zone{},
		&seats.Seat{},
		&checkout.CheckoutSession{},
		&checkout.CheckoutLine{},
		&checkout.PurchaseTimer{},
		&tickets.Ticket{},
	)
}
