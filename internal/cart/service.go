package cart

import (
	"context"
	"fmt"

	"boletera/internal/seats"
	"boletera/internal/shared/apperrors"
	"boletera/internal/shared/config"
	"boletera/internal/zones"
	"boletera/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	AddSeat(ctx context.Context, sessionID, seatID string) (Cart, error)
	RemoveSeat(ctx context.Context, sessionID, seatID string) (Cart, error)
	GetCart(ctx context.Context, sessionID string) Cart
	ClearCart(ctx context.Context, sessionID string) error
}

type service struct {
	manager  *Manager
	seatRepo seats.Repository
	zoneRepo zones.Repository
	holds    seats.Holds
	cfg      *config.Config
}

func NewService(manager *Manager, seatRepo seats.Repository, zoneRepo zones.Repository, holds seats.Holds, cfg *config.Config) Service {
	return &service{
		manager:  manager,
		seatRepo: seatRepo,
		zoneRepo: zoneRepo,
		holds:    holds,
		cfg:      cfg,
	}
}

// AddSeat verifies the seat is sellable, places a selection hold so
// other sessions see it as taken, then adds it to the cart. The hold is
// rolled back if the cart rejects the seat.
func (s *service) AddSeat(ctx context.Context, sessionID, seatID string) (Cart, error) {
	id, err := uuid.Parse(seatID)
	if err != nil {
		return Cart{}, fmt.Errorf("%w: invalid seat ID", apperrors.ErrValidation)
	}

	seat, err := s.seatRepo.GetByID(ctx, id)
	if err != nil {
		return Cart{}, err
	}
	if !seat.IsAvailable() {
		return Cart{}, fmt.Errorf("%w: seat %s is %s", apperrors.ErrInvalidState, seat.Identifier, seat.Status)
	}

	zone, err := s.zoneRepo.GetByID(ctx, seat.ZoneID)
	if err != nil {
		return Cart{}, err
	}

	// Switching events replaces the cart, so the old event's selection
	// holds must not linger once the cart drops those lines.
	current := s.manager.Snapshot(sessionID)
	if !current.IsEmpty() && current.EventID != seat.EventID && s.holds != nil {
		for _, heldID := range current.SeatIDs() {
			if err := s.holds.ReleaseSeat(ctx, heldID, sessionID); err != nil {
				logger.GetDefault().Warn("failed to release hold on event switch", "seat_id", heldID, "error", err)
			}
		}
	}

	if s.holds != nil {
		if err := s.holds.HoldSeat(ctx, id, sessionID, s.cfg.Redis.SeatSelectionTTL); err != nil {
			return Cart{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidState, err)
		}
	}

	err = s.manager.Update(sessionID, func(c *Cart) error {
		return c.AddSeat(seat.EventID, Item{
			SeatID:         seat.ID,
			ZoneID:         zone.ID,
			SeatIdentifier: seat.Identifier,
			ZoneName:       zone.Name,
			Price:          zone.Price,
		})
	})
	if err != nil {
		if s.holds != nil {
			if relErr := s.holds.ReleaseSeat(ctx, id, sessionID); relErr != nil {
				logger.GetDefault().Warn("failed to roll back seat hold", "seat_id", seatID, "error", relErr)
			}
		}
		return Cart{}, err
	}

	return s.manager.Snapshot(sessionID), nil
}

func (s *service) RemoveSeat(ctx context.Context, sessionID, seatID string) (Cart, error) {
	id, err := uuid.Parse(seatID)
	if err != nil {
		return Cart{}, fmt.Errorf("%w: invalid seat ID", apperrors.ErrValidation)
	}

	err = s.manager.Update(sessionID, func(c *Cart) error {
		return c.RemoveSeat(id)
	})
	if err != nil {
		return Cart{}, err
	}

	if s.holds != nil {
		if err := s.holds.ReleaseSeat(ctx, id, sessionID); err != nil {
			logger.GetDefault().Warn("failed to release seat hold", "seat_id", seatID, "error", err)
		}
	}

	return s.manager.Snapshot(sessionID), nil
}

func (s *service) GetCart(ctx context.Context, sessionID string) Cart {
	return s.manager.Snapshot(sessionID)
}

func (s *service) ClearCart(ctx context.Context, sessionID string) error {
	err := s.manager.Update(sessionID, func(c *Cart) error {
		c.Clear()
		return nil
	})
	if err != nil {
		return err
	}

	if s.holds != nil {
		if _, err := s.holds.ReleaseSession(ctx, sessionID); err != nil {
			logger.GetDefault().Warn("failed to release session holds", "session_id", sessionID, "error", err)
		}
	}
	return nil
}
