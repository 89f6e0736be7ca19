package seats

import (
	"context"
	"fmt"

	"boletera/internal/shared/apperrors"
	"boletera/internal/shared/config"
	"boletera/internal/shared/constants"
	"boletera/pkg/cache"
	"boletera/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	CreateSeats(ctx context.Context, req CreateSeatsRequest) ([]Seat, error)
	GetSeat(ctx context.Context, id string) (*Seat, error)
	GetSeatsByZone(ctx context.Context, zoneID, sessionID string) ([]SeatView, error)

	// SelectSeat and DeselectSeat manage the browsing-phase Redis holds.
	SelectSeat(ctx context.Context, req SelectSeatRequest) error
	DeselectSeat(ctx context.Context, req SelectSeatRequest) error

	// ReleaseSeat is the admin escape hatch for a stuck reservation.
	ReleaseSeat(ctx context.Context, id string) error
}

type service struct {
	repo         Repository
	holds        Holds
	cacheService cache.Service
	cfg          *config.Config
}

func NewService(repo Repository, holds Holds, cacheService cache.Service, cfg *config.Config) Service {
	return &service{repo: repo, holds: holds, cacheService: cacheService, cfg: cfg}
}

func (s *service) CreateSeats(ctx context.Context, req CreateSeatsRequest) ([]Seat, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid event ID", apperrors.ErrValidation)
	}
	zoneID, err := uuid.Parse(req.ZoneID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid zone ID", apperrors.ErrValidation)
	}

	seen := make(map[string]bool, len(req.Seats))
	seats := make([]Seat, 0, len(req.Seats))
	for _, def := range req.Seats {
		if seen[def.Identifier] {
			return nil, fmt.Errorf("%w: duplicate seat identifier %q", apperrors.ErrValidation, def.Identifier)
		}
		seen[def.Identifier] = true
		seats = append(seats, Seat{
			EventID:    eventID,
			ZoneID:     zoneID,
			Identifier: def.Identifier,
			X:          def.X,
			Y:          def.Y,
			Status:     StatusAvailable,
		})
	}

	if err := s.repo.CreateBatch(ctx, seats); err != nil {
		return nil, fmt.Errorf("failed to create seats: %w", err)
	}

	s.invalidateSeatCache(ctx, req.ZoneID)
	return seats, nil
}

func (s *service) GetSeat(ctx context.Context, id string) (*Seat, error) {
	seatID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid seat ID", apperrors.ErrValidation)
	}
	return s.repo.GetByID(ctx, seatID)
}

// GetSeatsByZone returns the zone's seats overlaid with live selection
// holds, so a seat mid-selection in another browser shows as held even
// though Postgres still says available.
func (s *service) GetSeatsByZone(ctx context.Context, zoneID, sessionID string) ([]SeatView, error) {
	id, err := uuid.Parse(zoneID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid zone ID", apperrors.ErrValidation)
	}

	seats, err := s.repo.GetByZoneID(ctx, id)
	if err != nil {
		return nil, err
	}

	seatIDs := make([]uuid.UUID, len(seats))
	for i, seat := range seats {
		seatIDs[i] = seat.ID
	}

	held := map[uuid.UUID]bool{}
	if s.holds != nil {
		held, err = s.holds.HeldSeats(ctx, seatIDs, sessionID)
		if err != nil {
			// Hold lookup is advisory; the seat map still renders.
			logger.GetDefault().Warn("failed to read seat holds", "zone_id", zoneID, "error", err)
			held = map[uuid.UUID]bool{}
		}
	}

	views := make([]SeatView, len(seats))
	for i, seat := range seats {
		views[i] = SeatView{Seat: seat, IsHeld: held[seat.ID]}
	}
	return views, nil
}

func (s *service) SelectSeat(ctx context.Context, req SelectSeatRequest) error {
	seatID, err := uuid.Parse(req.SeatID)
	if err != nil {
		return fmt.Errorf("%w: invalid seat ID", apperrors.ErrValidation)
	}

	seat, err := s.repo.GetByID(ctx, seatID)
	if err != nil {
		return err
	}
	if !seat.IsAvailable() {
		return fmt.Errorf("%w: seat %s is %s", apperrors.ErrInvalidState, seat.Identifier, seat.Status)
	}

	if err := s.holds.HoldSeat(ctx, seatID, req.SessionID, s.cfg.Redis.SeatSelectionTTL); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidState, err)
	}
	return nil
}

func (s *service) DeselectSeat(ctx context.Context, req SelectSeatRequest) error {
	seatID, err := uuid.Parse(req.SeatID)
	if err != nil {
		return fmt.Errorf("%w: invalid seat ID", apperrors.ErrValidation)
	}
	return s.holds.ReleaseSeat(ctx, seatID, req.SessionID)
}

func (s *service) ReleaseSeat(ctx context.Context, id string) error {
	seatID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid seat ID", apperrors.ErrValidation)
	}

	seat, err := s.repo.GetByID(ctx, seatID)
	if err != nil {
		return err
	}
	if seat.Status != StatusReserved {
		return fmt.Errorf("%w: seat %s is %s, not reserved", apperrors.ErrInvalidState, seat.Identifier, seat.Status)
	}

	released, err := s.repo.Release(ctx, []uuid.UUID{seatID})
	if err != nil {
		return fmt.Errorf("failed to release seat: %w", err)
	}
	if released == 0 {
		return fmt.Errorf("%w: seat %s was not reserved", apperrors.ErrInvalidState, seat.Identifier)
	}

	s.invalidateSeatCache(ctx, seat.ZoneID.String())
	return nil
}

func (s *service) invalidateSeatCache(ctx context.Context, zoneID string) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.BuildSeatsInvalidationPattern(zoneID)); err != nil {
		logger.GetDefault().Debug("failed to invalidate seat cache", "zone_id", zoneID, "error", err)
	}
}
