package zones

import (
	"context"
	"fmt"

	"boletera/internal/shared/apperrors"
	"boletera/internal/shared/constants"
	"boletera/pkg/cache"
	"boletera/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	CreateZone(ctx context.Context, req CreateZoneRequest) (*Zone, error)
	GetZone(ctx context.Context, id string) (*Zone, error)
	GetZonesByEvent(ctx context.Context, eventID string) ([]Zone, error)
	UpdateZone(ctx context.Context, id string, req UpdateZoneRequest) (*Zone, error)
	DeleteZone(ctx context.Context, id string) error
	GetEventRevenue(ctx context.Context, eventID string) (*EventRevenueSummary, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{repo: repo, cacheService: cacheService}
}

func (s *service) CreateZone(ctx context.Context, req CreateZoneRequest) (*Zone, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid event ID", apperrors.ErrValidation)
	}

	zone := &Zone{
		EventID:  eventID,
		Name:     req.Name,
		Color:    req.Color,
		Price:    req.Price,
		Capacity: req.Capacity,
	}

	if err := s.repo.Create(ctx, zone); err != nil {
		return nil, fmt.Errorf("failed to create zone: %w", err)
	}

	s.invalidateEventZones(ctx, req.EventID)
	return zone, nil
}

func (s *service) GetZone(ctx context.Context, id string) (*Zone, error) {
	zoneID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid zone ID", apperrors.ErrValidation)
	}
	return s.repo.GetByID(ctx, zoneID)
}

func (s *service) GetZonesByEvent(ctx context.Context, eventID string) ([]Zone, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid event ID", apperrors.ErrValidation)
	}

	if s.cacheService != nil {
		var cached []Zone
		if err := s.cacheService.Get(ctx, constants.BuildZonesByEventKey(eventID), &cached); err == nil {
			return cached, nil
		}
	}

	zones, err := s.repo.GetByEventID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, constants.BuildZonesByEventKey(eventID), zones, constants.TTL_ZONES_BY_EVENT); err != nil {
			logger.GetDefault().Debug("failed to cache zones", "event_id", eventID, "error", err)
		}
	}

	return zones, nil
}

func (s *service) UpdateZone(ctx context.Context, id string, req UpdateZoneRequest) (*Zone, error) {
	zoneID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid zone ID", apperrors.ErrValidation)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, zoneID, updates); err != nil {
			return nil, err
		}
	}

	zone, err := s.repo.GetByID(ctx, zoneID)
	if err != nil {
		return nil, err
	}

	s.invalidateEventZones(ctx, zone.EventID.String())
	return zone, nil
}

func (s *service) DeleteZone(ctx context.Context, id string) error {
	zoneID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid zone ID", apperrors.ErrValidation)
	}

	zone, err := s.repo.GetByID(ctx, zoneID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, zoneID); err != nil {
		return fmt.Errorf("failed to delete zone: %w", err)
	}

	s.invalidateEventZones(ctx, zone.EventID.String())
	return nil
}

// GetEventRevenue computes revenue per zone as sold seats times the zone
// price, summed across the event.
func (s *service) GetEventRevenue(ctx context.Context, eventID string) (*EventRevenueSummary, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid event ID", apperrors.ErrValidation)
	}

	zones, err := s.repo.GetByEventID(ctx, id)
	if err != nil {
		return nil, err
	}

	summary := &EventRevenueSummary{
		EventID: id,
		Zones:   make([]ZoneRevenue, 0, len(zones)),
	}

	for _, zone := range zones {
		sold, err := s.repo.CountSoldSeats(ctx, zone.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count sold seats for zone %s: %w", zone.ID, err)
		}

		revenue := zone.Price * float64(sold)
		summary.Zones = append(summary.Zones, ZoneRevenue{
			ZoneID:    zone.ID,
			ZoneName:  zone.Name,
			Price:     zone.Price,
			SoldSeats: int(sold),
			Revenue:   revenue,
		})
		summary.TotalRevenue += revenue
		summary.TotalSold += int(sold)
	}

	return summary, nil
}

func (s *service) invalidateEventZones(ctx context.Context, eventID string) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_ZONES_ALL); err != nil {
		logger.GetDefault().Debug("failed to invalidate zone cache", "event_id", eventID, "error", err)
	}
}
