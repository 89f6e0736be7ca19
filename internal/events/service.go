package events

import (
	"context"
	"fmt"
	"time"

	"boletera/internal/shared/apperrors"
	"boletera/internal/shared/constants"
	"boletera/pkg/cache"
	"boletera/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	ListEvents(ctx context.Context) ([]Event, error)
	UpdateEvent(ctx context.Context, id string, req UpdateEventRequest) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{repo: repo, cacheService: cacheService}
}

func (s *service) CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error) {
	if req.StartsAt.Before(time.Now()) {
		return nil, fmt.Errorf("%w: event start must be in the future", apperrors.ErrValidation)
	}

	event := &Event{
		Name:        req.Name,
		Description: req.Description,
		Venue:       req.Venue,
		StartsAt:    req.StartsAt,
		Status:      "draft",
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.invalidateCache(ctx)
	return event, nil
}

func (s *service) GetEvent(ctx context.Context, id string) (*Event, error) {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid event ID", apperrors.ErrValidation)
	}

	if s.cacheService != nil {
		var cached Event
		if err := s.cacheService.Get(ctx, constants.BuildEventDetailKey(id), &cached); err == nil {
			return &cached, nil
		}
	}

	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, constants.BuildEventDetailKey(id), event, constants.TTL_EVENT_DETAIL); err != nil {
			logger.GetDefault().Debug("failed to cache event detail", "error", err)
		}
	}

	return event, nil
}

func (s *service) ListEvents(ctx context.Context) ([]Event, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) UpdateEvent(ctx context.Context, id string, req UpdateEventRequest) (*Event, error) {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid event ID", apperrors.ErrValidation)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Venue != nil {
		updates["venue"] = *req.Venue
	}
	if req.StartsAt != nil {
		updates["starts_at"] = *req.StartsAt
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, eventID, updates); err != nil {
			return nil, err
		}
		s.invalidateCache(ctx)
	}

	return s.repo.GetByID(ctx, eventID)
}

func (s *service) DeleteEvent(ctx context.Context, id string) error {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid event ID", apperrors.ErrValidation)
	}

	if _, err := s.repo.GetByID(ctx, eventID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.invalidateCache(ctx)
	return nil
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_EVENTS_ALL); err != nil {
		logger.GetDefault().Debug("failed to invalidate event cache", "error", err)
	}
}
