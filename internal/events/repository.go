package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"boletera/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	GetAll(ctx context.Context) ([]Event, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: event %s", apperrors.ErrNotFound, id)
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Event, error) {
	var events []Event
	err := r.db.WithContext(ctx).Order("starts_at ASC").Find(&events).Error
	return events, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&Event{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: event %s", apperrors.ErrNotFound, id)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Event{}, "id = ?", id).Error
}

// memoryRepository is the in-memory record store used by tests
type memoryRepository struct {
	mu     sync.RWMutex
	events map[uuid.UUID]Event
}

func NewMemoryRepository() Repository {
	return &memoryRepository{events: make(map[uuid.UUID]Event)}
}

func (r *memoryRepository) Create(ctx context.Context, event *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	r.events[event.ID] = *event
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	event, ok := r.events[id]
	if !ok {
		return nil, fmt.Errorf("%w: event %s", apperrors.ErrNotFound, id)
	}
	return &event, nil
}

func (r *memoryRepository) GetAll(ctx context.Context) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e)
	}
	return out, nil
}

func (r *memoryRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return fmt.Errorf("%w: event %s", apperrors.ErrNotFound, id)
	}
	if v, ok := updates["name"].(string); ok {
		event.Name = v
	}
	if v, ok := updates["description"].(string); ok {
		event.Description = v
	}
	if v, ok := updates["venue"].(string); ok {
		event.Venue = v
	}
	if v, ok := updates["status"].(string); ok {
		event.Status = v
	}
	r.events[id] = event
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, id)
	return nil
}
