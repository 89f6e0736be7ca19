package zones

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
	Create(ctx context.Context, zone *Zone) error
	GetByID(ctx context.Context, id uuid.UUID) (*Zone, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) ([]Zone, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountSoldSeats(ctx context.Context, zoneID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, zone *Zone) error {
	return r.db.WithContext(ctx).Create(zone).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Zone, error) {
	var zone Zone
	err := r.db.WithContext(ctx).First(&zone, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: zone %s", apperrors.ErrNotFound, id)
		}
		return nil, err
	}
	return &zone, nil
}

func (r *repository) GetByEventID(ctx context.Context, eventID uuid.UUID) ([]Zone, error) {
	var zones []Zone
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("name ASC").
		Find(&zones).Error
	return zones, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&Zone{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: zone %s", apperrors.ErrNotFound, id)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Zone{}, "id = ?", id).Error
}

// CountSoldSeats counts seats in the zone with status sold. Used by the
// revenue summary.
func (r *repository) CountSoldSeats(ctx context.Context, zoneID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("seats").
		Where("zone_id = ? AND status = ?", zoneID, "sold").
		Count(&count).Error
	return count, err
}

// memoryRepository backs zone tests without Postgres.
type memoryRepository struct {
	mu        sync.RWMutex
	zones     map[uuid.UUID]Zone
	soldSeats map[uuid.UUID]int64
}

func NewMemoryRepository() Repository {
	return &memoryRepository{
		zones:     make(map[uuid.UUID]Zone),
		soldSeats: make(map[uuid.UUID]int64),
	}
}

// SetSoldSeats seeds the sold-seat count for revenue tests.
func (r *memoryRepository) SetSoldSeats(zoneID uuid.UUID, count int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.soldSeats[zoneID] = count
}

func (r *memoryRepository) Create(ctx context.Context, zone *Zone) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if zone.ID == uuid.Nil {
		zone.ID = uuid.New()
	}
	r.zones[zone.ID] = *zone
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Zone, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	zone, ok := r.zones[id]
	if !ok {
		return nil, fmt.Errorf("%w: zone %s", apperrors.ErrNotFound, id)
	}
	return &zone, nil
}

func (r *memoryRepository) GetByEventID(ctx context.Context, eventID uuid.UUID) ([]Zone, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Zone
	for _, z := range r.zones {
		if z.EventID == eventID {
			out = append(out, z)
		}
	}
	return out, nil
}

func (r *memoryRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	zone, ok := r.zones[id]
	if !ok {
		return fmt.Errorf("%w: zone %s", apperrors.ErrNotFound, id)
	}
	if v, ok := updates["name"].(string); ok {
		zone.Name = v
	}
	if v, ok := updates["color"].(string); ok {
		zone.Color = v
	}
	if v, ok := updates["price"].(float64); ok {
		zone.Price = v
	}
	if v, ok := updates["capacity"].(int); ok {
		zone.Capacity = v
	}
	r.zones[id] = zone
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.zones, id)
	return nil
}

func (r *memoryRepository) CountSoldSeats(ctx context.Context, zoneID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.soldSeats[zoneID], nil
}
