package seats

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"boletera/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateBatch(ctx context.Context, seats []Seat) error
	GetByID(ctx context.Context, id uuid.UUID) (*Seat, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Seat, error)
	GetByZoneID(ctx context.Context, zoneID uuid.UUID) ([]Seat, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) ([]Seat, error)

	// ReserveSeats flips every given seat from available to reserved in
	// one conditional update. If any seat is not available the whole call
	// fails and nothing changes.
	ReserveSeats(ctx context.Context, ids []uuid.UUID, until time.Time) error

	// MarkSold flips reserved seats to sold. Fails the same way when a
	// seat is not reserved.
	MarkSold(ctx context.Context, ids []uuid.UUID) error

	// Release returns reserved seats to available. Seats already released
	// are skipped rather than failing the call.
	Release(ctx context.Context, ids []uuid.UUID) (int64, error)

	// ExtendReservation pushes the reservation deadline for seats that
	// are still reserved.
	ExtendReservation(ctx context.Context, ids []uuid.UUID, until time.Time) error

	// ReleaseExpired frees every reserved seat whose reservation deadline
	// has passed. Returns the number released.
	ReleaseExpired(ctx context.Context, now time.Time) (int64, error)

	CountByStatus(ctx context.Context, eventID uuid.UUID, status string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBatch(ctx context.Context, seats []Seat) error {
	return r.db.WithContext(ctx).CreateInBatches(seats, 500).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Seat, error) {
	var seat Seat
	err := r.db.WithContext(ctx).First(&seat, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: seat %s", apperrors.ErrNotFound, id)
		}
		return nil, err
	}
	return &seat, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&seats).Error
	return seats, err
}

func (r *repository) GetByZoneID(ctx context.Context, zoneID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("zone_id = ?", zoneID).
		Order("identifier ASC").
		Find(&seats).Error
	return seats, err
}

func (r *repository) GetByEventID(ctx context.Context, eventID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("identifier ASC").
		Find(&seats).Error
	return seats, err
}

func (r *repository) ReserveSeats(ctx context.Context, ids []uuid.UUID, until time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Seat{}).
			Where("id IN ? AND status = ?", ids, StatusAvailable).
			Updates(map[string]interface{}{
				"status":         StatusReserved,
				"reserved_until": until,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(ids)) {
			// Someone got there first; the transaction rolls back so the
			// seats we did touch go back to available.
			return fmt.Errorf("%w: one or more seats no longer available", apperrors.ErrInvalidState)
		}
		return nil
	})
}

func (r *repository) MarkSold(ctx context.Context, ids []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Seat{}).
			Where("id IN ? AND status = ?", ids, StatusReserved).
			Updates(map[string]interface{}{
				"status":         StatusSold,
				"reserved_until": nil,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(ids)) {
			return fmt.Errorf("%w: one or more seats not reserved", apperrors.ErrInvalidState)
		}
		return nil
	})
}

func (r *repository) Release(ctx context.Context, ids []uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&Seat{}).
		Where("id IN ? AND status = ?", ids, StatusReserved).
		Updates(map[string]interface{}{
			"status":         StatusAvailable,
			"reserved_until": nil,
		})
	return result.RowsAffected, result.Error
}

func (r *repository) ExtendReservation(ctx context.Context, ids []uuid.UUID, until time.Time) error {
	return r.db.WithContext(ctx).Model(&Seat{}).
		Where("id IN ? AND status = ?", ids, StatusReserved).
		Update("reserved_until", until).Error
}

func (r *repository) ReleaseExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&Seat{}).
		Where("status = ? AND reserved_until IS NOT NULL AND reserved_until < ?", StatusReserved, now).
		Updates(map[string]interface{}{
			"status":         StatusAvailable,
			"reserved_until": nil,
		})
	return result.RowsAffected, result.Error
}

func (r *repository) CountByStatus(ctx context.Context, eventID uuid.UUID, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Seat{}).
		Where("event_id = ? AND status = ?", eventID, status).
		Count(&count).Error
	return count, err
}

// memoryRepository mirrors the conditional-update semantics for tests.
type memoryRepository struct {
	mu    sync.Mutex
	seats map[uuid.UUID]Seat
}

func NewMemoryRepository() Repository {
	return &memoryRepository{seats: make(map[uuid.UUID]Seat)}
}

func (r *memoryRepository) CreateBatch(ctx context.Context, seats []Seat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range seats {
		if seats[i].ID == uuid.Nil {
			seats[i].ID = uuid.New()
		}
		if seats[i].Status == "" {
			seats[i].Status = StatusAvailable
		}
		r.seats[seats[i].ID] = seats[i]
	}
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Seat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seat, ok := r.seats[id]
	if !ok {
		return nil, fmt.Errorf("%w: seat %s", apperrors.ErrNotFound, id)
	}
	return &seat, nil
}

func (r *memoryRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Seat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Seat, 0, len(ids))
	for _, id := range ids {
		if seat, ok := r.seats[id]; ok {
			out = append(out, seat)
		}
	}
	return out, nil
}

func (r *memoryRepository) GetByZoneID(ctx context.Context, zoneID uuid.UUID) ([]Seat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Seat
	for _, seat := range r.seats {
		if seat.ZoneID == zoneID {
			out = append(out, seat)
		}
	}
	return out, nil
}

func (r *memoryRepository) GetByEventID(ctx context.Context, eventID uuid.UUID) ([]Seat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Seat
	for _, seat := range r.seats {
		if seat.EventID == eventID {
			out = append(out, seat)
		}
	}
	return out, nil
}

func (r *memoryRepository) ReserveSeats(ctx context.Context, ids []uuid.UUID, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		seat, ok := r.seats[id]
		if !ok || seat.Status != StatusAvailable {
			return fmt.Errorf("%w: one or more seats no longer available", apperrors.ErrInvalidState)
		}
	}
	for _, id := range ids {
		seat := r.seats[id]
		seat.Status = StatusReserved
		u := until
		seat.ReservedUntil = &u
		r.seats[id] = seat
	}
	return nil
}

func (r *memoryRepository) MarkSold(ctx context.Context, ids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		seat, ok := r.seats[id]
		if !ok || seat.Status != StatusReserved {
			return fmt.Errorf("%w: one or more seats not reserved", apperrors.ErrInvalidState)
		}
	}
	for _, id := range ids {
		seat := r.seats[id]
		seat.Status = StatusSold
		seat.ReservedUntil = nil
		r.seats[id] = seat
	}
	return nil
}

func (r *memoryRepository) Release(ctx context.Context, ids []uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var released int64
	for _, id := range ids {
		seat, ok := r.seats[id]
		if !ok || seat.Status != StatusReserved {
			continue
		}
		seat.Status = StatusAvailable
		seat.ReservedUntil = nil
		r.seats[id] = seat
		released++
	}
	return released, nil
}

func (r *memoryRepository) ExtendReservation(ctx context.Context, ids []uuid.UUID, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		seat, ok := r.seats[id]
		if !ok || seat.Status != StatusReserved {
			continue
		}
		u := until
		seat.ReservedUntil = &u
		r.seats[id] = seat
	}
	return nil
}

func (r *memoryRepository) ReleaseExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var released int64
	for id, seat := range r.seats {
		if seat.Status == StatusReserved && seat.ReservedUntil != nil && seat.ReservedUntil.Before(now) {
			seat.Status = StatusAvailable
			seat.ReservedUntil = nil
			r.seats[id] = seat
			released++
		}
	}
	return released, nil
}

func (r *memoryRepository) CountByStatus(ctx context.Context, eventID uuid.UUID, status string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, seat := range r.seats {
		if seat.EventID == eventID && seat.Status == status {
			count++
		}
	}
	return count, nil
}
