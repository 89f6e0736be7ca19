package tickets

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
	// CreateBatch inserts all tickets in one transaction; either every
	// ticket of a purchase exists or none do.
	CreateBatch(ctx context.Context, tickets []Ticket) error

	GetByID(ctx context.Context, id uuid.UUID) (*Ticket, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]Ticket, error)
	GetByCheckoutID(ctx context.Context, checkoutID uuid.UUID) ([]Ticket, error)

	// MarkUsed flips the ticket from valid to used in one conditional
	// update. Returns ErrInvalidState when the ticket was already used
	// or cancelled, so concurrent scanners admit at most once.
	MarkUsed(ctx context.Context, id uuid.UUID, scannerID uuid.UUID, at time.Time) error

	// CancelByCheckoutID voids all tickets of a checkout.
	CancelByCheckoutID(ctx context.Context, checkoutID uuid.UUID) error

	CountByStatus(ctx context.Context, eventID uuid.UUID, status string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBatch(ctx context.Context, tickets []Ticket) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&tickets).Error
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).First(&ticket, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: ticket %s", apperrors.ErrNotFound, id)
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]Ticket, error) {
	var tickets []Ticket
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("purchased_at DESC").
		Find(&tickets).Error
	return tickets, err
}

func (r *repository) GetByCheckoutID(ctx context.Context, checkoutID uuid.UUID) ([]Ticket, error) {
	var tickets []Ticket
	err := r.db.WithContext(ctx).
		Where("checkout_id = ?", checkoutID).
		Find(&tickets).Error
	return tickets, err
}

func (r *repository) MarkUsed(ctx context.Context, id uuid.UUID, scannerID uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&Ticket{}).
		Where("id = ? AND status = ?", id, StatusValid).
		Updates(map[string]interface{}{
			"status":  StatusUsed,
			"used_at": at,
			"used_by": scannerID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing ticket from one already used.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("%w: ticket %s is not valid for use", apperrors.ErrInvalidState, id)
	}
	return nil
}

func (r *repository) CancelByCheckoutID(ctx context.Context, checkoutID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&Ticket{}).
		Where("checkout_id = ? AND status = ?", checkoutID, StatusValid).
		Update("status", StatusCancelled).Error
}

func (r *repository) CountByStatus(ctx context.Context, eventID uuid.UUID, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Ticket{}).
		Where("event_id = ? AND status = ?", eventID, status).
		Count(&count).Error
	return count, err
}

// memoryRepository mirrors the conditional-update semantics for tests.
type memoryRepository struct {
	mu      sync.Mutex
	tickets map[uuid.UUID]Ticket
}

func NewMemoryRepository() Repository {
	return &memoryRepository{tickets: make(map[uuid.UUID]Ticket)}
}

func (r *memoryRepository) CreateBatch(ctx context.Context, tickets []Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range tickets {
		if tickets[i].ID == uuid.Nil {
			tickets[i].ID = uuid.New()
		}
		if tickets[i].Status == "" {
			tickets[i].Status = StatusValid
		}
		r.tickets[tickets[i].ID] = tickets[i]
	}
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, fmt.Errorf("%w: ticket %s", apperrors.ErrNotFound, id)
	}
	return &ticket, nil
}

func (r *memoryRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Ticket
	for _, t := range r.tickets {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memoryRepository) GetByCheckoutID(ctx context.Context, checkoutID uuid.UUID) ([]Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Ticket
	for _, t := range r.tickets {
		if t.CheckoutID == checkoutID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memoryRepository) MarkUsed(ctx context.Context, id uuid.UUID, scannerID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return fmt.Errorf("%w: ticket %s", apperrors.ErrNotFound, id)
	}
	if ticket.Status != StatusValid {
		return fmt.Errorf("%w: ticket %s is not valid for use", apperrors.ErrInvalidState, id)
	}
	ticket.Status = StatusUsed
	usedAt := at
	ticket.UsedAt = &usedAt
	scanner := scannerID
	ticket.UsedBy = &scanner
	r.tickets[id] = ticket
	return nil
}

func (r *memoryRepository) CancelByCheckoutID(ctx context.Context, checkoutID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.tickets {
		if t.CheckoutID == checkoutID && t.Status == StatusValid {
			t.Status = StatusCancelled
			r.tickets[id] = t
		}
	}
	return nil
}

func (r *memoryRepository) CountByStatus(ctx context.Context, eventID uuid.UUID, status string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, t := range r.tickets {
		if t.EventID == eventID && t.Status == status {
			count++
		}
	}
	return count, nil
}
