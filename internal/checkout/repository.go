package checkout

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
	// CreateSession persists the session together with its lines; reads
	// return the lines so callers always see the begin-time snapshot.
	CreateSession(ctx context.Context, session *CheckoutSession) error
	GetSessionByID(ctx context.Context, id uuid.UUID) (*CheckoutSession, error)

	// TransitionState moves the session from one state to another in a
	// single conditional update. ErrInvalidState when the session is not
	// in the expected state, so concurrent confirms cannot both win.
	TransitionState(ctx context.Context, id uuid.UUID, from, to string) error

	SetPaymentID(ctx context.Context, id uuid.UUID, paymentID string) error

	CreateTimer(ctx context.Context, timer *PurchaseTimer) error
	GetActiveTimer(ctx context.Context, checkoutID uuid.UUID) (*PurchaseTimer, error)
	DeactivateTimer(ctx context.Context, checkoutID uuid.UUID) error
	UpdateTimerExpiry(ctx context.Context, timerID uuid.UUID, expiry, seatHold time.Time) error

	// GetExpiredTimers returns active timers whose expiry has passed,
	// joined with their sessions, capped at limit.
	GetExpiredTimers(ctx context.Context, now time.Time, limit int) ([]PurchaseTimer, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSession(ctx context.Context, session *CheckoutSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *repository) GetSessionByID(ctx context.Context, id uuid.UUID) (*CheckoutSession, error) {
	var session CheckoutSession
	err := r.db.WithContext(ctx).Preload("Lines").First(&session, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: checkout %s", apperrors.ErrNotFound, id)
		}
		return nil, err
	}
	return &session, nil
}

func (r *repository) TransitionState(ctx context.Context, id uuid.UUID, from, to string) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: checkout cannot move from %s to %s", apperrors.ErrInvalidState, from, to)
	}

	result := r.db.WithContext(ctx).Model(&CheckoutSession{}).
		Where("id = ? AND state = ?", id, from).
		Update("state", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		session, err := r.GetSessionByID(ctx, id)
		if err != nil {
			return err
		}
		return fmt.Errorf("%w: checkout is %s, expected %s", apperrors.ErrInvalidState, session.State, from)
	}
	return nil
}

func (r *repository) SetPaymentID(ctx context.Context, id uuid.UUID, paymentID string) error {
	return r.db.WithContext(ctx).Model(&CheckoutSession{}).
		Where("id = ?", id).
		Update("payment_id", paymentID).Error
}

func (r *repository) CreateTimer(ctx context.Context, timer *PurchaseTimer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// One active timer per checkout; a new one supersedes the old.
		if err := tx.Model(&PurchaseTimer{}).
			Where("checkout_id = ? AND is_active = true", timer.CheckoutID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(timer).Error
	})
}

func (r *repository) GetActiveTimer(ctx context.Context, checkoutID uuid.UUID) (*PurchaseTimer, error) {
	var timer PurchaseTimer
	err := r.db.WithContext(ctx).
		Where("checkout_id = ? AND is_active = true", checkoutID).
		Order("created_at DESC").
		First(&timer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no active timer for checkout %s", apperrors.ErrNotFound, checkoutID)
		}
		return nil, err
	}
	return &timer, nil
}

func (r *repository) DeactivateTimer(ctx context.Context, checkoutID uuid.UUID) error {
	// Idempotent; deactivating an already-inactive timer is a no-op.
	return r.db.WithContext(ctx).Model(&PurchaseTimer{}).
		Where("checkout_id = ? AND is_active = true", checkoutID).
		Update("is_active", false).Error
}

func (r *repository) UpdateTimerExpiry(ctx context.Context, timerID uuid.UUID, expiry, seatHold time.Time) error {
	result := r.db.WithContext(ctx).Model(&PurchaseTimer{}).
		Where("id = ? AND is_active = true", timerID).
		Updates(map[string]interface{}{
			"expiry_time":     expiry,
			"seat_hold_until": seatHold,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: timer %s is not active", apperrors.ErrInvalidState, timerID)
	}
	return nil
}

func (r *repository) GetExpiredTimers(ctx context.Context, now time.Time, limit int) ([]PurchaseTimer, error) {
	var timers []PurchaseTimer
	err := r.db.WithContext(ctx).
		Where("is_active = true AND expiry_time < ?", now).
		Order("expiry_time ASC").
		Limit(limit).
		Find(&timers).Error
	return timers, err
}

// memoryRepository mirrors the conditional semantics for tests.
type memoryRepository struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]CheckoutSession
	timers   map[uuid.UUID]PurchaseTimer
}

func NewMemoryRepository() Repository {
	return &memoryRepository{
		sessions: make(map[uuid.UUID]CheckoutSession),
		timers:   make(map[uuid.UUID]PurchaseTimer),
	}
}

func (r *memoryRepository) CreateSession(ctx context.Context, session *CheckoutSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.State == "" {
		session.State = StateActive
	}
	for i := range session.Lines {
		if session.Lines[i].ID == uuid.Nil {
			session.Lines[i].ID = uuid.New()
		}
		session.Lines[i].CheckoutID = session.ID
	}
	stored := *session
	stored.Lines = append([]CheckoutLine(nil), session.Lines...)
	r.sessions[session.ID] = stored
	return nil
}

func (r *memoryRepository) GetSessionByID(ctx context.Context, id uuid.UUID) (*CheckoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: checkout %s", apperrors.ErrNotFound, id)
	}
	session.Lines = append([]CheckoutLine(nil), session.Lines...)
	return &session, nil
}

func (r *memoryRepository) TransitionState(ctx context.Context, id uuid.UUID, from, to string) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: checkout cannot move from %s to %s", apperrors.ErrInvalidState, from, to)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("%w: checkout %s", apperrors.ErrNotFound, id)
	}
	if session.State != from {
		return fmt.Errorf("%w: checkout is %s, expected %s", apperrors.ErrInvalidState, session.State, from)
	}
	session.State = to
	r.sessions[id] = session
	return nil
}

func (r *memoryRepository) SetPaymentID(ctx context.Context, id uuid.UUID, paymentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("%w: checkout %s", apperrors.ErrNotFound, id)
	}
	session.PaymentID = paymentID
	r.sessions[id] = session
	return nil
}

func (r *memoryRepository) CreateTimer(ctx context.Context, timer *PurchaseTimer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if timer.ID == uuid.Nil {
		timer.ID = uuid.New()
	}
	for id, t := range r.timers {
		if t.CheckoutID == timer.CheckoutID && t.IsActive {
			t.IsActive = false
			r.timers[id] = t
		}
	}
	timer.IsActive = true
	r.timers[timer.ID] = *timer
	return nil
}

func (r *memoryRepository) GetActiveTimer(ctx context.Context, checkoutID uuid.UUID) (*PurchaseTimer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.timers {
		if t.CheckoutID == checkoutID && t.IsActive {
			timer := t
			return &timer, nil
		}
	}
	return nil, fmt.Errorf("%w: no active timer for checkout %s", apperrors.ErrNotFound, checkoutID)
}

func (r *memoryRepository) DeactivateTimer(ctx context.Context, checkoutID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.timers {
		if t.CheckoutID == checkoutID && t.IsActive {
			t.IsActive = false
			r.timers[id] = t
		}
	}
	return nil
}

func (r *memoryRepository) UpdateTimerExpiry(ctx context.Context, timerID uuid.UUID, expiry, seatHold time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	timer, ok := r.timers[timerID]
	if !ok || !timer.IsActive {
		return fmt.Errorf("%w: timer %s is not active", apperrors.ErrInvalidState, timerID)
	}
	timer.ExpiryTime = expiry
	timer.SeatHoldUntil = seatHold
	r.timers[timerID] = timer
	return nil
}

func (r *memoryRepository) GetExpiredTimers(ctx context.Context, now time.Time, limit int) ([]PurchaseTimer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []PurchaseTimer
	for _, t := range r.timers {
		if t.IsActive && t.ExpiryTime.Before(now) {
			out = append(out, t)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}
