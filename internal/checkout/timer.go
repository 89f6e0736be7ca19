package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TimerService owns purchase-timer lifecycle. The clock is injectable
// so expiry behavior tests on fixed instants instead of sleeps.
type TimerService struct {
	repo  Repository
	nowFn func() time.Time
}

func NewTimerService(repo Repository) *TimerService {
	return &TimerService{repo: repo, nowFn: time.Now}
}

// WithClock replaces the clock; tests only.
func (s *TimerService) WithClock(nowFn func() time.Time) *TimerService {
	s.nowFn = nowFn
	return s
}

// CreateForCheckout starts the countdown. Any previous active timer for
// the checkout is superseded.
func (s *TimerService) CreateForCheckout(ctx context.Context, checkoutID uuid.UUID, hold time.Duration) (*PurchaseTimer, error) {
	now := s.nowFn()
	timer := &PurchaseTimer{
		CheckoutID:    checkoutID,
		StartTime:     now,
		ExpiryTime:    now.Add(hold),
		SeatHoldUntil: now.Add(hold),
		IsActive:      true,
	}
	if err := s.repo.CreateTimer(ctx, timer); err != nil {
		return nil, err
	}
	return timer, nil
}

// GetRemainingTime is a pure read; observing an expired timer does not
// deactivate it, the sweep does that.
func (s *TimerService) GetRemainingTime(ctx context.Context, checkoutID uuid.UUID) (*TimerStatus, error) {
	timer, err := s.repo.GetActiveTimer(ctx, checkoutID)
	if err != nil {
		return nil, err
	}
	return s.statusFor(timer), nil
}

func (s *TimerService) statusFor(timer *PurchaseTimer) *TimerStatus {
	remaining := timer.ExpiryTime.Sub(s.nowFn()).Milliseconds()
	if remaining < 0 {
		remaining = 0
	}
	// ceil so a timer with 30s left still reads "1 minute"
	minutes := int((remaining + 59999) / 60000)
	return &TimerStatus{
		RemainingMs:      remaining,
		RemainingMinutes: minutes,
		IsExpired:        remaining <= 0,
	}
}

// DeactivateTimer stops the countdown. Safe to call twice.
func (s *TimerService) DeactivateTimer(ctx context.Context, checkoutID uuid.UUID) error {
	return s.repo.DeactivateTimer(ctx, checkoutID)
}

// ExtendTimer pushes the expiry out from the current expiry, not from
// now, so extending early does not shorten the total window.
func (s *TimerService) ExtendTimer(ctx context.Context, checkoutID uuid.UUID, extend time.Duration) (*PurchaseTimer, error) {
	timer, err := s.repo.GetActiveTimer(ctx, checkoutID)
	if err != nil {
		return nil, err
	}

	newExpiry := timer.ExpiryTime.Add(extend)
	if err := s.repo.UpdateTimerExpiry(ctx, timer.ID, newExpiry, newExpiry); err != nil {
		return nil, err
	}

	timer.ExpiryTime = newExpiry
	timer.SeatHoldUntil = newExpiry
	return timer, nil
}
