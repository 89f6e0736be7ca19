package checkout

import (
	"context"
	"time"

	"boletera/internal/seats"
	"boletera/pkg/logger"
	"boletera/pkg/metrics"
)

// JobProcessor runs the expiry sweep: expired timers are deactivated,
// their reserved seats go back to available and still-active sessions
// are cancelled. Pending sessions are skipped because a payment may be
// mid-flight; their confirm path settles them.
type JobProcessor struct {
	repo     Repository
	seatRepo seats.Repository
	interval time.Duration
	batch    int
	nowFn    func() time.Time
	done     chan struct{}
}

func NewJobProcessor(repo Repository, seatRepo seats.Repository, interval time.Duration) *JobProcessor {
	return &JobProcessor{
		repo:     repo,
		seatRepo: seatRepo,
		interval: interval,
		batch:    100,
		nowFn:    time.Now,
		done:     make(chan struct{}),
	}
}

func (jp *JobProcessor) Start(ctx context.Context) {
	logger.GetDefault().Info("starting checkout expiry sweep", "interval", jp.interval)
	go jp.run(ctx)
}

func (jp *JobProcessor) Stop() {
	close(jp.done)
	logger.GetDefault().Info("checkout expiry sweep stopped")
}

func (jp *JobProcessor) run(ctx context.Context) {
	ticker := time.NewTicker(jp.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			jp.Sweep(ctx)
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Sweep is one pass; exported so tests drive it without the ticker.
func (jp *JobProcessor) Sweep(ctx context.Context) {
	started := time.Now()
	now := jp.nowFn()

	released, err := jp.seatRepo.ReleaseExpired(ctx, now)
	if err != nil {
		logger.GetDefault().Error("expiry sweep failed to release seats", "error", err)
		return
	}

	timers, err := jp.repo.GetExpiredTimers(ctx, now, jp.batch)
	if err != nil {
		logger.GetDefault().Error("expiry sweep failed to list timers", "error", err)
		return
	}

	for _, timer := range timers {
		if err := jp.repo.DeactivateTimer(ctx, timer.CheckoutID); err != nil {
			logger.GetDefault().Error("failed to deactivate expired timer", "checkout_id", timer.CheckoutID, "error", err)
			continue
		}

		session, err := jp.repo.GetSessionByID(ctx, timer.CheckoutID)
		if err != nil {
			logger.GetDefault().Error("expired timer without session", "checkout_id", timer.CheckoutID, "error", err)
			continue
		}

		if session.State == StateActive {
			if err := jp.repo.TransitionState(ctx, session.ID, StateActive, StateCancelled); err != nil {
				logger.GetDefault().Error("failed to cancel expired checkout", "checkout_id", session.ID, "error", err)
				continue
			}
			metrics.CheckoutFinished(StateCancelled)
			logger.GetDefault().LogCheckoutExpired(ctx, session.ID.String(), int(released))
		}
	}

	metrics.ObserveSweep(time.Since(started), released)
	if released > 0 || len(timers) > 0 {
		logger.GetDefault().Info("expiry sweep done",
			"released_seats", released,
			"expired_timers", len(timers),
		)
	}
}
