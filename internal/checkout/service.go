package checkout

import (
	"context"
	"fmt"
	"time"

	"boletera/internal/cart"
	"boletera/internal/payments"
	"boletera/internal/seats"
	"boletera/internal/shared/apperrors"
	"boletera/internal/shared/config"
	"boletera/internal/tickets"
	"boletera/pkg/logger"
	"boletera/pkg/metrics"

	"github.com/google/uuid"
)

type Service interface {
	// BeginCheckout snapshots the cart, reserves every seat in one
	// conditional update and starts the purchase timer.
	BeginCheckout(ctx context.Context, userID uuid.UUID, req BeginCheckoutRequest) (*CheckoutResponse, error)

	// Confirm drives active -> pending -> payment -> completed. On a
	// declined payment the session is cancelled and seats released, but
	// the cart stays intact so the shopper can retry.
	Confirm(ctx context.Context, checkoutID string) (*ConfirmResult, error)

	// Cancel abandons the checkout and releases its seats.
	Cancel(ctx context.Context, checkoutID string) error

	GetSession(ctx context.Context, checkoutID string) (*CheckoutSession, error)
	GetRemainingTime(ctx context.Context, checkoutID string) (*TimerStatus, error)
	ExtendTimer(ctx context.Context, checkoutID string) (*TimerStatus, error)
}

type ConfirmResult struct {
	Session *CheckoutSession `json:"session"`
	Tickets []tickets.Ticket `json:"tickets,omitempty"`
	Payment *payments.Result `json:"payment,omitempty"`
}

// Publisher is satisfied by the notifications producer; nil disables
// event publishing.
type Publisher interface {
	PublishTicketsIssued(ctx context.Context, checkoutID string, count int)
	PublishCheckoutCancelled(ctx context.Context, checkoutID, reason string)
}

type service struct {
	repo        Repository
	timers      *TimerService
	seatRepo    seats.Repository
	cartManager *cart.Manager
	holds       seats.Holds
	ticketSvc   tickets.Service
	gateway     payments.Gateway
	publisher   Publisher
	cfg         *config.Config
}

func NewService(
	repo Repository,
	timers *TimerService,
	seatRepo seats.Repository,
	cartManager *cart.Manager,
	holds seats.Holds,
	ticketSvc tickets.Service,
	gateway payments.Gateway,
	publisher Publisher,
	cfg *config.Config,
) Service {
	return &service{
		repo:        repo,
		timers:      timers,
		seatRepo:    seatRepo,
		cartManager: cartManager,
		holds:       holds,
		ticketSvc:   ticketSvc,
		gateway:     gateway,
		publisher:   publisher,
		cfg:         cfg,
	}
}

func (s *service) BeginCheckout(ctx context.Context, userID uuid.UUID, req BeginCheckoutRequest) (*CheckoutResponse, error) {
	snapshot := s.cartManager.Snapshot(req.CartSessionID)
	if snapshot.IsEmpty() {
		return nil, fmt.Errorf("%w: cart is empty", apperrors.ErrValidation)
	}
	if len(snapshot.Items) > s.cfg.Checkout.MaxSeatsPerSession {
		return nil, fmt.Errorf("%w: at most %d seats per checkout", apperrors.ErrValidation, s.cfg.Checkout.MaxSeatsPerSession)
	}

	// The cart is advisory from here on: the lines frozen now are what
	// the session reserves, charges and issues against.
	lines := make([]CheckoutLine, len(snapshot.Items))
	for i, item := range snapshot.Items {
		lines[i] = CheckoutLine{SeatID: item.SeatID, ZoneID: item.ZoneID, Price: item.Price}
	}

	session := &CheckoutSession{
		UserID:        userID,
		EventID:       snapshot.EventID,
		CartSessionID: req.CartSessionID,
		State:         StateActive,
		SeatCount:     len(snapshot.Items),
		TotalAmount:   snapshot.Total,
		Lines:         lines,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	expiry := time.Now().Add(s.cfg.Checkout.HoldDuration())
	if err := s.seatRepo.ReserveSeats(ctx, session.SeatIDs(), expiry); err != nil {
		// All-or-nothing: someone beat us to a seat, the session dies
		// before it ever held anything.
		if cancelErr := s.repo.TransitionState(ctx, session.ID, StateActive, StateCancelled); cancelErr != nil {
			logger.GetDefault().Error("failed to cancel unreservable checkout", "checkout_id", session.ID, "error", cancelErr)
		}
		return nil, err
	}

	if _, err := s.timers.CreateForCheckout(ctx, session.ID, s.cfg.Checkout.HoldDuration()); err != nil {
		s.releaseSeats(ctx, session.SeatIDs())
		if cancelErr := s.repo.TransitionState(ctx, session.ID, StateActive, StateCancelled); cancelErr != nil {
			logger.GetDefault().Error("failed to cancel checkout after timer failure", "checkout_id", session.ID, "error", cancelErr)
		}
		return nil, fmt.Errorf("failed to start purchase timer: %w", err)
	}

	logger.GetDefault().LogCheckoutStarted(ctx, session.ID.String(), session.EventID.String(), userID.String())
	metrics.CheckoutStarted()

	status, _ := s.timers.GetRemainingTime(ctx, session.ID)
	return &CheckoutResponse{Session: session, Timer: status}, nil
}

func (s *service) Confirm(ctx context.Context, checkoutID string) (*ConfirmResult, error) {
	id, err := uuid.Parse(checkoutID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid checkout ID", apperrors.ErrValidation)
	}

	session, err := s.repo.GetSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status, err := s.timers.GetRemainingTime(ctx, id)
	if err == nil && status.IsExpired {
		return nil, fmt.Errorf("%w: purchase window expired", apperrors.ErrInvalidState)
	}

	// Exactly one confirm wins the active -> pending race.
	if err := s.repo.TransitionState(ctx, id, StateActive, StatePending); err != nil {
		return nil, err
	}

	result, err := s.gateway.Process(ctx, payments.Request{
		CheckoutID: session.ID.String(),
		UserID:     session.UserID.String(),
		Amount:     session.TotalAmount,
		Currency:   s.cfg.Payment.Currency,
	})
	if err != nil {
		s.compensateFailedPayment(ctx, session)
		return nil, err
	}

	issued, err := s.issueAndSell(ctx, session, result.PaymentID)
	if err != nil {
		s.compensateFailedPayment(ctx, session)
		return nil, err
	}

	if err := s.repo.TransitionState(ctx, id, StatePending, StateCompleted); err != nil {
		return nil, err
	}
	if err := s.repo.SetPaymentID(ctx, id, result.PaymentID); err != nil {
		logger.GetDefault().Warn("failed to persist payment id", "checkout_id", checkoutID, "error", err)
	}

	if err := s.timers.DeactivateTimer(ctx, id); err != nil {
		logger.GetDefault().Warn("failed to deactivate timer", "checkout_id", checkoutID, "error", err)
	}

	// The purchase is done; the cart and its selection holds go away.
	s.cartManager.Delete(session.CartSessionID)
	if s.holds != nil {
		if _, err := s.holds.ReleaseSession(ctx, session.CartSessionID); err != nil {
			logger.GetDefault().Warn("failed to release selection holds", "checkout_id", checkoutID, "error", err)
		}
	}

	metrics.CheckoutFinished(StateCompleted)
	metrics.TicketsIssued(len(issued))
	if s.publisher != nil {
		s.publisher.PublishTicketsIssued(ctx, session.ID.String(), len(issued))
	}

	session.State = StateCompleted
	session.PaymentID = result.PaymentID
	return &ConfirmResult{Session: session, Tickets: issued, Payment: result}, nil
}

// issueAndSell issues tickets then flips the seats reserved -> sold,
// both driven by the session's frozen lines. Ticket creation is one
// transaction; if the seat sale then fails the tickets are voided so no
// ticket exists for an unsold seat.
func (s *service) issueAndSell(ctx context.Context, session *CheckoutSession, paymentID string) ([]tickets.Ticket, error) {
	if len(session.Lines) == 0 {
		return nil, fmt.Errorf("%w: checkout has no lines", apperrors.ErrInvalidState)
	}

	lines := make([]tickets.Line, len(session.Lines))
	for i, line := range session.Lines {
		lines[i] = tickets.Line{SeatID: line.SeatID, ZoneID: line.ZoneID, Price: line.Price}
	}

	issued, err := s.ticketSvc.IssueTickets(ctx, session.ID, session.UserID, session.EventID, lines, paymentID)
	if err != nil {
		return nil, err
	}

	if err := s.seatRepo.MarkSold(ctx, session.SeatIDs()); err != nil {
		if cancelErr := s.ticketSvc.CancelTicketsByCheckout(ctx, session.ID); cancelErr != nil {
			logger.GetDefault().Error("failed to void tickets after seat sale failure", "checkout_id", session.ID, "error", cancelErr)
		}
		return nil, err
	}

	return issued, nil
}

// compensateFailedPayment rolls a pending session back: cancelled
// state, seats released, timer stopped. The cart is deliberately left
// alone so the shopper can try again.
func (s *service) compensateFailedPayment(ctx context.Context, session *CheckoutSession) {
	if err := s.repo.TransitionState(ctx, session.ID, StatePending, StateCancelled); err != nil {
		logger.GetDefault().Error("failed to cancel checkout after payment failure", "checkout_id", session.ID, "error", err)
	}

	s.releaseSeats(ctx, session.SeatIDs())

	if err := s.timers.DeactivateTimer(ctx, session.ID); err != nil {
		logger.GetDefault().Warn("failed to deactivate timer", "checkout_id", session.ID, "error", err)
	}

	metrics.CheckoutFinished(StateCancelled)
	if s.publisher != nil {
		s.publisher.PublishCheckoutCancelled(ctx, session.ID.String(), "payment_failed")
	}
}

func (s *service) Cancel(ctx context.Context, checkoutID string) error {
	id, err := uuid.Parse(checkoutID)
	if err != nil {
		return fmt.Errorf("%w: invalid checkout ID", apperrors.ErrValidation)
	}

	session, err := s.repo.GetSessionByID(ctx, id)
	if err != nil {
		return err
	}
	if IsTerminal(session.State) {
		return fmt.Errorf("%w: checkout already %s", apperrors.ErrInvalidState, session.State)
	}

	if err := s.repo.TransitionState(ctx, id, session.State, StateCancelled); err != nil {
		return err
	}

	s.releaseSeats(ctx, session.SeatIDs())

	if err := s.timers.DeactivateTimer(ctx, id); err != nil {
		logger.GetDefault().Warn("failed to deactivate timer", "checkout_id", checkoutID, "error", err)
	}

	metrics.CheckoutFinished(StateCancelled)
	if s.publisher != nil {
		s.publisher.PublishCheckoutCancelled(ctx, session.ID.String(), "user_cancelled")
	}
	return nil
}

func (s *service) GetSession(ctx context.Context, checkoutID string) (*CheckoutSession, error) {
	id, err := uuid.Parse(checkoutID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid checkout ID", apperrors.ErrValidation)
	}
	return s.repo.GetSessionByID(ctx, id)
}

func (s *service) GetRemainingTime(ctx context.Context, checkoutID string) (*TimerStatus, error) {
	id, err := uuid.Parse(checkoutID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid checkout ID", apperrors.ErrValidation)
	}
	return s.timers.GetRemainingTime(ctx, id)
}

// ExtendTimer pushes the purchase window out and moves the seats'
// reservation deadline with it, so the sweep never frees seats whose
// timer is still running.
func (s *service) ExtendTimer(ctx context.Context, checkoutID string) (*TimerStatus, error) {
	id, err := uuid.Parse(checkoutID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid checkout ID", apperrors.ErrValidation)
	}

	session, err := s.repo.GetSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.State != StateActive {
		return nil, fmt.Errorf("%w: checkout is %s", apperrors.ErrInvalidState, session.State)
	}

	timer, err := s.timers.ExtendTimer(ctx, id, s.cfg.Checkout.ExtendDuration())
	if err != nil {
		return nil, err
	}

	if err := s.seatRepo.ExtendReservation(ctx, session.SeatIDs(), timer.ExpiryTime); err != nil {
		logger.GetDefault().Warn("failed to extend seat reservations", "checkout_id", checkoutID, "error", err)
	}

	return s.timers.GetRemainingTime(ctx, id)
}

func (s *service) releaseSeats(ctx context.Context, ids []uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	released, err := s.seatRepo.Release(ctx, ids)
	if err != nil {
		logger.GetDefault().Error("failed to release reserved seats", "error", err)
		return
	}
	if released > 0 {
		logger.GetDefault().Info("released reserved seats", "count", released)
	}
}
