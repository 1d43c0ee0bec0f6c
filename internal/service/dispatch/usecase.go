package dispatch

import (
	"context"
	"errors"
	"time"

	"food-dispatch/internal/apperr"
	"food-dispatch/internal/domain"
	"food-dispatch/internal/logx"
	"food-dispatch/internal/ports/dispatchtx"
	"food-dispatch/internal/service/payments"
)

// Config carries the dispatch policies.
type Config struct {
	// CourierShareBps is the courier's cut of the order total in basis
	// points. 10000 credits the full total.
	CourierShareBps  int
	OperationTimeout time.Duration
}

// Service coordinates the courier assignment lifecycle: request, accept or
// reject, pickup and delivery. Every mutation runs in one transaction with
// FOR UPDATE re-checks; the courier row lock serializes racing requests.
type Service struct {
	repo      dispatchtx.Runner
	reader    assignmentReader
	orders    orderReader
	cfg       Config
	conflicts conflictCounter
	logger    logx.Logger
	now       func() time.Time
}

func NewService(r dispatchtx.Runner, reader assignmentReader, orders orderReader, cfg Config, conflicts conflictCounter, logger logx.Logger) *Service {
	return &Service{
		repo:      r,
		reader:    reader,
		orders:    orders,
		cfg:       cfg,
		conflicts: conflicts,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.OperationTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.cfg.OperationTimeout)
}

func (s *Service) countConflict() {
	if s.conflicts != nil {
		s.conflicts.Inc()
	}
}

// Request offers the order to a courier. The order must be processing, must
// have no live assignment, and the courier must be available. Nothing else
// changes yet; the courier still has to accept. Of two racing requests for
// the same courier or order exactly one wins, the loser sees ErrConflict or
// ErrUnavailable.
func (s *Service) Request(ctx context.Context, orderID, courierID int64) (*domain.DispatchResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var res *domain.DispatchResult
	err := s.repo.WithTx(ctx, func(tx dispatchtx.Repository) error {
		o, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return apperr.ErrNotFound
		}
		if o.Status != domain.OrderProcessing {
			return apperr.ErrInvalidState
		}

		live, err := tx.FindLiveAssignmentByOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if live != nil {
			return apperr.ErrConflict
		}

		c, err := tx.GetCourierForUpdate(ctx, courierID)
		if err != nil {
			return err
		}
		if c == nil {
			return apperr.ErrNotFound
		}
		if c.Availability != domain.CourierAvailable {
			return apperr.ErrUnavailable
		}

		// the availability flag flips only on accept, so an open requested
		// offer has to be checked for explicitly
		busy, err := tx.FindLiveAssignmentByCourier(ctx, courierID)
		if err != nil {
			return err
		}
		if busy != nil {
			return apperr.ErrUnavailable
		}

		a := &domain.Assignment{
			OrderID:    orderID,
			CourierID:  courierID,
			Status:     domain.AssignmentRequested,
			AssignedAt: s.now(),
		}
		if err := tx.InsertAssignment(ctx, a); err != nil {
			return err
		}

		res = &domain.DispatchResult{
			AssignmentID: a.ID,
			OrderID:      orderID,
			CourierID:    courierID,
			Status:       a.Status,
			AssignedAt:   a.AssignedAt,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) || errors.Is(err, apperr.ErrUnavailable) {
			s.countConflict()
		}
		return nil, err
	}

	s.logger.Info("dispatch requested",
		logx.String("event", "dispatch_requested"),
		logx.Int64("assignment_id", res.AssignmentID),
		logx.Int64("order_id", orderID),
		logx.Int64("courier_id", courierID),
	)
	return res, nil
}

// Accept commits the courier to the order. The assignment goes straight to
// assigned, the order to out_for_delivery and the courier to unavailable, all
// in one transaction. A second accept of the same assignment fails.
func (s *Service) Accept(ctx context.Context, assignmentID, courierID int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var orderID int64
	err := s.repo.WithTx(ctx, func(tx dispatchtx.Repository) error {
		a, err := tx.GetAssignmentForUpdate(ctx, assignmentID)
		if err != nil {
			return err
		}
		if a == nil {
			return apperr.ErrNotFound
		}
		if a.CourierID != courierID {
			return apperr.ErrForbidden
		}
		if a.Status != domain.AssignmentRequested {
			return apperr.ErrInvalidState
		}

		o, err := tx.GetOrderForUpdate(ctx, a.OrderID)
		if err != nil {
			return err
		}
		if o == nil {
			return apperr.ErrNotFound
		}
		if !o.Status.CanTransitionTo(domain.OrderOutForDelivery) {
			return apperr.ErrInvalidState
		}

		p, err := tx.GetPaymentByOrderForUpdate(ctx, a.OrderID)
		if err != nil {
			return err
		}
		if !payments.ValidateForOrderStatus(p, domain.OrderOutForDelivery) {
			return apperr.ErrInvalidState
		}

		a.Status = domain.AssignmentAssigned
		if err := tx.UpdateAssignment(ctx, a); err != nil {
			return err
		}
		if err := tx.UpdateOrderStatus(ctx, a.OrderID, domain.OrderOutForDelivery, nil); err != nil {
			return err
		}
		if err := tx.UpdateCourierAvailability(ctx, courierID, domain.CourierUnavailable); err != nil {
			return err
		}

		orderID = a.OrderID
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("courier assigned",
		logx.String("event", "courier_assigned"),
		logx.Int64("assignment_id", assignmentID),
		logx.Int64("order_id", orderID),
		logx.Int64("courier_id", courierID),
	)
	return nil
}

// Reject declines a requested assignment. The order stays processing and can
// be offered to another courier.
func (s *Service) Reject(ctx context.Context, assignmentID, courierID int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.repo.WithTx(ctx, func(tx dispatchtx.Repository) error {
		a, err := tx.GetAssignmentForUpdate(ctx, assignmentID)
		if err != nil {
			return err
		}
		if a == nil {
			return apperr.ErrNotFound
		}
		if a.CourierID != courierID {
			return apperr.ErrForbidden
		}
		if a.Status != domain.AssignmentRequested {
			return apperr.ErrInvalidState
		}

		a.Status = domain.AssignmentRejected
		return tx.UpdateAssignment(ctx, a)
	})
	if err != nil {
		return err
	}

	s.logger.Info("dispatch rejected",
		logx.String("event", "dispatch_rejected"),
		logx.Int64("assignment_id", assignmentID),
		logx.Int64("courier_id", courierID),
	)
	return nil
}

// UpdateStatus moves an accepted assignment along pickup and delivery, or
// cancels it. Delivery is the big one: in a single transaction the order
// becomes delivered, a cash payment settles, the courier frees up and the
// earnings share is credited.
func (s *Service) UpdateStatus(ctx context.Context, assignmentID int64, target domain.AssignmentStatus, courierID int64) (*domain.DeliveryResult, error) {
	if !target.Valid() {
		return nil, apperr.ErrInvalid
	}
	switch target {
	case domain.AssignmentPickedUp, domain.AssignmentDelivered, domain.AssignmentCancelled:
	default:
		return nil, apperr.ErrInvalidTransition
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var delivery *domain.DeliveryResult
	err := s.repo.WithTx(ctx, func(tx dispatchtx.Repository) error {
		a, err := tx.GetAssignmentForUpdate(ctx, assignmentID)
		if err != nil {
			return err
		}
		if a == nil {
			return apperr.ErrNotFound
		}
		if a.CourierID != courierID {
			return apperr.ErrForbidden
		}
		if !a.Status.CanTransitionTo(target) {
			return apperr.ErrInvalidTransition
		}

		switch target {
		case domain.AssignmentPickedUp:
			now := s.now()
			a.Status = domain.AssignmentPickedUp
			a.PickedUpAt = &now
			return tx.UpdateAssignment(ctx, a)

		case domain.AssignmentCancelled:
			a.Status = domain.AssignmentCancelled
			if err := tx.UpdateAssignment(ctx, a); err != nil {
				return err
			}
			// the courier is free again; the order stays where it is and
			// needs an operator decision
			return tx.UpdateCourierAvailability(ctx, a.CourierID, domain.CourierAvailable)

		case domain.AssignmentDelivered:
			return s.deliver(ctx, tx, a, &delivery)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("assignment status changed",
		logx.String("event", "assignment_status_changed"),
		logx.Int64("assignment_id", assignmentID),
		logx.String("status", string(target)),
	)
	return delivery, nil
}

// deliver finalizes the assignment inside the caller's transaction.
func (s *Service) deliver(ctx context.Context, tx dispatchtx.Repository, a *domain.Assignment, out **domain.DeliveryResult) error {
	o, err := tx.GetOrderForUpdate(ctx, a.OrderID)
	if err != nil {
		return err
	}
	if o == nil {
		return apperr.ErrNotFound
	}
	if !o.Status.CanTransitionTo(domain.OrderDelivered) {
		return apperr.ErrInvalidState
	}

	now := s.now()
	a.Status = domain.AssignmentDelivered
	a.DeliveredAt = &now
	if err := tx.UpdateAssignment(ctx, a); err != nil {
		return err
	}
	if err := tx.UpdateOrderStatus(ctx, a.OrderID, domain.OrderDelivered, &now); err != nil {
		return err
	}

	p, err := tx.GetPaymentByOrderForUpdate(ctx, a.OrderID)
	if err != nil {
		return err
	}
	if p != nil && p.Method == domain.MethodCOD {
		if err := payments.SettleOnDelivery(p, now); err != nil {
			return err
		}
		if err := tx.UpdatePayment(ctx, p); err != nil {
			return err
		}
	}

	if err := tx.UpdateCourierAvailability(ctx, a.CourierID, domain.CourierAvailable); err != nil {
		return err
	}

	credit := o.TotalCents * int64(s.cfg.CourierShareBps) / 10000
	if credit > 0 {
		if err := tx.CreditCourierEarnings(ctx, a.CourierID, credit); err != nil {
			return err
		}
	}

	*out = &domain.DeliveryResult{
		AssignmentID:  a.ID,
		OrderID:       a.OrderID,
		CourierID:     a.CourierID,
		CreditedCents: credit,
		DeliveredAt:   now,
	}
	return nil
}

// GetAssignment returns the assignment. Couriers see only their own;
// restaurants only those for their own orders.
func (s *Service) GetAssignment(ctx context.Context, id int64, actor domain.Actor) (*domain.Assignment, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	a, err := s.reader.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.ErrNotFound
	}
	switch actor.Role {
	case domain.RoleCourier:
		if a.CourierID != actor.ID {
			return nil, apperr.ErrForbidden
		}
	case domain.RoleRestaurant:
		o, err := s.orders.Get(ctx, a.OrderID)
		if err != nil {
			return nil, err
		}
		if o == nil || o.RestaurantID != actor.ID {
			return nil, apperr.ErrForbidden
		}
	}
	return a, nil
}

// CourierHistory returns the courier's assignments, newest first.
func (s *Service) CourierHistory(ctx context.Context, courierID int64) ([]domain.Assignment, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.reader.ListByCourier(ctx, courierID)
}
