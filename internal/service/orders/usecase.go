package orders

import (
	"context"
	"time"

	"food-dispatch/internal/apperr"
	"food-dispatch/internal/domain"
	"food-dispatch/internal/logx"
	"food-dispatch/internal/ports/dispatchtx"
	"food-dispatch/internal/service/payments"
)

// Service is the order ledger: placement, status transitions, cancellation
// and queries. Status edges are pending -> processing -> out_for_delivery ->
// delivered, with cancelled reachable only from pending.
type Service struct {
	repo             dispatchtx.Runner
	reader           orderReader
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

func NewService(r dispatchtx.Runner, reader orderReader, timeout time.Duration, logger logx.Logger) *Service {
	return &Service{
		repo:             r,
		reader:           reader,
		operationTimeout: timeout,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.operationTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Place validates the order's relations, prices it from the current menu and
// writes the order, its lines and the pending payment in one transaction.
// Line subtotals snapshot the menu price; the total never changes afterwards.
func (s *Service) Place(ctx context.Context, in PlaceOrderInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperr.ErrInvalid
	}
	if !in.Method.Valid() {
		return nil, apperr.ErrInvalid
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, apperr.ErrInvalid
		}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var order *domain.Order
	err := s.repo.WithTx(ctx, func(tx dispatchtx.Repository) error {
		ok, err := tx.CustomerExists(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.ErrNotFound
		}
		ok, err = tx.RestaurantExists(ctx, in.RestaurantID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.ErrNotFound
		}

		addr, err := tx.GetAddress(ctx, in.AddressID)
		if err != nil {
			return err
		}
		if addr == nil {
			return apperr.ErrNotFound
		}
		if addr.CustomerID != in.CustomerID {
			return apperr.ErrInvalidRelation
		}

		o := &domain.Order{
			CustomerID:   in.CustomerID,
			RestaurantID: in.RestaurantID,
			AddressID:    in.AddressID,
			Status:       domain.OrderPending,
			CreatedAt:    s.now(),
		}
		for _, it := range in.Items {
			mi, err := tx.GetMenuItem(ctx, it.MenuItemID)
			if err != nil {
				return err
			}
			if mi == nil {
				return apperr.ErrNotFound
			}
			if mi.RestaurantID != in.RestaurantID {
				return apperr.ErrInvalidRelation
			}
			o.Items = append(o.Items, domain.OrderItem{
				MenuItemID:    mi.ID,
				Quantity:      it.Quantity,
				SubtotalCents: mi.PriceCents * int64(it.Quantity),
			})
		}
		o.TotalCents = o.ItemsTotal()

		if err := tx.InsertOrder(ctx, o); err != nil {
			return err
		}

		p := &domain.Payment{
			OrderID:     o.ID,
			CustomerID:  o.CustomerID,
			AmountCents: o.TotalCents,
			Method:      in.Method,
			Status:      domain.PaymentPending,
		}
		if err := tx.InsertPayment(ctx, p); err != nil {
			return err
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order placed",
		logx.String("event", "order_placed"),
		logx.Int64("order_id", order.ID),
		logx.Int64("customer_id", order.CustomerID),
		logx.Int64("total_cents", order.TotalCents),
	)
	return order, nil
}

// Transition moves the order along its forward chain. Only restaurant,
// courier and admin actors may drive it; the customer's one move is Cancel.
// Progression to out_for_delivery or delivered consults the payment: a card
// order must be paid first, a cash order must still be unpaid.
func (s *Service) Transition(ctx context.Context, orderID int64, target domain.OrderStatus, actor domain.Actor) error {
	if !target.Valid() {
		return apperr.ErrInvalid
	}
	if target == domain.OrderCancelled {
		if actor.Role != domain.RoleCustomer {
			return apperr.ErrForbidden
		}
		return s.Cancel(ctx, orderID, actor.ID)
	}
	if !actor.Role.CanDriveOrderForward() {
		return apperr.ErrForbidden
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.repo.WithTx(ctx, func(tx dispatchtx.Repository) error {
		o, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return apperr.ErrNotFound
		}
		if !o.Status.CanTransitionTo(target) {
			return apperr.ErrInvalidTransition
		}

		if target == domain.OrderOutForDelivery || target == domain.OrderDelivered {
			p, err := tx.GetPaymentByOrderForUpdate(ctx, orderID)
			if err != nil {
				return err
			}
			if !payments.ValidateForOrderStatus(p, target) {
				return apperr.ErrInvalidState
			}
		}

		var deliveredAt *time.Time
		if target == domain.OrderDelivered {
			now := s.now()
			deliveredAt = &now
		}
		return tx.UpdateOrderStatus(ctx, orderID, target, deliveredAt)
	})
	if err != nil {
		return err
	}

	s.logger.Info("order status changed",
		logx.String("event", "order_status_changed"),
		logx.Int64("order_id", orderID),
		logx.String("status", string(target)),
		logx.String("actor_role", string(actor.Role)),
	)
	return nil
}

// Cancel aborts a pending order. Only the owning customer may cancel, and
// only before the restaurant starts preparing it.
func (s *Service) Cancel(ctx context.Context, orderID, customerID int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.repo.WithTx(ctx, func(tx dispatchtx.Repository) error {
		o, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return apperr.ErrNotFound
		}
		if o.CustomerID != customerID {
			return apperr.ErrForbidden
		}
		if o.Status != domain.OrderPending {
			return apperr.ErrInvalidState
		}
		return tx.UpdateOrderStatus(ctx, orderID, domain.OrderCancelled, nil)
	})
	if err != nil {
		return err
	}

	s.logger.Info("order cancelled",
		logx.String("event", "order_cancelled"),
		logx.Int64("order_id", orderID),
		logx.Int64("customer_id", customerID),
	)
	return nil
}

// Get returns the order. Customers see only their own orders; restaurant,
// courier and admin actors see any.
func (s *Service) Get(ctx context.Context, orderID int64, actor domain.Actor) (*domain.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.reader.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.ErrNotFound
	}
	if actor.Role == domain.RoleCustomer && o.CustomerID != actor.ID {
		return nil, apperr.ErrForbidden
	}
	return o, nil
}

// ListByCustomer returns the customer's orders, newest first.
func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.reader.ListByCustomer(ctx, customerID)
}
