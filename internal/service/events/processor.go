package events

import (
	"context"
	"errors"

	"food-dispatch/internal/apperr"
	"food-dispatch/internal/domain"
	"food-dispatch/internal/logx"
)

// Processor applies marketplace order events to the payment ledger. Events
// are delivered at least once, so every action is idempotent.
type Processor struct {
	payments PaymentsPort
	factory  *actionFactory
	logger   logx.Logger
}

// NewProcessor creates a new events.Processor.
func NewProcessor(payments PaymentsPort, logger logx.Logger) *Processor {
	p := &Processor{
		payments: payments,
		logger:   logger,
	}
	p.factory = newActionFactory(p.onPlaced, p.onCancelled)
	return p
}

// Handle processes a single order event. Unknown statuses are ignored.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	if p.factory == nil {
		return nil
	}
	fn, ok := p.factory.get(e.Status)
	if !ok {
		return nil
	}
	return fn(ctx, e)
}

func (p *Processor) onPlaced(ctx context.Context, e Event) error {
	method := domain.PaymentMethod(e.Method)
	if !method.Valid() {
		method = domain.MethodCard
	}
	_, err := p.payments.Create(ctx, e.OrderID, method)
	if errors.Is(err, apperr.ErrConflict) {
		// the order already has its payment
		return nil
	}
	return err
}

func (p *Processor) onCancelled(ctx context.Context, e Event) error {
	pay, err := p.payments.GetByOrder(ctx, e.OrderID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if pay.Status != domain.PaymentCompleted {
		// nothing was charged, nothing to give back
		return nil
	}
	if err := p.payments.Refund(ctx, pay.ID); err != nil {
		if errors.Is(err, apperr.ErrInvalidTransition) {
			// raced with another refund
			return nil
		}
		return err
	}
	p.logger.Info("payment refunded on order cancellation",
		logx.String("event", "event_refund"),
		logx.Int64("order_id", e.OrderID),
		logx.Int64("payment_id", pay.ID),
	)
	return nil
}
