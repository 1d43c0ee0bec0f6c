package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"food-dispatch/internal/apperr"
	"food-dispatch/internal/domain"
	"food-dispatch/internal/gateway/cardpay"
	"food-dispatch/internal/logx"
	"food-dispatch/internal/ports/dispatchtx"
)

// Service - the payment guard. It owns the payment lifecycle and decides
// whether a payment state permits an order-status transition.
type Service struct {
	repo             dispatchtx.Runner
	reader           paymentReader
	card             CardGateway
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates a payment Service. card may be nil when no provider is
// configured; Process then fails instead of charging.
func NewService(r dispatchtx.Runner, reader paymentReader, card CardGateway, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		repo:             r,
		reader:           reader,
		card:             card,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Create creates the single payment for an order. The amount is frozen to the
// order total inside the same transaction that reads it.
func (s *Service) Create(ctx context.Context, orderID int64, method domain.PaymentMethod) (*domain.Payment, error) {
	if !method.Valid() {
		return nil, apperr.ErrInvalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var p *domain.Payment
	err := s.repo.WithTx(ctx, func(tx dispatchtx.Repository) error {
		o, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return apperr.ErrNotFound
		}

		p = &domain.Payment{
			OrderID:     o.ID,
			CustomerID:  o.CustomerID,
			AmountCents: o.TotalCents,
			Method:      method,
			Status:      domain.PaymentPending,
		}
		return tx.InsertPayment(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment created",
		logx.String("event", "payment_created"),
		logx.Int64("payment_id", p.ID),
		logx.Int64("order_id", p.OrderID),
		logx.String("method", string(p.Method)),
		logx.Int64("amount_cents", p.AmountCents),
	)
	return p, nil
}

// Process charges a card payment through the provider. Cash on delivery is
// never processed here (ErrInvalidState); it settles at the door. The charge
// runs outside the transaction, and the pending status is re-verified before
// the completion commits; a concurrent change surfaces as ErrConflict.
func (s *Service) Process(ctx context.Context, paymentID int64) (*domain.Payment, error) {
	p, err := s.reader.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.ErrNotFound
	}
	if p.Method != domain.MethodCard {
		return nil, apperr.ErrInvalidState
	}
	if p.Status != domain.PaymentPending {
		return nil, apperr.ErrInvalidTransition
	}
	if s.card == nil {
		return nil, fmt.Errorf("process payment %d: no card provider configured", paymentID)
	}

	receipt, err := s.card.Charge(ctx, cardpay.Charge{
		PaymentID:   p.ID,
		OrderID:     p.OrderID,
		AmountCents: p.AmountCents,
	})
	if errors.Is(err, cardpay.ErrDeclined) {
		if failErr := s.MarkFailed(ctx, paymentID); failErr != nil {
			s.logger.Error("mark declined payment failed",
				logx.Int64("payment_id", paymentID),
				logx.Any("err", failErr),
			)
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var out *domain.Payment
	err = s.repo.WithTx(ctx, func(tx dispatchtx.Repository) error {
		cur, err := tx.GetPaymentForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if cur == nil {
			return apperr.ErrNotFound
		}
		if cur.Status != domain.PaymentPending {
			return apperr.ErrConflict
		}

		now := s.now()
		cur.Status = domain.PaymentCompleted
		cur.TransactionRef = receipt.TransactionRef
		cur.PaidAt = &now
		if err := tx.UpdatePayment(ctx, cur); err != nil {
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment completed",
		logx.String("event", "payment_completed"),
		logx.Int64("payment_id", out.ID),
		logx.Int64("order_id", out.OrderID),
		logx.String("transaction_ref", out.TransactionRef),
	)
	return out, nil
}

// MarkFailed moves a pending payment to failed.
func (s *Service) MarkFailed(ctx context.Context, paymentID int64) error {
	return s.transition(ctx, paymentID, domain.PaymentFailed)
}

// Retry moves a failed payment back to pending so it can be processed again.
func (s *Service) Retry(ctx context.Context, paymentID int64) error {
	return s.transition(ctx, paymentID, domain.PaymentPending)
}

// Refund moves a completed payment to refunded and, for card payments,
// reverses the charge with the provider. Refunded is terminal.
func (s *Service) Refund(ctx context.Context, paymentID int64) error {
	txCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	var refunded *domain.Payment
	err := s.repo.WithTx(txCtx, func(tx dispatchtx.Repository) error {
		p, err := tx.GetPaymentForUpdate(txCtx, paymentID)
		if err != nil {
			return err
		}
		if p == nil {
			return apperr.ErrNotFound
		}
		if !p.Status.CanTransitionTo(domain.PaymentRefunded) {
			return apperr.ErrInvalidTransition
		}
		p.Status = domain.PaymentRefunded
		if err := tx.UpdatePayment(txCtx, p); err != nil {
			return err
		}
		refunded = p
		return nil
	})
	if err != nil {
		return err
	}

	if refunded.Method == domain.MethodCard && s.card != nil && refunded.TransactionRef != "" {
		if err := s.card.Refund(ctx, refunded.TransactionRef, refunded.AmountCents); err != nil {
			// status change already committed; reconciliation is an operator concern
			s.logger.Error("provider refund failed",
				logx.Int64("payment_id", refunded.ID),
				logx.String("transaction_ref", refunded.TransactionRef),
				logx.Any("err", err),
			)
		}
	}

	s.logger.Info("payment refunded",
		logx.String("event", "payment_refunded"),
		logx.Int64("payment_id", refunded.ID),
		logx.Int64("order_id", refunded.OrderID),
	)
	return nil
}

// GetByOrder returns the order's payment.
func (s *Service) GetByOrder(ctx context.Context, orderID int64) (*domain.Payment, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	p, err := s.reader.GetByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.ErrNotFound
	}
	return p, nil
}

func (s *Service) transition(ctx context.Context, paymentID int64, target domain.PaymentStatus) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.repo.WithTx(ctx, func(tx dispatchtx.Repository) error {
		p, err := tx.GetPaymentForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if p == nil {
			return apperr.ErrNotFound
		}
		if !p.Status.CanTransitionTo(target) {
			return apperr.ErrInvalidTransition
		}
		p.Status = target
		return tx.UpdatePayment(ctx, p)
	})
}

// ValidateForOrderStatus reports whether the payment permits moving its order
// to target. Pure; no storage access.
func ValidateForOrderStatus(p *domain.Payment, target domain.OrderStatus) bool {
	if p == nil {
		return target == domain.OrderCancelled
	}
	return !p.BlocksOrderStatus(target)
}

// SettleOnDelivery finalizes a cash-on-delivery payment at the door:
// pending -> completed with the delivery time. Card payments are already
// completed by then and pass through untouched. Callers persist the mutation
// inside their own delivered transaction.
func SettleOnDelivery(p *domain.Payment, deliveredAt time.Time) error {
	if p.Method != domain.MethodCOD {
		return nil
	}
	if p.Status != domain.PaymentPending {
		return apperr.ErrInvalidState
	}
	p.Status = domain.PaymentCompleted
	p.PaidAt = &deliveredAt
	return nil
}
