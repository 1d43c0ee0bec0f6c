package events

import (
	"context"

	"food-dispatch/internal/domain"
)

// PaymentsPort abstracts the subset of payment operations the Processor
// needs when handling order events.
type PaymentsPort interface {
	Create(ctx context.Context, orderID int64, method domain.PaymentMethod) (*domain.Payment, error)
	GetByOrder(ctx context.Context, orderID int64) (*domain.Payment, error)
	Refund(ctx context.Context, paymentID int64) error
}
