package payments

import (
	"context"

	"food-dispatch/internal/domain"
	"food-dispatch/internal/gateway/cardpay"
)

// CardGateway abstracts the card payment provider.
type CardGateway interface {
	Charge(ctx context.Context, ch cardpay.Charge) (*cardpay.Receipt, error)
	Refund(ctx context.Context, transactionRef string, amountCents int64) error
}

type paymentReader interface {
	Get(ctx context.Context, id int64) (*domain.Payment, error)
	GetByOrder(ctx context.Context, orderID int64) (*domain.Payment, error)
}
