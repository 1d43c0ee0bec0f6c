package domain

import "time"

type (
	// PaymentStatus represents the lifecycle state of a payment.
	PaymentStatus string
	// PaymentMethod represents how the customer pays.
	PaymentMethod string
)

// Payment represents the single payment attached to an order. Amount is
// fixed at creation to the order total and never changes.
type Payment struct {
	ID             int64
	OrderID        int64
	CustomerID     int64
	AmountCents    int64
	Method         PaymentMethod
	Status         PaymentStatus
	TransactionRef string
	PaidAt         *time.Time
}

// BlocksOrderStatus reports whether the payment state forbids moving the
// order to target. Cancellation is never blocked. Card orders need a
// completed payment before leaving the restaurant; cash on delivery stays
// pending until the courier settles it at the door.
func (p *Payment) BlocksOrderStatus(target OrderStatus) bool {
	if target == OrderCancelled {
		return false
	}
	if target != OrderOutForDelivery && target != OrderDelivered {
		return false
	}
	switch p.Method {
	case MethodCard:
		return p.Status != PaymentCompleted
	case MethodCOD:
		return p.Status != PaymentPending
	default:
		return true
	}
}
