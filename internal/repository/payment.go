package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"food-dispatch/internal/domain"
)

// PaymentRepo represents the read side of payment storage.
type PaymentRepo struct{ db *pgxpool.Pool }

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(db *pgxpool.Pool) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentColumns = `id, order_id, customer_id, amount_cents, method, status, transaction_ref, paid_at`

// Get - returns payment by its ID.
func (r *PaymentRepo) Get(ctx context.Context, id int64) (*domain.Payment, error) {
	var p domain.Payment
	err := r.db.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id,
	).Scan(&p.ID, &p.OrderID, &p.CustomerID, &p.AmountCents, &p.Method, &p.Status, &p.TransactionRef, &p.PaidAt)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment %d: %w", id, err)
	}
	return &p, nil
}

// GetByOrder - returns the order's payment.
func (r *PaymentRepo) GetByOrder(ctx context.Context, orderID int64) (*domain.Payment, error) {
	var p domain.Payment
	err := r.db.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE order_id = $1`, orderID,
	).Scan(&p.ID, &p.OrderID, &p.CustomerID, &p.AmountCents, &p.Method, &p.Status, &p.TransactionRef, &p.PaidAt)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment for order %d: %w", orderID, err)
	}
	return &p, nil
}
