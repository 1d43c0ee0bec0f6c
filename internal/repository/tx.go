package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"food-dispatch/internal/apperr"
	"food-dispatch/internal/domain"
	"food-dispatch/internal/ports/dispatchtx"
)

// DispatchRepo owns the transactional storage operations of the dispatch
// workflow.
type DispatchRepo struct {
	db *pgxpool.Pool
}

// NewDispatchRepo creates a new DispatchRepo.
func NewDispatchRepo(db *pgxpool.Pool) *DispatchRepo {
	return &DispatchRepo{db: db}
}

// WithTx opens a transaction and executes fn within it.
func (r *DispatchRepo) WithTx(ctx context.Context, fn func(tx dispatchtx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	// roll back on panic before re-panicking
	defer func() {
		if p := recover(); p != nil {
			err = tx.Rollback(ctx)
			if err != nil {
				panic(err)
			}
			panic(p)
		}
	}()

	wrapped := &TxRepo{tx: tx}

	if err := fn(wrapped); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// TxRepo represents transaction repository.
type TxRepo struct {
	tx pgx.Tx
}

var _ dispatchtx.Repository = (*TxRepo)(nil)

// CustomerExists - reports whether the customer exists.
func (r *TxRepo) CustomerExists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM customers WHERE id = $1)`, id).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("customer exists %d: %w", id, err)
	}
	return ok, nil
}

// RestaurantExists - reports whether the restaurant exists.
func (r *TxRepo) RestaurantExists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM restaurants WHERE id = $1)`, id).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("restaurant exists %d: %w", id, err)
	}
	return ok, nil
}

// GetAddress - get address by ID.
func (r *TxRepo) GetAddress(ctx context.Context, id int64) (*domain.Address, error) {
	var a domain.Address
	err := r.tx.QueryRow(ctx,
		`SELECT id, customer_id FROM addresses WHERE id = $1`, id,
	).Scan(&a.ID, &a.CustomerID)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get address %d: %w", id, err)
	}
	return &a, nil
}

// GetMenuItem - get menu item by ID.
func (r *TxRepo) GetMenuItem(ctx context.Context, id int64) (*domain.MenuItem, error) {
	var m domain.MenuItem
	err := r.tx.QueryRow(ctx,
		`SELECT id, restaurant_id, name, price_cents FROM menu_items WHERE id = $1`, id,
	).Scan(&m.ID, &m.RestaurantID, &m.Name, &m.PriceCents)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get menu item %d: %w", id, err)
	}
	return &m, nil
}

// InsertOrder - insert a new order together with its line items.
func (r *TxRepo) InsertOrder(ctx context.Context, o *domain.Order) error {
	err := r.tx.QueryRow(ctx, `
        INSERT INTO orders (customer_id, restaurant_id, address_id, status, total_cents, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `, o.CustomerID, o.RestaurantID, o.AddressID, string(o.Status), o.TotalCents, o.CreatedAt).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		err := r.tx.QueryRow(ctx, `
            INSERT INTO order_items (order_id, menu_item_id, quantity, subtotal_cents)
            VALUES ($1, $2, $3, $4)
            RETURNING id
        `, it.OrderID, it.MenuItemID, it.Quantity, it.SubtotalCents).Scan(&it.ID)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// GetOrderForUpdate - get order by ID with a row lock, without items.
func (r *TxRepo) GetOrderForUpdate(ctx context.Context, id int64) (*domain.Order, error) {
	row := r.tx.QueryRow(ctx, `
        SELECT id, customer_id, restaurant_id, address_id, status, total_cents, created_at, delivered_at
        FROM orders
        WHERE id = $1
        FOR UPDATE
    `, id)

	var o domain.Order
	if err := row.Scan(&o.ID, &o.CustomerID, &o.RestaurantID, &o.AddressID,
		&o.Status, &o.TotalCents, &o.CreatedAt, &o.DeliveredAt); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %d for update: %w", id, err)
	}
	return &o, nil
}

// UpdateOrderStatus - update order status and delivered timestamp.
func (r *TxRepo) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus, deliveredAt *time.Time) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE orders
        SET status = $2, delivered_at = COALESCE($3, delivered_at), updated_at = now()
        WHERE id = $1
    `, id, string(status), deliveredAt)
	if err != nil {
		return fmt.Errorf("update order status %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("order %d not found", id)
	}
	return nil
}

// InsertAssignment - insert a new courier assignment.
func (r *TxRepo) InsertAssignment(ctx context.Context, a *domain.Assignment) error {
	err := r.tx.QueryRow(ctx, `
        INSERT INTO assignments (order_id, courier_id, status, assigned_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, a.OrderID, a.CourierID, string(a.Status), a.AssignedAt).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

// GetAssignmentForUpdate - get assignment by ID with a row lock.
func (r *TxRepo) GetAssignmentForUpdate(ctx context.Context, id int64) (*domain.Assignment, error) {
	row := r.tx.QueryRow(ctx, `
        SELECT id, order_id, courier_id, status, assigned_at, picked_up_at, delivered_at
        FROM assignments
        WHERE id = $1
        FOR UPDATE
    `, id)

	var a domain.Assignment
	if err := row.Scan(&a.ID, &a.OrderID, &a.CourierID, &a.Status,
		&a.AssignedAt, &a.PickedUpAt, &a.DeliveredAt); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assignment %d for update: %w", id, err)
	}
	return &a, nil
}

// FindLiveAssignmentByOrder - find the order's non-terminal assignment, if
// any, with a row lock.
func (r *TxRepo) FindLiveAssignmentByOrder(ctx context.Context, orderID int64) (*domain.Assignment, error) {
	row := r.tx.QueryRow(ctx, `
        SELECT id, order_id, courier_id, status, assigned_at, picked_up_at, delivered_at
        FROM assignments
        WHERE order_id = $1
          AND status IN ('requested', 'assigned', 'picked_up')
        FOR UPDATE
        LIMIT 1
    `, orderID)

	var a domain.Assignment
	if err := row.Scan(&a.ID, &a.OrderID, &a.CourierID, &a.Status,
		&a.AssignedAt, &a.PickedUpAt, &a.DeliveredAt); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find live assignment for order %d: %w", orderID, err)
	}
	return &a, nil
}

// FindLiveAssignmentByCourier - find the courier's non-terminal assignment,
// if any, with a row lock. Unlike the availability count this includes
// requested offers, so a courier holds at most one open offer at a time.
func (r *TxRepo) FindLiveAssignmentByCourier(ctx context.Context, courierID int64) (*domain.Assignment, error) {
	row := r.tx.QueryRow(ctx, `
        SELECT id, order_id, courier_id, status, assigned_at, picked_up_at, delivered_at
        FROM assignments
        WHERE courier_id = $1
          AND status IN ('requested', 'assigned', 'picked_up')
        FOR UPDATE
        LIMIT 1
    `, courierID)

	var a domain.Assignment
	if err := row.Scan(&a.ID, &a.OrderID, &a.CourierID, &a.Status,
		&a.AssignedAt, &a.PickedUpAt, &a.DeliveredAt); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find live assignment for courier %d: %w", courierID, err)
	}
	return &a, nil
}

// CountLiveAssignmentsByCourier - count assignments that commit the courier.
// Requested offers do not block availability changes, only assigned and
// picked-up work does.
func (r *TxRepo) CountLiveAssignmentsByCourier(ctx context.Context, courierID int64) (int64, error) {
	var n int64
	err := r.tx.QueryRow(ctx, `
        SELECT COUNT(*)
        FROM assignments
        WHERE courier_id = $1
          AND status IN ('assigned', 'picked_up')
    `, courierID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count live assignments for courier %d: %w", courierID, err)
	}
	return n, nil
}

// UpdateAssignment - persist assignment status and timestamps.
func (r *TxRepo) UpdateAssignment(ctx context.Context, a *domain.Assignment) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE assignments
        SET status = $2, picked_up_at = $3, delivered_at = $4
        WHERE id = $1
    `, a.ID, string(a.Status), a.PickedUpAt, a.DeliveredAt)
	if err != nil {
		return fmt.Errorf("update assignment %d: %w", a.ID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("assignment %d not found", a.ID)
	}
	return nil
}

// GetCourierForUpdate - get courier by ID with a row lock. This lock is the
// serialization point for racing dispatch requests.
func (r *TxRepo) GetCourierForUpdate(ctx context.Context, id int64) (*domain.Courier, error) {
	row := r.tx.QueryRow(ctx, `
        SELECT id, name, phone, availability, earnings_cents
        FROM couriers
        WHERE id = $1
        FOR UPDATE
    `, id)

	var c domain.Courier
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Availability, &c.EarningsCents); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get courier %d for update: %w", id, err)
	}
	return &c, nil
}

// UpdateCourierAvailability - update courier availability.
func (r *TxRepo) UpdateCourierAvailability(ctx context.Context, id int64, availability domain.CourierAvailability) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE couriers
        SET availability = $2, updated_at = now()
        WHERE id = $1
    `, id, string(availability))
	if err != nil {
		return fmt.Errorf("update courier availability %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("courier %d not found", id)
	}
	return nil
}

// CreditCourierEarnings - add the delivered order's share to the courier's
// earnings. Amounts are never subtracted here.
func (r *TxRepo) CreditCourierEarnings(ctx context.Context, id int64, cents int64) error {
	if cents < 0 {
		return fmt.Errorf("credit courier %d: negative amount %d", id, cents)
	}
	ct, err := r.tx.Exec(ctx, `
        UPDATE couriers
        SET earnings_cents = earnings_cents + $2, updated_at = now()
        WHERE id = $1
    `, id, cents)
	if err != nil {
		return fmt.Errorf("credit courier %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("courier %d not found", id)
	}
	return nil
}

// InsertPayment - insert the order's payment. The one-payment-per-order
// invariant rests on the unique index over order_id.
func (r *TxRepo) InsertPayment(ctx context.Context, p *domain.Payment) error {
	err := r.tx.QueryRow(ctx, `
        INSERT INTO payments (order_id, customer_id, amount_cents, method, status, transaction_ref, paid_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `, p.OrderID, p.CustomerID, p.AmountCents, string(p.Method), string(p.Status), p.TransactionRef, p.PaidAt).Scan(&p.ID)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.ErrConflict
		}
		return fmt.Errorf("insert payment for order %d: %w", p.OrderID, err)
	}
	return nil
}

// GetPaymentForUpdate - get payment by ID with a row lock.
func (r *TxRepo) GetPaymentForUpdate(ctx context.Context, id int64) (*domain.Payment, error) {
	row := r.tx.QueryRow(ctx, `
        SELECT id, order_id, customer_id, amount_cents, method, status, transaction_ref, paid_at
        FROM payments
        WHERE id = $1
        FOR UPDATE
    `, id)

	var p domain.Payment
	if err := row.Scan(&p.ID, &p.OrderID, &p.CustomerID, &p.AmountCents,
		&p.Method, &p.Status, &p.TransactionRef, &p.PaidAt); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment %d for update: %w", id, err)
	}
	return &p, nil
}

// GetPaymentByOrderForUpdate - get the order's payment with a row lock.
func (r *TxRepo) GetPaymentByOrderForUpdate(ctx context.Context, orderID int64) (*domain.Payment, error) {
	row := r.tx.QueryRow(ctx, `
        SELECT id, order_id, customer_id, amount_cents, method, status, transaction_ref, paid_at
        FROM payments
        WHERE order_id = $1
        FOR UPDATE
    `, orderID)

	var p domain.Payment
	if err := row.Scan(&p.ID, &p.OrderID, &p.CustomerID, &p.AmountCents,
		&p.Method, &p.Status, &p.TransactionRef, &p.PaidAt); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment for order %d: %w", orderID, err)
	}
	return &p, nil
}

// UpdatePayment - persist payment status, transaction reference and paid
// timestamp. The amount is intentionally not part of the statement.
func (r *TxRepo) UpdatePayment(ctx context.Context, p *domain.Payment) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE payments
        SET status = $2, transaction_ref = $3, paid_at = $4
        WHERE id = $1
    `, p.ID, string(p.Status), p.TransactionRef, p.PaidAt)
	if err != nil {
		return fmt.Errorf("update payment %d: %w", p.ID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("payment %d not found", p.ID)
	}
	return nil
}
