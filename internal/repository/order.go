package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"food-dispatch/internal/domain"
)

// OrderRepo represents the read side of order storage.
type OrderRepo struct{ db *pgxpool.Pool }

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(db *pgxpool.Pool) *OrderRepo { return &OrderRepo{db: db} }

// Get - returns order by its ID, including line items.
func (r *OrderRepo) Get(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.QueryRow(ctx, `
        SELECT id, customer_id, restaurant_id, address_id, status, total_cents, created_at, delivered_at
        FROM orders WHERE id = $1
    `, id).Scan(&o.ID, &o.CustomerID, &o.RestaurantID, &o.AddressID,
		&o.Status, &o.TotalCents, &o.CreatedAt, &o.DeliveredAt)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}

	items, err := r.itemsByOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *OrderRepo) itemsByOrder(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, order_id, menu_item_id, quantity, subtotal_cents
        FROM order_items WHERE order_id = $1 ORDER BY id
    `, orderID)
	if err != nil {
		return nil, fmt.Errorf("list items for order %d: %w", orderID, err)
	}
	defer rows.Close()

	var out []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Quantity, &it.SubtotalCents); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ListByCustomer returns the customer's orders, newest first, without items.
func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, customer_id, restaurant_id, address_id, status, total_cents, created_at, delivered_at
        FROM orders WHERE customer_id = $1 ORDER BY created_at DESC, id DESC
    `, customerID)
	if err != nil {
		return nil, fmt.Errorf("list orders for customer %d: %w", customerID, err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.RestaurantID, &o.AddressID,
			&o.Status, &o.TotalCents, &o.CreatedAt, &o.DeliveredAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
