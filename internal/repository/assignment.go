package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"food-dispatch/internal/domain"
)

// AssignmentRepo represents the read side of assignment storage.
type AssignmentRepo struct{ db *pgxpool.Pool }

// NewAssignmentRepo creates a new AssignmentRepo.
func NewAssignmentRepo(db *pgxpool.Pool) *AssignmentRepo { return &AssignmentRepo{db: db} }

const assignmentColumns = `id, order_id, courier_id, status, assigned_at, picked_up_at, delivered_at`

// Get - returns assignment by its ID.
func (r *AssignmentRepo) Get(ctx context.Context, id int64) (*domain.Assignment, error) {
	var a domain.Assignment
	err := r.db.QueryRow(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE id = $1`, id,
	).Scan(&a.ID, &a.OrderID, &a.CourierID, &a.Status, &a.AssignedAt, &a.PickedUpAt, &a.DeliveredAt)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assignment %d: %w", id, err)
	}
	return &a, nil
}

// ListByCourier returns the courier's assignment history, newest first.
func (r *AssignmentRepo) ListByCourier(ctx context.Context, courierID int64) ([]domain.Assignment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE courier_id = $1 ORDER BY assigned_at DESC, id DESC`,
		courierID)
	if err != nil {
		return nil, fmt.Errorf("list assignments for courier %d: %w", courierID, err)
	}
	defer rows.Close()

	var out []domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		if err := rows.Scan(&a.ID, &a.OrderID, &a.CourierID, &a.Status,
			&a.AssignedAt, &a.PickedUpAt, &a.DeliveredAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListByOrder returns all assignments ever made for the order, oldest first.
func (r *AssignmentRepo) ListByOrder(ctx context.Context, orderID int64) ([]domain.Assignment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE order_id = $1 ORDER BY id`,
		orderID)
	if err != nil {
		return nil, fmt.Errorf("list assignments for order %d: %w", orderID, err)
	}
	defer rows.Close()

	var out []domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		if err := rows.Scan(&a.ID, &a.OrderID, &a.CourierID, &a.Status,
			&a.AssignedAt, &a.PickedUpAt, &a.DeliveredAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
