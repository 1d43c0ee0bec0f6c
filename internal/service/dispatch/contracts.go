package dispatch

import (
	"context"

	"food-dispatch/internal/domain"
)

type assignmentReader interface {
	Get(ctx context.Context, id int64) (*domain.Assignment, error)
	ListByCourier(ctx context.Context, courierID int64) ([]domain.Assignment, error)
}

type orderReader interface {
	Get(ctx context.Context, id int64) (*domain.Order, error)
}

type conflictCounter interface{ Inc() }
