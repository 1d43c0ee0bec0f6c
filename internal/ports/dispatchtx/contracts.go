package dispatchtx

import (
	"context"
	"time"

	"food-dispatch/internal/domain"
)

// Repository is the transaction-scoped storage contract for the dispatch
// workflow. Every method runs inside the transaction opened by Runner.WithTx,
// so read-then-write sequences over orders, assignments, couriers and
// payments are atomic to observers. ForUpdate reads take row locks; the
// courier row is the serialization point for racing dispatch requests.
//
// Lock order inside a transaction is order → assignment → courier → payment.
type Repository interface {
	CustomerExists(ctx context.Context, id int64) (bool, error)
	RestaurantExists(ctx context.Context, id int64) (bool, error)
	GetAddress(ctx context.Context, id int64) (*domain.Address, error)
	GetMenuItem(ctx context.Context, id int64) (*domain.MenuItem, error)

	InsertOrder(ctx context.Context, o *domain.Order) error
	GetOrderForUpdate(ctx context.Context, id int64) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus, deliveredAt *time.Time) error

	InsertAssignment(ctx context.Context, a *domain.Assignment) error
	GetAssignmentForUpdate(ctx context.Context, id int64) (*domain.Assignment, error)
	FindLiveAssignmentByOrder(ctx context.Context, orderID int64) (*domain.Assignment, error)
	FindLiveAssignmentByCourier(ctx context.Context, courierID int64) (*domain.Assignment, error)
	CountLiveAssignmentsByCourier(ctx context.Context, courierID int64) (int64, error)
	UpdateAssignment(ctx context.Context, a *domain.Assignment) error

	GetCourierForUpdate(ctx context.Context, id int64) (*domain.Courier, error)
	UpdateCourierAvailability(ctx context.Context, id int64, availability domain.CourierAvailability) error
	CreditCourierEarnings(ctx context.Context, id int64, cents int64) error

	InsertPayment(ctx context.Context, p *domain.Payment) error
	GetPaymentForUpdate(ctx context.Context, id int64) (*domain.Payment, error)
	GetPaymentByOrderForUpdate(ctx context.Context, orderID int64) (*domain.Payment, error)
	UpdatePayment(ctx context.Context, p *domain.Payment) error
}

// Runner is a transaction runner
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
