package handlers

import (
	"context"

	"food-dispatch/internal/domain"
	"food-dispatch/internal/service/couriers"
	"food-dispatch/internal/service/dispatch"
	"food-dispatch/internal/service/orders"
	"food-dispatch/internal/service/payments"
)

type ordersUsecase interface {
	Place(ctx context.Context, in orders.PlaceOrderInput) (*domain.Order, error)
	Transition(ctx context.Context, orderID int64, target domain.OrderStatus, actor domain.Actor) error
	Cancel(ctx context.Context, orderID, customerID int64) error
	Get(ctx context.Context, orderID int64, actor domain.Actor) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error)
}

// NewOrdersUsecase wires an orders.Service into an ordersUsecase.
func NewOrdersUsecase(svc *orders.Service) ordersUsecase {
	return svc
}

type dispatchUsecase interface {
	Request(ctx context.Context, orderID, courierID int64) (*domain.DispatchResult, error)
	Accept(ctx context.Context, assignmentID, courierID int64) error
	Reject(ctx context.Context, assignmentID, courierID int64) error
	UpdateStatus(ctx context.Context, assignmentID int64, target domain.AssignmentStatus, courierID int64) (*domain.DeliveryResult, error)
	GetAssignment(ctx context.Context, id int64, actor domain.Actor) (*domain.Assignment, error)
	CourierHistory(ctx context.Context, courierID int64) ([]domain.Assignment, error)
}

// NewDispatchUsecase wires a dispatch.Service into a dispatchUsecase.
func NewDispatchUsecase(svc *dispatch.Service) dispatchUsecase {
	return svc
}

type paymentsUsecase interface {
	Process(ctx context.Context, paymentID int64) (*domain.Payment, error)
	Retry(ctx context.Context, paymentID int64) error
	Refund(ctx context.Context, paymentID int64) error
	GetByOrder(ctx context.Context, orderID int64) (*domain.Payment, error)
}

// NewPaymentsUsecase wires a payments.Service into a paymentsUsecase.
func NewPaymentsUsecase(svc *payments.Service) paymentsUsecase {
	return svc
}

type courierUsecase interface {
	Create(ctx context.Context, name, phone string) (*domain.Courier, error)
	Get(ctx context.Context, id int64) (*domain.Courier, error)
	List(ctx context.Context, limit, offset *int) ([]domain.Courier, error)
	SetAvailability(ctx context.Context, courierID int64, target domain.CourierAvailability) error
}

// NewCourierUsecase wires a couriers.Service into a courierUsecase.
func NewCourierUsecase(svc *couriers.Service) courierUsecase {
	return svc
}
