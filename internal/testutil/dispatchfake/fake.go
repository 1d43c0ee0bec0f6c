// Package dispatchfake provides hand-written fakes of the dispatch
// transaction contract for service tests.
package dispatchfake

import (
	"context"
	"time"

	"food-dispatch/internal/domain"
	"food-dispatch/internal/ports/dispatchtx"
)

// Tx is a configurable fake of dispatchtx.Repository. Unset functions return
// zero values, which reads as "record absent".
type Tx struct {
	CustomerExistsFn   func(ctx context.Context, id int64) (bool, error)
	RestaurantExistsFn func(ctx context.Context, id int64) (bool, error)
	GetAddressFn       func(ctx context.Context, id int64) (*domain.Address, error)
	GetMenuItemFn      func(ctx context.Context, id int64) (*domain.MenuItem, error)

	InsertOrderFn       func(ctx context.Context, o *domain.Order) error
	GetOrderForUpdateFn func(ctx context.Context, id int64) (*domain.Order, error)
	UpdateOrderStatusFn func(ctx context.Context, id int64, status domain.OrderStatus, deliveredAt *time.Time) error

	InsertAssignmentFn              func(ctx context.Context, a *domain.Assignment) error
	GetAssignmentForUpdateFn        func(ctx context.Context, id int64) (*domain.Assignment, error)
	FindLiveAssignmentByOrderFn     func(ctx context.Context, orderID int64) (*domain.Assignment, error)
	FindLiveAssignmentByCourierFn   func(ctx context.Context, courierID int64) (*domain.Assignment, error)
	CountLiveAssignmentsByCourierFn func(ctx context.Context, courierID int64) (int64, error)
	UpdateAssignmentFn              func(ctx context.Context, a *domain.Assignment) error

	GetCourierForUpdateFn       func(ctx context.Context, id int64) (*domain.Courier, error)
	UpdateCourierAvailabilityFn func(ctx context.Context, id int64, availability domain.CourierAvailability) error
	CreditCourierEarningsFn     func(ctx context.Context, id int64, cents int64) error

	InsertPaymentFn              func(ctx context.Context, p *domain.Payment) error
	GetPaymentForUpdateFn        func(ctx context.Context, id int64) (*domain.Payment, error)
	GetPaymentByOrderForUpdateFn func(ctx context.Context, orderID int64) (*domain.Payment, error)
	UpdatePaymentFn              func(ctx context.Context, p *domain.Payment) error
}

var _ dispatchtx.Repository = (*Tx)(nil)

func (t *Tx) CustomerExists(ctx context.Context, id int64) (bool, error) {
	if t.CustomerExistsFn == nil {
		return false, nil
	}
	return t.CustomerExistsFn(ctx, id)
}

func (t *Tx) RestaurantExists(ctx context.Context, id int64) (bool, error) {
	if t.RestaurantExistsFn == nil {
		return false, nil
	}
	return t.RestaurantExistsFn(ctx, id)
}

func (t *Tx) GetAddress(ctx context.Context, id int64) (*domain.Address, error) {
	if t.GetAddressFn == nil {
		return nil, nil
	}
	return t.GetAddressFn(ctx, id)
}

func (t *Tx) GetMenuItem(ctx context.Context, id int64) (*domain.MenuItem, error) {
	if t.GetMenuItemFn == nil {
		return nil, nil
	}
	return t.GetMenuItemFn(ctx, id)
}

func (t *Tx) InsertOrder(ctx context.Context, o *domain.Order) error {
	if t.InsertOrderFn == nil {
		return nil
	}
	return t.InsertOrderFn(ctx, o)
}

func (t *Tx) GetOrderForUpdate(ctx context.Context, id int64) (*domain.Order, error) {
	if t.GetOrderForUpdateFn == nil {
		return nil, nil
	}
	return t.GetOrderForUpdateFn(ctx, id)
}

func (t *Tx) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus, deliveredAt *time.Time) error {
	if t.UpdateOrderStatusFn == nil {
		return nil
	}
	return t.UpdateOrderStatusFn(ctx, id, status, deliveredAt)
}

func (t *Tx) InsertAssignment(ctx context.Context, a *domain.Assignment) error {
	if t.InsertAssignmentFn == nil {
		return nil
	}
	return t.InsertAssignmentFn(ctx, a)
}

func (t *Tx) GetAssignmentForUpdate(ctx context.Context, id int64) (*domain.Assignment, error) {
	if t.GetAssignmentForUpdateFn == nil {
		return nil, nil
	}
	return t.GetAssignmentForUpdateFn(ctx, id)
}

func (t *Tx) FindLiveAssignmentByOrder(ctx context.Context, orderID int64) (*domain.Assignment, error) {
	if t.FindLiveAssignmentByOrderFn == nil {
		return nil, nil
	}
	return t.FindLiveAssignmentByOrderFn(ctx, orderID)
}

func (t *Tx) FindLiveAssignmentByCourier(ctx context.Context, courierID int64) (*domain.Assignment, error) {
	if t.FindLiveAssignmentByCourierFn == nil {
		return nil, nil
	}
	return t.FindLiveAssignmentByCourierFn(ctx, courierID)
}

func (t *Tx) CountLiveAssignmentsByCourier(ctx context.Context, courierID int64) (int64, error) {
	if t.CountLiveAssignmentsByCourierFn == nil {
		return 0, nil
	}
	return t.CountLiveAssignmentsByCourierFn(ctx, courierID)
}

func (t *Tx) UpdateAssignment(ctx context.Context, a *domain.Assignment) error {
	if t.UpdateAssignmentFn == nil {
		return nil
	}
	return t.UpdateAssignmentFn(ctx, a)
}

func (t *Tx) GetCourierForUpdate(ctx context.Context, id int64) (*domain.Courier, error) {
	if t.GetCourierForUpdateFn == nil {
		return nil, nil
	}
	return t.GetCourierForUpdateFn(ctx, id)
}

func (t *Tx) UpdateCourierAvailability(ctx context.Context, id int64, availability domain.CourierAvailability) error {
	if t.UpdateCourierAvailabilityFn == nil {
		return nil
	}
	return t.UpdateCourierAvailabilityFn(ctx, id, availability)
}

func (t *Tx) CreditCourierEarnings(ctx context.Context, id int64, cents int64) error {
	if t.CreditCourierEarningsFn == nil {
		return nil
	}
	return t.CreditCourierEarningsFn(ctx, id, cents)
}

func (t *Tx) InsertPayment(ctx context.Context, p *domain.Payment) error {
	if t.InsertPaymentFn == nil {
		return nil
	}
	return t.InsertPaymentFn(ctx, p)
}

func (t *Tx) GetPaymentForUpdate(ctx context.Context, id int64) (*domain.Payment, error) {
	if t.GetPaymentForUpdateFn == nil {
		return nil, nil
	}
	return t.GetPaymentForUpdateFn(ctx, id)
}

func (t *Tx) GetPaymentByOrderForUpdate(ctx context.Context, orderID int64) (*domain.Payment, error) {
	if t.GetPaymentByOrderForUpdateFn == nil {
		return nil, nil
	}
	return t.GetPaymentByOrderForUpdateFn(ctx, orderID)
}

func (t *Tx) UpdatePayment(ctx context.Context, p *domain.Payment) error {
	if t.UpdatePaymentFn == nil {
		return nil
	}
	return t.UpdatePaymentFn(ctx, p)
}

// Runner is a fake transaction runner that hands the configured Tx to fn.
type Runner struct {
	Tx    *Tx
	Err   error // returned without calling fn when set
	Calls int
}

var _ dispatchtx.Runner = (*Runner)(nil)

// WithTx executes fn against the fake Tx.
func (r *Runner) WithTx(ctx context.Context, fn func(tx dispatchtx.Repository) error) error {
	r.Calls++
	if r.Err != nil {
		return r.Err
	}
	tx := r.Tx
	if tx == nil {
		tx = &Tx{}
	}
	return fn(tx)
}
