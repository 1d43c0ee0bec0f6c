package orders

import (
	"context"

	"food-dispatch/internal/domain"
)

type orderReader interface {
	Get(ctx context.Context, id int64) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error)
}

// PlaceOrderInput is everything needed to place an order. Prices are not part
// of the input; they are read from the menu at placement time.
type PlaceOrderInput struct {
	CustomerID   int64
	RestaurantID int64
	AddressID    int64
	Method       domain.PaymentMethod
	Items        []PlaceOrderItem
}

// PlaceOrderItem is one requested line of a new order.
type PlaceOrderItem struct {
	MenuItemID int64
	Quantity   int
}
