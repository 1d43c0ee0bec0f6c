package domain

import "time"

type (
	// OrderStatus represents the lifecycle state of an order.
	OrderStatus string
)

// Order represents a placed marketplace order.
type Order struct {
	ID           int64
	CustomerID   int64
	RestaurantID int64
	AddressID    int64
	Status       OrderStatus
	TotalCents   int64
	Items        []OrderItem
	CreatedAt    time.Time
	DeliveredAt  *time.Time
}

// OrderItem is a single line of an order. Quantity and subtotal are frozen at
// placement; the subtotal snapshots the menu price so later menu edits do not
// change the order total.
type OrderItem struct {
	ID            int64
	OrderID       int64
	MenuItemID    int64
	Quantity      int
	SubtotalCents int64
}

// MenuItem is the slice of the catalog this core needs to price an order and
// check restaurant ownership.
type MenuItem struct {
	ID           int64
	RestaurantID int64
	Name         string
	PriceCents   int64
}

// Address is the slice of the address book this core needs to check customer
// ownership.
type Address struct {
	ID         int64
	CustomerID int64
}

// ItemsTotal sums line subtotals. For a consistent order it always equals
// TotalCents.
func (o *Order) ItemsTotal() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.SubtotalCents
	}
	return total
}
