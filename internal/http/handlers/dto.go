package handlers

import "time"

type placeOrderItemRequest struct {
	MenuItemID int64 `json:"menu_item_id"`
	Quantity   int   `json:"quantity"`
}

type placeOrderRequest struct {
	RestaurantID  int64                   `json:"restaurant_id"`
	AddressID     int64                   `json:"address_id"`
	PaymentMethod string                  `json:"payment_method"`
	Items         []placeOrderItemRequest `json:"items"`
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

type orderItemDTO struct {
	MenuItemID    int64 `json:"menu_item_id"`
	Quantity      int   `json:"quantity"`
	SubtotalCents int64 `json:"subtotal_cents"`
}

type orderDTO struct {
	ID           int64          `json:"id"`
	CustomerID   int64          `json:"customer_id"`
	RestaurantID int64          `json:"restaurant_id"`
	AddressID    int64          `json:"address_id"`
	Status       string         `json:"status"`
	TotalCents   int64          `json:"total_cents"`
	Items        []orderItemDTO `json:"items,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	DeliveredAt  *time.Time     `json:"delivered_at,omitempty"`
}

type dispatchRequest struct {
	OrderID   int64 `json:"order_id"`
	CourierID int64 `json:"courier_id"`
}

type assignmentStatusRequest struct {
	Status string `json:"status"`
}

type assignmentDTO struct {
	ID          int64      `json:"id"`
	OrderID     int64      `json:"order_id"`
	CourierID   int64      `json:"courier_id"`
	Status      string     `json:"status"`
	AssignedAt  time.Time  `json:"assigned_at"`
	PickedUpAt  *time.Time `json:"picked_up_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

type dispatchResultDTO struct {
	AssignmentID int64     `json:"assignment_id"`
	OrderID      int64     `json:"order_id"`
	CourierID    int64     `json:"courier_id"`
	Status       string    `json:"status"`
	AssignedAt   time.Time `json:"assigned_at"`
}

type deliveryResultDTO struct {
	AssignmentID  int64     `json:"assignment_id"`
	OrderID       int64     `json:"order_id"`
	CourierID     int64     `json:"courier_id"`
	CreditedCents int64     `json:"credited_cents"`
	DeliveredAt   time.Time `json:"delivered_at"`
}

type paymentDTO struct {
	ID             int64      `json:"id"`
	OrderID        int64      `json:"order_id"`
	AmountCents    int64      `json:"amount_cents"`
	Method         string     `json:"method"`
	Status         string     `json:"status"`
	TransactionRef string     `json:"transaction_ref,omitempty"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
}

type createCourierRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type courierAvailabilityRequest struct {
	Availability string `json:"availability"`
}

type courierDTO struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Availability  string `json:"availability"`
	EarningsCents int64  `json:"earnings_cents"`
}
