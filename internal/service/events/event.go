package events

import (
	"time"
)

// Event is a single order event from the marketplace side.
type Event struct {
	OrderID   int64     `json:"order_id"`
	Status    string    `json:"status"`
	Method    string    `json:"payment_method,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
