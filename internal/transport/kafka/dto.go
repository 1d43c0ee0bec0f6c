package kafka

import (
	"strings"
	"time"

	"food-dispatch/internal/service/events"
)

// EventDTO is a data transfer object for events.Event
type EventDTO struct {
	OrderID   int64     `json:"order_id"`
	Status    string    `json:"status"`
	Method    string    `json:"payment_method,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToDomain converts EventDTO to events.Event
func ToDomain(dto EventDTO) events.Event {
	return events.Event{
		OrderID:   dto.OrderID,
		Status:    strings.TrimSpace(dto.Status),
		Method:    strings.TrimSpace(dto.Method),
		CreatedAt: dto.CreatedAt,
	}
}
