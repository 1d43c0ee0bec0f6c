package domain

import "time"

type (
	// AssignmentStatus represents the lifecycle state of a courier assignment.
	AssignmentStatus string
)

// Assignment - struct representing a dispatch offer to a courier and its
// progression through pickup and delivery. Terminal rows are kept as history.
type Assignment struct {
	ID          int64
	OrderID     int64
	CourierID   int64
	Status      AssignmentStatus
	AssignedAt  time.Time
	PickedUpAt  *time.Time
	DeliveredAt *time.Time
}

// DispatchResult - struct representing the outcome of a dispatch request.
type DispatchResult struct {
	AssignmentID int64
	OrderID      int64
	CourierID    int64
	Status       AssignmentStatus
	AssignedAt   time.Time
}

// DeliveryResult - struct representing the outcome of the delivered
// transition: the credited amount reflects the configured courier share.
type DeliveryResult struct {
	AssignmentID  int64
	OrderID       int64
	CourierID     int64
	CreditedCents int64
	DeliveredAt   time.Time
}
