package domain

// List of possible order statuses
const (
	OrderPending        OrderStatus = "pending"
	OrderProcessing     OrderStatus = "processing"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

// List of possible assignment statuses. An accepted offer is promoted to
// Assigned in the same transaction, so "accepted" is never persisted.
const (
	AssignmentRequested AssignmentStatus = "requested"
	AssignmentAssigned  AssignmentStatus = "assigned"
	AssignmentPickedUp  AssignmentStatus = "picked_up"
	AssignmentDelivered AssignmentStatus = "delivered"
	AssignmentRejected  AssignmentStatus = "rejected"
	AssignmentCancelled AssignmentStatus = "cancelled"
)

// List of possible payment statuses
const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// List of possible payment methods
const (
	MethodCard PaymentMethod = "card"
	MethodCOD  PaymentMethod = "cash_on_delivery"
)

// List of possible courier availability states
const (
	CourierAvailable   CourierAvailability = "available"
	CourierUnavailable CourierAvailability = "unavailable"
)

var allowedOrderStatuses = [...]OrderStatus{
	OrderPending, OrderProcessing, OrderOutForDelivery, OrderDelivered, OrderCancelled,
}

var allowedAssignmentStatuses = [...]AssignmentStatus{
	AssignmentRequested, AssignmentAssigned, AssignmentPickedUp,
	AssignmentDelivered, AssignmentRejected, AssignmentCancelled,
}

var allowedPaymentStatuses = [...]PaymentStatus{
	PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded,
}

var allowedPaymentMethods = [...]PaymentMethod{MethodCard, MethodCOD}

var allowedAvailabilities = [...]CourierAvailability{CourierAvailable, CourierUnavailable}

// Valid checks if the OrderStatus is valid
func (s OrderStatus) Valid() bool {
	for _, v := range allowedOrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether the order status admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CanTransitionTo reports whether the edge s -> target exists in the order
// state machine. Cancellation is reachable only from pending.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderPending:
		return target == OrderProcessing || target == OrderCancelled
	case OrderProcessing:
		return target == OrderOutForDelivery
	case OrderOutForDelivery:
		return target == OrderDelivered
	default:
		return false
	}
}

// Valid checks if the AssignmentStatus is valid
func (s AssignmentStatus) Valid() bool {
	for _, v := range allowedAssignmentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Live reports whether the assignment still blocks the order from being
// re-dispatched. Delivered, rejected and cancelled are terminal.
func (s AssignmentStatus) Live() bool {
	switch s {
	case AssignmentRequested, AssignmentAssigned, AssignmentPickedUp:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the edge s -> target exists in the
// assignment state machine.
func (s AssignmentStatus) CanTransitionTo(target AssignmentStatus) bool {
	switch s {
	case AssignmentRequested:
		return target == AssignmentAssigned || target == AssignmentRejected
	case AssignmentAssigned:
		return target == AssignmentPickedUp || target == AssignmentCancelled
	case AssignmentPickedUp:
		return target == AssignmentDelivered || target == AssignmentCancelled
	default:
		return false
	}
}

// Valid checks if the PaymentStatus is valid
func (s PaymentStatus) Valid() bool {
	for _, v := range allowedPaymentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the edge s -> target exists in the payment
// state machine. Failed payments may be retried back to pending; refunded is
// terminal.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	switch s {
	case PaymentPending:
		return target == PaymentCompleted || target == PaymentFailed
	case PaymentCompleted:
		return target == PaymentRefunded
	case PaymentFailed:
		return target == PaymentPending
	default:
		return false
	}
}

// Valid checks if the PaymentMethod is valid
func (m PaymentMethod) Valid() bool {
	for _, v := range allowedPaymentMethods {
		if m == v {
			return true
		}
	}
	return false
}

// Valid checks if the CourierAvailability is valid
func (a CourierAvailability) Valid() bool {
	for _, v := range allowedAvailabilities {
		if a == v {
			return true
		}
	}
	return false
}
