package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrInvalidRelation is returned when a referenced record exists but belongs
// to a different owner (address not owned by the customer, menu item not on
// the order's restaurant menu).
var ErrInvalidRelation = errors.New("invalid relation")

// ErrInvalidTransition indicates a status edge the state machine never
// permits, regardless of who asks.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrInvalidState indicates the operation exists but the record's current
// status does not satisfy its precondition (e.g. cancel on a non-pending order).
var ErrInvalidState = errors.New("invalid state")

// ErrConflict indicates a uniqueness or state conflict (HTTP 409): duplicate
// payment, duplicate live assignment, courier busy.
var ErrConflict = errors.New("conflict")

// ErrUnavailable is returned when the requested courier is not free to take a
// dispatch.
var ErrUnavailable = errors.New("courier unavailable")

// ErrForbidden is returned when the acting role or identity is not allowed to
// perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")
