package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"food-dispatch/internal/apperr"
	"food-dispatch/internal/domain"
	"food-dispatch/internal/logx"
	"food-dispatch/internal/service/orders"
)

// OrderHandler serves HTTP endpoints for order resources.
type OrderHandler struct {
	uc     ordersUsecase
	logger logx.Logger
}

// NewOrderHandler wires an ordersUsecase into HTTP handlers.
func NewOrderHandler(logger logx.Logger, uc ordersUsecase) *OrderHandler {
	return &OrderHandler{uc: uc, logger: logger}
}

// Place handles POST /orders. The customer places for themselves; the actor
// id is the customer id.
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid actor headers")
		return
	}
	if actor.Role != domain.RoleCustomer {
		writeError(h.logger, w, r, http.StatusForbidden, "only customers place orders")
		return
	}

	var req placeOrderRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	in := orders.PlaceOrderInput{
		CustomerID:   actor.ID,
		RestaurantID: req.RestaurantID,
		AddressID:    req.AddressID,
		Method:       domain.PaymentMethod(req.PaymentMethod),
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, orders.PlaceOrderItem{MenuItemID: it.MenuItemID, Quantity: it.Quantity})
	}

	o, err := h.uc.Place(r.Context(), in)
	switch {
	case err == nil:
		w.Header().Set("Location", "/orders/"+strconv.FormatInt(o.ID, 10))
		writeJSON(h.logger, w, r, http.StatusCreated, orderToResponse(o))
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.ErrInvalidRelation):
		writeError(h.logger, w, r, http.StatusBadRequest, "address or menu item belongs to someone else")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "conflict")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Status handles POST /orders/{id}/status.
func (h *OrderHandler) Status(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid actor headers")
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req orderStatusRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	err = h.uc.Transition(r.Context(), id, domain.OrderStatus(req.Status), actor)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": req.Status})
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid status")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "order not found")
	case errors.Is(err, apperr.ErrForbidden):
		writeError(h.logger, w, r, http.StatusForbidden, "not allowed for this actor")
	case errors.Is(err, apperr.ErrInvalidTransition):
		writeError(h.logger, w, r, http.StatusUnprocessableEntity, "transition not allowed")
	case errors.Is(err, apperr.ErrInvalidState):
		writeError(h.logger, w, r, http.StatusConflict, "payment does not allow this status")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Cancel handles POST /orders/{id}/cancel.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid actor headers")
		return
	}
	if actor.Role != domain.RoleCustomer {
		writeError(h.logger, w, r, http.StatusForbidden, "only the customer cancels")
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	err = h.uc.Cancel(r.Context(), id, actor.ID)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": string(domain.OrderCancelled)})
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "order not found")
	case errors.Is(err, apperr.ErrForbidden):
		writeError(h.logger, w, r, http.StatusForbidden, "not your order")
	case errors.Is(err, apperr.ErrInvalidState):
		writeError(h.logger, w, r, http.StatusConflict, "order already in progress")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// GetByID handles GET /orders/{id}.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid actor headers")
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	o, err := h.uc.Get(r.Context(), id, actor)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, orderToResponse(o))
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "order not found")
	case errors.Is(err, apperr.ErrForbidden):
		writeError(h.logger, w, r, http.StatusForbidden, "not your order")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// ListMine handles GET /orders for customers.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid actor headers")
		return
	}
	if actor.Role != domain.RoleCustomer {
		writeError(h.logger, w, r, http.StatusForbidden, "customer listing only")
		return
	}

	list, err := h.uc.ListByCustomer(r.Context(), actor.ID)
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, ordersToResponse(list))
}
