package handlers

import (
	"errors"
	"net/http"

	"food-dispatch/internal/apperr"
	"food-dispatch/internal/domain"
	"food-dispatch/internal/logx"
)

// DispatchHandler serves HTTP endpoints for the assignment lifecycle.
type DispatchHandler struct {
	uc     dispatchUsecase
	logger logx.Logger
}

// NewDispatchHandler wires a dispatchUsecase into HTTP handlers.
func NewDispatchHandler(logger logx.Logger, uc dispatchUsecase) *DispatchHandler {
	return &DispatchHandler{uc: uc, logger: logger}
}

// Request handles POST /dispatch/request.
func (h *DispatchHandler) Request(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid actor headers")
		return
	}
	if actor.Role != domain.RoleRestaurant && actor.Role != domain.RoleAdmin {
		writeError(h.logger, w, r, http.StatusForbidden, "dispatching is for restaurants")
		return
	}

	var req dispatchRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.OrderID <= 0 || req.CourierID <= 0 {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
		return
	}

	res, err := h.uc.Request(r.Context(), req.OrderID, req.CourierID)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusCreated, dispatchResultToResponse(res))
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "order or courier not found")
	case errors.Is(err, apperr.ErrInvalidState):
		writeError(h.logger, w, r, http.StatusConflict, "order is not ready for dispatch")
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "order already has a live assignment")
	case errors.Is(err, apperr.ErrUnavailable):
		writeError(h.logger, w, r, http.StatusConflict, "courier is not available")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Accept handles POST /dispatch/{id}/accept.
func (h *DispatchHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.answer(w, r, true)
}

// Reject handles POST /dispatch/{id}/reject.
func (h *DispatchHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.answer(w, r, false)
}

func (h *DispatchHandler) answer(w http.ResponseWriter, r *http.Request, accept bool) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid actor headers")
		return
	}
	if actor.Role != domain.RoleCourier {
		writeError(h.logger, w, r, http.StatusForbidden, "only the courier answers an offer")
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	if accept {
		err = h.uc.Accept(r.Context(), id, actor.ID)
	} else {
		err = h.uc.Reject(r.Context(), id, actor.ID)
	}
	switch {
	case err == nil:
		status := domain.AssignmentAssigned
		if !accept {
			status = domain.AssignmentRejected
		}
		writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": string(status)})
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "assignment not found")
	case errors.Is(err, apperr.ErrForbidden):
		writeError(h.logger, w, r, http.StatusForbidden, "not your assignment")
	case errors.Is(err, apperr.ErrInvalidState):
		writeError(h.logger, w, r, http.StatusConflict, "offer already answered")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Status handles POST /dispatch/{id}/status.
func (h *DispatchHandler) Status(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid actor headers")
		return
	}
	if actor.Role != domain.RoleCourier && actor.Role != domain.RoleAdmin {
		writeError(h.logger, w, r, http.StatusForbidden, "not allowed for this actor")
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req assignmentStatusRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	courierID := actor.ID
	if actor.Role == domain.RoleAdmin {
		// an operator acts on behalf of the assignment's courier
		a, err := h.uc.GetAssignment(r.Context(), id, actor)
		if err != nil {
			writeError(h.logger, w, r, http.StatusNotFound, "assignment not found")
			return
		}
		courierID = a.CourierID
	}

	res, err := h.uc.UpdateStatus(r.Context(), id, domain.AssignmentStatus(req.Status), courierID)
	switch {
	case err == nil && res != nil:
		writeJSON(h.logger, w, r, http.StatusOK, deliveryResultToResponse(res))
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": req.Status})
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid status")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "assignment not found")
	case errors.Is(err, apperr.ErrForbidden):
		writeError(h.logger, w, r, http.StatusForbidden, "not your assignment")
	case errors.Is(err, apperr.ErrInvalidTransition):
		writeError(h.logger, w, r, http.StatusUnprocessableEntity, "transition not allowed")
	case errors.Is(err, apperr.ErrInvalidState):
		writeError(h.logger, w, r, http.StatusConflict, "order state does not allow this")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// GetByID handles GET /dispatch/{id}.
func (h *DispatchHandler) GetByID(w http.ResponseWriter, r *http.Request) {
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

	a, err := h.uc.GetAssignment(r.Context(), id, actor)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, assignmentToResponse(a))
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "assignment not found")
	case errors.Is(err, apperr.ErrForbidden):
		writeError(h.logger, w, r, http.StatusForbidden, "not your assignment")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// History handles GET /couriers/{id}/history.
func (h *DispatchHandler) History(w http.ResponseWriter, r *http.Request) {
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
	if actor.Role == domain.RoleCourier && actor.ID != id {
		writeError(h.logger, w, r, http.StatusForbidden, "not your history")
		return
	}

	list, err := h.uc.CourierHistory(r.Context(), id)
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, assignmentsToResponse(list))
}
