package handlers

import (
	"errors"
	"net/http"

	"food-dispatch/internal/apperr"
	"food-dispatch/internal/domain"
	"food-dispatch/internal/gateway/cardpay"
	"food-dispatch/internal/logx"
)

// PaymentHandler serves HTTP endpoints for payment resources.
type PaymentHandler struct {
	uc     paymentsUsecase
	logger logx.Logger
}

// NewPaymentHandler wires a paymentsUsecase into HTTP handlers.
func NewPaymentHandler(logger logx.Logger, uc paymentsUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc, logger: logger}
}

// Process handles POST /payments/{id}/process.
func (h *PaymentHandler) Process(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid actor headers")
		return
	}
	if actor.Role != domain.RoleCustomer && actor.Role != domain.RoleAdmin {
		writeError(h.logger, w, r, http.StatusForbidden, "not allowed for this actor")
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	p, err := h.uc.Process(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, paymentToResponse(p))
	case errors.Is(err, cardpay.ErrDeclined):
		writeError(h.logger, w, r, http.StatusPaymentRequired, "card declined")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "payment not found")
	case errors.Is(err, apperr.ErrInvalidState):
		writeError(h.logger, w, r, http.StatusConflict, "cash settles at the door")
	case errors.Is(err, apperr.ErrInvalidTransition):
		writeError(h.logger, w, r, http.StatusUnprocessableEntity, "payment is not pending")
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "payment changed concurrently")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Retry handles POST /payments/{id}/retry.
func (h *PaymentHandler) Retry(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid actor headers")
		return
	}
	if actor.Role != domain.RoleCustomer && actor.Role != domain.RoleAdmin {
		writeError(h.logger, w, r, http.StatusForbidden, "not allowed for this actor")
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	err = h.uc.Retry(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": string(domain.PaymentPending)})
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "payment not found")
	case errors.Is(err, apperr.ErrInvalidTransition):
		writeError(h.logger, w, r, http.StatusUnprocessableEntity, "payment has not failed")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Refund handles POST /payments/{id}/refund.
func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid actor headers")
		return
	}
	if actor.Role != domain.RoleAdmin {
		writeError(h.logger, w, r, http.StatusForbidden, "refunds are operator-only")
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	err = h.uc.Refund(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": string(domain.PaymentRefunded)})
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "payment not found")
	case errors.Is(err, apperr.ErrInvalidTransition):
		writeError(h.logger, w, r, http.StatusUnprocessableEntity, "only completed payments are refunded")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// GetByOrder handles GET /payments/order/{orderID}.
func (h *PaymentHandler) GetByOrder(w http.ResponseWriter, r *http.Request) {
	if _, err := actorFromRequest(r); err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid actor headers")
		return
	}
	orderID, err := idFromURL(r, "orderID")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	p, err := h.uc.GetByOrder(r.Context(), orderID)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, paymentToResponse(p))
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "payment not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}
