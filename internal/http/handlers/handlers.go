package handlers

import (
	"net/http"

	"food-dispatch/internal/logx"
)

// Handlers carries the shared dependencies of the plain service endpoints
// (liveness, not-found); the domain surfaces have their own handler types.
type Handlers struct {
	Logger logx.Logger
}

// New creates the base handler set.
func New(logger logx.Logger) *Handlers {
	return &Handlers{Logger: logger}
}

// Ping answers GET /ping with {"message":"pong"}.
func (h *Handlers) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.Logger, w, r, http.StatusOK, map[string]string{"message": "pong"})
}

// HealthcheckHead answers HEAD /healthcheck with 204 and no body.
func (h *Handlers) HealthcheckHead(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// NotFound answers unknown routes with a JSON 404.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(h.Logger, w, r, http.StatusNotFound, "route not found")
}
