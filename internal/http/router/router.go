package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"food-dispatch/internal/http/handlers"
	"food-dispatch/internal/http/middleware"
	"food-dispatch/internal/http/middleware/ratelimit"
	"food-dispatch/internal/logx"
)

// New constructs a chi-based http.Handler with base middleware and routes.
func New(
	logger logx.Logger,
	base *handlers.Handlers,
	order *handlers.OrderHandler,
	dispatch *handlers.DispatchHandler,
	payment *handlers.PaymentHandler,
	courier *handlers.CourierHandler,
	limiter *ratelimit.Middleware,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Observability(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(5 * time.Second))
	if limiter != nil {
		r.Use(limiter.Handler())
	}

	r.Get("/ping", base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(base.HealthcheckHead))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.NotFound(http.HandlerFunc(base.NotFound))

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", order.Place)
		r.Get("/", order.ListMine)
		r.Get("/{id}", order.GetByID)
		r.Post("/{id}/status", order.Status)
		r.Post("/{id}/cancel", order.Cancel)
	})

	r.Route("/dispatch", func(r chi.Router) {
		r.Post("/request", dispatch.Request)
		r.Get("/{id}", dispatch.GetByID)
		r.Post("/{id}/accept", dispatch.Accept)
		r.Post("/{id}/reject", dispatch.Reject)
		r.Post("/{id}/status", dispatch.Status)
	})

	r.Route("/payments", func(r chi.Router) {
		r.Post("/{id}/process", payment.Process)
		r.Post("/{id}/retry", payment.Retry)
		r.Post("/{id}/refund", payment.Refund)
		r.Get("/order/{orderID}", payment.GetByOrder)
	})

	r.Post("/courier", courier.Create)
	r.Get("/courier/{id}", courier.GetByID)
	r.Post("/courier/{id}/availability", courier.SetAvailability)
	r.Get("/couriers", courier.List)
	r.Get("/couriers/{id}/history", dispatch.History)

	return r
}
