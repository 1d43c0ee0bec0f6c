package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"food-dispatch/internal/logx"
)

type stubLimiter struct {
	allow    bool
	lastKey  string
	numCalls int
}

func (s *stubLimiter) Allow(key string) bool {
	s.lastKey = key
	s.numCalls++
	return s.allow
}

func serveOnce(t *testing.T, m *Middleware, next http.Handler) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(http.MethodPost, "http://example/dispatch/request", nil)
	r.RemoteAddr = "203.0.113.9:5678"
	w := httptest.NewRecorder()
	m.Handler()(next).ServeHTTP(w, r)
	return w
}

func TestMiddleware_AdmittedRequestReachesNext(t *testing.T) {
	t.Parallel()

	nextCalled := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled++
		w.WriteHeader(http.StatusOK)
	})

	lim := &stubLimiter{allow: true}
	w := serveOnce(t, New(logx.Nop(), nil, lim), next)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, nextCalled)
	require.Equal(t, "203.0.113.9", lim.lastKey, "limiter keyed by client IP without port")
}

func TestMiddleware_RefusedRequestGets429(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next must not run for a refused request")
	})

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ratelimit_denied_total",
		Help: "denied requests",
	})

	w := serveOnce(t, New(logx.Nop(), counter, &stubLimiter{allow: false}), next)

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.Equal(t, "1", w.Header().Get("Retry-After"))
	require.JSONEq(t, `{"error":"too many requests"}`, w.Body.String())
	require.Equal(t, float64(1), testutil.ToFloat64(counter))
}

func TestNew_NilLimiterAdmitsEverything(t *testing.T) {
	t.Parallel()

	nextCalled := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled++
		w.WriteHeader(http.StatusOK)
	})

	w := serveOnce(t, New(logx.Nop(), nil, nil), next)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, nextCalled)
}
