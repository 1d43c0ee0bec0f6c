package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"

	"github.com/go-chi/chi/v5"

	"food-dispatch/internal/logx"
)

func testLogger() logx.Logger { return logx.Nop() }

func newRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func asActor(req *http.Request, role string, id int64) *http.Request {
	req.Header.Set("X-Actor-Role", role)
	req.Header.Set("X-Actor-ID", strconv.FormatInt(id, 10))
	return req
}

func withURLParam(req *http.Request, name, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(name, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}
