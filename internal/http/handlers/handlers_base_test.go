package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"food-dispatch/internal/logx"
)

func TestHandlers_Ping(t *testing.T) {
	t.Parallel()

	h := New(logx.Nop())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rr := httptest.NewRecorder()

	h.Ping(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if body["message"] != "pong" {
		t.Fatalf(`expected message "pong", got %q`, body["message"])
	}
}

func TestHandlers_HealthcheckHead(t *testing.T) {
	t.Parallel()

	h := New(logx.Nop())

	req := httptest.NewRequest(http.MethodHead, "/healthcheck", nil)
	rr := httptest.NewRecorder()

	h.HealthcheckHead(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
}

func TestHandlers_NotFound(t *testing.T) {
	t.Parallel()

	h := New(logx.Nop())

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rr := httptest.NewRecorder()

	h.NotFound(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestActorFromRequest(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Actor-Role", " Courier ")
	req.Header.Set("X-Actor-ID", "11")

	actor, err := actorFromRequest(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if actor.Role != "courier" || actor.ID != 11 {
		t.Fatalf("unexpected actor: %+v", actor)
	}

	req.Header.Set("X-Actor-Role", "warlock")
	if _, err := actorFromRequest(req); err == nil {
		t.Fatal("expected error for unknown role")
	}

	req.Header.Set("X-Actor-Role", "courier")
	req.Header.Set("X-Actor-ID", "0")
	if _, err := actorFromRequest(req); err == nil {
		t.Fatal("expected error for non-positive id")
	}
}
