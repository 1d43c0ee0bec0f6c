package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"food-dispatch/internal/apperr"
	"food-dispatch/internal/domain"
	"food-dispatch/internal/http/handlers"
)

type stubDispatchUsecase struct {
	requestFn func(ctx context.Context, orderID, courierID int64) (*domain.DispatchResult, error)
	acceptFn  func(ctx context.Context, assignmentID, courierID int64) error
	rejectFn  func(ctx context.Context, assignmentID, courierID int64) error
	updateFn  func(ctx context.Context, assignmentID int64, target domain.AssignmentStatus, courierID int64) (*domain.DeliveryResult, error)
	getFn     func(ctx context.Context, id int64, actor domain.Actor) (*domain.Assignment, error)
	historyFn func(ctx context.Context, courierID int64) ([]domain.Assignment, error)
}

func (s *stubDispatchUsecase) Request(ctx context.Context, orderID, courierID int64) (*domain.DispatchResult, error) {
	if s.requestFn == nil {
		panic("Request not expected in this test")
	}
	return s.requestFn(ctx, orderID, courierID)
}

func (s *stubDispatchUsecase) Accept(ctx context.Context, assignmentID, courierID int64) error {
	if s.acceptFn == nil {
		panic("Accept not expected in this test")
	}
	return s.acceptFn(ctx, assignmentID, courierID)
}

func (s *stubDispatchUsecase) Reject(ctx context.Context, assignmentID, courierID int64) error {
	if s.rejectFn == nil {
		panic("Reject not expected in this test")
	}
	return s.rejectFn(ctx, assignmentID, courierID)
}

func (s *stubDispatchUsecase) UpdateStatus(ctx context.Context, assignmentID int64, target domain.AssignmentStatus, courierID int64) (*domain.DeliveryResult, error) {
	if s.updateFn == nil {
		panic("UpdateStatus not expected in this test")
	}
	return s.updateFn(ctx, assignmentID, target, courierID)
}

func (s *stubDispatchUsecase) GetAssignment(ctx context.Context, id int64, actor domain.Actor) (*domain.Assignment, error) {
	if s.getFn == nil {
		panic("GetAssignment not expected in this test")
	}
	return s.getFn(ctx, id, actor)
}

func (s *stubDispatchUsecase) CourierHistory(ctx context.Context, courierID int64) ([]domain.Assignment, error) {
	if s.historyFn == nil {
		panic("CourierHistory not expected in this test")
	}
	return s.historyFn(ctx, courierID)
}

func TestDispatchHandler_Request_OK(t *testing.T) {
	t.Parallel()

	assigned := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	uc := &stubDispatchUsecase{
		requestFn: func(ctx context.Context, orderID, courierID int64) (*domain.DispatchResult, error) {
			require.Equal(t, int64(7), orderID)
			require.Equal(t, int64(11), courierID)
			return &domain.DispatchResult{
				AssignmentID: 100,
				OrderID:      orderID,
				CourierID:    courierID,
				Status:       domain.AssignmentRequested,
				AssignedAt:   assigned,
			}, nil
		},
	}
	h := handlers.NewDispatchHandler(testLogger(), uc)

	body := `{"order_id":7,"courier_id":11}`
	req := asActor(newRequest(http.MethodPost, "/dispatch/request", strings.NewReader(body)), "restaurant", 3)
	rr := httptest.NewRecorder()
	h.Request(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		AssignmentID int64  `json:"assignment_id"`
		Status       string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Equal(t, int64(100), resp.AssignmentID)
	require.Equal(t, "requested", resp.Status)
}

func TestDispatchHandler_Request_CourierForbidden(t *testing.T) {
	t.Parallel()

	h := handlers.NewDispatchHandler(testLogger(), &stubDispatchUsecase{})

	body := `{"order_id":7,"courier_id":11}`
	req := asActor(newRequest(http.MethodPost, "/dispatch/request", strings.NewReader(body)), "courier", 11)
	rr := httptest.NewRecorder()
	h.Request(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestDispatchHandler_Request_LiveAssignmentConflict(t *testing.T) {
	t.Parallel()

	uc := &stubDispatchUsecase{
		requestFn: func(ctx context.Context, orderID, courierID int64) (*domain.DispatchResult, error) {
			return nil, apperr.ErrConflict
		},
	}
	h := handlers.NewDispatchHandler(testLogger(), uc)

	body := `{"order_id":7,"courier_id":11}`
	req := asActor(newRequest(http.MethodPost, "/dispatch/request", strings.NewReader(body)), "restaurant", 3)
	rr := httptest.NewRecorder()
	h.Request(rr, req)

	require.Equal(t, http.StatusConflict, rr.Code)
	require.JSONEq(t, `{"error":"order already has a live assignment"}`, rr.Body.String())
}

func TestDispatchHandler_Request_CourierBusy(t *testing.T) {
	t.Parallel()

	uc := &stubDispatchUsecase{
		requestFn: func(ctx context.Context, orderID, courierID int64) (*domain.DispatchResult, error) {
			return nil, apperr.ErrUnavailable
		},
	}
	h := handlers.NewDispatchHandler(testLogger(), uc)

	body := `{"order_id":7,"courier_id":11}`
	req := asActor(newRequest(http.MethodPost, "/dispatch/request", strings.NewReader(body)), "admin", 1)
	rr := httptest.NewRecorder()
	h.Request(rr, req)

	require.Equal(t, http.StatusConflict, rr.Code)
	require.JSONEq(t, `{"error":"courier is not available"}`, rr.Body.String())
}

func TestDispatchHandler_Request_ZeroIDs(t *testing.T) {
	t.Parallel()

	h := handlers.NewDispatchHandler(testLogger(), &stubDispatchUsecase{})

	body := `{"order_id":0,"courier_id":11}`
	req := asActor(newRequest(http.MethodPost, "/dispatch/request", strings.NewReader(body)), "restaurant", 3)
	rr := httptest.NewRecorder()
	h.Request(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDispatchHandler_Accept_OK(t *testing.T) {
	t.Parallel()

	uc := &stubDispatchUsecase{
		acceptFn: func(ctx context.Context, assignmentID, courierID int64) error {
			require.Equal(t, int64(100), assignmentID)
			require.Equal(t, int64(11), courierID)
			return nil
		},
	}
	h := handlers.NewDispatchHandler(testLogger(), uc)

	req := asActor(newRequest(http.MethodPost, "/dispatch/100/accept", nil), "courier", 11)
	req = withURLParam(req, "id", "100")
	rr := httptest.NewRecorder()
	h.Accept(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"status":"assigned"}`, rr.Body.String())
}

func TestDispatchHandler_Accept_AlreadyAnswered(t *testing.T) {
	t.Parallel()

	uc := &stubDispatchUsecase{
		acceptFn: func(ctx context.Context, assignmentID, courierID int64) error {
			return apperr.ErrInvalidState
		},
	}
	h := handlers.NewDispatchHandler(testLogger(), uc)

	req := asActor(newRequest(http.MethodPost, "/dispatch/100/accept", nil), "courier", 11)
	req = withURLParam(req, "id", "100")
	rr := httptest.NewRecorder()
	h.Accept(rr, req)

	require.Equal(t, http.StatusConflict, rr.Code)
	require.JSONEq(t, `{"error":"offer already answered"}`, rr.Body.String())
}

func TestDispatchHandler_Reject_OK(t *testing.T) {
	t.Parallel()

	uc := &stubDispatchUsecase{
		rejectFn: func(ctx context.Context, assignmentID, courierID int64) error {
			return nil
		},
	}
	h := handlers.NewDispatchHandler(testLogger(), uc)

	req := asActor(newRequest(http.MethodPost, "/dispatch/100/reject", nil), "courier", 11)
	req = withURLParam(req, "id", "100")
	rr := httptest.NewRecorder()
	h.Reject(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"status":"rejected"}`, rr.Body.String())
}

func TestDispatchHandler_Answer_RestaurantForbidden(t *testing.T) {
	t.Parallel()

	h := handlers.NewDispatchHandler(testLogger(), &stubDispatchUsecase{})

	req := asActor(newRequest(http.MethodPost, "/dispatch/100/accept", nil), "restaurant", 3)
	req = withURLParam(req, "id", "100")
	rr := httptest.NewRecorder()
	h.Accept(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestDispatchHandler_Status_PickedUp(t *testing.T) {
	t.Parallel()

	uc := &stubDispatchUsecase{
		updateFn: func(ctx context.Context, assignmentID int64, target domain.AssignmentStatus, courierID int64) (*domain.DeliveryResult, error) {
			require.Equal(t, int64(100), assignmentID)
			require.Equal(t, domain.AssignmentPickedUp, target)
			require.Equal(t, int64(11), courierID)
			return nil, nil
		},
	}
	h := handlers.NewDispatchHandler(testLogger(), uc)

	req := asActor(newRequest(http.MethodPost, "/dispatch/100/status", strings.NewReader(`{"status":"picked_up"}`)), "courier", 11)
	req = withURLParam(req, "id", "100")
	rr := httptest.NewRecorder()
	h.Status(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"status":"picked_up"}`, rr.Body.String())
}

func TestDispatchHandler_Status_Delivered_ReturnsDeliveryResult(t *testing.T) {
	t.Parallel()

	deliveredAt := time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC)
	uc := &stubDispatchUsecase{
		updateFn: func(ctx context.Context, assignmentID int64, target domain.AssignmentStatus, courierID int64) (*domain.DeliveryResult, error) {
			return &domain.DeliveryResult{
				AssignmentID:  assignmentID,
				OrderID:       7,
				CourierID:     courierID,
				CreditedCents: 2000,
				DeliveredAt:   deliveredAt,
			}, nil
		},
	}
	h := handlers.NewDispatchHandler(testLogger(), uc)

	req := asActor(newRequest(http.MethodPost, "/dispatch/100/status", strings.NewReader(`{"status":"delivered"}`)), "courier", 11)
	req = withURLParam(req, "id", "100")
	rr := httptest.NewRecorder()
	h.Status(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		AssignmentID  int64 `json:"assignment_id"`
		CreditedCents int64 `json:"credited_cents"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Equal(t, int64(100), resp.AssignmentID)
	require.Equal(t, int64(2000), resp.CreditedCents)
}

func TestDispatchHandler_Status_AdminActsForAssignmentCourier(t *testing.T) {
	t.Parallel()

	uc := &stubDispatchUsecase{
		getFn: func(ctx context.Context, id int64, actor domain.Actor) (*domain.Assignment, error) {
			require.Equal(t, domain.RoleAdmin, actor.Role)
			return &domain.Assignment{ID: id, OrderID: 7, CourierID: 11, Status: domain.AssignmentAssigned}, nil
		},
		updateFn: func(ctx context.Context, assignmentID int64, target domain.AssignmentStatus, courierID int64) (*domain.DeliveryResult, error) {
			require.Equal(t, int64(11), courierID)
			require.Equal(t, domain.AssignmentCancelled, target)
			return nil, nil
		},
	}
	h := handlers.NewDispatchHandler(testLogger(), uc)

	req := asActor(newRequest(http.MethodPost, "/dispatch/100/status", strings.NewReader(`{"status":"cancelled"}`)), "admin", 1)
	req = withURLParam(req, "id", "100")
	rr := httptest.NewRecorder()
	h.Status(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
}

func TestDispatchHandler_Status_InvalidTransition(t *testing.T) {
	t.Parallel()

	uc := &stubDispatchUsecase{
		updateFn: func(ctx context.Context, assignmentID int64, target domain.AssignmentStatus, courierID int64) (*domain.DeliveryResult, error) {
			return nil, apperr.ErrInvalidTransition
		},
	}
	h := handlers.NewDispatchHandler(testLogger(), uc)

	req := asActor(newRequest(http.MethodPost, "/dispatch/100/status", strings.NewReader(`{"status":"delivered"}`)), "courier", 11)
	req = withURLParam(req, "id", "100")
	rr := httptest.NewRecorder()
	h.Status(rr, req)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestDispatchHandler_GetByID_OK(t *testing.T) {
	t.Parallel()

	uc := &stubDispatchUsecase{
		getFn: func(ctx context.Context, id int64, actor domain.Actor) (*domain.Assignment, error) {
			return &domain.Assignment{ID: id, OrderID: 7, CourierID: 11, Status: domain.AssignmentAssigned}, nil
		},
	}
	h := handlers.NewDispatchHandler(testLogger(), uc)

	req := asActor(newRequest(http.MethodGet, "/dispatch/100", nil), "courier", 11)
	req = withURLParam(req, "id", "100")
	rr := httptest.NewRecorder()
	h.GetByID(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Equal(t, int64(100), resp.ID)
	require.Equal(t, "assigned", resp.Status)
}

func TestDispatchHandler_History_ForeignCourierForbidden(t *testing.T) {
	t.Parallel()

	h := handlers.NewDispatchHandler(testLogger(), &stubDispatchUsecase{})

	req := asActor(newRequest(http.MethodGet, "/couriers/12/history", nil), "courier", 11)
	req = withURLParam(req, "id", "12")
	rr := httptest.NewRecorder()
	h.History(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestDispatchHandler_History_OK(t *testing.T) {
	t.Parallel()

	uc := &stubDispatchUsecase{
		historyFn: func(ctx context.Context, courierID int64) ([]domain.Assignment, error) {
			require.Equal(t, int64(11), courierID)
			return []domain.Assignment{
				{ID: 1, OrderID: 7, CourierID: 11, Status: domain.AssignmentDelivered},
				{ID: 2, OrderID: 9, CourierID: 11, Status: domain.AssignmentRejected},
			}, nil
		},
	}
	h := handlers.NewDispatchHandler(testLogger(), uc)

	req := asActor(newRequest(http.MethodGet, "/couriers/11/history", nil), "courier", 11)
	req = withURLParam(req, "id", "11")
	rr := httptest.NewRecorder()
	h.History(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp []struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp, 2)
}
