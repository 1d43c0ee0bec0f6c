//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"food-dispatch/internal/domain"
	"food-dispatch/internal/repository"
)

type AssignmentRepositorySuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo *repository.AssignmentRepo

	customerID   int64
	restaurantID int64
	addressID    int64
	courierID    int64
}

func (s *AssignmentRepositorySuite) SetupSuite() {
	s.Require().NotNil(tcPool, "tcPool must be initialized in TestMain")

	s.pool = tcPool
	s.repo = repository.NewAssignmentRepo(tcPool)
}

func (s *AssignmentRepositorySuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(truncateAll(ctx, s.pool))

	var err error
	s.customerID, err = seedCustomer(ctx, s.pool, "Alice")
	s.Require().NoError(err)
	s.restaurantID, err = seedRestaurant(ctx, s.pool, "Pizzeria")
	s.Require().NoError(err)
	s.addressID, err = seedAddress(ctx, s.pool, s.customerID)
	s.Require().NoError(err)

	err = s.pool.QueryRow(ctx, `
		INSERT INTO couriers (name, phone, availability)
		VALUES ('Bob', '+79990001122', 'available')
		RETURNING id
	`).Scan(&s.courierID)
	s.Require().NoError(err)
}

func (s *AssignmentRepositorySuite) seedAssignment(status domain.AssignmentStatus, assignedAt time.Time) (orderID, assignmentID int64) {
	ctx := context.Background()
	err := s.pool.QueryRow(ctx, `
		INSERT INTO orders (customer_id, restaurant_id, address_id, status, total_cents)
		VALUES ($1, $2, $3, 'processing', 1000)
		RETURNING id
	`, s.customerID, s.restaurantID, s.addressID).Scan(&orderID)
	s.Require().NoError(err)

	err = s.pool.QueryRow(ctx, `
		INSERT INTO assignments (order_id, courier_id, status, assigned_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, orderID, s.courierID, string(status), assignedAt).Scan(&assignmentID)
	s.Require().NoError(err)
	return orderID, assignmentID
}

func (s *AssignmentRepositorySuite) TestGet() {
	orderID, assignmentID := s.seedAssignment(domain.AssignmentAssigned, time.Now().UTC())

	got, err := s.repo.Get(context.Background(), assignmentID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(orderID, got.OrderID)
	s.Equal(s.courierID, got.CourierID)
	s.Equal(domain.AssignmentAssigned, got.Status)
	s.Nil(got.PickedUpAt)
}

func (s *AssignmentRepositorySuite) TestGet_NotFound() {
	got, err := s.repo.Get(context.Background(), 424242)
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *AssignmentRepositorySuite) TestListByCourier_NewestFirst() {
	base := time.Now().UTC().Truncate(time.Second)
	_, oldID := s.seedAssignment(domain.AssignmentDelivered, base.Add(-2*time.Hour))
	_, newID := s.seedAssignment(domain.AssignmentAssigned, base)
	_, midID := s.seedAssignment(domain.AssignmentRejected, base.Add(-time.Hour))

	got, err := s.repo.ListByCourier(context.Background(), s.courierID)
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	s.Equal(newID, got[0].ID)
	s.Equal(midID, got[1].ID)
	s.Equal(oldID, got[2].ID)
}

func (s *AssignmentRepositorySuite) TestListByOrder_OldestFirst() {
	ctx := context.Background()
	orderID, firstID := s.seedAssignment(domain.AssignmentRejected, time.Now().UTC())

	var secondID int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO assignments (order_id, courier_id, status, assigned_at)
		VALUES ($1, $2, 'requested', now())
		RETURNING id
	`, orderID, s.courierID).Scan(&secondID)
	s.Require().NoError(err)

	got, err := s.repo.ListByOrder(ctx, orderID)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(firstID, got[0].ID)
	s.Equal(secondID, got[1].ID)
}

func (s *AssignmentRepositorySuite) TestListByCourier_Empty() {
	got, err := s.repo.ListByCourier(context.Background(), s.courierID)
	s.Require().NoError(err)
	s.Empty(got)
}

func TestAssignmentRepositorySuite(t *testing.T) {
	suite.Run(t, new(AssignmentRepositorySuite))
}
