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

type PaymentRepositorySuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo *repository.PaymentRepo

	customerID   int64
	restaurantID int64
	addressID    int64
}

func (s *PaymentRepositorySuite) SetupSuite() {
	s.Require().NotNil(tcPool, "tcPool must be initialized in TestMain")

	s.pool = tcPool
	s.repo = repository.NewPaymentRepo(tcPool)
}

func (s *PaymentRepositorySuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(truncateAll(ctx, s.pool))

	var err error
	s.customerID, err = seedCustomer(ctx, s.pool, "Alice")
	s.Require().NoError(err)
	s.restaurantID, err = seedRestaurant(ctx, s.pool, "Pizzeria")
	s.Require().NoError(err)
	s.addressID, err = seedAddress(ctx, s.pool, s.customerID)
	s.Require().NoError(err)
}

func (s *PaymentRepositorySuite) seedOrderWithPayment(method domain.PaymentMethod, status domain.PaymentStatus, ref string) (orderID, paymentID int64) {
	ctx := context.Background()
	err := s.pool.QueryRow(ctx, `
		INSERT INTO orders (customer_id, restaurant_id, address_id, status, total_cents)
		VALUES ($1, $2, $3, 'pending', 1500)
		RETURNING id
	`, s.customerID, s.restaurantID, s.addressID).Scan(&orderID)
	s.Require().NoError(err)

	var paidAt *time.Time
	if status == domain.PaymentCompleted {
		now := time.Now().UTC()
		paidAt = &now
	}
	err = s.pool.QueryRow(ctx, `
		INSERT INTO payments (order_id, customer_id, amount_cents, method, status, transaction_ref, paid_at)
		VALUES ($1, $2, 1500, $3, $4, $5, $6)
		RETURNING id
	`, orderID, s.customerID, string(method), string(status), ref, paidAt).Scan(&paymentID)
	s.Require().NoError(err)
	return orderID, paymentID
}

func (s *PaymentRepositorySuite) TestGet() {
	_, paymentID := s.seedOrderWithPayment(domain.MethodCard, domain.PaymentCompleted, "txn-42")

	got, err := s.repo.Get(context.Background(), paymentID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(domain.MethodCard, got.Method)
	s.Equal(domain.PaymentCompleted, got.Status)
	s.Equal("txn-42", got.TransactionRef)
	s.Require().NotNil(got.PaidAt)
}

func (s *PaymentRepositorySuite) TestGet_NotFound() {
	got, err := s.repo.Get(context.Background(), 424242)
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *PaymentRepositorySuite) TestGetByOrder() {
	orderID, paymentID := s.seedOrderWithPayment(domain.MethodCOD, domain.PaymentPending, "")

	got, err := s.repo.GetByOrder(context.Background(), orderID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(paymentID, got.ID)
	s.Equal(domain.MethodCOD, got.Method)
	s.Nil(got.PaidAt)
}

func (s *PaymentRepositorySuite) TestGetByOrder_NotFound() {
	got, err := s.repo.GetByOrder(context.Background(), 424242)
	s.Require().NoError(err)
	s.Nil(got)
}

func TestPaymentRepositorySuite(t *testing.T) {
	suite.Run(t, new(PaymentRepositorySuite))
}
