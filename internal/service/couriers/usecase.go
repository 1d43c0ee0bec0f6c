package couriers

import (
	"context"
	"time"

	"food-dispatch/internal/apperr"
	"food-dispatch/internal/domain"
	"food-dispatch/internal/logx"
	"food-dispatch/internal/ports/dispatchtx"
)

// Service is the courier directory: registration, lookup, availability and
// earnings bookkeeping.
type Service struct {
	repo             dispatchtx.Runner
	reader           courierReader
	operationTimeout time.Duration
	logger           logx.Logger
}

func NewService(r dispatchtx.Runner, reader courierReader, timeout time.Duration, logger logx.Logger) *Service {
	return &Service{
		repo:             r,
		reader:           reader,
		operationTimeout: timeout,
		logger:           logger,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.operationTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.operationTimeout)
}

func (s *Service) Create(ctx context.Context, name, phone string) (*domain.Courier, error) {
	if name == "" {
		return nil, apperr.ErrInvalid
	}
	if !domain.ValidatePhone(phone) {
		return nil, apperr.ErrInvalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	c := &domain.Courier{
		Name:         name,
		Phone:        phone,
		Availability: domain.CourierAvailable,
	}
	id, err := s.reader.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id

	s.logger.Info("courier registered",
		logx.String("event", "courier_registered"),
		logx.Int64("courier_id", c.ID),
	)
	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Courier, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	c, err := s.reader.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.ErrNotFound
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, limit, offset *int) ([]domain.Courier, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.reader.List(ctx, limit, offset)
}

// SetAvailability flips the courier's availability. Going unavailable while
// the courier still holds an assignment in assigned or picked_up fails with
// ErrConflict; delivery is the only way to shed live work.
func (s *Service) SetAvailability(ctx context.Context, courierID int64, target domain.CourierAvailability) error {
	if !target.Valid() {
		return apperr.ErrInvalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.repo.WithTx(ctx, func(tx dispatchtx.Repository) error {
		c, err := tx.GetCourierForUpdate(ctx, courierID)
		if err != nil {
			return err
		}
		if c == nil {
			return apperr.ErrNotFound
		}
		if c.Availability == target {
			return nil
		}

		if target == domain.CourierUnavailable {
			busy, err := tx.CountLiveAssignmentsByCourier(ctx, courierID)
			if err != nil {
				return err
			}
			if busy > 0 {
				return apperr.ErrConflict
			}
		}

		return tx.UpdateCourierAvailability(ctx, courierID, target)
	})
	if err != nil {
		return err
	}

	s.logger.Info("courier availability changed",
		logx.String("event", "courier_availability_changed"),
		logx.Int64("courier_id", courierID),
		logx.String("availability", string(target)),
	)
	return nil
}

// CreditEarnings adds cents to the courier's lifetime earnings. Negative
// amounts are rejected; the balance only ever grows.
func (s *Service) CreditEarnings(ctx context.Context, courierID int64, cents int64) error {
	if cents < 0 {
		return apperr.ErrInvalid
	}
	if cents == 0 {
		return nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.repo.WithTx(ctx, func(tx dispatchtx.Repository) error {
		c, err := tx.GetCourierForUpdate(ctx, courierID)
		if err != nil {
			return err
		}
		if c == nil {
			return apperr.ErrNotFound
		}
		return tx.CreditCourierEarnings(ctx, courierID, cents)
	})
}
