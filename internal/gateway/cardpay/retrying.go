package cardpay

import (
	"context"
	"errors"
	"net"
	"time"

	"food-dispatch/internal/logx"
)

type gateway interface {
	Charge(ctx context.Context, ch Charge) (*Receipt, error)
	Refund(ctx context.Context, transactionRef string, amountCents int64) error
}

type counter interface {
	Inc()
}

// RetryConfig describes the retry behaviour of RetryingGateway.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingGateway wraps a provider gateway with bounded exponential backoff.
// Declines are never retried, only transport failures and provider overload.
type RetryingGateway struct {
	next    gateway
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
}

// NewRetryingGateway wraps next with retries. Returns nil if next is nil.
func NewRetryingGateway(next gateway, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingGateway {
	if next == nil {
		return nil
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &RetryingGateway{next: next, logger: logger, retries: retries, cfg: cfg}
}

// Charge executes a charge, retrying transient provider failures.
func (g *RetryingGateway) Charge(ctx context.Context, ch Charge) (*Receipt, error) {
	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		receipt, err := g.next.Charge(ctx, ch)
		if err == nil {
			return receipt, nil
		}
		lastErr = err
		if ctx.Err() != nil || attempt == g.cfg.MaxAttempts || !isRetryable(err) {
			break
		}
		delay := backoff(g.cfg.BaseDelay, g.cfg.MaxDelay, attempt)
		if g.retries != nil {
			g.retries.Inc()
		}
		g.logger.Warn("card gateway retry",
			logx.String("method", "Charge"),
			logx.Int64("payment_id", ch.PaymentID),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Any("err", err),
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return nil, lastErr
}

// Refund reverses a charge, retrying transient provider failures.
func (g *RetryingGateway) Refund(ctx context.Context, transactionRef string, amountCents int64) error {
	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		err := g.next.Refund(ctx, transactionRef, amountCents)
		if err == nil {
			return nil
		}
		lastErr = err
		if ctx.Err() != nil || attempt == g.cfg.MaxAttempts || !isRetryable(err) {
			break
		}
		delay := backoff(g.cfg.BaseDelay, g.cfg.MaxDelay, attempt)
		if g.retries != nil {
			g.retries.Inc()
		}
		g.logger.Warn("card gateway retry",
			logx.String("method", "Refund"),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Any("err", err),
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return lastErr
}

// isRetryable determines whether the error may succeed on a later attempt.
func isRetryable(err error) bool {
	if errors.Is(err, ErrDeclined) {
		return false
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Status == 429 || pe.Status >= 500
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	return false
}

// backoff computes the delay before the next attempt.
func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
