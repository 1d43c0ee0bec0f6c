package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"food-dispatch/internal/config"
	"food-dispatch/internal/gateway/cardpay"
	"food-dispatch/internal/http/handlers"
	"food-dispatch/internal/http/router"
	"food-dispatch/internal/logx"
	"food-dispatch/internal/metrics"
	"food-dispatch/internal/ports/dispatchtx"
	"food-dispatch/internal/repository"
	"food-dispatch/internal/service/couriers"
	"food-dispatch/internal/service/dispatch"
	"food-dispatch/internal/service/orders"
	"food-dispatch/internal/service/payments"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error)
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(
	fn func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// MustBuildWorker builds the container for the events worker binary.
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerMetrics(container); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerMetrics(container); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerKafka(container); err != nil {
		return nil, fmt.Errorf("kafka: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds the dig container for the worker binary.
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuildWorker(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		func() *log.Logger { return log.Default() },
		NewLogger,
		config.Load,
		func(cfg *config.Config) dispatch.Config {
			return dispatch.Config{
				CourierShareBps:  cfg.Dispatch.CourierShareBps,
				OperationTimeout: cfg.Dispatch.OperationTimeout,
			}
		},
		func(cfg *config.Config) time.Duration { return cfg.Dispatch.OperationTimeout },
	)
}

func registerMetrics(container *dig.Container) error {
	if err := container.Provide(metrics.NewRateLimitExceededTotal, dig.Name("rate_limit_exceeded_total")); err != nil {
		return err
	}
	if err := container.Provide(metrics.NewGatewayRetriesTotal, dig.Name("gateway_retries_total")); err != nil {
		return err
	}
	return container.Provide(metrics.NewDispatchConflictsTotal, dig.Name("dispatch_conflicts_total"))
}

func registerDb(
	container *dig.Container,
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) error {
	providerDB := func(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
		return dbConnect(ctx, cfg.DB.DSN(), 10, time.Second)
	}
	return provideAll(container, providerDB)
}

type cardGatewayIn struct {
	dig.In
	Cfg     *config.Config
	Logger  logx.Logger
	Retries prometheus.Counter `name:"gateway_retries_total"`
}

func newCardGateway(in cardGatewayIn) payments.CardGateway {
	client := cardpay.NewClient(in.Cfg.Card.BaseURL, 5*time.Second)
	return cardpay.NewRetryingGateway(client, in.Logger, in.Retries, cardpay.RetryConfig{
		MaxAttempts: in.Cfg.Card.MaxAttempts,
		BaseDelay:   in.Cfg.Card.BaseDelay,
		MaxDelay:    in.Cfg.Card.MaxDelay,
	})
}

type dispatchServiceIn struct {
	dig.In
	Runner      dispatchtx.Runner
	Assignments *repository.AssignmentRepo
	Orders      *repository.OrderRepo
	Cfg         dispatch.Config
	Conflicts   prometheus.Counter `name:"dispatch_conflicts_total"`
	Logger      logx.Logger
}

func newDispatchService(in dispatchServiceIn) *dispatch.Service {
	return dispatch.NewService(in.Runner, in.Assignments, in.Orders, in.Cfg, in.Conflicts, in.Logger)
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		func(db *pgxpool.Pool) dispatchtx.Runner { return repository.NewDispatchRepo(db) },
		repository.NewOrderRepo,
		repository.NewAssignmentRepo,
		repository.NewPaymentRepo,
		repository.NewCourierRepo,
		newCardGateway,
		newDispatchService,
		func(r dispatchtx.Runner, repo *repository.OrderRepo, timeout time.Duration, logger logx.Logger) *orders.Service {
			return orders.NewService(r, repo, timeout, logger)
		},
		func(r dispatchtx.Runner, repo *repository.PaymentRepo, card payments.CardGateway, timeout time.Duration, logger logx.Logger) *payments.Service {
			return payments.NewService(r, repo, card, timeout, logger)
		},
		func(r dispatchtx.Runner, repo *repository.CourierRepo, timeout time.Duration, logger logx.Logger) *couriers.Service {
			return couriers.NewService(r, repo, timeout, logger)
		},
	)
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	return provideAll(container,
		handlers.New,
		handlers.NewOrdersUsecase,
		handlers.NewOrderHandler,
		handlers.NewDispatchUsecase,
		handlers.NewDispatchHandler,
		handlers.NewPaymentsUsecase,
		handlers.NewPaymentHandler,
		handlers.NewCourierUsecase,
		handlers.NewCourierHandler,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		router.New,
		serverProvider,
	)
}
