package app

import (
	"go.uber.org/dig"

	"food-dispatch/internal/config"
	"food-dispatch/internal/logx"
	"food-dispatch/internal/service/events"
	"food-dispatch/internal/service/payments"
	"food-dispatch/internal/transport/kafka"
)

func registerKafka(container *dig.Container) error {
	return provideAll(container,
		func(svc *payments.Service) events.PaymentsPort { return svc },
		events.NewProcessor,
		makeEventsHandler,
		func(logger logx.Logger, cfg *config.Config, h kafka.HandleFunc) (*kafka.Consumer, error) {
			return kafka.NewConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, h)
		},
	)
}

func makeEventsHandler(p *events.Processor) kafka.HandleFunc {
	return p.Handle
}
