package main

import (
	"context"
	"os/signal"
	"syscall"

	"food-dispatch/internal/app"
)

// The worker consumes marketplace order events from Kafka and drives the
// payment records: no HTTP surface, same container wiring otherwise.
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	container := app.MustBuildWorkerContainer(ctx)
	app.NewWorkerRunner().MustRun(container)
}
