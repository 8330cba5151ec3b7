package worker

import (
	"context"
	"log"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/service"
)

// LedgerWorker keeps the live admin view current: whenever an order
// event lands on the topic it reloads the full collection and pushes
// the snapshot to the hub.
type LedgerWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	orderService *service.OrderService
}

// NewLedgerWorker creates a new ledger worker
func NewLedgerWorker(consumer *broker.Consumer, orderService *service.OrderService) *LedgerWorker {
	eventHandler := broker.NewEventHandler()

	refresh := func(ctx context.Context) error {
		return orderService.RefreshSnapshot(ctx)
	}
	eventHandler.OnOrderSubmitted(func(ctx context.Context, _ *models.OrderSubmittedEvent) error {
		return refresh(ctx)
	})
	eventHandler.OnOrderStatusChanged(func(ctx context.Context, _ *models.OrderStatusChangedEvent) error {
		return refresh(ctx)
	})

	return &LedgerWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		orderService: orderService,
	}
}

// Start seeds the hub with the current collection, then consumes
// order events until the context is cancelled.
func (w *LedgerWorker) Start(ctx context.Context) error {
	log.Println("Starting ledger worker...")

	if err := w.orderService.RefreshSnapshot(ctx); err != nil {
		log.Printf("Initial snapshot load failed: %v", err)
	}

	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *LedgerWorker) Stop() error {
	log.Println("Stopping ledger worker...")
	return w.consumer.Close()
}
