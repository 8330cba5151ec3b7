package service

import (
	"context"
	"fmt"
	"time"

	"storefront-service/internal/broker"
	"storefront-service/internal/ledger"
	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// allowedTransitions is the explicit status state machine. The store
// itself would accept any value; validating here tightens the
// otherwise loose write contract. Completed and cancelled are
// terminal.
var allowedTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusCompleted},
	models.OrderStatusCompleted:  {},
	models.OrderStatusCancelled:  {},
}

// OrderService is the admin-side view over the order ledger: a live,
// sorted list with status filtering and validated status transitions.
type OrderService struct {
	store          *store.Store
	hub            *ledger.Hub
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(st *store.Store, hub *ledger.Hub, eventPublisher *broker.EventPublisher) *OrderService {
	return &OrderService{
		store:          st,
		hub:            hub,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// OrderFilter narrows the order list. Status is "all" or one of the
// four states; FocusID selects a single order and overrides Status so
// that order is always visible.
type OrderFilter struct {
	Status  string
	FocusID string
}

// List returns orders most recent first, filtered in memory
func (os *OrderService) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.List")
	defer span.End()

	orders, err := os.store.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return FilterOrders(orders, filter), nil
}

// FilterOrders applies the status filter and single-order focus to an
// already-fetched, already-sorted order list.
func FilterOrders(orders []models.Order, filter OrderFilter) []models.Order {
	if filter.FocusID != "" {
		for _, o := range orders {
			if o.ID == filter.FocusID {
				return []models.Order{o}
			}
		}
		return []models.Order{}
	}

	if filter.Status == "" || filter.Status == "all" {
		return orders
	}

	filtered := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == filter.Status {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// StatusCounts derives per-status totals from the full list; no
// separate counters are kept anywhere.
func StatusCounts(orders []models.Order) map[string]int {
	counts := map[string]int{"all": len(orders)}
	for _, status := range models.OrderStatuses {
		counts[status] = 0
	}
	for _, o := range orders {
		counts[o.Status]++
	}
	return counts
}

// UpdateStatus moves an order through its lifecycle. The transition
// is validated against the state machine before any write; concurrent
// updates remain last-write-wins at the store.
func (os *OrderService) UpdateStatus(ctx context.Context, orderID, newStatus string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()

	if !models.ValidOrderStatus(newStatus) {
		util.OrderStatusRejectedTotal.Inc()
		return fmt.Errorf("unknown status: %q", newStatus)
	}

	order, err := os.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !transitionAllowed(order.Status, newStatus) {
		util.OrderStatusRejectedTotal.Inc()
		return fmt.Errorf("illegal transition %s -> %s for order %s", order.Status, newStatus, orderID)
	}

	if err := os.store.UpdateOrderStatus(ctx, orderID, newStatus); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	util.OrderStatusChangesTotal.WithLabelValues(newStatus).Inc()
	os.logger.Info("Order status changed",
		zap.String("order_id", orderID),
		zap.String("from", order.Status),
		zap.String("to", newStatus))

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID:    orderID,
		FromStatus: order.Status,
		ToStatus:   newStatus,
	}
	if err := os.eventPublisher.PublishOrderStatusChanged(ctx, event); err != nil {
		os.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}

	return nil
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// RefreshSnapshot reloads the full order collection and pushes it to
// every live subscriber.
func (os *OrderService) RefreshSnapshot(ctx context.Context) error {
	orders, err := os.store.ListOrders(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh order snapshot: %w", err)
	}
	os.hub.Publish(orders)
	return nil
}
