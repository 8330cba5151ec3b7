package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront-service/config"
	"storefront-service/internal/broker"
	"storefront-service/internal/cart"
	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEmptyCart is returned when finalize is invoked on an empty cart
var ErrEmptyCart = errors.New("cart is empty")

// Checkout converts a session's cart into an order record plus a
// WhatsApp redirect, then resets the cart.
type Checkout struct {
	carts          *cart.Manager
	store          *store.Store
	eventPublisher *broker.EventPublisher
	cfg            config.CheckoutConfig
	logger         *zap.Logger

	mu         sync.Mutex
	lastFailed *models.Order
}

// New creates a checkout service
func New(carts *cart.Manager, st *store.Store, eventPublisher *broker.EventPublisher, cfg config.CheckoutConfig) *Checkout {
	return &Checkout{
		carts:          carts,
		store:          st,
		eventPublisher: eventPublisher,
		cfg:            cfg,
		logger:         util.GetLogger(),
	}
}

// Result is what the storefront needs to complete the hand-off
type Result struct {
	OrderID     string `json:"order_id"`
	RedirectURL string `json:"redirect_url"`
	// Persisted is false when the ledger write failed; the redirect
	// still happens and the snapshot is retained via LastFailed.
	Persisted bool `json:"persisted"`
}

// Finalize runs the hand-off protocol in order: build the message,
// attempt the ledger write, build the redirect URL, publish the event,
// clear the cart. The write is attempted before the redirect URL is
// returned but its failure never blocks the hand-off or restores the
// cart; the snapshot is kept so the operator can re-submit it.
func (co *Checkout) Finalize(ctx context.Context, sessionID, userAgent string) (*Result, error) {
	ctx, span := util.StartSpan(ctx, "Checkout.Finalize")
	defer span.End()

	c, err := co.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	snapshot := c.Snapshot()
	message := BuildMessage(co.cfg.MessageHeader, snapshot)

	order := &models.Order{
		ID:                   uuid.New().String(),
		Items:                orderItems(snapshot),
		Total:                c.Total(),
		HasItemsWithoutPrice: c.HasItemsWithoutPrice(),
		Status:               models.OrderStatusPending,
	}

	persisted := true
	if err := co.store.CreateOrder(ctx, order); err != nil {
		persisted = false
		util.CheckoutPersistFailedTotal.Inc()
		co.logger.Error("Order write failed during checkout",
			zap.String("order_id", order.ID),
			zap.Error(err))
		co.retainFailed(order)
	} else {
		util.OrdersSubmittedTotal.Inc()
	}

	result := &Result{
		OrderID:     order.ID,
		RedirectURL: BuildRedirectURL(co.cfg.ContactPhone, message, IsMobileUserAgent(userAgent)),
		Persisted:   persisted,
	}

	if persisted {
		event := &models.OrderSubmittedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeOrderSubmitted,
				Timestamp: time.Now(),
			},
			OrderID:              order.ID,
			Total:                order.Total,
			HasItemsWithoutPrice: order.HasItemsWithoutPrice,
			Items:                order.Items,
		}
		if err := co.eventPublisher.PublishOrderSubmitted(ctx, event); err != nil {
			co.logger.Error("Failed to publish OrderSubmitted event", zap.Error(err))
		}
	}

	if err := co.carts.Clear(ctx, sessionID); err != nil {
		co.logger.Error("Failed to clear cart after checkout",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}

	util.CheckoutsTotal.Inc()
	co.logger.Info("Checkout finalized",
		zap.String("order_id", order.ID),
		zap.Int("items", len(order.Items)),
		zap.Bool("persisted", persisted))

	return result, nil
}

// LastFailed returns the most recent order snapshot whose ledger
// write failed, so it is not silently lost.
func (co *Checkout) LastFailed() *models.Order {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.lastFailed
}

// RetryLastFailed re-attempts the ledger write for the retained
// snapshot and drops it on success.
func (co *Checkout) RetryLastFailed(ctx context.Context) (*models.Order, error) {
	co.mu.Lock()
	order := co.lastFailed
	co.mu.Unlock()

	if order == nil {
		return nil, nil
	}
	if err := co.store.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	co.mu.Lock()
	if co.lastFailed == order {
		co.lastFailed = nil
	}
	co.mu.Unlock()

	util.OrdersSubmittedTotal.Inc()
	co.logger.Info("Retried failed order write", zap.String("order_id", order.ID))
	return order, nil
}

func (co *Checkout) retainFailed(order *models.Order) {
	co.mu.Lock()
	co.lastFailed = order
	co.mu.Unlock()
}

func orderItems(lines []cart.Line) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		image := ""
		if len(line.Images) > 0 {
			image = line.Images[0]
		}
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
			Category:  line.Category,
			Image:     image,
		})
	}
	return items
}
