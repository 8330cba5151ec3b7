package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Manager owns cart persistence. Carts live in Redis keyed by session
// id so they survive reloads; a cart is exclusive to one session and
// never shared across devices. Access to a given session's cart is
// serialized through the manager's lock, matching the single-threaded
// model the engine assumes.
type Manager struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger

	mu sync.Mutex
}

// NewManager connects to Redis and returns a cart manager
func NewManager(addr, password string, db int, ttl time.Duration) (*Manager, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Manager{
		rdb:    rdb,
		ttl:    ttl,
		logger: util.GetLogger(),
	}, nil
}

// Close closes the Redis connection
func (m *Manager) Close() error {
	return m.rdb.Close()
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

// Load restores the session's cart from Redis. A missing key yields
// an empty cart, not an error.
func (m *Manager) Load(ctx context.Context, sessionID string) (*Cart, error) {
	data, err := m.rdb.Get(ctx, cartKey(sessionID)).Bytes()
	if err == redis.Nil {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		// A corrupt value falls back to an empty cart rather than
		// wedging the session.
		m.logger.Warn("Discarding unreadable cart", zap.String("session_id", sessionID), zap.Error(err))
		return New(), nil
	}
	return Restore(lines), nil
}

// save writes the cart back, or deletes the key when the cart is empty
func (m *Manager) save(ctx context.Context, sessionID string, c *Cart) error {
	if c.IsEmpty() {
		return m.rdb.Del(ctx, cartKey(sessionID)).Err()
	}

	data, err := json.Marshal(c.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	return m.rdb.Set(ctx, cartKey(sessionID), data, m.ttl).Err()
}

// AddItem adds a product to the session's cart and persists the result
func (m *Manager) AddItem(ctx context.Context, sessionID string, product *models.Product, quantity int) (*Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if c.AddItem(product, quantity) {
		util.CartClampsTotal.Inc()
	}
	util.CartMutationsTotal.WithLabelValues("add").Inc()

	return c, m.save(ctx, sessionID, c)
}

// UpdateQuantity sets a line's quantity (zero removes it) and persists
func (m *Manager) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if c.UpdateQuantity(productID, quantity) {
		util.CartClampsTotal.Inc()
	}
	util.CartMutationsTotal.WithLabelValues("update").Inc()

	return c, m.save(ctx, sessionID, c)
}

// RemoveItem deletes a line and persists
func (m *Manager) RemoveItem(ctx context.Context, sessionID, productID string) (*Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.RemoveItem(productID)
	util.CartMutationsTotal.WithLabelValues("remove").Inc()

	return c, m.save(ctx, sessionID, c)
}

// Clear empties the session's cart and removes the persisted copy
func (m *Manager) Clear(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	util.CartMutationsTotal.WithLabelValues("clear").Inc()
	return m.rdb.Del(ctx, cartKey(sessionID)).Err()
}
