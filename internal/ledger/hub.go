// Package ledger implements the live view over the order collection.
// Subscribers receive the complete current order set on every change;
// there is no incremental diffing contract.
package ledger

import (
	"sync"

	"storefront-service/internal/models"
	"storefront-service/internal/util"
)

// Hub fans full order snapshots out to subscribers. A slow subscriber
// has its pending snapshot replaced rather than blocking the
// publisher; the latest full set always wins.
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan []models.Order]struct{}
	current     []models.Order
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[chan []models.Order]struct{}),
	}
}

// Subscribe registers a subscriber and immediately delivers the
// current snapshot. The returned cancel function must be called when
// the subscriber goes away.
func (h *Hub) Subscribe() (<-chan []models.Order, func()) {
	ch := make(chan []models.Order, 1)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	if h.current != nil {
		ch <- h.current
	}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish replaces the current snapshot and notifies every subscriber
func (h *Hub) Publish(orders []models.Order) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.current = orders
	for ch := range h.subscribers {
		// Drain a stale pending snapshot so the send below cannot block.
		select {
		case <-ch:
		default:
		}
		ch <- orders
	}
	util.LedgerSnapshotsTotal.Inc()
}

// Current returns the last published snapshot
func (h *Hub) Current() []models.Order {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// SubscriberCount returns the number of active subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
