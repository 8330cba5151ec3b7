package service

import (
	"testing"
	"time"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func ledgerFixture() []models.Order {
	now := time.Now()
	return []models.Order{
		{ID: "o4", Status: models.OrderStatusPending, CreatedAt: now},
		{ID: "o3", Status: models.OrderStatusPending, CreatedAt: now.Add(-time.Hour)},
		{ID: "o2", Status: models.OrderStatusCompleted, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "o1", Status: models.OrderStatusCancelled, CreatedAt: now.Add(-3 * time.Hour)},
	}
}

func TestFilterOrdersByStatus(t *testing.T) {
	orders := ledgerFixture()

	pending := FilterOrders(orders, OrderFilter{Status: models.OrderStatusPending})
	assert.Len(t, pending, 2)

	all := FilterOrders(orders, OrderFilter{Status: "all"})
	assert.Len(t, all, 4)

	// Empty status behaves like "all".
	assert.Len(t, FilterOrders(orders, OrderFilter{}), 4)

	processing := FilterOrders(orders, OrderFilter{Status: models.OrderStatusProcessing})
	assert.Empty(t, processing)
}

func TestFilterOrdersPreservesMostRecentFirst(t *testing.T) {
	orders := ledgerFixture()
	pending := FilterOrders(orders, OrderFilter{Status: models.OrderStatusPending})
	assert.Equal(t, "o4", pending[0].ID)
	assert.Equal(t, "o3", pending[1].ID)
}

func TestFocusOverridesStatusFilter(t *testing.T) {
	orders := ledgerFixture()

	// o2 is completed; a pending filter would hide it, focus wins.
	focused := FilterOrders(orders, OrderFilter{Status: models.OrderStatusPending, FocusID: "o2"})
	assert.Len(t, focused, 1)
	assert.Equal(t, "o2", focused[0].ID)

	assert.Empty(t, FilterOrders(orders, OrderFilter{FocusID: "missing"}))
}

func TestStatusCounts(t *testing.T) {
	counts := StatusCounts(ledgerFixture())

	assert.Equal(t, 4, counts["all"])
	assert.Equal(t, 2, counts[models.OrderStatusPending])
	assert.Equal(t, 0, counts[models.OrderStatusProcessing])
	assert.Equal(t, 1, counts[models.OrderStatusCompleted])
	assert.Equal(t, 1, counts[models.OrderStatusCancelled])
}

func TestTransitionTable(t *testing.T) {
	allowed := []struct{ from, to string }{
		{models.OrderStatusPending, models.OrderStatusProcessing},
		{models.OrderStatusPending, models.OrderStatusCancelled},
		{models.OrderStatusProcessing, models.OrderStatusCompleted},
	}
	for _, tr := range allowed {
		assert.True(t, transitionAllowed(tr.from, tr.to), "%s -> %s should be allowed", tr.from, tr.to)
	}

	rejected := []struct{ from, to string }{
		{models.OrderStatusPending, models.OrderStatusCompleted},
		{models.OrderStatusProcessing, models.OrderStatusPending},
		{models.OrderStatusProcessing, models.OrderStatusCancelled},
		{models.OrderStatusCompleted, models.OrderStatusPending},
		{models.OrderStatusCompleted, models.OrderStatusProcessing},
		{models.OrderStatusCancelled, models.OrderStatusPending},
		{models.OrderStatusPending, models.OrderStatusPending},
	}
	for _, tr := range rejected {
		assert.False(t, transitionAllowed(tr.from, tr.to), "%s -> %s should be rejected", tr.from, tr.to)
	}
}
