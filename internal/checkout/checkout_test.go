package checkout

import (
	"testing"

	"storefront-service/internal/cart"
	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestOrderItemsSnapshot(t *testing.T) {
	price := 10.0
	lines := []cart.Line{
		{
			ProductID: "p1",
			Name:      "Hilo",
			Price:     &price,
			Category:  "hilos",
			Images:    []string{"https://example.com/a.jpg", "https://example.com/b.jpg"},
			Quantity:  2,
		},
		{ProductID: "p2", Name: "Gamuza", Quantity: 1, Category: "pieles"},
	}

	items := orderItems(lines)

	assert.Len(t, items, 2)
	assert.Equal(t, models.OrderItem{
		ProductID: "p1",
		Name:      "Hilo",
		Price:     &price,
		Quantity:  2,
		Category:  "hilos",
		Image:     "https://example.com/a.jpg",
	}, items[0])
	assert.Nil(t, items[1].Price)
	assert.Empty(t, items[1].Image, "no image reference when the line has none")
}

func TestFinalizeEndToEnd(t *testing.T) {
	// Requires Postgres, Redis and Kafka; covered by the unit tests on
	// BuildMessage/BuildRedirectURL/orderItems plus the cart package.
	t.Skip("Integration test - requires database, redis and kafka")
}
