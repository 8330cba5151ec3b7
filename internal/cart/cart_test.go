package cart

import (
	"testing"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func product(id string, price *float64, stock *int) *models.Product {
	return &models.Product{
		ID:       id,
		Name:     "Producto " + id,
		Price:    price,
		Category: "pieles",
		Images:   []string{"https://storage.googleapis.com/bucket/" + id + ".jpg"},
		Stock:    stock,
		Status:   models.ProductStatusActive,
	}
}

func TestAddItemMergesAndClamps(t *testing.T) {
	c := New()

	clamped := c.AddItem(product("p1", fptr(10), iptr(5)), 3)
	assert.False(t, clamped)
	assert.Equal(t, 3, c.ItemsCount())

	clamped = c.AddItem(product("p1", fptr(10), iptr(5)), 10)
	assert.True(t, clamped)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 5, c.ItemsCount(), "quantity clamps to the stock cap, not 13")
}

func TestAddItemWithoutStockCapIsUnbounded(t *testing.T) {
	c := New()
	c.AddItem(product("p1", fptr(10), nil), 500)
	c.AddItem(product("p1", fptr(10), nil), 500)
	assert.Equal(t, 1000, c.ItemsCount())
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	c := New()
	c.AddItem(product("p1", fptr(10), nil), 0)
	c.AddItem(product("p1", fptr(10), nil), -3)
	assert.True(t, c.IsEmpty())
}

func TestUpdateQuantityZeroEqualsRemove(t *testing.T) {
	viaUpdate := New()
	viaUpdate.AddItem(product("p1", fptr(10), nil), 2)
	viaUpdate.UpdateQuantity("p1", 0)

	viaRemove := New()
	viaRemove.AddItem(product("p1", fptr(10), nil), 2)
	viaRemove.RemoveItem("p1")

	assert.Equal(t, viaRemove.Snapshot(), viaUpdate.Snapshot())
	assert.True(t, viaUpdate.IsEmpty())
}

func TestUpdateQuantityClampsAndNoOps(t *testing.T) {
	c := New()
	c.AddItem(product("p1", fptr(10), iptr(4)), 1)

	clamped := c.UpdateQuantity("p1", 9)
	assert.True(t, clamped)
	assert.Equal(t, 4, c.ItemsCount())

	// Unknown product is a no-op, not an error.
	clamped = c.UpdateQuantity("missing", 3)
	assert.False(t, clamped)
	assert.Equal(t, 4, c.ItemsCount())
}

func TestRemoveItemAbsentIsNoOp(t *testing.T) {
	c := New()
	c.AddItem(product("p1", fptr(10), nil), 1)
	c.RemoveItem("missing")
	assert.Equal(t, 1, c.Len())
}

func TestDerivedAggregates(t *testing.T) {
	c := New()
	c.AddItem(product("p1", fptr(10), nil), 2)
	c.AddItem(product("p2", nil, nil), 1)
	c.AddItem(product("p3", fptr(5), nil), 3)

	assert.Equal(t, 35.0, c.Total(), "unpriced items contribute zero")
	assert.True(t, c.HasItemsWithoutPrice())
	assert.Equal(t, 6, c.ItemsCount())
}

func TestClearIsIdempotent(t *testing.T) {
	c := New()
	c.AddItem(product("p1", fptr(10), nil), 2)

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Zero(t, c.Total())

	c.Clear()
	assert.True(t, c.IsEmpty())
}

func TestSnapshotIsolation(t *testing.T) {
	c := New()
	c.AddItem(product("p1", fptr(10), nil), 2)

	snap := c.Snapshot()

	c.UpdateQuantity("p1", 7)
	c.AddItem(product("p2", nil, nil), 1)
	assert.Equal(t, 1, len(snap))
	assert.Equal(t, 2, snap[0].Quantity, "snapshot is unaffected by later mutations")

	// Mutating the snapshot's image slice must not leak back either.
	snap[0].Images[0] = "tampered"
	assert.NotEqual(t, "tampered", c.Snapshot()[0].Images[0])
}

func TestRestoreRoundTrip(t *testing.T) {
	c := New()
	c.AddItem(product("p1", fptr(12.5), iptr(8)), 2)
	c.AddItem(product("p2", nil, nil), 1)

	restored := Restore(c.Snapshot())
	assert.Equal(t, c.Snapshot(), restored.Snapshot())
	assert.Equal(t, c.Total(), restored.Total())
	assert.Equal(t, c.ItemsCount(), restored.ItemsCount())
}
