package cart

import (
	"storefront-service/internal/models"
)

// Line is one product entry in the cart with its quantity and the
// price/stock snapshot taken when the product was added.
type Line struct {
	ProductID string   `json:"product_id"`
	Name      string   `json:"name"`
	Price     *float64 `json:"price,omitempty"`
	Category  string   `json:"category"`
	Images    []string `json:"images"`
	Quantity  int      `json:"quantity"`
	StockCap  *int     `json:"stock_cap,omitempty"`
}

// Cart holds the line items for one client session. It is an explicit
// store object: callers hold a reference and pass it around, there is
// no package-level cart. Not safe for concurrent use; the Manager
// serializes access per session.
//
// Every operation is total: out-of-range input clamps or no-ops, it
// never returns an error. Derived values are recomputed on demand
// rather than stored.
type Cart struct {
	lines []Line
}

// New returns an empty cart
func New() *Cart {
	return &Cart{}
}

// Restore rebuilds a cart from persisted lines
func Restore(lines []Line) *Cart {
	c := &Cart{lines: make([]Line, len(lines))}
	copy(c.lines, lines)
	return c
}

// AddItem merges quantity into an existing line for the product, or
// appends a new line. Merged quantities are clamped to the stock cap
// when one is set. Returns true when a clamp took effect.
func (c *Cart) AddItem(product *models.Product, quantity int) bool {
	if quantity < 1 {
		return false
	}

	for i := range c.lines {
		if c.lines[i].ProductID == product.ID {
			requested := c.lines[i].Quantity + quantity
			c.lines[i].Quantity = clamp(requested, c.lines[i].StockCap)
			return c.lines[i].Quantity < requested
		}
	}

	images := make([]string, len(product.Images))
	copy(images, product.Images)

	c.lines = append(c.lines, Line{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Category:  product.Category,
		Images:    images,
		Quantity:  quantity,
		StockCap:  product.Stock,
	})
	return false
}

// UpdateQuantity sets the quantity for a line. Zero or negative
// removes the line; an unknown product is a no-op. Returns true when
// a clamp took effect.
func (c *Cart) UpdateQuantity(productID string, quantity int) bool {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return false
	}

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = clamp(quantity, c.lines[i].StockCap)
			return c.lines[i].Quantity < quantity
		}
	}
	return false
}

// RemoveItem deletes the line for the product; no-op if absent
func (c *Cart) RemoveItem(productID string) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart. Idempotent.
func (c *Cart) Clear() {
	c.lines = nil
}

// Len returns the number of distinct lines
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemsCount is the sum of all line quantities
func (c *Cart) ItemsCount() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// Total sums price*quantity over priced lines only. Lines without a
// price contribute zero; they are surfaced via HasItemsWithoutPrice.
func (c *Cart) Total() float64 {
	var total float64
	for _, line := range c.lines {
		if line.Price != nil {
			total += *line.Price * float64(line.Quantity)
		}
	}
	return total
}

// HasItemsWithoutPrice reports whether any line lacks a price
func (c *Cart) HasItemsWithoutPrice() bool {
	for _, line := range c.lines {
		if line.Price == nil {
			return true
		}
	}
	return false
}

// Snapshot returns a deep copy of the lines in insertion order.
// Checkout freezes this copy into the order record, so later cart
// mutations cannot leak into the ledger.
func (c *Cart) Snapshot() []Line {
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	for i := range lines {
		images := make([]string, len(c.lines[i].Images))
		copy(images, c.lines[i].Images)
		lines[i].Images = images
	}
	return lines
}

func clamp(quantity int, limit *int) int {
	if limit != nil && quantity > *limit {
		return *limit
	}
	return quantity
}
