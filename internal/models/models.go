package models

import "time"

// Product represents a product in the catalog
type Product struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Price       *float64  `db:"price" json:"price,omitempty"`
	Category    string    `db:"category" json:"category"`
	Images      []string  `db:"-" json:"images"`
	Stock       *int      `db:"stock" json:"stock,omitempty"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// HasPrice reports whether the product has a published price.
// Products without one are sold "price on request".
func (p *Product) HasPrice() bool {
	return p.Price != nil
}

// Category represents a product category
type Category struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Image     string    `db:"image" json:"image"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Order represents a submitted order in the ledger.
// Everything except Status is immutable once written.
type Order struct {
	ID                   string      `db:"id" json:"id"`
	Items                []OrderItem `db:"-" json:"items"`
	Total                float64     `db:"total" json:"total"`
	HasItemsWithoutPrice bool        `db:"has_items_without_price" json:"has_items_without_price"`
	Status               string      `db:"status" json:"status"`
	CreatedAt            time.Time   `db:"created_at" json:"created_at"`
}

// OrderItem is a cart line frozen at submission time
type OrderItem struct {
	ID        int64    `db:"id" json:"-"`
	OrderID   string   `db:"order_id" json:"-"`
	ProductID string   `db:"product_id" json:"product_id"`
	Name      string   `db:"name" json:"name"`
	Price     *float64 `db:"price" json:"price,omitempty"`
	Quantity  int      `db:"quantity" json:"quantity"`
	Category  string   `db:"category" json:"category"`
	Image     string   `db:"image" json:"image,omitempty"`
}

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Product statuses
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// OrderStatuses lists every valid order status.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}
