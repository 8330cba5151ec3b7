package models

import "time"

// Event types
const (
	EventTypeOrderSubmitted     = "ORDER_SUBMITTED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderSubmittedEvent published when a checkout creates an order
type OrderSubmittedEvent struct {
	BaseEvent
	OrderID              string      `json:"order_id"`
	Total                float64     `json:"total"`
	HasItemsWithoutPrice bool        `json:"has_items_without_price"`
	Items                []OrderItem `json:"items"`
}

// OrderStatusChangedEvent published when an admin moves an order
// through its lifecycle
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID    string `json:"order_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}
