// Package queue defines the order event payloads exchanged over RabbitMQ and
// the consumer that records them.
package queue

import "github.com/shopspring/decimal"

// Queue names, one per event type.
const (
	OrderCreatedQueue       = "order.created"
	OrderStatusChangedQueue = "order.status_changed"
)

// OrderEvent is published when an order is placed or changes status.  It
// carries enough of the order snapshot for downstream consumers to log or
// notify without querying the primary database.
type OrderEvent struct {
	Type           string          `json:"type"`
	OrderID        uint64          `json:"order_id"`
	OrderNumber    string          `json:"order_number"`
	UserID         uint64          `json:"user_id,omitempty"`
	GameName       string          `json:"game_name,omitempty"`
	PackageName    string          `json:"package_name,omitempty"`
	Price          decimal.Decimal `json:"price"`
	PaymentMethod  string          `json:"payment_method,omitempty"`
	Status         string          `json:"status"`
	PreviousStatus string          `json:"previous_status,omitempty"`
	OccurredAt     string          `json:"occurred_at"`
}
