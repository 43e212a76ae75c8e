package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status values.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderCompleted  = "completed"
	OrderFailed     = "failed"
	OrderRefunded   = "refunded"
)

// orderTransitions lists the statuses reachable from each non-terminal
// status.  Statuses absent from the map are terminal.
var orderTransitions = map[string][]string{
	OrderPending:    {OrderProcessing, OrderCompleted, OrderFailed, OrderRefunded},
	OrderProcessing: {OrderCompleted, OrderFailed, OrderRefunded},
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderProcessing, OrderCompleted, OrderFailed, OrderRefunded:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Order records a checkout.  Game and package fields are snapshots taken at
// creation time and are not recomputed when the catalog changes.
//
// Fields:
//  OrderNumber  – human-shareable identifier, e.g. PG-LX3K2A9Q-7F2C.
//  PackageID    – product the price was resolved from.
//  PackagePrice – resolved price at checkout.
//  ContactEmail – optional email supplied at checkout.
//  UserEmail    – joined from users on admin listings only.
type Order struct {
	ID            uint64          `json:"id"`
	UserID        uint64          `json:"user_id"`
	OrderNumber   string          `json:"order_number"`
	GameID        uint64          `json:"game_id"`
	GameName      string          `json:"game_name"`
	PackageID     uint64          `json:"package_id"`
	PackageName   string          `json:"package_name"`
	PackagePrice  decimal.Decimal `json:"package_price"`
	PlayerID      string          `json:"player_id"`
	AccountName   string          `json:"account_name"`
	PaymentMethod string          `json:"payment_method"`
	ContactEmail  *string         `json:"contact_email,omitempty"`
	Status        string          `json:"status"`
	UserEmail     string          `json:"email,omitempty"`
	UserFullName  string          `json:"full_name,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OrderStats summarises the admin dashboard.
type OrderStats struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalOrders   int             `json:"total_orders"`
	TotalUsers    int             `json:"total_users"`
	PendingOrders int             `json:"pending_orders"`
}

// UserOrderCounts summarises a customer's orders by status.  Spent is the
// total of their completed orders.
type UserOrderCounts struct {
	Total     int             `json:"total"`
	Pending   int             `json:"pending"`
	Completed int             `json:"completed"`
	Failed    int             `json:"failed"`
	Spent     decimal.Decimal `json:"spent"`
}
