package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Offer types.
const (
	OfferPercentage = "percentage"
	OfferFixed      = "fixed"
)

// Offer is a time-boxed discount scoped to a set of products of one game.
// It applies to pricing only while Status is active and now lies within
// [StartDate, EndDate].
type Offer struct {
	ID            uint64          `json:"id"`
	GameID        uint64          `json:"game_id"`
	GameName      string          `json:"game_name,omitempty"`
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	OfferType     string          `json:"offer_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	Status        string          `json:"status"`
	ProductCount  int             `json:"product_count"`
	ProductIDs    []uint64        `json:"product_ids,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
