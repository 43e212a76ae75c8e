package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnlimitedStock marks a product whose stock counter is not tracked.
const UnlimitedStock = -1

// Product is a priced package belonging to exactly one game.
//
// Fields:
//  BasePrice     – list price, never negative.
//  DiscountPrice – optional standing discount, at most BasePrice.
//  Stock         – -1 for unlimited, otherwise a counter decremented by orders.
//  GameName      – joined from games on admin listings only.
type Product struct {
	ID            uint64           `json:"id"`
	GameID        uint64           `json:"game_id"`
	GameName      string           `json:"game_name,omitempty"`
	Name          string           `json:"name"`
	Description   *string          `json:"description"`
	BasePrice     decimal.Decimal  `json:"base_price"`
	DiscountPrice *decimal.Decimal `json:"discount_price"`
	Stock         int              `json:"stock"`
	Status        string           `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// InStock reports whether one more unit may be sold.
func (p Product) InStock() bool { return p.Stock == UnlimitedStock || p.Stock > 0 }

// PricedProduct is the public projection of a product together with the
// outcome of price resolution.
type PricedProduct struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Price       decimal.Decimal `json:"price"`
	OfferName   *string         `json:"offer_name"`
}
