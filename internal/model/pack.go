package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pack is a fixed bundle of products sold at PackPrice.  DiscountPercentage
// is derived from the two prices when the pack is written.
type Pack struct {
	ID                 uint64          `json:"id"`
	GameID             uint64          `json:"game_id"`
	GameName           string          `json:"game_name,omitempty"`
	Name               string          `json:"name"`
	Description        *string         `json:"description"`
	ImageURL           *string         `json:"image_url"`
	OriginalPrice      decimal.Decimal `json:"original_price"`
	PackPrice          decimal.Decimal `json:"pack_price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	Status             string          `json:"status"`
	ProductCount       int             `json:"product_count"`
	Products           []PackItem      `json:"products,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// PackItem is a product listed inside a pack.
type PackItem struct {
	ProductID uint64          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

// PackDiscount returns (original-pack)/original*100 rounded to two places,
// or zero when the original price is not positive.
func PackDiscount(original, pack decimal.Decimal) decimal.Decimal {
	if !original.IsPositive() {
		return decimal.Zero
	}
	return original.Sub(pack).Div(original).Mul(decimal.NewFromInt(100)).Round(2)
}
