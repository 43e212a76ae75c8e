package service

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/game-topup-store/internal/model"
)

// DiscountLabel names the product's own discount price when it is the best
// price on offer.
const DiscountLabel = "Discount"

var hundred = decimal.NewFromInt(100)

// PriceQuote is the outcome of price resolution for one product.
type PriceQuote struct {
	BasePrice decimal.Decimal
	Price     decimal.Decimal
	OfferName *string
}

// ResolvePrice picks the lowest price for product among its discount price
// and the given offers.  offers must already be limited to active offers
// that target the product.  An offer only wins when it is strictly cheaper
// than the current best, so on ties the discount price (or the earlier
// offer by id) keeps the label.  The returned price is rounded half-up to
// two decimals; BasePrice is returned as stored.
func ResolvePrice(product model.Product, offers []model.Offer) PriceQuote {
	base := product.BasePrice
	best := base
	var label *string

	if product.DiscountPrice != nil {
		l := DiscountLabel
		label = &l
		if product.DiscountPrice.LessThan(base) {
			best = *product.DiscountPrice
		}
	}

	sorted := append([]model.Offer(nil), offers...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, o := range sorted {
		candidate := offerCandidate(base, o)
		if candidate.LessThan(best) {
			best = candidate
			name := o.Name
			label = &name
		}
	}

	return PriceQuote{BasePrice: base, Price: model.RoundMoney(best), OfferName: label}
}

// offerCandidate is the price o would give.  Candidates never go below zero.
func offerCandidate(base decimal.Decimal, o model.Offer) decimal.Decimal {
	var c decimal.Decimal
	switch o.OfferType {
	case model.OfferPercentage:
		c = base.Mul(decimal.NewFromInt(1).Sub(o.DiscountValue.Div(hundred)))
	case model.OfferFixed:
		c = base.Sub(o.DiscountValue)
	default:
		return base
	}
	if c.IsNegative() {
		return decimal.Zero
	}
	return c
}

// offersFor returns the offers that target productID.
func offersFor(productID uint64, offers []*model.Offer) []model.Offer {
	var out []model.Offer
	for _, o := range offers {
		for _, id := range o.ProductIDs {
			if id == productID {
				out = append(out, *o)
				break
			}
		}
	}
	return out
}
