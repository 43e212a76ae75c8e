package model

import "github.com/shopspring/decimal"

func init() {
	// Prices are emitted as JSON numbers (80.5), not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// RoundMoney rounds a monetary amount half away from zero to two places.
func RoundMoney(d decimal.Decimal) decimal.Decimal { return d.Round(2) }
