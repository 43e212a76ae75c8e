package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	allowed := map[string][]string{
		OrderPending:    {OrderProcessing, OrderCompleted, OrderFailed, OrderRefunded},
		OrderProcessing: {OrderCompleted, OrderFailed, OrderRefunded},
	}
	all := []string{OrderPending, OrderProcessing, OrderCompleted, OrderFailed, OrderRefunded}
	for _, from := range all {
		for _, to := range all {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.False(t, CanTransition("shipped", OrderCompleted))
	assert.False(t, ValidOrderStatus("shipped"))
}

func TestPackDiscount(t *testing.T) {
	d := decimal.RequireFromString
	assert.True(t, d("25").Equal(PackDiscount(d("40"), d("30"))))
	assert.True(t, d("33.33").Equal(PackDiscount(d("30"), d("20"))))
	assert.True(t, PackDiscount(decimal.Zero, d("10")).IsZero())
}

func TestStockAndSessionExpiry(t *testing.T) {
	assert.True(t, Product{Stock: UnlimitedStock}.InStock())
	assert.True(t, Product{Stock: 1}.InStock())
	assert.False(t, Product{Stock: 0}.InStock())

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, Session{ExpiresAt: now}.Expired(now))
	assert.False(t, Session{ExpiresAt: now.Add(time.Second)}.Expired(now))
}

func TestMoneyMarshalsAsNumber(t *testing.T) {
	bs, err := json.Marshal(struct {
		Price decimal.Decimal `json:"price"`
	}{RoundMoney(decimal.RequireFromString("80.505"))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":80.51}`, string(bs))
}
