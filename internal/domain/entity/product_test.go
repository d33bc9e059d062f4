package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sevenTiers() Pricing {
	return Pricing{
		{Quantity: 1, Price: decimal.RequireFromString("1.20")},
		{Quantity: 100, Price: decimal.RequireFromString("1.10")},
		{Quantity: 500, Price: decimal.RequireFromString("1.00")},
		{Quantity: 1000, Price: decimal.RequireFromString("0.95")},
		{Quantity: 5000, Price: decimal.RequireFromString("0.90")},
		{Quantity: 10000, Price: decimal.RequireFromString("0.85")},
		{Quantity: 50000, Price: decimal.RequireFromString("0.80")},
	}
}

func TestPricing_Validate(t *testing.T) {
	require.NoError(t, sevenTiers().Validate())

	tooFew := sevenTiers()[:6]
	assert.Error(t, tooFew.Validate())

	negative := sevenTiers()
	negative[2].Price = decimal.NewFromInt(-1)
	assert.Error(t, negative.Validate())

	descending := sevenTiers()
	descending[3].Quantity = 10
	assert.Error(t, descending.Validate())
}

func TestPricing_PriceFor(t *testing.T) {
	pricing := sevenTiers()

	tests := []struct {
		quantity int64
		want     string
	}{
		{quantity: 0, want: "1.2"},
		{quantity: 1, want: "1.2"},
		{quantity: 99, want: "1.2"},
		{quantity: 100, want: "1.1"},
		{quantity: 4999, want: "0.95"},
		{quantity: 1000000, want: "0.8"},
	}

	for _, tt := range tests {
		price, err := pricing.PriceFor(tt.quantity)
		require.NoError(t, err)
		assert.True(t, price.Equal(decimal.RequireFromString(tt.want)), "quantity %d: got %s", tt.quantity, price)
	}

	_, err := Pricing{}.PriceFor(1)
	assert.Error(t, err)
}

func TestStockOperationType_Delta(t *testing.T) {
	assert.Equal(t, int64(30), StockIn.Delta(30))
	assert.Equal(t, int64(-30), StockOut.Delta(30))
	assert.False(t, StockOperationType("MOVE").IsValid())
}
