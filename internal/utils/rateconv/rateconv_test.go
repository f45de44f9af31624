package rateconv_test

import (
	"testing"

	"github.com/SscSPs/fintrack_backend/internal/utils/rateconv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeRate(t *testing.T) {
	tests := []struct {
		name         string
		fromCurrency string
		raw          decimal.Decimal
		want         decimal.Decimal
	}{
		{
			name:         "fiat passes through",
			fromCurrency: "EUR",
			raw:          decimal.NewFromFloat(1.0923),
			want:         decimal.NewFromFloat(1.0923),
		},
		{
			name:         "gold quote inverted",
			fromCurrency: "XAU",
			raw:          decimal.NewFromFloat(0.0005),
			want:         decimal.NewFromInt(2000),
		},
		{
			name:         "silver quote inverted",
			fromCurrency: "XAG",
			raw:          decimal.NewFromFloat(0.04),
			want:         decimal.NewFromInt(25),
		},
		{
			name:         "zero passes through untouched",
			fromCurrency: "XAU",
			raw:          decimal.Zero,
			want:         decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rateconv.NormalizeRate(tt.fromCurrency, tt.raw)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestNormalizeRate_Deterministic(t *testing.T) {
	raw := decimal.NewFromFloat(0.000512)
	first := rateconv.NormalizeRate("XAU", raw)
	second := rateconv.NormalizeRate("XAU", raw)
	assert.True(t, first.Equal(second))
}
