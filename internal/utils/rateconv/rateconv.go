package rateconv

import "github.com/shopspring/decimal"

// invertedQuoteCurrencies lists symbols the provider quotes in the opposite
// orientation to the canonical store (units of the counter currency per one
// unit of the quoted asset). Commodity codes follow the bullion convention.
var invertedQuoteCurrencies = map[string]struct{}{
	"XAU": {},
	"XAG": {},
	"XPT": {},
	"XPD": {},
}

// NormalizeRate converts a raw provider quote into the canonical orientation
// for the given from-currency. It is a pure function: same inputs, same
// output, no I/O. A zero raw rate passes through unchanged so callers can
// reject it explicitly instead of dividing by zero here.
func NormalizeRate(fromCurrency string, raw decimal.Decimal) decimal.Decimal {
	if _, inverted := invertedQuoteCurrencies[fromCurrency]; !inverted {
		return raw
	}
	if raw.IsZero() {
		return raw
	}
	return decimal.NewFromInt(1).Div(raw)
}
