package model

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var errInvalidPrice = errors.New("invalid price")

// ParsePrice accepts "4.50", "$4.50" and "$1,204.00" style strings.
func ParsePrice(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return decimal.Zero, errInvalidPrice
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, errInvalidPrice
	}
	if d.IsNegative() || !d.Equal(d.Round(2)) {
		return decimal.Zero, errInvalidPrice
	}
	return d.Round(2), nil
}

// FormatPrice renders an amount as "$4.50".
func FormatPrice(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// ToCents converts an amount to minor currency units.
func ToCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// FromCents converts minor currency units to an amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
