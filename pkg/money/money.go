package money

import (
	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits every stored money or points figure carries.
const Places int32 = 2

// RoundHalfUp rounds d to two decimal places, ties away from zero.
// Only non-negative quantities flow through the compensation path, where this is plain half-up.
func RoundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Percent returns round_half_up(amount * percent / 100). The division is an exact decimal shift.
func Percent(amount, percent decimal.Decimal) decimal.Decimal {
	return RoundHalfUp(amount.Mul(percent).Shift(-2))
}

// Scale returns round_half_up(amount * factor).
func Scale(amount, factor decimal.Decimal) decimal.Decimal {
	return RoundHalfUp(amount.Mul(factor))
}

// HasAtMostPlaces reports whether d can be stored without losing precision at the given scale.
func HasAtMostPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// Parse reads a decimal string and rejects values that do not fit two decimal places.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !HasAtMostPlaces(d, Places) {
		return decimal.Zero, ErrTooManyPlaces
	}
	return d, nil
}

// Format renders d with exactly two fractional digits.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}
