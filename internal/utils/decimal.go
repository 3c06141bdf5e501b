package utils

import "github.com/shopspring/decimal"

const (
	maxDecimalExponent    = 30
	maxDecimalCoefficient  = 128 // bits, about 38 digits
)

// DecimalInBounds reports whether d is small enough to compare or round cheaply. Comparing and rounding
// rescale to a common exponent, so client input must pass this check before any arithmetic.
func DecimalInBounds(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp > maxDecimalExponent || exp < -maxDecimalExponent {
		return false
	}
	return d.Coefficient().BitLen() <= maxDecimalCoefficient
}
