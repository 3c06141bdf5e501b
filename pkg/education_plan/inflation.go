package education_plan

import (
	"time"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// InflationAdjustedCost projects cost to startYear with ratePercent of yearly inflation:
// cost * (1 + rate/100)^(startYear - now.Year()), rounded half away from zero to 2 places.
// At or after the start year the cost is returned unchanged. The result depends on now, so the same
// inputs give a smaller projection as the start year comes closer.
func InflationAdjustedCost(cost decimal.Decimal, startYear int, ratePercent decimal.Decimal, now time.Time) decimal.Decimal {
	years := startYear - now.Year()
	if years <= 0 {
		return cost
	}
	factor := one.Add(ratePercent.Shift(-2))
	return cost.Mul(pow(factor, years)).Round(2)
}

// pow is exact: it only multiplies, so no digits are lost before the final rounding.
func pow(base decimal.Decimal, exp int) decimal.Decimal {
	result := one
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		exp >>= 1
	}
	return result
}
