package service

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// percentOf returns round(num/den*100), 0 when den is zero. Halves round
// toward +Inf, so -2.5 → -2 and 2.5 → 3.
func percentOf(num, den decimal.Decimal) int {
	if den.IsZero() {
		return 0
	}
	return int(num.Div(den).Mul(hundred).Add(half).Floor().IntPart())
}

// ratePercent is percentOf for counts.
func ratePercent(num, den int64) int {
	if den <= 0 {
		return 0
	}
	return percentOf(decimal.NewFromInt(num), decimal.NewFromInt(den))
}

func maxDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}
