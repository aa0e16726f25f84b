package utils

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Round2 rounds half away from zero to two decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// PercentChange returns (now - then) / then * 100. The second value is false when then is zero.
func PercentChange(now, then decimal.Decimal) (decimal.Decimal, bool) {
	if then.IsZero() {
		return decimal.Zero, false
	}
	return now.Sub(then).Div(then).Mul(hundred), true
}

// PriceBefore derives the price 24h ago from the current price and the percent change.
// The second value is false when the change is -100% or less.
func PriceBefore(price, changePercent decimal.Decimal) (decimal.Decimal, bool) {
	factor := decimal.NewFromInt(1).Add(changePercent.Div(hundred))
	if factor.Sign() <= 0 {
		return decimal.Zero, false
	}
	return price.Div(factor), true
}

// FromIntegerAmount converts a raw integer amount with the given number of decimals.
func FromIntegerAmount(amount *big.Int, decimals int32) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -decimals)
}

// ParseDecimal parses s, treating empty input as zero.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
