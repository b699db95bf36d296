// Package token converts between whole-token amounts and ledger base units.
// All arithmetic is exact decimal math; float rounding would corrupt on-chain
// values.
package token

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultDecimals is the base-unit exponent of the sold token (1 token =
// 10^18 base units).
const DefaultDecimals int32 = 18

// ToBaseUnits returns tokens scaled to base units as a decimal integer
// string, e.g. 10 tokens with 18 decimals -> "10000000000000000000".
func ToBaseUnits(tokens decimal.Decimal, decimals int32) string {
	return tokens.Shift(decimals).String()
}

// FromBaseUnits parses a base-unit integer string back into a whole-token
// amount.
func FromBaseUnits(value string, decimals int32) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse base units %q: %w", value, err)
	}
	return d.Shift(-decimals), nil
}

// Cents computes a charge amount in integer cents for the given token count
// at the given per-token USD price.
func Cents(tokens, unitPriceUSD decimal.Decimal) int64 {
	return tokens.Mul(unitPriceUSD).Mul(decimal.NewFromInt(100)).IntPart()
}
