// Package decimalutil collects the small set of exact-arithmetic helpers the
// OMS needs on top of shopspring/decimal: notional calculation, volume-weighted
// average price, and positive/optional decimal parsing.
package decimalutil

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Notional returns price * quantity.
func Notional(price decimal.Decimal, quantity int64) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(quantity))
}

// VWAP folds a new fill into a running volume-weighted average price.
// prevQty/prevAvg describe the position before the fill; fillQty/fillPrice
// describe the fill being applied. Returns the new average price.
func VWAP(prevQty int64, prevAvg decimal.Decimal, fillQty int64, fillPrice decimal.Decimal) decimal.Decimal {
	totalQty := prevQty + fillQty
	if totalQty <= 0 {
		return decimal.Zero
	}
	prevNotional := prevAvg.Mul(decimal.NewFromInt(prevQty))
	fillNotional := fillPrice.Mul(decimal.NewFromInt(fillQty))
	return prevNotional.Add(fillNotional).Div(decimal.NewFromInt(totalQty))
}

// ParsePositive parses s as a decimal and requires it to be strictly positive.
func ParsePositive(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("decimalutil: invalid decimal %q: %w", s, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("decimalutil: %q is not positive", s)
	}
	return d, nil
}

// ParseOptional parses s as a decimal, returning (Zero, false, nil) for an
// empty string rather than an error, for values that are only sometimes
// present (e.g. a stop_limit_price strategy param).
func ParseOptional(s string) (decimal.Decimal, bool, error) {
	if s == "" {
		return decimal.Zero, false, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("decimalutil: invalid decimal %q: %w", s, err)
	}
	return d, true, nil
}
