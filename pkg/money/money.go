// Package money formats integer minor-unit amounts for display.
package money

import "github.com/shopspring/decimal"

// Format renders minor units with two decimal places, e.g. 1050 -> "10.50"
func Format(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}

// FromMajor converts a decimal string in major units to minor units.
// Fractions beyond two places are truncated toward zero.
func FromMajor(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.Shift(2).Truncate(0).IntPart(), nil
}
