// Package render formats plans and risk profiles for people and for XML clients.
package render

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Money formats an amount with two decimals. Rounding is done on the exact
// binary value, half to even, the same way the recommendation texts print it.
func Money(v float64) string {
	return fixed(v, 2)
}

// Months formats a duration in months with one decimal
func Months(v float64) string {
	return fixed(v, 1)
}

// Ratio formats a score or rate without losing precision
func Ratio(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fixed(v float64, places int32) string {
	s := strconv.FormatFloat(v, 'f', int(places), 64)
	d, err := decimal.NewFromString(s)
	if err != nil {
		// NaN and infinities have no decimal form
		return s
	}
	return d.StringFixed(places)
}
