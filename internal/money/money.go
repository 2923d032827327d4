// Package money provides fixed-point currency arithmetic in integer cents.
//
// All amounts in the system are carried as Cents end to end so that split
// allocation and balance sums are exact; conversion to floating point happens
// only at the JSON boundary.
package money

import (
	"fmt"
	"math"
)

// Cents is a monetary amount in hundredths of the currency unit.
type Cents int64

// FromFloat converts a 2-decimal currency value (as received in JSON) to
// Cents, rounding half away from zero.
func FromFloat(f float64) Cents {
	return Cents(math.Round(f * 100))
}

// Float64 converts back to a currency value for serialization.
func (c Cents) Float64() float64 {
	return float64(c) / 100
}

// Abs returns the absolute value.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// String formats the amount with two decimals, e.g. "90.00".
func (c Cents) String() string {
	sign := ""
	v := c
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// SplitEven divides total into n shares that sum exactly to total.
// Every share gets total/n floored to a cent; the remainder cents are
// assigned to the first share. Callers put the payer first so leftover
// cents land on the payer.
func SplitEven(total Cents, n int) ([]Cents, error) {
	if n <= 0 {
		return nil, fmt.Errorf("cannot split among %d participants", n)
	}
	if total < 0 {
		return nil, fmt.Errorf("cannot split negative amount %s", total)
	}
	base := total / Cents(n)
	remainder := total - base*Cents(n)
	shares := make([]Cents, n)
	for i := range shares {
		shares[i] = base
	}
	shares[0] += remainder
	return shares, nil
}
