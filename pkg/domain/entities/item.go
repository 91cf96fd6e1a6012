package entities

import "github.com/shopspring/decimal"

// ItemID identifies a material: a finished good, sub-assembly or component
type ItemID string

// OrderID identifies a sales order
type OrderID string

// Quantity is an exact decimal amount of material.
// Ratios and bucket sums stay exact across long explosion chains.
type Quantity = decimal.Decimal

// Qty builds a Quantity from an integer, mostly for fixtures
func Qty(v int64) Quantity {
	return decimal.NewFromInt(v)
}

// ParseQuantity parses a decimal string. Empty input is zero.
func ParseQuantity(s string) (Quantity, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// MinQty returns the smaller of two quantities
func MinQty(a, b Quantity) Quantity {
	if a.LessThan(b) {
		return a
	}
	return b
}

// NonNegative clamps a quantity at zero
func NonNegative(q Quantity) Quantity {
	if q.IsNegative() {
		return decimal.Zero
	}
	return q
}
