package model

import "github.com/shopspring/decimal"

// CostBreakdown splits a monetary amount into the three cost categories
// used across every job record: labor, material, and everything else.
// All fields are dollar amounts; the data-entry boundary guarantees they
// are populated (never negative, never missing) before they reach the
// calculation packages.
type CostBreakdown struct {
	Labor    decimal.Decimal
	Material decimal.Decimal
	Other    decimal.Decimal
}

// Total returns labor + material + other.
func (b CostBreakdown) Total() decimal.Decimal {
	return b.Labor.Add(b.Material).Add(b.Other)
}

// Add returns the component-wise sum of two breakdowns. Used when folding
// change-order amounts into a job's base figures.
func (b CostBreakdown) Add(o CostBreakdown) CostBreakdown {
	return CostBreakdown{
		Labor:    b.Labor.Add(o.Labor),
		Material: b.Material.Add(o.Material),
		Other:    b.Other.Add(o.Other),
	}
}

// IsZero reports whether all three components are zero.
func (b CostBreakdown) IsZero() bool {
	return b.Labor.IsZero() && b.Material.IsZero() && b.Other.IsZero()
}
