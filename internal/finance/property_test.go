//go:build property
// +build property

// Package finance_test property tests cover the algebraic invariants of
// the money math: breakdown totals, the earned-revenue cap, and billing
// label consistency.
package finance_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"github.com/hardhatdata/wip.git/internal/finance"
	"github.com/hardhatdata/wip.git/internal/model"
)

func breakdownGen() gopter.Gen {
	return gopter.CombineGens(
		gen.Int64Range(0, 10_000_000),
		gen.Int64Range(0, 10_000_000),
		gen.Int64Range(0, 10_000_000),
	).Map(func(vals []interface{}) model.CostBreakdown {
		return model.CostBreakdown{
			Labor:    decimal.New(vals[0].(int64), -2),
			Material: decimal.New(vals[1].(int64), -2),
			Other:    decimal.New(vals[2].(int64), -2),
		}
	})
}

// TestBreakdownTotalIsComponentSum verifies Total is exactly the three
// components added, for any cent amounts.
func TestBreakdownTotalIsComponentSum(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("total equals labor+material+other", prop.ForAll(
		func(b model.CostBreakdown) bool {
			return b.Total().Equal(b.Labor.Add(b.Material).Add(b.Other))
		},
		breakdownGen(),
	))

	properties.TestingRun(t)
}

// TestBreakdownAddIsComponentWise verifies Add distributes over Total.
func TestBreakdownAddIsComponentWise(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("total of sum equals sum of totals", prop.ForAll(
		func(a, b model.CostBreakdown) bool {
			return a.Add(b).Total().Equal(a.Total().Add(b.Total()))
		},
		breakdownGen(),
		breakdownGen(),
	))

	properties.TestingRun(t)
}

// TestFixedPriceEarnedNeverExceedsContract verifies the earned-revenue
// cap holds for any non-negative cost and budget figures.
func TestFixedPriceEarnedNeverExceedsContract(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("earned <= contract", prop.ForAll(
		func(contract, budget, costs model.CostBreakdown) bool {
			job := model.Job{
				JobType:  model.JobTypeFixedPrice,
				Contract: contract,
				Budget:   budget,
				Costs:    costs,
			}
			earned := finance.CalculateEarnedRevenue(job)
			return earned.Total.LessThanOrEqual(contract.Total())
		},
		breakdownGen(),
		breakdownGen(),
		breakdownGen(),
	))

	properties.TestingRun(t)
}

// TestBillingLabelMatchesDifferenceSign verifies the label, flag, and
// numeric difference always agree.
func TestBillingLabelMatchesDifferenceSign(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("label agrees with difference sign", prop.ForAll(
		func(contract, budget, costs, invoiced model.CostBreakdown) bool {
			job := model.Job{
				JobType:  model.JobTypeFixedPrice,
				Contract: contract,
				Budget:   budget,
				Costs:    costs,
				Invoiced: invoiced,
			}
			pos := finance.CalculateBillingPosition(job)
			switch pos.Difference.Sign() {
			case 1:
				return pos.IsOverBilled && pos.Label == finance.LabelOverBilled
			case -1:
				return !pos.IsOverBilled && pos.Label == finance.LabelUnderBilled
			default:
				return !pos.IsOverBilled && pos.Label == finance.LabelEven
			}
		},
		breakdownGen(),
		breakdownGen(),
		breakdownGen(),
		breakdownGen(),
	))

	properties.TestingRun(t)
}

// TestTMEarnedScalesWithMarkup verifies T&M earned revenue is monotone
// in the markup multiplier.
func TestTMEarnedScalesWithMarkup(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("higher markup never earns less", prop.ForAll(
		func(costs model.CostBreakdown, markupCents int64) bool {
			low := decimal.New(100+markupCents, -2)  // 1.00 .. 3.00
			high := low.Add(decimal.New(25, -2))

			jobAt := func(markup decimal.Decimal) model.Job {
				return model.Job{
					JobType: model.JobTypeTimeMaterial,
					Costs:   costs,
					TMSettings: &model.TMSettings{
						LaborBillingType: model.LaborBillingMarkup,
						LaborMarkup:      markup,
						MaterialMarkup:   markup,
						OtherMarkup:      markup,
					},
				}
			}

			lowEarned := finance.CalculateEarnedRevenue(jobAt(low)).Total
			highEarned := finance.CalculateEarnedRevenue(jobAt(high)).Total
			return lowEarned.LessThanOrEqual(highEarned)
		},
		breakdownGen(),
		gen.Int64Range(0, 200),
	))

	properties.TestingRun(t)
}
