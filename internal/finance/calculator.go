// Package finance derives a job's economic state from its raw cost,
// contract, and billing figures: earned revenue, billing position,
// forecasted profit and margin, and change-order-adjusted totals. Every
// function is a pure transformation over in-memory data; nothing here
// touches the database or mutates its inputs.
package finance

import (
	"github.com/shopspring/decimal"

	"github.com/hardhatdata/wip.git/internal/model"
)

// Billing position labels shown on WIP reports. An even position (billed
// exactly what was earned) carries the neutral label.
const (
	LabelOverBilled  = "Over Billed"
	LabelUnderBilled = "Under Billed"
	LabelEven        = "Even"
)

var hundred = decimal.NewFromInt(100)

// EarnedRevenue is the portion of job value recognized as earned, with
// per-category detail when the billing method produces it.
type EarnedRevenue struct {
	Total decimal.Decimal
	// ByCategory is set for T&M jobs, where each cost category earns at
	// its own markup. Fixed-price earned revenue has no category split.
	ByCategory *model.CostBreakdown
}

// BillingPosition is invoiced-to-date relative to earned revenue.
// Positive means cash ahead of work (over-billed), negative means work
// ahead of cash (under-billed).
type BillingPosition struct {
	Difference   decimal.Decimal
	IsOverBilled bool
	Label        string
}

// valuation is the per-job-type calculation strategy. Dispatching once
// here keeps the fixed-price / T&M branching out of every caller.
type valuation interface {
	earnedRevenue(job model.Job) EarnedRevenue
	forecastedProfit(job model.Job) decimal.Decimal
	marginBasis(job model.Job) decimal.Decimal
}

func valuationFor(job model.Job) valuation {
	if job.JobType == model.JobTypeTimeMaterial {
		return timeAndMaterials{}
	}
	return fixedPrice{}
}

// fixedPrice earns contract value by cost-based percent complete and
// forecasts profit against the full contract ceiling.
type fixedPrice struct{}

func (fixedPrice) earnedRevenue(job model.Job) EarnedRevenue {
	pct := PercentComplete(job)
	if pct.GreaterThan(decimal.NewFromInt(1)) {
		// Over-budget jobs never recognize more than 100% of contract.
		pct = decimal.NewFromInt(1)
	}
	return EarnedRevenue{Total: job.Contract.Total().Mul(pct)}
}

func (fixedPrice) forecastedProfit(job model.Job) decimal.Decimal {
	forecastCost := job.Costs.Total().Add(job.CostToComplete.Total())
	return job.Contract.Total().Sub(forecastCost)
}

func (fixedPrice) marginBasis(job model.Job) decimal.Decimal {
	return job.Contract.Total()
}

// timeAndMaterials earns actual cost times the category markup, with no
// contract ceiling. Profit exists only on work already done.
type timeAndMaterials struct{}

func (timeAndMaterials) earnedRevenue(job model.Job) EarnedRevenue {
	byCategory := tmEarnedByCategory(job.Costs, job.TMSettings)
	return EarnedRevenue{
		Total:      byCategory.Total(),
		ByCategory: &byCategory,
	}
}

func (tm timeAndMaterials) forecastedProfit(job model.Job) decimal.Decimal {
	return tm.earnedRevenue(job).Total.Sub(job.Costs.Total())
}

func (tm timeAndMaterials) marginBasis(job model.Job) decimal.Decimal {
	return tm.earnedRevenue(job).Total
}

// tmEarnedByCategory applies the T&M billing settings to actual costs.
// A job with no settings bills at cost (all markups effectively 1.0),
// which the entry boundary warns about but the calculator tolerates.
func tmEarnedByCategory(costs model.CostBreakdown, s *model.TMSettings) model.CostBreakdown {
	if s == nil {
		return costs
	}

	var labor decimal.Decimal
	if s.LaborBillingType == model.LaborBillingFixedRate {
		labor = s.LaborBillRate.Mul(s.LaborHours)
	} else {
		labor = costs.Labor.Mul(s.LaborMarkup)
	}

	return model.CostBreakdown{
		Labor:    labor,
		Material: costs.Material.Mul(s.MaterialMarkup),
		Other:    costs.Other.Mul(s.OtherMarkup),
	}
}

// PercentComplete returns cost progress as a fraction of budget
// (0.5 = 50% complete). Deliberately unclamped: progress displays want
// to show 1.2 for a job 20% over budget. Zero budget yields 0.
func PercentComplete(job model.Job) decimal.Decimal {
	budget := job.Budget.Total()
	if budget.IsZero() {
		return decimal.Zero
	}
	return job.Costs.Total().Div(budget)
}

// CalculateEarnedRevenue returns the revenue recognized to date.
// Fixed-price: contract times percent complete, capped at 100% of
// contract. T&M: cost-plus-markup per category, uncapped.
func CalculateEarnedRevenue(job model.Job) EarnedRevenue {
	return valuationFor(job).earnedRevenue(job)
}

// CalculateBillingPosition compares invoiced-to-date against earned
// revenue. A zero difference is the neutral "Even" state.
func CalculateBillingPosition(job model.Job) BillingPosition {
	earned := CalculateEarnedRevenue(job)
	diff := job.Invoiced.Total().Sub(earned.Total)

	pos := BillingPosition{Difference: diff}
	switch diff.Sign() {
	case 1:
		pos.IsOverBilled = true
		pos.Label = LabelOverBilled
	case -1:
		pos.Label = LabelUnderBilled
	default:
		pos.Label = LabelEven
	}
	return pos
}

// CalculateForecastedProfit projects profit at completion. Fixed-price:
// contract minus (costs to date + cost to complete). T&M: earned minus
// actual costs, since there is no fixed ceiling to forecast against.
func CalculateForecastedProfit(job model.Job) decimal.Decimal {
	return valuationFor(job).forecastedProfit(job)
}

// CalculateForecastedMarginPct returns the forecasted margin as a
// percentage of the job's margin basis (contract for fixed-price,
// earned revenue for T&M). A zero basis yields 0, never a division
// error.
func CalculateForecastedMarginPct(job model.Job) decimal.Decimal {
	basis := valuationFor(job).marginBasis(job)
	if basis.IsZero() {
		return decimal.Zero
	}
	return CalculateForecastedProfit(job).Div(basis).Mul(hundred)
}

// OriginalProfit is the profit the job was bid at: contract minus
// budget. Only meaningful for fixed-price jobs.
func OriginalProfit(job model.Job) decimal.Decimal {
	return job.Contract.Total().Sub(job.Budget.Total())
}

// CalculateProfitVariance is forecasted profit minus original profit for
// fixed-price jobs. T&M jobs have no original baseline distinct from
// current earned economics, so forecasted profit stands in directly.
func CalculateProfitVariance(job model.Job) decimal.Decimal {
	if job.JobType == model.JobTypeTimeMaterial {
		return CalculateForecastedProfit(job)
	}
	return CalculateForecastedProfit(job).Sub(OriginalProfit(job))
}

// TargetProfitVariance compares forecasted profit to the PM-set target.
// Returns (zero, false) when no target was set; callers must distinguish
// that from a variance of exactly zero.
func TargetProfitVariance(job model.Job) (decimal.Decimal, bool) {
	if job.TargetProfit == nil {
		return decimal.Zero, false
	}
	return CalculateForecastedProfit(job).Sub(*job.TargetProfit), true
}

// TargetMarginVariance compares forecasted margin percentage to the
// PM-set target margin. Returns (zero, false) when no target was set.
func TargetMarginVariance(job model.Job) (decimal.Decimal, bool) {
	if job.TargetMargin == nil {
		return decimal.Zero, false
	}
	return CalculateForecastedMarginPct(job).Sub(*job.TargetMargin), true
}
