package finance

import (
	"github.com/shopspring/decimal"

	"github.com/hardhatdata/wip.git/internal/model"
)

// sumApproved folds one breakdown field across approved and completed
// change orders. Pending and rejected change orders never contribute.
func sumApproved(cos []model.ChangeOrder, field func(model.ChangeOrder) model.CostBreakdown) model.CostBreakdown {
	var total model.CostBreakdown
	for _, co := range cos {
		if co.Status.CountsTowardTotals() {
			total = total.Add(field(co))
		}
	}
	return total
}

// SumApprovedContract sums contract amounts across approved/completed
// change orders.
func SumApprovedContract(cos []model.ChangeOrder) model.CostBreakdown {
	return sumApproved(cos, func(co model.ChangeOrder) model.CostBreakdown { return co.Contract })
}

// SumApprovedBudget sums budget amounts across approved/completed change
// orders.
func SumApprovedBudget(cos []model.ChangeOrder) model.CostBreakdown {
	return sumApproved(cos, func(co model.ChangeOrder) model.CostBreakdown { return co.Budget })
}

// SumApprovedCosts sums actual costs across approved/completed change
// orders.
func SumApprovedCosts(cos []model.ChangeOrder) model.CostBreakdown {
	return sumApproved(cos, func(co model.ChangeOrder) model.CostBreakdown { return co.Costs })
}

// PendingContractTotal is the contract value sitting in pending change
// orders. Surfaced to users as "not yet included" money; never folded
// into job totals.
func PendingContractTotal(cos []model.ChangeOrder) decimal.Decimal {
	total := decimal.Zero
	for _, co := range cos {
		if co.Status == model.COStatusPending {
			total = total.Add(co.Contract.Total())
		}
	}
	return total
}

// CountByStatus tallies change orders per status for badge displays.
func CountByStatus(cos []model.ChangeOrder) map[model.COStatus]int {
	counts := make(map[model.COStatus]int)
	for _, co := range cos {
		counts[co.Status]++
	}
	return counts
}

// JobTotals is a job's five breakdowns with approved change orders
// folded in, plus the pending contract value kept to the side.
type JobTotals struct {
	Contract       model.CostBreakdown
	Budget         model.CostBreakdown
	Costs          model.CostBreakdown
	CostToComplete model.CostBreakdown
	Invoiced       model.CostBreakdown

	PendingContract decimal.Decimal
	// HasApprovedCOs lets presentation layers suppress change-order
	// sections when nothing has been approved.
	HasApprovedCOs bool
}

// TotalsWithCOs folds approved and completed change orders into the
// job's base figures, component-wise per breakdown.
func TotalsWithCOs(job model.Job, cos []model.ChangeOrder) JobTotals {
	totals := JobTotals{
		Contract:        job.Contract,
		Budget:          job.Budget,
		Costs:           job.Costs,
		CostToComplete:  job.CostToComplete,
		Invoiced:        job.Invoiced,
		PendingContract: PendingContractTotal(cos),
	}

	for _, co := range cos {
		if !co.Status.CountsTowardTotals() {
			continue
		}
		totals.HasApprovedCOs = true
		totals.Contract = totals.Contract.Add(co.Contract)
		totals.Budget = totals.Budget.Add(co.Budget)
		totals.Costs = totals.Costs.Add(co.Costs)
		totals.CostToComplete = totals.CostToComplete.Add(co.CostToComplete)
		totals.Invoiced = totals.Invoiced.Add(co.Invoiced)
	}

	return totals
}

// ApplyTotals returns a copy of the job with the combined breakdowns in
// place of its base figures, so the calculator functions run unchanged
// against change-order-adjusted numbers. T&M markups stay the job's own;
// approved T&M change-order work bills at the parent job's rates.
func ApplyTotals(job model.Job, totals JobTotals) model.Job {
	job.Contract = totals.Contract
	job.Budget = totals.Budget
	job.Costs = totals.Costs
	job.CostToComplete = totals.CostToComplete
	job.Invoiced = totals.Invoiced
	return job
}

// CalculateForecastedProfitWithCOs re-runs the profit forecast against
// change-order-adjusted totals.
func CalculateForecastedProfitWithCOs(job model.Job, cos []model.ChangeOrder) decimal.Decimal {
	return CalculateForecastedProfit(ApplyTotals(job, TotalsWithCOs(job, cos)))
}
