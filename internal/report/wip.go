package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hardhatdata/wip.git/internal/finance"
	"github.com/hardhatdata/wip.git/internal/model"
	"github.com/hardhatdata/wip.git/internal/portfolio"
	"github.com/hardhatdata/wip.git/internal/risk"
)

// WIPReport is the full work-in-progress picture across open jobs:
// one row per job with change-order-adjusted figures, plus portfolio
// totals and the health score.
type WIPReport struct {
	GeneratedAt time.Time
	AsOf        time.Time

	Rows   []WIPRow
	Totals WIPTotals
	Health portfolio.Health

	// AtRiskCount is how many rows need attention under the active
	// policy; the header shows it as a quick triage number.
	AtRiskCount int
}

// WIPRow is one job's line on the WIP report. All monetary figures have
// approved change orders folded in; pending change-order value is shown
// to the side.
type WIPRow struct {
	JobNo   string
	JobName string
	JobType model.JobType
	Status  model.JobStatus

	Contract        decimal.Decimal
	PendingContract decimal.Decimal
	Budget          decimal.Decimal
	CostsToDate     decimal.Decimal
	CostToComplete  decimal.Decimal
	Invoiced        decimal.Decimal

	PercentComplete decimal.Decimal // fraction, unclamped
	EarnedRevenue   decimal.Decimal

	BillingDiff  decimal.Decimal
	BillingLabel string

	ForecastProfit    decimal.Decimal
	ForecastMarginPct decimal.Decimal
	ProfitVariance    decimal.Decimal

	Risk risk.Assessment
}

// WIPTotals is the column-sum footer of the report.
type WIPTotals struct {
	Contract        decimal.Decimal
	PendingContract decimal.Decimal
	CostsToDate     decimal.Decimal
	EarnedRevenue   decimal.Decimal
	Invoiced        decimal.Decimal
	BillingDiff     decimal.Decimal
	ForecastProfit  decimal.Decimal
}

// BuildWIP assembles the report over open jobs. Closed and unstarted
// jobs are skipped; they have no work in progress to report. Rows come
// back sorted by job number.
func BuildWIP(jobs []model.Job, cosByJob map[string][]model.ChangeOrder, history risk.History, asOf time.Time, policy risk.Policy) *WIPReport {
	rep := &WIPReport{
		GeneratedAt: time.Now(),
		AsOf:        asOf,
	}

	var open []model.Job
	for _, job := range jobs {
		if job.Status.IsOpen() {
			open = append(open, job)
		}
	}

	for _, job := range open {
		row := buildRow(job, cosByJob[job.ID], history, asOf, policy)
		rep.Rows = append(rep.Rows, row)

		rep.Totals.Contract = rep.Totals.Contract.Add(row.Contract)
		rep.Totals.PendingContract = rep.Totals.PendingContract.Add(row.PendingContract)
		rep.Totals.CostsToDate = rep.Totals.CostsToDate.Add(row.CostsToDate)
		rep.Totals.EarnedRevenue = rep.Totals.EarnedRevenue.Add(row.EarnedRevenue)
		rep.Totals.Invoiced = rep.Totals.Invoiced.Add(row.Invoiced)
		rep.Totals.BillingDiff = rep.Totals.BillingDiff.Add(row.BillingDiff)
		rep.Totals.ForecastProfit = rep.Totals.ForecastProfit.Add(row.ForecastProfit)

		if row.Risk.NeedsAttention {
			rep.AtRiskCount++
		}
	}

	sort.Slice(rep.Rows, func(i, j int) bool {
		return rep.Rows[i].JobNo < rep.Rows[j].JobNo
	})

	rep.Health = portfolio.ScoreJobs(open, policy)
	return rep
}

func buildRow(job model.Job, cos []model.ChangeOrder, history risk.History, asOf time.Time, policy risk.Policy) WIPRow {
	adjusted := finance.ApplyTotals(job, finance.TotalsWithCOs(job, cos))

	earned := finance.CalculateEarnedRevenue(adjusted)
	pos := finance.CalculateBillingPosition(adjusted)

	return WIPRow{
		JobNo:   job.JobNo,
		JobName: job.JobName,
		JobType: job.JobType,
		Status:  job.Status,

		Contract:        adjusted.Contract.Total(),
		PendingContract: finance.PendingContractTotal(cos),
		Budget:          adjusted.Budget.Total(),
		CostsToDate:     adjusted.Costs.Total(),
		CostToComplete:  adjusted.CostToComplete.Total(),
		Invoiced:        adjusted.Invoiced.Total(),

		PercentComplete: finance.PercentComplete(adjusted),
		EarnedRevenue:   earned.Total,

		BillingDiff:  pos.Difference,
		BillingLabel: pos.Label,

		ForecastProfit:    finance.CalculateForecastedProfit(adjusted),
		ForecastMarginPct: finance.CalculateForecastedMarginPct(adjusted),
		ProfitVariance:    finance.CalculateProfitVariance(adjusted),

		Risk: risk.AnalyzeJobRisk(adjusted, history, asOf, policy),
	}
}

// AtRiskRows filters the report down to jobs needing attention,
// severe ones first.
func (r *WIPReport) AtRiskRows() []WIPRow {
	var rows []WIPRow
	for _, row := range r.Rows {
		if row.Risk.NeedsAttention {
			rows = append(rows, row)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Risk.IsSevere && !rows[j].Risk.IsSevere
	})
	return rows
}
