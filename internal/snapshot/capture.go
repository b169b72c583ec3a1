// Package snapshot captures a job's derived financial metrics as
// immutable history rows and reduces that history into weekly and
// month-end report data.
package snapshot

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hardhatdata/wip.git/internal/finance"
	"github.com/hardhatdata/wip.git/internal/model"
	"github.com/hardhatdata/wip.git/internal/risk"
)

// PeriodKey returns the reporting-bucket identifier a snapshot taken at
// t belongs to. One snapshot per (job, period key) is enforced by the
// store, which is what makes periodic capture idempotent.
func PeriodKey(cadence model.SnapshotCadence, t time.Time) string {
	switch cadence {
	case model.CadenceWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case model.CadenceMonthly:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// Capture derives a point-in-time snapshot of one job, with approved
// change orders folded in. The returned row is never mutated afterward;
// a later capture creates a new row.
func Capture(job model.Job, cos []model.ChangeOrder, history risk.History,
	asOf time.Time, cadence model.SnapshotCadence, policy risk.Policy) model.JobFinancialSnapshot {

	adjusted := finance.ApplyTotals(job, finance.TotalsWithCOs(job, cos))

	earned := finance.CalculateEarnedRevenue(adjusted)
	position := finance.CalculateBillingPosition(adjusted)
	assessment := risk.AnalyzeJobRisk(adjusted, history, asOf, policy)

	return model.JobFinancialSnapshot{
		ID:           uuid.NewString(),
		JobID:        job.ID,
		SnapshotDate: asOf,
		Cadence:      cadence,
		PeriodKey:    PeriodKey(cadence, asOf),

		ContractAmount: adjusted.Contract.Total(),
		CostsToDate:    adjusted.Costs,
		EarnedRevenue:  earned.Total,

		ForecastedCostFinal:   adjusted.Costs.Total().Add(adjusted.CostToComplete.Total()),
		ForecastedProfitFinal: finance.CalculateForecastedProfit(adjusted),
		ForecastedMarginFinal: finance.CalculateForecastedMarginPct(adjusted),

		BillingPositionNumeric: position.Difference,
		BillingPositionLabel:   position.Label,

		AtRiskMargin:   assessment.IsMarginFading,
		BehindSchedule: assessment.DriftWeeks > policy.DriftWarnWeeks,
	}
}
