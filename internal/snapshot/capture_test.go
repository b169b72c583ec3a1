package snapshot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hardhatdata/wip.git/internal/model"
	"github.com/hardhatdata/wip.git/internal/risk"
	"github.com/hardhatdata/wip.git/internal/snapshot"
)

func TestPeriodKeyFormats(t *testing.T) {
	taken := date(2026, 8, 26) // ISO week 35

	assert.Equal(t, "2026-W35", snapshot.PeriodKey(model.CadenceWeekly, taken))
	assert.Equal(t, "2026-08", snapshot.PeriodKey(model.CadenceMonthly, taken))
	assert.Equal(t, "2026-08-26", snapshot.PeriodKey(model.CadenceManual, taken))
}

func TestPeriodKeyWeeklyYearBoundary(t *testing.T) {
	// Jan 1 2027 falls in ISO week 53 of 2026; the key must follow the
	// ISO year so the same week never splits into two periods.
	assert.Equal(t, "2026-W53", snapshot.PeriodKey(model.CadenceWeekly, date(2027, 1, 1)))
}

func TestCaptureDerivesFinancials(t *testing.T) {
	job := model.Job{
		ID:      "job-1",
		JobType: model.JobTypeFixedPrice,
		Status:  model.JobStatusActive,

		Contract:       model.CostBreakdown{Labor: d("100000")},
		Budget:         model.CostBreakdown{Labor: d("80000")},
		Costs:          model.CostBreakdown{Labor: d("40000")},
		CostToComplete: model.CostBreakdown{Labor: d("40000")},
		Invoiced:       model.CostBreakdown{Labor: d("30000")},
	}
	asOf := date(2026, 8, 26)

	snap := snapshot.Capture(job, nil, nil, asOf, model.CadenceWeekly, risk.DefaultPolicy())

	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, "job-1", snap.JobID)
	assert.Equal(t, asOf, snap.SnapshotDate)
	assert.Equal(t, model.CadenceWeekly, snap.Cadence)
	assert.Equal(t, "2026-W35", snap.PeriodKey)

	assert.True(t, snap.ContractAmount.Equal(d("100000")))
	assert.True(t, snap.EarnedRevenue.Equal(d("50000")))
	assert.True(t, snap.ForecastedCostFinal.Equal(d("80000")))
	assert.True(t, snap.ForecastedProfitFinal.Equal(d("20000")))
	assert.True(t, snap.ForecastedMarginFinal.Equal(d("20")))
	assert.True(t, snap.BillingPositionNumeric.Equal(d("-20000")))
	assert.Equal(t, "Under Billed", snap.BillingPositionLabel)

	// No baseline snapshot and no schedule dates: nothing to flag.
	assert.False(t, snap.AtRiskMargin)
	assert.False(t, snap.BehindSchedule)
}

func TestCaptureFoldsApprovedChangeOrders(t *testing.T) {
	job := model.Job{
		ID:       "job-1",
		JobType:  model.JobTypeFixedPrice,
		Status:   model.JobStatusActive,
		Contract: model.CostBreakdown{Labor: d("100000")},
		Budget:   model.CostBreakdown{Labor: d("80000")},
		Costs:    model.CostBreakdown{Labor: d("40000")},
	}
	cos := []model.ChangeOrder{
		{Status: model.COStatusApproved, Contract: model.CostBreakdown{Labor: d("20000")}},
		{Status: model.COStatusPending, Contract: model.CostBreakdown{Labor: d("5000")}},
	}

	snap := snapshot.Capture(job, cos, nil, date(2026, 8, 26), model.CadenceManual, risk.DefaultPolicy())

	assert.True(t, snap.ContractAmount.Equal(d("120000")), "got %s", snap.ContractAmount)
}

func TestCaptureSamePeriodSameKey(t *testing.T) {
	job := model.Job{ID: "job-1", JobType: model.JobTypeFixedPrice, Status: model.JobStatusActive}
	policy := risk.DefaultPolicy()

	// Two captures in the same ISO week carry the same period key; the
	// store's unique constraint turns the second into a no-op.
	first := snapshot.Capture(job, nil, nil, date(2026, 8, 24), model.CadenceWeekly, policy)
	second := snapshot.Capture(job, nil, nil, date(2026, 8, 26), model.CadenceWeekly, policy)

	assert.Equal(t, first.PeriodKey, second.PeriodKey)
	assert.NotEqual(t, first.ID, second.ID)
}
