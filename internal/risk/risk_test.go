package risk_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/hardhatdata/wip.git/internal/model"
	"github.com/hardhatdata/wip.git/internal/risk"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func breakdown(total string) model.CostBreakdown {
	return model.CostBreakdown{Labor: d(total)}
}

// fakeHistory serves a single baseline snapshot for every job.
type fakeHistory struct {
	snap model.JobFinancialSnapshot
	ok   bool
}

func (h fakeHistory) LatestBefore(jobID string, t time.Time) (model.JobFinancialSnapshot, bool) {
	return h.snap, h.ok
}

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func scheduledJob(start, end time.Time, budget, costs string) model.Job {
	return model.Job{
		ID:        "job-1",
		JobType:   model.JobTypeFixedPrice,
		Status:    model.JobStatusActive,
		StartDate: &start,
		EndDate:   &end,
		Budget:    breakdown(budget),
		Costs:     breakdown(costs),
	}
}

func TestScheduleDriftNoDates(t *testing.T) {
	job := model.Job{Budget: breakdown("100"), Costs: breakdown("10")}
	assert.Equal(t, 0, risk.CalculateScheduleDrift(job, date(2026, 8, 1)))
}

func TestScheduleDriftOnSchedule(t *testing.T) {
	// Halfway through the calendar, halfway through the budget.
	job := scheduledJob(date(2026, 1, 1), date(2026, 3, 12), "100000", "50000")
	assert.Equal(t, 0, risk.CalculateScheduleDrift(job, date(2026, 2, 5)))
}

func TestScheduleDriftBehind(t *testing.T) {
	// 10-week job, 50% of calendar elapsed, only 25% of budget spent:
	// lag is 25% of 10 weeks = 2.5, floored to 2.
	job := scheduledJob(date(2026, 1, 5), date(2026, 3, 16), "100000", "25000")
	asOf := date(2026, 2, 9) // 5 weeks in

	assert.Equal(t, 2, risk.CalculateScheduleDrift(job, asOf))
}

func TestScheduleDriftAheadNeverNegative(t *testing.T) {
	// 80% of budget spent with only 30% of calendar gone.
	job := scheduledJob(date(2026, 1, 5), date(2026, 3, 16), "100000", "80000")
	asOf := date(2026, 1, 26)

	assert.Equal(t, 0, risk.CalculateScheduleDrift(job, asOf))
}

func TestScheduleDriftPastEndDateClamps(t *testing.T) {
	// Well past the end date; elapsed clamps to 100% so drift stops
	// growing once the schedule is fully consumed.
	job := scheduledJob(date(2026, 1, 5), date(2026, 3, 16), "100000", "50000")
	farFuture := date(2027, 1, 1)

	assert.Equal(t, 5, risk.CalculateScheduleDrift(job, farFuture))
}

func TestMarginFadeNoHistory(t *testing.T) {
	job := scheduledJob(date(2026, 1, 1), date(2026, 6, 1), "100", "10")

	fade := risk.CalculateMarginFade(job, fakeHistory{ok: false}, date(2026, 3, 1))
	assert.True(t, fade.IsZero())

	fade = risk.CalculateMarginFade(job, nil, date(2026, 3, 1))
	assert.True(t, fade.IsZero())
}

func TestMarginFadeErosion(t *testing.T) {
	// Baseline forecast margin 20%, current margin 12%: 8 points of fade.
	job := model.Job{
		ID:             "job-1",
		JobType:        model.JobTypeFixedPrice,
		Contract:       breakdown("100000"),
		Costs:          breakdown("44000"),
		CostToComplete: breakdown("44000"),
	}
	history := fakeHistory{
		snap: model.JobFinancialSnapshot{ForecastedMarginFinal: d("20")},
		ok:   true,
	}

	fade := risk.CalculateMarginFade(job, history, date(2026, 8, 1))
	assert.True(t, fade.Equal(d("8")), "got %s", fade)
}

func TestMarginFadeImprovementIsZero(t *testing.T) {
	job := model.Job{
		ID:             "job-1",
		JobType:        model.JobTypeFixedPrice,
		Contract:       breakdown("100000"),
		Costs:          breakdown("40000"),
		CostToComplete: breakdown("40000"), // margin now 20%
	}
	history := fakeHistory{
		snap: model.JobFinancialSnapshot{ForecastedMarginFinal: d("15")},
		ok:   true,
	}

	fade := risk.CalculateMarginFade(job, history, date(2026, 8, 1))
	assert.True(t, fade.IsZero(), "got %s", fade)
}

// underbilledJob earns `earned` and has invoiced `invoiced`.
func underbilledJob(earned, invoiced string) model.Job {
	return model.Job{
		ID:       "job-1",
		JobType:  model.JobTypeTimeMaterial,
		Status:   model.JobStatusActive,
		Costs:    breakdown(earned), // no markups, bills at cost
		Invoiced: breakdown(invoiced),
	}
}

func TestUnderbillingRiskBands(t *testing.T) {
	policy := risk.DefaultPolicy()

	cases := []struct {
		name     string
		job      model.Job
		expected risk.RiskLevel
	}{
		{"over billed", underbilledJob("1000", "1200"), risk.RiskNone},
		{"even", underbilledJob("1000", "1000"), risk.RiskNone},
		{"no earned revenue", underbilledJob("0", "0"), risk.RiskNone},
		{"5% under is low", underbilledJob("1000", "950"), risk.RiskLow},
		{"10% under is medium", underbilledJob("1000", "900"), risk.RiskMedium},
		{"30% under is medium", underbilledJob("1000", "700"), risk.RiskMedium},
		{"60% under is high", underbilledJob("1000", "400"), risk.RiskHigh},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, risk.UnderbillingRisk(tc.job, policy))
		})
	}
}

func TestAnalyzeJobRiskSeverelyUnderbilled(t *testing.T) {
	policy := risk.DefaultPolicy()

	// 80% under-billed: past both the 50% attention and 75% severe bars.
	a := risk.AnalyzeJobRisk(underbilledJob("1000", "200"), nil, date(2026, 8, 1), policy)

	assert.Equal(t, risk.RiskHigh, a.UnderbillingRisk)
	assert.True(t, a.NeedsAttention)
	assert.True(t, a.IsSevere)
}

func TestAnalyzeJobRiskAttentionOnly(t *testing.T) {
	policy := risk.DefaultPolicy()

	// 60% under-billed: needs attention but not severe.
	a := risk.AnalyzeJobRisk(underbilledJob("1000", "400"), nil, date(2026, 8, 1), policy)

	assert.True(t, a.NeedsAttention)
	assert.False(t, a.IsSevere)
}

func TestAnalyzeJobRiskHealthy(t *testing.T) {
	policy := risk.DefaultPolicy()

	a := risk.AnalyzeJobRisk(underbilledJob("1000", "1000"), nil, date(2026, 8, 1), policy)

	assert.Equal(t, risk.RiskNone, a.UnderbillingRisk)
	assert.False(t, a.NeedsAttention)
	assert.False(t, a.IsSevere)
	assert.False(t, a.IsMarginFading)
	assert.Equal(t, 0, a.DriftWeeks)
}

func TestAnalyzeJobRiskMarginFadeTriggers(t *testing.T) {
	policy := risk.DefaultPolicy()

	job := model.Job{
		ID:             "job-1",
		JobType:        model.JobTypeFixedPrice,
		Contract:       breakdown("100000"),
		Costs:          breakdown("45000"),
		CostToComplete: breakdown("45000"), // margin now 10%
		Invoiced:       breakdown("50000"),
	}
	history := fakeHistory{
		snap: model.JobFinancialSnapshot{ForecastedMarginFinal: d("25")},
		ok:   true,
	}

	a := risk.AnalyzeJobRisk(job, history, date(2026, 8, 1), policy)

	assert.True(t, a.FadePts.Equal(d("15")), "got %s", a.FadePts)
	assert.True(t, a.IsMarginFading)
	assert.True(t, a.NeedsAttention)
	assert.False(t, a.IsSevere)
}
