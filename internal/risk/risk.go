package risk

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hardhatdata/wip.git/internal/finance"
	"github.com/hardhatdata/wip.git/internal/model"
)

// RiskLevel is the under-billing severity ladder.
type RiskLevel string

const (
	RiskNone   RiskLevel = "None"
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// History supplies prior snapshots for baseline comparisons. The store
// implements it against Postgres; tests implement it with slices.
type History interface {
	// LatestBefore returns the most recent snapshot of the job taken
	// strictly before t, or ok=false when none exists.
	LatestBefore(jobID string, t time.Time) (model.JobFinancialSnapshot, bool)
}

// Assessment is the composite risk picture for one job.
type Assessment struct {
	UnderbillingRisk RiskLevel
	DriftWeeks       int
	// FadePts is how many percentage points of forecasted margin have
	// eroded since the baseline snapshot. Zero when no baseline exists.
	FadePts        decimal.Decimal
	IsMarginFading bool

	// NeedsAttention and IsSevere back the report filters; they apply
	// the policy cutoffs so every call site agrees on what "at risk"
	// means.
	NeedsAttention bool
	IsSevere       bool
}

// CalculateScheduleDrift estimates how many whole weeks the job's
// financial progress lags its calendar progress, floored at 0. A job
// ahead of or on schedule never reports negative drift. Jobs without a
// start/end date, or with a zero-length schedule, report 0.
func CalculateScheduleDrift(job model.Job, asOf time.Time) int {
	if job.StartDate == nil || job.EndDate == nil {
		return 0
	}
	start, end := *job.StartDate, *job.EndDate
	if !end.After(start) {
		return 0
	}

	totalDuration := end.Sub(start)
	elapsed := asOf.Sub(start).Seconds() / totalDuration.Seconds()
	// Clamp elapsed time for jobs past their original end date; drift
	// beyond 100% of the schedule is already fully counted.
	elapsed = clamp01(elapsed)

	progress := clamp01(decimalToFloat(finance.PercentComplete(job)))

	if elapsed <= progress {
		return 0
	}

	totalWeeks := totalDuration.Hours() / (24 * 7)
	return int(math.Floor((elapsed - progress) * totalWeeks))
}

// CalculateMarginFade compares the job's current forecasted margin
// percentage against its most recent prior snapshot. Only erosion
// counts; margin improvement reports zero fade. With no baseline there
// is nothing to compare, so fade is zero.
func CalculateMarginFade(job model.Job, history History, asOf time.Time) decimal.Decimal {
	if history == nil {
		return decimal.Zero
	}
	baseline, ok := history.LatestBefore(job.ID, asOf)
	if !ok {
		return decimal.Zero
	}

	fade := baseline.ForecastedMarginFinal.Sub(finance.CalculateForecastedMarginPct(job))
	if fade.Sign() < 0 {
		return decimal.Zero
	}
	return fade
}

// UnderbillingRisk classifies how badly under-billed the job is, as a
// percent of earned revenue. Over-billed and even jobs are RiskNone, as
// are jobs with no earned revenue yet (nothing to be behind on).
func UnderbillingRisk(job model.Job, policy Policy) RiskLevel {
	pct, underBilled := underbilledPct(job)
	if !underBilled {
		return RiskNone
	}

	switch {
	case pct > policy.UnderbilledMediumPct:
		return RiskHigh
	case pct >= policy.UnderbilledLowPct:
		return RiskMedium
	default:
		return RiskLow
	}
}

// AnalyzeJobRisk builds the composite assessment used by the at-risk
// report and snapshot capture.
func AnalyzeJobRisk(job model.Job, history History, asOf time.Time, policy Policy) Assessment {
	fade := CalculateMarginFade(job, history, asOf)
	fadePts := decimalToFloat(fade)
	drift := CalculateScheduleDrift(job, asOf)
	billedPct, underBilled := underbilledPct(job)

	a := Assessment{
		UnderbillingRisk: UnderbillingRisk(job, policy),
		DriftWeeks:       drift,
		FadePts:          fade,
		IsMarginFading:   fadePts > policy.MarginFadeWarnPts,
	}

	a.NeedsAttention = (underBilled && billedPct > policy.UnderbilledAttentionPct) ||
		fadePts > policy.MarginFadeWarnPts ||
		drift > policy.DriftWarnWeeks

	a.IsSevere = (underBilled && billedPct > policy.UnderbilledSeverePct) ||
		fadePts > policy.MarginFadeSeverePts ||
		drift > policy.DriftSevereWeeks

	return a
}

// underbilledPct returns the under-billed amount as a percent of earned
// revenue, and whether the job is under-billed at all.
func underbilledPct(job model.Job) (float64, bool) {
	pos := finance.CalculateBillingPosition(job)
	if pos.Difference.Sign() >= 0 {
		return 0, false
	}

	earned := finance.CalculateEarnedRevenue(job).Total
	if earned.IsZero() {
		return 0, false
	}

	pct := pos.Difference.Abs().Div(earned).Mul(decimal.NewFromInt(100))
	return decimalToFloat(pct), true
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func decimalToFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
