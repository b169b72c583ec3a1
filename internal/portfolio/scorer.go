// Package portfolio rolls per-job billing, margin, and schedule signals
// up into a single 0-100 health score and letter grade across a job set.
package portfolio

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hardhatdata/wip.git/internal/finance"
	"github.com/hardhatdata/wip.git/internal/model"
	"github.com/hardhatdata/wip.git/internal/risk"
)

// Health is the portfolio-wide score and the three ratios behind it.
type Health struct {
	Score int
	Grade string

	UnderbilledPercent float64
	// AvgMarginVariance is the mean margin variance (forecast vs bid) in
	// percentage points, fixed-price jobs only. T&M jobs have no bid
	// baseline and are excluded from this average.
	AvgMarginVariance    float64
	BehindSchedulePercent float64

	TotalActiveJobs int
}

// Deduction weights and caps. Under-billing can cost at most 40 points,
// margin erosion and schedule slip at most 30 each.
const (
	underbilledWeight = 0.4
	underbilledCap    = 40.0
	marginWeight      = 3.0
	marginCap         = 30.0
	scheduleWeight    = 0.3
	scheduleCap       = 30.0
)

// ScoreJobs computes portfolio health across Active and OnHold jobs.
// Other statuses are filtered out here even if the caller pre-filtered.
// An empty active set scores 100/A: no open jobs means nothing is wrong.
func ScoreJobs(jobs []model.Job, policy risk.Policy) Health {
	var active []model.Job
	for _, job := range jobs {
		if job.Status.IsOpen() {
			active = append(active, job)
		}
	}

	health := Health{TotalActiveJobs: len(active)}
	if len(active) == 0 {
		health.Score = 100
		health.Grade = "A"
		return health
	}

	underbilled := 0
	for _, job := range active {
		if finance.CalculateBillingPosition(job).Difference.Sign() < 0 {
			underbilled++
		}
	}
	health.UnderbilledPercent = float64(underbilled) / float64(len(active)) * 100

	health.AvgMarginVariance = avgMarginVariance(active)

	// Jobs without a committed target date can't be measured against
	// one; they drop out of both sides of this ratio but still count in
	// the other two.
	grace := time.Duration(policy.BehindTargetGraceDays) * 24 * time.Hour
	behind, measurable := 0, 0
	for _, job := range active {
		if job.TargetEndDate == nil || job.EndDate == nil {
			continue
		}
		measurable++
		if job.EndDate.After(job.TargetEndDate.Add(grace)) {
			behind++
		}
	}
	if measurable > 0 {
		health.BehindSchedulePercent = float64(behind) / float64(measurable) * 100
	}

	deduction := math.Min(health.UnderbilledPercent*underbilledWeight, underbilledCap) +
		math.Min(math.Max(-health.AvgMarginVariance, 0)*marginWeight, marginCap) +
		math.Min(health.BehindSchedulePercent*scheduleWeight, scheduleCap)

	score := math.Round(100 - deduction)
	if score < 0 {
		score = 0
	}
	health.Score = int(score)
	health.Grade = gradeFor(health.Score)

	return health
}

// avgMarginVariance averages (forecast profit - bid profit) / contract,
// in percentage points, over fixed-price jobs. Zero-contract jobs have
// no meaningful ratio and contribute nothing.
func avgMarginVariance(jobs []model.Job) float64 {
	sum := decimal.Zero
	count := 0
	for _, job := range jobs {
		if job.JobType != model.JobTypeFixedPrice {
			continue
		}
		contract := job.Contract.Total()
		if contract.IsZero() {
			continue
		}
		variance := finance.CalculateForecastedProfit(job).
			Sub(finance.OriginalProfit(job)).
			Div(contract).
			Mul(decimal.NewFromInt(100))
		sum = sum.Add(variance)
		count++
	}

	if count == 0 {
		return 0
	}
	avg, _ := sum.Div(decimal.NewFromInt(int64(count))).Float64()
	return avg
}

// gradeFor maps a score to its letter grade. Bands are inclusive at the
// lower bound: exactly 80 is a B.
func gradeFor(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
