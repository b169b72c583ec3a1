package snapshot_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hardhatdata/wip.git/internal/model"
	"github.com/hardhatdata/wip.git/internal/snapshot"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// activeTMJob earns exactly its costs (no markups configured).
func activeTMJob(id, earned string) model.Job {
	return model.Job{
		ID:      id,
		JobType: model.JobTypeTimeMaterial,
		Status:  model.JobStatusActive,
		Costs:   model.CostBreakdown{Labor: d(earned)},
	}
}

func snap(jobID string, taken time.Time, earned string) model.JobFinancialSnapshot {
	return model.JobFinancialSnapshot{
		JobID:         jobID,
		SnapshotDate:  taken,
		Cadence:       model.CadenceWeekly,
		EarnedRevenue: d(earned),
	}
}

func TestLatestAsOf(t *testing.T) {
	fallback := date(2026, 8, 31)

	older := date(2026, 8, 10)
	newer := date(2026, 8, 24)
	jobs := []model.Job{
		{ID: "a", AsOfDate: &older},
		{ID: "b", AsOfDate: &newer},
		{ID: "c"},
	}

	assert.Equal(t, newer, snapshot.LatestAsOf(jobs, fallback))
	assert.Equal(t, fallback, snapshot.LatestAsOf([]model.Job{{ID: "c"}}, fallback))
}

func TestWeeklyReportBuckets(t *testing.T) {
	// 2026-08-30 is a Sunday; week endings are Aug 16, Aug 23, Aug 30.
	asOf := date(2026, 8, 30)

	jobs := []model.Job{activeTMJob("job-1", "2600")}
	snaps := []model.JobFinancialSnapshot{
		snap("job-1", date(2026, 8, 7), "1000"),  // week ending Aug 9 (pre-window)
		snap("job-1", date(2026, 8, 14), "1500"), // week ending Aug 16
		snap("job-1", date(2026, 8, 21), "1800"), // week ending Aug 23
	}

	rows := snapshot.WeeklyReport(jobs, snaps, asOf, 3, time.Sunday)
	require.Len(t, rows, 3)

	assert.Equal(t, date(2026, 8, 16), rows[0].WeekEnding)
	assert.True(t, rows[0].TotalEarned.Equal(d("1500")))
	assert.True(t, rows[0].Delta.Equal(d("500")))
	require.True(t, rows[0].PctChange.Valid)
	assert.True(t, rows[0].PctChange.Decimal.Equal(d("50")))

	assert.True(t, rows[1].TotalEarned.Equal(d("1800")))
	assert.True(t, rows[1].Delta.Equal(d("300")))
	assert.True(t, rows[1].PctChange.Decimal.Equal(d("20")))

	// Newest bucket reads live job data, not snapshots.
	assert.Equal(t, date(2026, 8, 30), rows[2].WeekEnding)
	assert.True(t, rows[2].TotalEarned.Equal(d("2600")))
	assert.True(t, rows[2].Delta.Equal(d("800")))
}

func TestWeeklyReportLatestSnapshotPerJobWins(t *testing.T) {
	asOf := date(2026, 8, 30)

	snaps := []model.JobFinancialSnapshot{
		snap("job-1", date(2026, 8, 18), "1000"),
		snap("job-1", date(2026, 8, 21), "1700"), // later in the same bucket
	}

	rows := snapshot.WeeklyReport(nil, snaps, asOf, 2, time.Sunday)
	require.Len(t, rows, 2)

	assert.True(t, rows[0].TotalEarned.Equal(d("1700")), "got %s", rows[0].TotalEarned)
}

func TestWeeklyReportMissingBucketsAreZero(t *testing.T) {
	asOf := date(2026, 8, 30)

	rows := snapshot.WeeklyReport(nil, nil, asOf, 3, time.Sunday)
	require.Len(t, rows, 3)

	for _, row := range rows {
		assert.True(t, row.TotalEarned.IsZero())
		assert.True(t, row.Delta.IsZero())
		// Percent change against a zero baseline is meaningless.
		assert.False(t, row.PctChange.Valid)
	}
}

func TestWeeklyReportSumsAcrossJobs(t *testing.T) {
	asOf := date(2026, 8, 30)

	snaps := []model.JobFinancialSnapshot{
		snap("job-1", date(2026, 8, 21), "1000"),
		snap("job-2", date(2026, 8, 20), "2500"),
	}

	rows := snapshot.WeeklyReport(nil, snaps, asOf, 2, time.Sunday)
	require.Len(t, rows, 2)

	assert.True(t, rows[0].TotalEarned.Equal(d("3500")), "got %s", rows[0].TotalEarned)
}

func TestWeeklyReportIgnoresInactiveJobsInLiveBucket(t *testing.T) {
	asOf := date(2026, 8, 30)

	onHold := activeTMJob("held", "9999")
	onHold.Status = model.JobStatusOnHold
	jobs := []model.Job{activeTMJob("live", "1200"), onHold}

	rows := snapshot.WeeklyReport(jobs, nil, asOf, 1, time.Sunday)
	require.Len(t, rows, 1)

	assert.True(t, rows[0].TotalEarned.Equal(d("1200")), "got %s", rows[0].TotalEarned)
}

func TestWeeklyReportZeroWeeks(t *testing.T) {
	assert.Nil(t, snapshot.WeeklyReport(nil, nil, date(2026, 8, 30), 0, time.Sunday))
}

func TestMonthEndReport(t *testing.T) {
	asOf := date(2026, 8, 31)

	jobs := []model.Job{activeTMJob("job-1", "2000")}
	snaps := []model.JobFinancialSnapshot{
		snap("job-1", date(2026, 6, 30), "1000"), // June, pre-window baseline
		snap("job-1", date(2026, 7, 31), "1600"), // July
	}

	rows := snapshot.MonthEndReport(jobs, snaps, asOf, 2)
	require.Len(t, rows, 2)

	assert.Equal(t, time.July, rows[0].Month)
	assert.Equal(t, 2026, rows[0].Year)
	assert.True(t, rows[0].TotalEarned.Equal(d("1600")))
	assert.True(t, rows[0].Delta.Equal(d("600")))
	require.True(t, rows[0].PctChange.Valid)
	assert.True(t, rows[0].PctChange.Decimal.Equal(d("60")))

	// Current month reads live data.
	assert.Equal(t, time.August, rows[1].Month)
	assert.True(t, rows[1].TotalEarned.Equal(d("2000")))
	assert.True(t, rows[1].Delta.Equal(d("400")))
	assert.True(t, rows[1].PctChange.Decimal.Equal(d("25")))
}

func TestMonthEndReportEmptyHistory(t *testing.T) {
	rows := snapshot.MonthEndReport(nil, nil, date(2026, 8, 31), 3)
	require.Len(t, rows, 3)

	for _, row := range rows {
		assert.True(t, row.TotalEarned.IsZero())
		assert.False(t, row.PctChange.Valid)
	}
}
