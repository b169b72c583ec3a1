package snapshot

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hardhatdata/wip.git/internal/finance"
	"github.com/hardhatdata/wip.git/internal/model"
)

// DefaultLookbackWeeks is how many week buckets the weekly report shows.
const DefaultLookbackWeeks = 5

// DefaultLookbackMonths is how many month buckets the month-end report
// shows.
const DefaultLookbackMonths = 3

// WeeklyReportData is one week bucket of the weekly trend report.
type WeeklyReportData struct {
	WeekNumber int
	Year       int
	WeekEnding time.Time

	TotalEarned decimal.Decimal
	Delta       decimal.Decimal
	// PctChange is invalid when the prior bucket's total was zero, where
	// a percent change is meaningless rather than infinite.
	PctChange decimal.NullDecimal
}

// MonthEndReportData is one calendar-month bucket of the month-over-
// month report.
type MonthEndReportData struct {
	Month time.Month
	Year  int

	TotalEarned decimal.Decimal
	Delta       decimal.Decimal
	PctChange   decimal.NullDecimal
}

// LatestAsOf picks the reporting reference date: the most recent as-of
// date across the jobs, or the fallback when no job carries one.
func LatestAsOf(jobs []model.Job, fallback time.Time) time.Time {
	latest := fallback
	found := false
	for _, job := range jobs {
		if job.AsOfDate == nil {
			continue
		}
		if !found || job.AsOfDate.After(latest) {
			latest = *job.AsOfDate
			found = true
		}
	}
	return latest
}

// WeeklyReport builds `weeks` consecutive week buckets ending at asOf.
// The newest bucket totals earned revenue across currently-Active jobs;
// earlier buckets total the snapshots recorded in that week. A bucket
// with no snapshots contributes zero rather than an error, so gaps in
// the capture history never break the report. Each row's delta pairs it
// with its immediate predecessor, one bucket beyond the visible window
// for the oldest row.
func WeeklyReport(jobs []model.Job, snaps []model.JobFinancialSnapshot,
	asOf time.Time, weeks int, weekEndDay time.Weekday) []WeeklyReportData {

	if weeks <= 0 {
		return nil
	}

	endings := weekEndings(asOf, weekEndDay, weeks+1)

	// totals[i] is the bucket ending at endings[i]; index 0 is the bucket
	// before the report window, kept only for the first delta.
	totals := make([]decimal.Decimal, len(endings))
	for i, ending := range endings {
		if i == len(endings)-1 {
			totals[i] = liveEarnedTotal(jobs)
		} else {
			// The bucket covers the 7 days up to and including its
			// week-ending day.
			totals[i] = snapshotEarnedTotal(snaps, ending.AddDate(0, 0, -6), ending.AddDate(0, 0, 1))
		}
	}

	rows := make([]WeeklyReportData, 0, weeks)
	for i := 1; i < len(endings); i++ {
		year, week := endings[i].ISOWeek()
		row := WeeklyReportData{
			WeekNumber:  week,
			Year:        year,
			WeekEnding:  endings[i],
			TotalEarned: totals[i],
			Delta:       totals[i].Sub(totals[i-1]),
		}
		if !totals[i-1].IsZero() {
			row.PctChange = decimal.NullDecimal{
				Decimal: row.Delta.Div(totals[i-1]).Mul(decimal.NewFromInt(100)),
				Valid:   true,
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// MonthEndReport builds `months` consecutive calendar-month buckets
// ending at asOf's month, with the same live-vs-history split and
// missing-bucket behavior as the weekly report.
func MonthEndReport(jobs []model.Job, snaps []model.JobFinancialSnapshot,
	asOf time.Time, months int) []MonthEndReportData {

	if months <= 0 {
		return nil
	}

	// firstOfMonth[i] for i in [0, months]; index 0 is the bucket before
	// the window.
	currentFirst := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location())

	rows := make([]MonthEndReportData, 0, months)
	prevTotal := decimal.Zero
	for i := months; i >= 0; i-- {
		first := currentFirst.AddDate(0, -i, 0)
		next := first.AddDate(0, 1, 0)

		var total decimal.Decimal
		if i == 0 {
			total = liveEarnedTotal(jobs)
		} else {
			total = snapshotEarnedTotal(snaps, first, next)
		}

		if i < months {
			row := MonthEndReportData{
				Month:       first.Month(),
				Year:        first.Year(),
				TotalEarned: total,
				Delta:       total.Sub(prevTotal),
			}
			if !prevTotal.IsZero() {
				row.PctChange = decimal.NullDecimal{
					Decimal: row.Delta.Div(prevTotal).Mul(decimal.NewFromInt(100)),
					Valid:   true,
				}
			}
			rows = append(rows, row)
		}
		prevTotal = total
	}
	return rows
}

// weekEndings returns n consecutive week-ending dates finishing with the
// week that contains asOf, oldest first. weekEndDay is configurable
// because companies close their WIP week on different days.
func weekEndings(asOf time.Time, weekEndDay time.Weekday, n int) []time.Time {
	end := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location())
	for end.Weekday() != weekEndDay {
		end = end.AddDate(0, 0, 1)
	}

	endings := make([]time.Time, n)
	for i := n - 1; i >= 0; i-- {
		endings[i] = end
		end = end.AddDate(0, 0, -7)
	}
	return endings
}

// liveEarnedTotal sums current earned revenue across Active jobs.
func liveEarnedTotal(jobs []model.Job) decimal.Decimal {
	total := decimal.Zero
	for _, job := range jobs {
		if job.Status != model.JobStatusActive {
			continue
		}
		total = total.Add(finance.CalculateEarnedRevenue(job).Total)
	}
	return total
}

// snapshotEarnedTotal sums earned revenue across the latest snapshot per
// job taken in [from, before).
func snapshotEarnedTotal(snaps []model.JobFinancialSnapshot, from, before time.Time) decimal.Decimal {
	latest := make(map[string]model.JobFinancialSnapshot)
	for _, s := range snaps {
		if s.SnapshotDate.Before(from) || !s.SnapshotDate.Before(before) {
			continue
		}
		if existing, ok := latest[s.JobID]; !ok || s.SnapshotDate.After(existing.SnapshotDate) {
			latest[s.JobID] = s
		}
	}

	total := decimal.Zero
	for _, s := range latest {
		total = total.Add(s.EarnedRevenue)
	}
	return total
}
