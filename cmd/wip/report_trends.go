package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hardhatdata/wip.git/internal/model"
	"github.com/hardhatdata/wip.git/internal/snapshot"
	"github.com/hardhatdata/wip.git/internal/store"
)

func reportWeekly(ctx context.Context, db *sql.DB, args []string) {
	weeks, args := parseIntFlag(args, "weeks", snapshot.DefaultLookbackWeeks)
	asOf, _ := parseAsOfFlag(args)

	st := store.New(db)

	jobs, err := st.ListJobs(ctx)
	if err != nil {
		fmt.Printf("Error loading jobs: %v\n", err)
		return
	}

	asOf = snapshot.LatestAsOf(jobs, asOf)
	cutoff := asOf.AddDate(0, 0, -7*(weeks+1))
	snaps, err := st.ListSnapshotsSince(ctx, cutoff)
	if err != nil {
		fmt.Printf("Error loading snapshots: %v\n", err)
		return
	}

	rows := snapshot.WeeklyReport(jobs, snaps, asOf, weeks, time.Sunday)
	if len(rows) == 0 {
		fmt.Println("No weekly data to report")
		return
	}

	fmt.Println("Weekly Earned Revenue Trend")
	fmt.Println("══════════════════════════════════════════════════════════════════")
	fmt.Printf("%-10s  %-12s  %15s  %15s  %9s\n",
		"Week", "Ending", "Earned", "Change", "Change %")
	fmt.Println("──────────────────────────────────────────────────────────────────")

	for _, row := range rows {
		pctStr := "N/A"
		if row.PctChange.Valid {
			pctStr = row.PctChange.Decimal.StringFixed(1) + "%"
		}

		fmt.Printf("%d-W%02d  %-12s  $%14s  $%14s  %9s\n",
			row.Year,
			row.WeekNumber,
			row.WeekEnding.Format("2006-01-02"),
			row.TotalEarned.StringFixed(2),
			row.Delta.StringFixed(2),
			pctStr,
		)
	}
	fmt.Println("══════════════════════════════════════════════════════════════════")
	fmt.Printf("Showing %d week(s) ending %s (newest week is live data)\n",
		len(rows), asOf.Format("2006-01-02"))

	if len(snaps) == 0 {
		snapshotCadenceHint(model.CadenceWeekly)
	}
}

func reportMonthEnd(ctx context.Context, db *sql.DB, args []string) {
	months, args := parseIntFlag(args, "months", snapshot.DefaultLookbackMonths)
	asOf, _ := parseAsOfFlag(args)

	st := store.New(db)

	jobs, err := st.ListJobs(ctx)
	if err != nil {
		fmt.Printf("Error loading jobs: %v\n", err)
		return
	}

	asOf = snapshot.LatestAsOf(jobs, asOf)
	cutoff := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location()).
		AddDate(0, -(months + 1), 0)
	snaps, err := st.ListSnapshotsSince(ctx, cutoff)
	if err != nil {
		fmt.Printf("Error loading snapshots: %v\n", err)
		return
	}

	rows := snapshot.MonthEndReport(jobs, snaps, asOf, months)
	if len(rows) == 0 {
		fmt.Println("No month-end data to report")
		return
	}

	fmt.Println("Month-End Earned Revenue Trend")
	fmt.Println("══════════════════════════════════════════════════════════")
	fmt.Printf("%-14s  %15s  %15s  %9s\n",
		"Month", "Earned", "Change", "Change %")
	fmt.Println("──────────────────────────────────────────────────────────")

	for _, row := range rows {
		pctStr := "N/A"
		if row.PctChange.Valid {
			pctStr = row.PctChange.Decimal.StringFixed(1) + "%"
		}

		fmt.Printf("%-14s  $%14s  $%14s  %9s\n",
			fmt.Sprintf("%s %d", row.Month, row.Year),
			row.TotalEarned.StringFixed(2),
			row.Delta.StringFixed(2),
			pctStr,
		)
	}
	fmt.Println("══════════════════════════════════════════════════════════")
	fmt.Printf("Showing %d month(s) through %s (newest month is live data)\n",
		len(rows), asOf.Format("January 2006"))

	if len(snaps) == 0 {
		snapshotCadenceHint(model.CadenceMonthly)
	}
}

// snapshotCadenceHint nudges users toward periodic capture when trend
// buckets come back empty.
func snapshotCadenceHint(cadence model.SnapshotCadence) {
	fmt.Println()
	fmt.Println("💡 Trend buckets read from captured snapshots. Capture them with:")
	fmt.Printf("   wip snapshot --cadence %s\n", cadence)
}
