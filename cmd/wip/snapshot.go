package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/hardhatdata/wip.git/internal/model"
	"github.com/hardhatdata/wip.git/internal/snapshot"
	"github.com/hardhatdata/wip.git/internal/store"
)

func runSnapshot(ctx context.Context, db *sql.DB, args []string) {
	if len(args) > 0 && args[0] == "list" {
		if len(args) < 2 {
			fmt.Println("Error: snapshot list requires a job number")
			fmt.Println("Usage: wip snapshot list <job-no>")
			os.Exit(1)
		}
		listJobSnapshots(ctx, db, args[1])
		return
	}

	policy, args := parsePolicyFlag(args)
	asOf, args := parseAsOfFlag(args)
	cadenceStr, _ := parseStringFlag(args, "cadence", string(model.CadenceManual))

	cadence := model.SnapshotCadence(cadenceStr)
	switch cadence {
	case model.CadenceManual, model.CadenceWeekly, model.CadenceMonthly:
	default:
		fmt.Printf("Error: invalid cadence %q (expected weekly, monthly, or manual)\n", cadenceStr)
		os.Exit(1)
	}

	st := store.New(db)

	jobs, err := st.ListJobs(ctx)
	if err != nil {
		fmt.Printf("Error loading jobs: %v\n", err)
		return
	}
	cosByJob, err := st.ListAllChangeOrders(ctx)
	if err != nil {
		fmt.Printf("Error loading change orders: %v\n", err)
		return
	}

	periodKey := snapshot.PeriodKey(cadence, asOf)
	fmt.Printf("Capturing %s snapshots for period %s...\n", cadence, periodKey)
	fmt.Println()

	captured, skipped := 0, 0
	for _, job := range jobs {
		if !job.Status.IsOpen() {
			continue
		}

		snap := snapshot.Capture(job, cosByJob[job.ID], st, job.EffectiveAsOf(asOf), cadence, policy)
		snap.PeriodKey = periodKey

		written, err := st.InsertSnapshot(ctx, snap)
		if err != nil {
			fmt.Printf("❌ Error capturing job %s: %v\n", job.JobNo, err)
			return
		}
		if written {
			captured++
		} else {
			skipped++
		}
	}

	fmt.Printf("✅ Captured %d snapshot(s)\n", captured)
	if skipped > 0 {
		fmt.Printf("ℹ️  Skipped %d job(s) already captured for period %s\n", skipped, periodKey)
	}
	if captured == 0 && skipped == 0 {
		fmt.Println("No open jobs to capture")
	}
}

// listJobSnapshots prints a job's capture history, newest first.
func listJobSnapshots(ctx context.Context, db *sql.DB, jobNo string) {
	st := store.New(db)

	job, err := st.GetJobByNo(ctx, jobNo)
	if err != nil {
		fmt.Printf("Error: job %s not found: %v\n", jobNo, err)
		return
	}

	snaps, err := st.ListSnapshots(ctx, job.ID)
	if err != nil {
		fmt.Printf("Error loading snapshots: %v\n", err)
		return
	}

	if len(snaps) == 0 {
		fmt.Printf("No snapshots for job %s (%s)\n", job.JobNo, job.JobName)
		fmt.Println("💡 Capture one with: wip snapshot --cadence weekly")
		return
	}

	fmt.Printf("Snapshot History for %s (%s)\n", job.JobNo, job.JobName)
	fmt.Println("═══════════════════════════════════════════════════════════════════════════════")
	fmt.Printf("%-10s  %-8s  %13s  %13s  %9s  %-12s\n",
		"Period", "Cadence", "Earned", "Profit", "Margin", "Position")
	fmt.Println("───────────────────────────────────────────────────────────────────────────────")

	for _, snap := range snaps {
		flags := ""
		if snap.AtRiskMargin {
			flags += " ⚠️"
		}
		if snap.BehindSchedule {
			flags += " 🚩"
		}
		fmt.Printf("%-10s  %-8s  $%12s  $%12s  %8s%%  %-12s%s\n",
			snap.PeriodKey,
			snap.Cadence,
			snap.EarnedRevenue.StringFixed(2),
			snap.ForecastedProfitFinal.StringFixed(2),
			snap.ForecastedMarginFinal.StringFixed(1),
			snap.BillingPositionLabel,
			flags,
		)
	}
	fmt.Println("═══════════════════════════════════════════════════════════════════════════════")
	fmt.Printf("Total: %d snapshot(s)\n", len(snaps))
}
