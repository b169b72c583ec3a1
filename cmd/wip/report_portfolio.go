package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hardhatdata/wip.git/internal/portfolio"
	"github.com/hardhatdata/wip.git/internal/report"
	"github.com/hardhatdata/wip.git/internal/store"
)

func reportPortfolio(ctx context.Context, db *sql.DB, args []string) {
	policy, _ := parsePolicyFlag(args)

	st := store.New(db)

	jobs, err := st.ListJobs(ctx)
	if err != nil {
		fmt.Printf("Error loading jobs: %v\n", err)
		return
	}

	health := portfolio.ScoreJobs(jobs, policy)

	gradeIcon := "✅"
	switch health.Grade {
	case "C":
		gradeIcon = "⚠️"
	case "D", "F":
		gradeIcon = "🚩"
	}

	fmt.Println("Portfolio Health")
	fmt.Println("══════════════════════════════════════════════════")
	fmt.Printf("%s Score: %d / 100 (Grade %s)\n", gradeIcon, health.Score, health.Grade)
	fmt.Println("──────────────────────────────────────────────────")
	fmt.Printf("Open jobs:              %d\n", health.TotalActiveJobs)
	fmt.Printf("Under-billed jobs:      %.1f%%\n", health.UnderbilledPercent)
	fmt.Printf("Avg margin variance:    %+.1f pts\n", health.AvgMarginVariance)
	fmt.Printf("Behind schedule:        %.1f%%\n", health.BehindSchedulePercent)
	fmt.Println("══════════════════════════════════════════════════")

	if health.TotalActiveJobs == 0 {
		fmt.Println("No open jobs; an empty portfolio has nothing wrong with it")
		return
	}
	if health.Grade == "A" || health.Grade == "B" {
		fmt.Println("Portfolio is healthy")
	} else {
		fmt.Println()
		fmt.Println("💡 See which jobs are dragging the score down:")
		fmt.Println("   wip report at-risk")
	}
}

func reportAtRisk(ctx context.Context, db *sql.DB, args []string) {
	policy, args := parsePolicyFlag(args)
	asOf, _ := parseAsOfFlag(args)

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

	rep := report.BuildWIP(jobs, cosByJob, st, asOf, policy)
	atRisk := rep.AtRiskRows()

	if len(atRisk) == 0 {
		fmt.Println("✅ No jobs need attention")
		return
	}

	fmt.Println("🚩 Jobs Needing Attention")
	fmt.Println("════════════════════════════════════════════════════════════════════════════════════════════════")
	fmt.Printf("%-10s  %-26s  %-10s  %13s  %9s  %6s  %8s\n",
		"Job No", "Name", "Billing", "Over/(Under)", "Fade pts", "Drift", "Severity")
	fmt.Println("────────────────────────────────────────────────────────────────────────────────────────────────")

	for _, row := range atRisk {
		name := row.JobName
		if len(name) > 26 {
			name = name[:23] + "..."
		}

		severity := "⚠️  warn"
		if row.Risk.IsSevere {
			severity = "🚩 severe"
		}

		fmt.Printf("%-10s  %-26s  %-10s  $%12s  %9s  %5dw  %8s\n",
			row.JobNo,
			name,
			row.Risk.UnderbillingRisk,
			row.BillingDiff.StringFixed(2),
			row.Risk.FadePts.StringFixed(1),
			row.Risk.DriftWeeks,
			severity,
		)
	}
	fmt.Println("════════════════════════════════════════════════════════════════════════════════════════════════")
	fmt.Printf("Total: %d of %d open jobs need attention (thresholds: >%.0f%% under-billed, >%.0f pt fade, >%d wk drift)\n",
		len(atRisk), len(rep.Rows),
		policy.UnderbilledAttentionPct, policy.MarginFadeWarnPts, policy.DriftWarnWeeks)
}
