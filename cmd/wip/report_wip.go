package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hardhatdata/wip.git/internal/report"
	"github.com/hardhatdata/wip.git/internal/store"
)

func reportWIP(ctx context.Context, db *sql.DB, args []string) {
	output, args := parseOutputFlag(args)
	policy, args := parsePolicyFlag(args)
	asOf, _ := parseAsOfFlag(args)

	// Default output filename if not specified
	if output == "" {
		timestamp := time.Now().Format("2006-01-02")
		output = fmt.Sprintf("wip-report-%s.html", timestamp)
	}

	// Ensure .html extension
	if !strings.HasSuffix(strings.ToLower(output), ".html") {
		output += ".html"
	}

	fmt.Println("Generating WIP report...")
	fmt.Printf("  As of: %s\n", asOf.Format("2006-01-02"))
	fmt.Println()

	st := store.New(db)

	jobs, err := st.ListJobs(ctx)
	if err != nil {
		fmt.Printf("❌ Error loading jobs: %v\n", err)
		return
	}
	cosByJob, err := st.ListAllChangeOrders(ctx)
	if err != nil {
		fmt.Printf("❌ Error loading change orders: %v\n", err)
		return
	}

	rep := report.BuildWIP(jobs, cosByJob, st, asOf, policy)

	if len(rep.Rows) == 0 {
		fmt.Println("No open jobs to report on")
		return
	}

	// Create renderer
	renderer, err := report.NewRenderer()
	if err != nil {
		fmt.Printf("❌ Error initializing renderer: %v\n", err)
		return
	}

	// Create output file
	file, err := os.Create(output)
	if err != nil {
		fmt.Printf("❌ Error creating output file: %v\n", err)
		return
	}
	defer file.Close()

	// Render report
	if err := renderer.RenderWIP(file, rep); err != nil {
		fmt.Printf("❌ Error rendering report: %v\n", err)
		return
	}

	absPath, _ := filepath.Abs(output)
	fmt.Printf("✅ Report generated: %s\n", absPath)
	fmt.Println()
	fmt.Println("📊 Report Summary:")
	fmt.Printf("   • %d open jobs (%d need attention)\n", len(rep.Rows), rep.AtRiskCount)
	fmt.Printf("   • $%s earned to date against $%s contract value\n",
		rep.Totals.EarnedRevenue.StringFixed(2), rep.Totals.Contract.StringFixed(2))
	fmt.Printf("   • $%s net billing position\n", rep.Totals.BillingDiff.StringFixed(2))
	fmt.Printf("   • Portfolio health: %d (%s)\n", rep.Health.Score, rep.Health.Grade)
	if rep.Totals.PendingContract.Sign() > 0 {
		fmt.Printf("   • ⚠️  $%s in pending change orders not yet included\n",
			rep.Totals.PendingContract.StringFixed(2))
	}
	fmt.Println()
	fmt.Println("💡 Open the HTML file in your browser and print to PDF (Cmd+P / Ctrl+P)")
}
