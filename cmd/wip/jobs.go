package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hardhatdata/wip.git/internal/finance"
	"github.com/hardhatdata/wip.git/internal/store"
)

func listJobs(ctx context.Context, db *sql.DB) {
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

	var open int
	for _, job := range jobs {
		if job.Status.IsOpen() {
			open++
		}
	}

	if open == 0 {
		fmt.Println("No open jobs found")
		fmt.Println()
		fmt.Println("💡 Import job data with:")
		fmt.Println("   wip import jobs.csv change-orders.csv")
		return
	}

	fmt.Println("Open Jobs")
	fmt.Println("════════════════════════════════════════════════════════════════════════════════════════════════════════════════")
	fmt.Printf("%-10s  %-28s  %-13s  %13s  %13s  %7s  %13s  %-12s\n",
		"Job No", "Name", "Type", "Contract", "Costs", "% Comp", "Over/(Under)", "Position")
	fmt.Println("────────────────────────────────────────────────────────────────────────────────────────────────────────────────")

	totalContract := decimal.Zero
	totalPosition := decimal.Zero
	for _, job := range jobs {
		if !job.Status.IsOpen() {
			continue
		}

		adjusted := finance.ApplyTotals(job, finance.TotalsWithCOs(job, cosByJob[job.ID]))
		pos := finance.CalculateBillingPosition(adjusted)
		pctComplete := finance.PercentComplete(adjusted).Mul(decimal.NewFromInt(100))

		name := job.JobName
		if len(name) > 28 {
			name = name[:25] + "..."
		}

		fmt.Printf("%-10s  %-28s  %-13s  $%12s  $%12s  %6s%%  $%12s  %-12s\n",
			job.JobNo,
			name,
			job.JobType,
			adjusted.Contract.Total().StringFixed(2),
			adjusted.Costs.Total().StringFixed(2),
			pctComplete.StringFixed(1),
			pos.Difference.StringFixed(2),
			pos.Label,
		)

		totalContract = totalContract.Add(adjusted.Contract.Total())
		totalPosition = totalPosition.Add(pos.Difference)
	}
	fmt.Println("════════════════════════════════════════════════════════════════════════════════════════════════════════════════")
	fmt.Printf("Total: %d open jobs, $%s contract value, $%s net billing position\n",
		open, totalContract.StringFixed(2), totalPosition.StringFixed(2))
}
