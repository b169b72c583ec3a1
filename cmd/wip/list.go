package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hardhatdata/wip.git/internal/store"
)

func listImports(ctx context.Context, db *sql.DB) {
	st := store.New(db)

	batches, err := st.ListBatches(ctx, 20)
	if err != nil {
		fmt.Printf("Error listing imports: %v\n", err)
		return
	}

	if len(batches) == 0 {
		fmt.Println("No imports found")
		fmt.Println()
		fmt.Println("💡 Import your first batch with:")
		fmt.Println("   wip import jobs.csv change-orders.csv")
		return
	}

	fmt.Println("Import History")
	fmt.Println("══════════════════════════════════════════════════════════════════════════════")
	fmt.Printf("%-4s  %-19s  %-8s  %8s  %8s  %-30s\n",
		"ID", "Date", "Status", "Jobs", "COs", "Jobs File")
	fmt.Println("──────────────────────────────────────────────────────────────────────────────")

	for _, batch := range batches {
		dateStr := batch.ImportedAt.Format("2006-01-02 15:04:05")
		status := batch.Status
		statusIcon := "✅"
		if status == "failed" {
			statusIcon = "❌"
		} else if status == "pending" {
			statusIcon = "⏳"
		}

		// Truncate filename if too long
		filename := batch.JobsFilename
		if len(filename) > 30 {
			filename = filename[:27] + "..."
		}

		fmt.Printf("%-4d  %s  %s %-6s  %8d  %8d  %-30s\n",
			batch.ID,
			dateStr,
			statusIcon,
			status,
			batch.RowCountJobs,
			batch.RowCountChangeOrders,
			filename,
		)
	}
	fmt.Println("══════════════════════════════════════════════════════════════════════════════")
	fmt.Printf("Total: %d import(s)\n", len(batches))
}
