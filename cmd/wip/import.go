package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hardhatdata/wip.git/internal/importer"
)

func runImport(ctx context.Context, db *sql.DB, jobsPath, cosPath string) {
	fmt.Println("Starting import...")
	fmt.Printf("  Jobs file:          %s\n", jobsPath)
	if cosPath != "" {
		fmt.Printf("  Change orders file: %s\n", cosPath)
	}
	fmt.Println()

	imp := importer.NewImporter(db)

	result, err := imp.ImportFiles(ctx, jobsPath, cosPath)
	if err != nil {
		fmt.Printf("❌ Import failed: %v\n", err)
		return
	}

	if result.AlreadyImported {
		fmt.Println("ℹ️  These files have already been imported")
		fmt.Printf("   Batch ID: %d\n", result.BatchID)
		return
	}

	fmt.Println("✅ Import successful!")
	fmt.Println()
	fmt.Printf("Batch ID:               %d\n", result.BatchID)
	fmt.Printf("Jobs imported:          %d\n", result.JobsImported)
	fmt.Printf("Change orders imported: %d\n", result.ChangeOrdersImported)
	if result.ChangeOrdersSkipped > 0 {
		fmt.Printf("Change orders skipped:  %d (no matching job)\n", result.ChangeOrdersSkipped)
	}
	fmt.Printf("Duration:               %v\n", result.Duration.Round(time.Millisecond))

	if len(result.Warnings) > 0 {
		fmt.Println()
		fmt.Println("⚠️  Warnings:")
		for _, warning := range result.Warnings {
			fmt.Printf("   - %s\n", warning)
		}
	}

	fmt.Println()
	fmt.Println("💡 Next steps:")
	fmt.Println("   wip jobs              # View open jobs and billing position")
	fmt.Println("   wip snapshot          # Capture a financial snapshot")
	fmt.Println("   wip report wip        # Generate the WIP report")
}
