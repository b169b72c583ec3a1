// Package importer loads WIP job and change-order exports into the
// store. An import run is one transaction: either every row lands or
// none do, and re-importing identical files is detected by hash and
// skipped.
package importer

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hardhatdata/wip.git/internal/parser"
	"github.com/hardhatdata/wip.git/internal/store"
)

// Importer handles the import of WIP export data
type Importer struct {
	store *store.Store
}

// NewImporter creates a new importer instance
func NewImporter(db *sql.DB) *Importer {
	return &Importer{store: store.New(db)}
}

// ImportResult contains the results of an import operation
type ImportResult struct {
	BatchID              int64
	JobsImported         int
	ChangeOrdersImported int
	ChangeOrdersSkipped  int
	Warnings             []string
	Duration             time.Duration
	AlreadyImported      bool
}

// ImportFiles imports a jobs CSV and an optional change-orders CSV.
// cosPath may be empty.
func (i *Importer) ImportFiles(ctx context.Context, jobsPath, cosPath string) (*ImportResult, error) {
	startTime := time.Now()

	jobsHash, err := CalculateFileHash(jobsPath)
	if err != nil {
		return nil, fmt.Errorf("jobs file: %w", err)
	}

	var cosHash *string
	if cosPath != "" {
		h, err := CalculateFileHash(cosPath)
		if err != nil {
			return nil, fmt.Errorf("change orders file: %w", err)
		}
		cosHash = &h
	}

	existing, err := i.store.GetBatchByHashes(ctx, jobsHash, cosHash)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &ImportResult{
			BatchID:         existing.ID,
			AlreadyImported: true,
			Duration:        time.Since(startTime),
		}, nil
	}

	jobRows, coRows, err := i.parseFiles(jobsPath, cosPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse files: %w", err)
	}

	tx, err := i.store.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	batch := store.ImportBatch{
		JobsFilename:         filepath.Base(jobsPath),
		JobsHash:             jobsHash,
		ChangeOrdersHash:     cosHash,
		RowCountJobs:         len(jobRows),
		RowCountChangeOrders: len(coRows),
		Status:               "pending",
	}
	if cosPath != "" {
		name := filepath.Base(cosPath)
		batch.ChangeOrdersFilename = &name
	}

	batchID, err := i.store.CreateBatch(ctx, tx, batch)
	if err != nil {
		return nil, err
	}

	warnings := ValidateRows(jobRows, coRows)

	if err := i.importJobs(ctx, tx, jobRows, batchID); err != nil {
		return nil, fmt.Errorf("failed to import jobs: %w", err)
	}

	imported, skipped, err := i.importChangeOrders(ctx, tx, coRows)
	if err != nil {
		return nil, fmt.Errorf("failed to import change orders: %w", err)
	}
	if skipped > 0 {
		warnings = append(warnings,
			fmt.Sprintf("Skipped %d change orders with no matching job", skipped))
	}

	if err := i.store.UpdateBatchStatus(ctx, tx, batchID, "success", nil); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &ImportResult{
		BatchID:              batchID,
		JobsImported:         len(jobRows),
		ChangeOrdersImported: imported,
		ChangeOrdersSkipped:  skipped,
		Warnings:             warnings,
		Duration:             time.Since(startTime),
	}, nil
}

// parseFiles parses the jobs CSV and, when given, the change-orders CSV
func (i *Importer) parseFiles(jobsPath, cosPath string) ([]parser.JobRow, []parser.ChangeOrderRow, error) {
	csvParser := parser.NewCSVParser()

	jobsFile, err := os.Open(jobsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open jobs file: %w", err)
	}
	defer jobsFile.Close()

	jobs, err := csvParser.ParseJobs(jobsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse jobs: %w", err)
	}

	if cosPath == "" {
		return jobs, nil, nil
	}

	cosFile, err := os.Open(cosPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open change orders file: %w", err)
	}
	defer cosFile.Close()

	cos, err := csvParser.ParseChangeOrders(cosFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse change orders: %w", err)
	}

	return jobs, cos, nil
}

// importJobs upserts job records keyed by job number
func (i *Importer) importJobs(ctx context.Context, tx *sql.Tx, rows []parser.JobRow, batchID int64) error {
	for idx, row := range rows {
		job := JobFromRow(row)
		if err := i.store.UpsertJob(ctx, tx, job, batchID); err != nil {
			return fmt.Errorf("job %s (row %d): %w", row.JobNo, idx+2, err)
		}
	}
	return nil
}

// importChangeOrders upserts change orders, resolving job numbers to
// ids. Rows referencing unknown jobs are skipped with a warning rather
// than failing the batch.
func (i *Importer) importChangeOrders(ctx context.Context, tx *sql.Tx, rows []parser.ChangeOrderRow) (imported, skipped int, err error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	jobIDs, err := i.store.JobIDsByNo(ctx, tx)
	if err != nil {
		return 0, 0, err
	}

	for idx, row := range rows {
		jobID, ok := jobIDs[row.JobNo]
		if !ok {
			skipped++
			continue
		}

		co := ChangeOrderFromRow(row, jobID)
		if err := i.store.UpsertChangeOrderTx(ctx, tx, co); err != nil {
			return imported, skipped, fmt.Errorf("change order for job %s (row %d): %w", row.JobNo, idx+2, err)
		}
		imported++
	}
	return imported, skipped, nil
}
