package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ImportBatch is one recorded import run.
type ImportBatch struct {
	ID                    int64
	JobsFilename          string
	ChangeOrdersFilename  *string
	JobsHash              string
	ChangeOrdersHash      *string
	RowCountJobs          int
	RowCountChangeOrders  int
	Status                string
	ErrorMessage          *string
	ImportedAt            time.Time
}

// GetBatchByHashes finds a prior import of the same files, used for
// duplicate-import detection. Returns (nil, nil) when none exists.
func (s *Store) GetBatchByHashes(ctx context.Context, jobsHash string, cosHash *string) (*ImportBatch, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, jobs_filename, change_orders_filename, jobs_hash, change_orders_hash,
		        row_count_jobs, row_count_change_orders, status, error_message, imported_at
		 FROM import_batches
		 WHERE jobs_hash = $1 AND COALESCE(change_orders_hash, '') = COALESCE($2, '')
		   AND status = 'success'`,
		jobsHash, sqlNullStringPtr(cosHash),
	)

	batch, err := scanBatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("checking for existing import: %w", err)
	}
	return &batch, nil
}

// CreateBatch records the start of an import run inside the import
// transaction.
func (s *Store) CreateBatch(ctx context.Context, tx *sql.Tx, batch ImportBatch) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`INSERT INTO import_batches
		        (jobs_filename, change_orders_filename, jobs_hash, change_orders_hash,
		         row_count_jobs, row_count_change_orders, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		batch.JobsFilename, sqlNullStringPtr(batch.ChangeOrdersFilename),
		batch.JobsHash, sqlNullStringPtr(batch.ChangeOrdersHash),
		batch.RowCountJobs, batch.RowCountChangeOrders, batch.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("creating import batch: %w", err)
	}
	return id, nil
}

// UpdateBatchStatus marks an import run success or failed.
func (s *Store) UpdateBatchStatus(ctx context.Context, tx *sql.Tx, id int64, status string, errorMessage *string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE import_batches SET status = $2, error_message = $3 WHERE id = $1`,
		id, status, sqlNullStringPtr(errorMessage),
	)
	if err != nil {
		return fmt.Errorf("updating batch %d status: %w", id, err)
	}
	return nil
}

// ListBatches returns the most recent import runs.
func (s *Store) ListBatches(ctx context.Context, limit int) ([]ImportBatch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, jobs_filename, change_orders_filename, jobs_hash, change_orders_hash,
		        row_count_jobs, row_count_change_orders, status, error_message, imported_at
		 FROM import_batches
		 ORDER BY imported_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing import batches: %w", err)
	}
	defer rows.Close()

	var batches []ImportBatch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, rows.Err()
}

func scanBatch(sc scanner) (ImportBatch, error) {
	var batch ImportBatch
	var cosFilename, cosHash, errorMessage sql.NullString

	err := sc.Scan(
		&batch.ID, &batch.JobsFilename, &cosFilename, &batch.JobsHash, &cosHash,
		&batch.RowCountJobs, &batch.RowCountChangeOrders, &batch.Status,
		&errorMessage, &batch.ImportedAt,
	)
	if err != nil {
		return batch, err
	}

	if cosFilename.Valid {
		batch.ChangeOrdersFilename = &cosFilename.String
	}
	if cosHash.Valid {
		batch.ChangeOrdersHash = &cosHash.String
	}
	if errorMessage.Valid {
		batch.ErrorMessage = &errorMessage.String
	}
	return batch, nil
}
