package store

import (
	"context"
	"fmt"
	"time"

	"github.com/hardhatdata/wip.git/internal/model"
)

const snapshotColumns = `
	id, job_id, snapshot_date, cadence, period_key,
	contract_amount, costs_labor, costs_material, costs_other,
	earned_revenue, forecasted_cost_final, forecasted_profit_final,
	forecasted_margin_final, billing_position, billing_position_label,
	at_risk_margin, behind_schedule`

// InsertSnapshot persists a capture. Snapshots are immutable: a second
// capture for the same (job, period) is silently skipped, which is what
// makes concurrent periodic capture idempotent. Returns whether a row
// was actually written.
func (s *Store) InsertSnapshot(ctx context.Context, snap model.JobFinancialSnapshot) (bool, error) {
	query := `
		INSERT INTO job_snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT ON CONSTRAINT job_snapshots_period DO NOTHING
	`

	result, err := s.db.ExecContext(ctx, query,
		snap.ID, snap.JobID, snap.SnapshotDate, string(snap.Cadence), snap.PeriodKey,
		snap.ContractAmount, snap.CostsToDate.Labor, snap.CostsToDate.Material, snap.CostsToDate.Other,
		snap.EarnedRevenue, snap.ForecastedCostFinal, snap.ForecastedProfitFinal,
		snap.ForecastedMarginFinal, snap.BillingPositionNumeric, snap.BillingPositionLabel,
		snap.AtRiskMargin, snap.BehindSchedule,
	)
	if err != nil {
		return false, fmt.Errorf("inserting snapshot for job %s: %w", snap.JobID, err)
	}

	written, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return written > 0, nil
}

// LatestBefore returns the most recent snapshot of a job taken strictly
// before t. Implements the risk package's History interface.
func (s *Store) LatestBefore(jobID string, t time.Time) (model.JobFinancialSnapshot, bool) {
	row := s.db.QueryRow(
		`SELECT `+snapshotColumns+`
		 FROM job_snapshots
		 WHERE job_id = $1 AND snapshot_date < $2
		 ORDER BY snapshot_date DESC
		 LIMIT 1`,
		jobID, t,
	)

	snap, err := scanSnapshot(row)
	if err != nil {
		return model.JobFinancialSnapshot{}, false
	}
	return snap, true
}

// ListSnapshotsSince returns all snapshots taken on or after the cutoff,
// the reducer's raw material for weekly and month-end buckets.
func (s *Store) ListSnapshotsSince(ctx context.Context, cutoff time.Time) ([]model.JobFinancialSnapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+`
		 FROM job_snapshots
		 WHERE snapshot_date >= $1
		 ORDER BY snapshot_date`,
		cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []model.JobFinancialSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// ListSnapshots returns a job's full snapshot history, newest first.
func (s *Store) ListSnapshots(ctx context.Context, jobID string) ([]model.JobFinancialSnapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+`
		 FROM job_snapshots
		 WHERE job_id = $1
		 ORDER BY snapshot_date DESC`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots for job %s: %w", jobID, err)
	}
	defer rows.Close()

	var snaps []model.JobFinancialSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func scanSnapshot(sc scanner) (model.JobFinancialSnapshot, error) {
	var snap model.JobFinancialSnapshot
	var cadence string

	err := sc.Scan(
		&snap.ID, &snap.JobID, &snap.SnapshotDate, &cadence, &snap.PeriodKey,
		&snap.ContractAmount, &snap.CostsToDate.Labor, &snap.CostsToDate.Material, &snap.CostsToDate.Other,
		&snap.EarnedRevenue, &snap.ForecastedCostFinal, &snap.ForecastedProfitFinal,
		&snap.ForecastedMarginFinal, &snap.BillingPositionNumeric, &snap.BillingPositionLabel,
		&snap.AtRiskMargin, &snap.BehindSchedule,
	)
	if err != nil {
		return snap, err
	}

	snap.Cadence = model.SnapshotCadence(cadence)
	return snap, nil
}
