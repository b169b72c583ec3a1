// Package store persists jobs, change orders, and financial snapshots
// in Postgres. It owns the two concurrency disciplines the calculation
// packages deliberately push out of scope: sequential change-order
// numbering and one-snapshot-per-period idempotence.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hardhatdata/wip.git/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// Store wraps the database handle with typed queries.
type Store struct {
	db *sql.DB
}

// New creates a store around an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for callers that manage their own
// transactions (the importer).
func (s *Store) DB() *sql.DB {
	return s.db
}

// Init applies the schema. Safe to run against an existing database.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

const jobColumns = `
	id, job_no, job_name, job_type, status,
	start_date, end_date, as_of_date, on_hold_date, target_end_date,
	contract_labor, contract_material, contract_other,
	budget_labor, budget_material, budget_other,
	costs_labor, costs_material, costs_other,
	cost_to_complete_labor, cost_to_complete_material, cost_to_complete_other,
	invoiced_labor, invoiced_material, invoiced_other,
	labor_billing_type, labor_bill_rate, labor_hours,
	labor_markup, material_markup, other_markup,
	target_profit, target_margin, notes, last_updated`

// UpsertJob inserts or replaces a job keyed by job number. Financial
// updates bump last_updated. Re-importing an existing job number keeps
// the original row id, so mobilizations are rewritten against the
// persisted id rather than the one on the incoming job.
func (s *Store) UpsertJob(ctx context.Context, tx *sql.Tx, job model.Job, batchID int64) error {
	query := `
		INSERT INTO jobs (` + jobColumns + `, import_batch_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19,
		        $20, $21, $22, $23, $24, $25, $26, $27, $28,
		        $29, $30, $31, $32, $33, $34, NOW(), $35)
		ON CONFLICT (job_no) DO UPDATE SET
			job_name = EXCLUDED.job_name,
			job_type = EXCLUDED.job_type,
			status = EXCLUDED.status,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			as_of_date = EXCLUDED.as_of_date,
			on_hold_date = EXCLUDED.on_hold_date,
			target_end_date = EXCLUDED.target_end_date,
			contract_labor = EXCLUDED.contract_labor,
			contract_material = EXCLUDED.contract_material,
			contract_other = EXCLUDED.contract_other,
			budget_labor = EXCLUDED.budget_labor,
			budget_material = EXCLUDED.budget_material,
			budget_other = EXCLUDED.budget_other,
			costs_labor = EXCLUDED.costs_labor,
			costs_material = EXCLUDED.costs_material,
			costs_other = EXCLUDED.costs_other,
			cost_to_complete_labor = EXCLUDED.cost_to_complete_labor,
			cost_to_complete_material = EXCLUDED.cost_to_complete_material,
			cost_to_complete_other = EXCLUDED.cost_to_complete_other,
			invoiced_labor = EXCLUDED.invoiced_labor,
			invoiced_material = EXCLUDED.invoiced_material,
			invoiced_other = EXCLUDED.invoiced_other,
			labor_billing_type = EXCLUDED.labor_billing_type,
			labor_bill_rate = EXCLUDED.labor_bill_rate,
			labor_hours = EXCLUDED.labor_hours,
			labor_markup = EXCLUDED.labor_markup,
			material_markup = EXCLUDED.material_markup,
			other_markup = EXCLUDED.other_markup,
			target_profit = EXCLUDED.target_profit,
			target_margin = EXCLUDED.target_margin,
			notes = EXCLUDED.notes,
			import_batch_id = EXCLUDED.import_batch_id,
			last_updated = NOW()
		RETURNING id
	`

	var billingType, laborBillRate, laborHours interface{}
	var laborMarkup, materialMarkup, otherMarkup interface{}
	if tm := job.TMSettings; tm != nil {
		billingType = string(tm.LaborBillingType)
		laborBillRate = tm.LaborBillRate
		laborHours = tm.LaborHours
		laborMarkup = tm.LaborMarkup
		materialMarkup = tm.MaterialMarkup
		otherMarkup = tm.OtherMarkup
	}

	var persistedID string
	err := tx.QueryRowContext(ctx, query,
		job.ID, job.JobNo, job.JobName, string(job.JobType), string(job.Status),
		sqlNullTime(job.StartDate), sqlNullTime(job.EndDate), sqlNullTime(job.AsOfDate),
		sqlNullTime(job.OnHoldDate), sqlNullTime(job.TargetEndDate),
		job.Contract.Labor, job.Contract.Material, job.Contract.Other,
		job.Budget.Labor, job.Budget.Material, job.Budget.Other,
		job.Costs.Labor, job.Costs.Material, job.Costs.Other,
		job.CostToComplete.Labor, job.CostToComplete.Material, job.CostToComplete.Other,
		job.Invoiced.Labor, job.Invoiced.Material, job.Invoiced.Other,
		billingType, laborBillRate, laborHours,
		laborMarkup, materialMarkup, otherMarkup,
		nullableDecimalPtr(job.TargetProfit), nullableDecimalPtr(job.TargetMargin),
		sqlNullStringPtr(job.Notes), batchID,
	).Scan(&persistedID)
	if err != nil {
		return fmt.Errorf("upserting job %s: %w", job.JobNo, err)
	}

	return s.replaceMobilizations(ctx, tx, persistedID, job.Mobilizations)
}

// replaceMobilizations rewrites a job's phase windows. The export always
// carries the full set, so delete-and-insert keeps drops visible.
func (s *Store) replaceMobilizations(ctx context.Context, tx *sql.Tx, jobID string, mobs []model.Mobilization) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM job_mobilizations WHERE job_id = $1`, jobID); err != nil {
		return fmt.Errorf("clearing mobilizations for job %s: %w", jobID, err)
	}

	for i, mob := range mobs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO job_mobilizations (job_id, position, name, start_date, end_date)
			 VALUES ($1, $2, $3, $4, $5)`,
			jobID, i+1, mob.Name, sqlNullTime(mob.StartDate), sqlNullTime(mob.EndDate),
		)
		if err != nil {
			return fmt.Errorf("inserting mobilization %d for job %s: %w", i+1, jobID, err)
		}
	}
	return nil
}

// loadMobilizations fetches phase windows grouped by job id in position
// order. An empty jobID loads every job's windows in one query.
func (s *Store) loadMobilizations(ctx context.Context, jobID string) (map[string][]model.Mobilization, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT job_id, name, start_date, end_date
		 FROM job_mobilizations
		 WHERE $1 = '' OR job_id = $1
		 ORDER BY job_id, position`, jobID)
	if err != nil {
		return nil, fmt.Errorf("loading mobilizations: %w", err)
	}
	defer rows.Close()

	byJob := make(map[string][]model.Mobilization)
	for rows.Next() {
		var owner string
		var mob model.Mobilization
		var start, end sql.NullTime
		if err := rows.Scan(&owner, &mob.Name, &start, &end); err != nil {
			return nil, err
		}
		mob.StartDate = timePtr(start)
		mob.EndDate = timePtr(end)
		byJob[owner] = append(byJob[owner], mob)
	}
	return byJob, rows.Err()
}

// ListJobs returns all jobs ordered by job number.
func (s *Store) ListJobs(ctx context.Context) ([]model.Job, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY job_no`)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	mobs, err := s.loadMobilizations(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		jobs[i].Mobilizations = mobs[jobs[i].ID]
	}
	return jobs, nil
}

// GetJobByNo looks a job up by its job number.
func (s *Store) GetJobByNo(ctx context.Context, jobNo string) (model.Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE job_no = $1`, jobNo)
	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return model.Job{}, fmt.Errorf("job %s not found", jobNo)
	}
	if err != nil {
		return model.Job{}, err
	}

	mobs, err := s.loadMobilizations(ctx, job.ID)
	if err != nil {
		return model.Job{}, err
	}
	job.Mobilizations = mobs[job.ID]
	return job, nil
}

// JobIDsByNo maps job numbers to ids, used when importing change orders
// that reference jobs by number.
func (s *Store) JobIDsByNo(ctx context.Context, tx *sql.Tx) (map[string]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT job_no, id FROM jobs`)
	if err != nil {
		return nil, fmt.Errorf("loading job ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]string)
	for rows.Next() {
		var no, id string
		if err := rows.Scan(&no, &id); err != nil {
			return nil, err
		}
		ids[no] = id
	}
	return ids, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(sc scanner) (model.Job, error) {
	var job model.Job
	var jobType, status string
	var startDate, endDate, asOfDate, onHoldDate, targetEndDate sql.NullTime
	var billingType, notes sql.NullString
	var laborBillRate, laborHours, laborMarkup, materialMarkup, otherMarkup decimal.NullDecimal
	var targetProfit, targetMargin decimal.NullDecimal

	err := sc.Scan(
		&job.ID, &job.JobNo, &job.JobName, &jobType, &status,
		&startDate, &endDate, &asOfDate, &onHoldDate, &targetEndDate,
		&job.Contract.Labor, &job.Contract.Material, &job.Contract.Other,
		&job.Budget.Labor, &job.Budget.Material, &job.Budget.Other,
		&job.Costs.Labor, &job.Costs.Material, &job.Costs.Other,
		&job.CostToComplete.Labor, &job.CostToComplete.Material, &job.CostToComplete.Other,
		&job.Invoiced.Labor, &job.Invoiced.Material, &job.Invoiced.Other,
		&billingType, &laborBillRate, &laborHours,
		&laborMarkup, &materialMarkup, &otherMarkup,
		&targetProfit, &targetMargin, &notes, &job.LastUpdated,
	)
	if err != nil {
		return job, err
	}

	job.JobType = model.JobType(jobType)
	job.Status = model.JobStatus(status)
	job.StartDate = timePtr(startDate)
	job.EndDate = timePtr(endDate)
	job.AsOfDate = timePtr(asOfDate)
	job.OnHoldDate = timePtr(onHoldDate)
	job.TargetEndDate = timePtr(targetEndDate)

	if billingType.Valid {
		job.TMSettings = &model.TMSettings{
			LaborBillingType: model.LaborBillingType(billingType.String),
			LaborBillRate:    laborBillRate.Decimal,
			LaborHours:       laborHours.Decimal,
			LaborMarkup:      laborMarkup.Decimal,
			MaterialMarkup:   materialMarkup.Decimal,
			OtherMarkup:      otherMarkup.Decimal,
		}
	}

	job.TargetProfit = decimalPtr(targetProfit)
	job.TargetMargin = decimalPtr(targetMargin)
	if notes.Valid {
		job.Notes = &notes.String
	}

	return job, nil
}

// Conversion helpers shared across the store.

func sqlNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func sqlNullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullableDecimalPtr(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return *d
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	value := t.Time
	return &value
}

func decimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	value := d.Decimal
	return &value
}
