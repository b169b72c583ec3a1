package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/hardhatdata/wip.git/internal/model"
)

const coColumns = `
	id, job_id, co_number, status, co_type, description,
	contract_labor, contract_material, contract_other,
	budget_labor, budget_material, budget_other,
	costs_labor, costs_material, costs_other,
	cost_to_complete_labor, cost_to_complete_material, cost_to_complete_other,
	invoiced_labor, invoiced_material, invoiced_other,
	created_at`

// uniqueViolation is Postgres error class 23505.
const uniqueViolation = "23505"

// CreateChangeOrder inserts a change order. When co.CONumber is 0 the
// next sequential number for the job is assigned inside the insert
// itself; two clients racing on the same job collide on the
// (job_id, co_number) constraint and the loser retries with a fresh
// max+1 rather than ever writing a duplicate number.
func (s *Store) CreateChangeOrder(ctx context.Context, co model.ChangeOrder) (model.ChangeOrder, error) {
	if co.ID == "" {
		co.ID = uuid.NewString()
	}

	const maxAttempts = 3
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		number, err := s.insertChangeOrder(ctx, co)
		if err == nil {
			co.CONumber = number
			return co, nil
		}
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation && co.CONumber == 0 {
			lastErr = err
			continue
		}
		return co, err
	}
	return co, fmt.Errorf("assigning change order number for job %s: %w", co.JobID, lastErr)
}

func (s *Store) insertChangeOrder(ctx context.Context, co model.ChangeOrder) (int, error) {
	query := `
		INSERT INTO change_orders (` + coColumns + `)
		SELECT $1, $2,
		       CASE WHEN $3::int > 0 THEN $3::int
		            ELSE COALESCE((SELECT MAX(co_number) FROM change_orders WHERE job_id = $2), 0) + 1
		       END,
		       $4, $5, $6,
		       $7, $8, $9, $10, $11, $12, $13, $14, $15,
		       $16, $17, $18, $19, $20, $21, NOW()
		RETURNING co_number
	`

	var number int
	err := s.db.QueryRowContext(ctx, query,
		co.ID, co.JobID, co.CONumber,
		string(co.Status), string(co.COType), sqlNullStringPtr(co.Description),
		co.Contract.Labor, co.Contract.Material, co.Contract.Other,
		co.Budget.Labor, co.Budget.Material, co.Budget.Other,
		co.Costs.Labor, co.Costs.Material, co.Costs.Other,
		co.CostToComplete.Labor, co.CostToComplete.Material, co.CostToComplete.Other,
		co.Invoiced.Labor, co.Invoiced.Material, co.Invoiced.Other,
	).Scan(&number)
	if err != nil {
		return 0, err
	}
	return number, nil
}

// UpsertChangeOrderTx inserts a change order inside an import
// transaction. Rows that carry an explicit number update in place so
// re-importing a corrected export is safe; rows without one get the next
// sequential number, which cannot race inside the single import
// transaction.
func (s *Store) UpsertChangeOrderTx(ctx context.Context, tx *sql.Tx, co model.ChangeOrder) error {
	if co.ID == "" {
		co.ID = uuid.NewString()
	}

	query := `
		INSERT INTO change_orders (` + coColumns + `)
		SELECT $1, $2,
		       CASE WHEN $3::int > 0 THEN $3::int
		            ELSE COALESCE((SELECT MAX(co_number) FROM change_orders WHERE job_id = $2), 0) + 1
		       END,
		       $4, $5, $6,
		       $7, $8, $9, $10, $11, $12, $13, $14, $15,
		       $16, $17, $18, $19, $20, $21, NOW()
		ON CONFLICT ON CONSTRAINT change_orders_job_number DO UPDATE SET
			status = EXCLUDED.status,
			co_type = EXCLUDED.co_type,
			description = EXCLUDED.description,
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
			invoiced_other = EXCLUDED.invoiced_other
	`

	_, err := tx.ExecContext(ctx, query,
		co.ID, co.JobID, co.CONumber,
		string(co.Status), string(co.COType), sqlNullStringPtr(co.Description),
		co.Contract.Labor, co.Contract.Material, co.Contract.Other,
		co.Budget.Labor, co.Budget.Material, co.Budget.Other,
		co.Costs.Labor, co.Costs.Material, co.Costs.Other,
		co.CostToComplete.Labor, co.CostToComplete.Material, co.CostToComplete.Other,
		co.Invoiced.Labor, co.Invoiced.Material, co.Invoiced.Other,
	)
	if err != nil {
		return fmt.Errorf("upserting change order for job %s: %w", co.JobID, err)
	}
	return nil
}

// NextCONumber previews the number the next change order for a job will
// receive. Display only; creation re-derives it transactionally.
func (s *Store) NextCONumber(ctx context.Context, jobID string) (int, error) {
	var next int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(co_number), 0) + 1 FROM change_orders WHERE job_id = $1`,
		jobID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("computing next CO number: %w", err)
	}
	return next, nil
}

// ListChangeOrders returns a job's change orders ordered by number.
func (s *Store) ListChangeOrders(ctx context.Context, jobID string) ([]model.ChangeOrder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+coColumns+` FROM change_orders WHERE job_id = $1 ORDER BY co_number`, jobID)
	if err != nil {
		return nil, fmt.Errorf("listing change orders: %w", err)
	}
	defer rows.Close()
	return collectChangeOrders(rows)
}

// ListAllChangeOrders returns every change order grouped by job id, used
// when reports need CO-adjusted totals across the whole portfolio.
func (s *Store) ListAllChangeOrders(ctx context.Context) (map[string][]model.ChangeOrder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+coColumns+` FROM change_orders ORDER BY job_id, co_number`)
	if err != nil {
		return nil, fmt.Errorf("listing change orders: %w", err)
	}
	defer rows.Close()

	cos, err := collectChangeOrders(rows)
	if err != nil {
		return nil, err
	}

	byJob := make(map[string][]model.ChangeOrder)
	for _, co := range cos {
		byJob[co.JobID] = append(byJob[co.JobID], co)
	}
	return byJob, nil
}

func collectChangeOrders(rows *sql.Rows) ([]model.ChangeOrder, error) {
	var cos []model.ChangeOrder
	for rows.Next() {
		var co model.ChangeOrder
		var status, coType string
		var description sql.NullString

		err := rows.Scan(
			&co.ID, &co.JobID, &co.CONumber, &status, &coType, &description,
			&co.Contract.Labor, &co.Contract.Material, &co.Contract.Other,
			&co.Budget.Labor, &co.Budget.Material, &co.Budget.Other,
			&co.Costs.Labor, &co.Costs.Material, &co.Costs.Other,
			&co.CostToComplete.Labor, &co.CostToComplete.Material, &co.CostToComplete.Other,
			&co.Invoiced.Labor, &co.Invoiced.Material, &co.Invoiced.Other,
			&co.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		co.Status = model.COStatus(status)
		co.COType = model.JobType(coType)
		if description.Valid {
			co.Description = &description.String
		}
		cos = append(cos, co)
	}
	return cos, rows.Err()
}
