package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotCadence says which reporting bucket a snapshot belongs to.
type SnapshotCadence string

const (
	CadenceManual  SnapshotCadence = "manual"
	CadenceWeekly  SnapshotCadence = "weekly"
	CadenceMonthly SnapshotCadence = "monthly"
)

// JobFinancialSnapshot is an immutable capture of one job's derived
// metrics at a point in time. Rows are never updated; a new capture
// creates a new row. Snapshots are the historical baseline for
// margin-fade detection and week/month-over-period deltas.
type JobFinancialSnapshot struct {
	ID           string
	JobID        string
	SnapshotDate time.Time
	Cadence      SnapshotCadence

	// PeriodKey identifies the reporting bucket ("2026-W35", "2026-08",
	// or the capture date for manual snapshots). The store enforces one
	// snapshot per (job, period key) so periodic capture is idempotent.
	PeriodKey string

	ContractAmount decimal.Decimal
	CostsToDate    CostBreakdown
	EarnedRevenue  decimal.Decimal

	ForecastedCostFinal   decimal.Decimal
	ForecastedProfitFinal decimal.Decimal
	// ForecastedMarginFinal is a percentage (12.5 means 12.5%).
	ForecastedMarginFinal decimal.Decimal

	BillingPositionNumeric decimal.Decimal
	BillingPositionLabel   string

	AtRiskMargin   bool
	BehindSchedule bool
}
