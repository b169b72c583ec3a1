package parser

import (
	"time"

	"github.com/shopspring/decimal"
)

// JobRow represents a parsed row from a jobs export
type JobRow struct {
	// Core identifiers
	JobNo   string
	JobName string

	// Classification
	JobType string
	Status  string

	// Dates
	StartDate     *time.Time
	EndDate       *time.Time
	AsOfDate      *time.Time
	OnHoldDate    *time.Time
	TargetEndDate *time.Time

	// Cost breakdowns, one labor/material/other triple per figure.
	// Missing cells parse as nil and are coerced to zero at the store
	// boundary so the calculation core always sees populated breakdowns.
	ContractLabor    *decimal.Decimal
	ContractMaterial *decimal.Decimal
	ContractOther    *decimal.Decimal

	BudgetLabor    *decimal.Decimal
	BudgetMaterial *decimal.Decimal
	BudgetOther    *decimal.Decimal

	CostsLabor    *decimal.Decimal
	CostsMaterial *decimal.Decimal
	CostsOther    *decimal.Decimal

	CostToCompleteLabor    *decimal.Decimal
	CostToCompleteMaterial *decimal.Decimal
	CostToCompleteOther    *decimal.Decimal

	InvoicedLabor    *decimal.Decimal
	InvoicedMaterial *decimal.Decimal
	InvoicedOther    *decimal.Decimal

	// T&M billing settings (only meaningful for time-material jobs)
	LaborBillingType *string
	LaborBillRate    *decimal.Decimal
	LaborHours       *decimal.Decimal
	LaborMarkup      *decimal.Decimal
	MaterialMarkup   *decimal.Decimal
	OtherMarkup      *decimal.Decimal

	// PM goals
	TargetProfit *decimal.Decimal
	TargetMargin *decimal.Decimal

	// Phase windows, up to 4 per job. Columns with a blank name are
	// treated as absent.
	Mobilizations []MobilizationRow

	Notes *string
}

// MobilizationRow is one parsed phase window from a jobs export
type MobilizationRow struct {
	Name      string
	StartDate *time.Time
	EndDate   *time.Time
}

// ChangeOrderRow represents a parsed row from a change-orders export
type ChangeOrderRow struct {
	JobNo string

	// CONumber is optional on import; blank means the store assigns the
	// next sequential number for the job.
	CONumber *int64

	Status      string
	COType      *string
	Description *string

	ContractLabor    *decimal.Decimal
	ContractMaterial *decimal.Decimal
	ContractOther    *decimal.Decimal

	BudgetLabor    *decimal.Decimal
	BudgetMaterial *decimal.Decimal
	BudgetOther    *decimal.Decimal

	CostsLabor    *decimal.Decimal
	CostsMaterial *decimal.Decimal
	CostsOther    *decimal.Decimal

	CostToCompleteLabor    *decimal.Decimal
	CostToCompleteMaterial *decimal.Decimal
	CostToCompleteOther    *decimal.Decimal

	InvoicedLabor    *decimal.Decimal
	InvoicedMaterial *decimal.Decimal
	InvoicedOther    *decimal.Decimal
}
