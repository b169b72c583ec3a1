package importer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hardhatdata/wip.git/internal/model"
	"github.com/hardhatdata/wip.git/internal/parser"
)

// JobFromRow builds a fully-normalized Job from a parsed CSV row. This
// is the boundary where missing numeric cells become zeros: the
// calculation packages are entitled to populated breakdowns and never
// re-check.
func JobFromRow(row parser.JobRow) model.Job {
	job := model.Job{
		ID:      uuid.NewString(),
		JobNo:   row.JobNo,
		JobName: row.JobName,
		JobType: model.JobType(row.JobType),
		Status:  model.JobStatus(row.Status),

		StartDate:     row.StartDate,
		EndDate:       row.EndDate,
		AsOfDate:      row.AsOfDate,
		OnHoldDate:    row.OnHoldDate,
		TargetEndDate: row.TargetEndDate,

		Contract:       breakdownFrom(row.ContractLabor, row.ContractMaterial, row.ContractOther),
		Budget:         breakdownFrom(row.BudgetLabor, row.BudgetMaterial, row.BudgetOther),
		Costs:          breakdownFrom(row.CostsLabor, row.CostsMaterial, row.CostsOther),
		CostToComplete: breakdownFrom(row.CostToCompleteLabor, row.CostToCompleteMaterial, row.CostToCompleteOther),
		Invoiced:       breakdownFrom(row.InvoicedLabor, row.InvoicedMaterial, row.InvoicedOther),

		TargetProfit: row.TargetProfit,
		TargetMargin: row.TargetMargin,
		Notes:        row.Notes,
		LastUpdated:  time.Now(),
	}

	if job.JobType == model.JobTypeTimeMaterial {
		job.TMSettings = tmSettingsFrom(row)
	}

	for _, mob := range row.Mobilizations {
		job.Mobilizations = append(job.Mobilizations, model.Mobilization{
			Name:      mob.Name,
			StartDate: mob.StartDate,
			EndDate:   mob.EndDate,
		})
	}

	return job
}

// tmSettingsFrom assembles billing settings for a T&M job. Markups left
// blank default to 1.0 (bill at cost) so the calculator never sees a
// zero multiplier that would silently erase revenue.
func tmSettingsFrom(row parser.JobRow) *model.TMSettings {
	settings := &model.TMSettings{
		LaborBillingType: model.LaborBillingMarkup,
		LaborBillRate:    decimalOrZero(row.LaborBillRate),
		LaborHours:       decimalOrZero(row.LaborHours),
		LaborMarkup:      markupOrOne(row.LaborMarkup),
		MaterialMarkup:   markupOrOne(row.MaterialMarkup),
		OtherMarkup:      markupOrOne(row.OtherMarkup),
	}

	if row.LaborBillingType != nil && *row.LaborBillingType == string(model.LaborBillingFixedRate) {
		settings.LaborBillingType = model.LaborBillingFixedRate
	}

	return settings
}

// ChangeOrderFromRow builds a normalized ChangeOrder from a parsed row.
// A blank CO number stays 0 and the store assigns the next sequential
// number at insert.
func ChangeOrderFromRow(row parser.ChangeOrderRow, jobID string) model.ChangeOrder {
	co := model.ChangeOrder{
		ID:          uuid.NewString(),
		JobID:       jobID,
		Status:      model.COStatus(row.Status),
		COType:      model.JobTypeFixedPrice,
		Description: row.Description,

		Contract:       breakdownFrom(row.ContractLabor, row.ContractMaterial, row.ContractOther),
		Budget:         breakdownFrom(row.BudgetLabor, row.BudgetMaterial, row.BudgetOther),
		Costs:          breakdownFrom(row.CostsLabor, row.CostsMaterial, row.CostsOther),
		CostToComplete: breakdownFrom(row.CostToCompleteLabor, row.CostToCompleteMaterial, row.CostToCompleteOther),
		Invoiced:       breakdownFrom(row.InvoicedLabor, row.InvoicedMaterial, row.InvoicedOther),

		CreatedAt: time.Now(),
	}

	if row.CONumber != nil {
		co.CONumber = int(*row.CONumber)
	}
	if row.COType != nil && model.JobType(*row.COType).IsValid() {
		co.COType = model.JobType(*row.COType)
	}

	return co
}

func breakdownFrom(labor, material, other *decimal.Decimal) model.CostBreakdown {
	return model.CostBreakdown{
		Labor:    decimalOrZero(labor),
		Material: decimalOrZero(material),
		Other:    decimalOrZero(other),
	}
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func markupOrOne(d *decimal.Decimal) decimal.Decimal {
	if d == nil || d.IsZero() {
		return decimal.NewFromInt(1)
	}
	return *d
}
