package importer

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hardhatdata/wip.git/internal/model"
	"github.com/hardhatdata/wip.git/internal/parser"
)

// ValidateRows checks parsed rows for data-quality problems that are
// worth flagging but not worth failing the import over. Hard errors
// (missing job numbers, unparseable cells) are already rejected by the
// parser; everything here imports fine but will produce questionable
// numbers downstream.
func ValidateRows(jobRows []parser.JobRow, coRows []parser.ChangeOrderRow) []string {
	warnings := make([]string, 0)

	for _, row := range jobRows {
		if !model.JobType(row.JobType).IsValid() {
			warnings = append(warnings,
				fmt.Sprintf("job %s: unknown job type %q", row.JobNo, row.JobType))
		}
		if !model.JobStatus(row.Status).IsValid() {
			warnings = append(warnings,
				fmt.Sprintf("job %s: unknown status %q", row.JobNo, row.Status))
		}

		switch model.JobType(row.JobType) {
		case model.JobTypeFixedPrice:
			if isZeroTriple(row.BudgetLabor, row.BudgetMaterial, row.BudgetOther) {
				warnings = append(warnings,
					fmt.Sprintf("job %s: fixed-price job has no budget, percent complete will read 0%%", row.JobNo))
			}
			if isZeroTriple(row.ContractLabor, row.ContractMaterial, row.ContractOther) {
				warnings = append(warnings,
					fmt.Sprintf("job %s: fixed-price job has no contract value", row.JobNo))
			}
		case model.JobTypeTimeMaterial:
			if row.LaborMarkup == nil && row.MaterialMarkup == nil && row.OtherMarkup == nil &&
				row.LaborBillingType == nil {
				warnings = append(warnings,
					fmt.Sprintf("job %s: T&M job has no billing settings, work will bill at cost", row.JobNo))
			}
		}
	}

	for _, row := range coRows {
		if !model.COStatus(row.Status).IsValid() {
			warnings = append(warnings,
				fmt.Sprintf("change order for job %s: unknown status %q", row.JobNo, row.Status))
		}
		if row.CONumber != nil && *row.CONumber < 1 {
			warnings = append(warnings,
				fmt.Sprintf("change order for job %s: CO number %d is below 1, a sequential number will be assigned", row.JobNo, *row.CONumber))
		}
	}

	return warnings
}

func isZeroTriple(a, b, c *decimal.Decimal) bool {
	return decimalOrZero(a).IsZero() && decimalOrZero(b).IsZero() && decimalOrZero(c).IsZero()
}
