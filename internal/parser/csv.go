package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

type CSVParser struct {
	TrimWhitespace bool
	SkipEmptyRows  bool
}

func NewCSVParser() *CSVParser {
	return &CSVParser{
		TrimWhitespace: true,
		SkipEmptyRows:  true,
	}
}

// ParseJobs reads a jobs CSV and returns parsed rows
func (p *CSVParser) ParseJobs(r io.Reader) ([]JobRow, error) {
	records, colMap, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	jobs := make([]JobRow, 0, len(records))
	for i, record := range records {
		rowNum := i + 2

		if p.SkipEmptyRows && isEmptyRow(record) {
			continue
		}

		job, err := p.parseJobRow(record, colMap, rowNum)
		if err != nil {
			return nil, err
		}

		jobs = append(jobs, job)
	}

	return jobs, nil
}

// ParseChangeOrders reads a change-orders CSV and returns parsed rows
func (p *CSVParser) ParseChangeOrders(r io.Reader) ([]ChangeOrderRow, error) {
	records, colMap, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	cos := make([]ChangeOrderRow, 0, len(records))
	for i, record := range records {
		rowNum := i + 2

		if p.SkipEmptyRows && isEmptyRow(record) {
			continue
		}

		co, err := p.parseChangeOrderRow(record, colMap, rowNum)
		if err != nil {
			return nil, err
		}

		cos = append(cos, co)
	}

	return cos, nil
}

// readCSV reads all records and builds the header column map
func readCSV(r io.Reader) ([][]string, map[string]int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil, fmt.Errorf("CSV file is empty")
	}

	return records[1:], buildColumnMap(records[0]), nil
}

// buildColumnMap creates a case-insensitive map of column name → index
func buildColumnMap(headers []string) map[string]int {
	m := make(map[string]int)
	for i, header := range headers {
		normalized := strings.ToLower(strings.TrimSpace(header))
		m[normalized] = i
	}
	return m
}

// parseJobRow converts a CSV row into a JobRow struct
func (p *CSVParser) parseJobRow(record []string, colMap map[string]int, rowNum int) (JobRow, error) {
	var job JobRow
	var err error

	// Required fields
	job.JobNo, err = parseRequiredString(getField(record, colMap, "job no"), rowNum, "Job No")
	if err != nil {
		return job, err
	}

	job.JobName, err = parseRequiredString(getField(record, colMap, "job name"), rowNum, "Job Name")
	if err != nil {
		return job, err
	}

	job.JobType = strings.ToLower(getField(record, colMap, "job type"))
	if job.JobType == "" {
		return job, &ValidationError{Row: rowNum, Column: "Job Type", Err: fmt.Errorf("required field is empty")}
	}

	job.Status = getField(record, colMap, "status")
	if job.Status == "" {
		return job, &ValidationError{Row: rowNum, Column: "Status", Err: fmt.Errorf("required field is empty")}
	}

	// Dates
	job.StartDate = parseNullableDate(getField(record, colMap, "start date"))
	job.EndDate = parseNullableDate(getField(record, colMap, "end date"))
	job.AsOfDate = parseNullableDate(getField(record, colMap, "as of date"))
	job.OnHoldDate = parseNullableDate(getField(record, colMap, "on hold date"))
	// Target end date exports as "TBD" when the PM hasn't committed;
	// parseNullableDate turns that into nil like any unparseable value.
	job.TargetEndDate = parseNullableDate(getField(record, colMap, "target end date"))

	// Cost breakdowns
	job.ContractLabor = parseNullableDecimal(getField(record, colMap, "contract labor"))
	job.ContractMaterial = parseNullableDecimal(getField(record, colMap, "contract material"))
	job.ContractOther = parseNullableDecimal(getField(record, colMap, "contract other"))

	job.BudgetLabor = parseNullableDecimal(getField(record, colMap, "budget labor"))
	job.BudgetMaterial = parseNullableDecimal(getField(record, colMap, "budget material"))
	job.BudgetOther = parseNullableDecimal(getField(record, colMap, "budget other"))

	job.CostsLabor = parseNullableDecimal(getField(record, colMap, "costs labor"))
	job.CostsMaterial = parseNullableDecimal(getField(record, colMap, "costs material"))
	job.CostsOther = parseNullableDecimal(getField(record, colMap, "costs other"))

	job.CostToCompleteLabor = parseNullableDecimal(getField(record, colMap, "cost to complete labor"))
	job.CostToCompleteMaterial = parseNullableDecimal(getField(record, colMap, "cost to complete material"))
	job.CostToCompleteOther = parseNullableDecimal(getField(record, colMap, "cost to complete other"))

	job.InvoicedLabor = parseNullableDecimal(getField(record, colMap, "invoiced labor"))
	job.InvoicedMaterial = parseNullableDecimal(getField(record, colMap, "invoiced material"))
	job.InvoicedOther = parseNullableDecimal(getField(record, colMap, "invoiced other"))

	// T&M settings
	job.LaborBillingType = parseNullableString(getField(record, colMap, "labor billing type"))
	job.LaborBillRate = parseNullableDecimal(getField(record, colMap, "labor bill rate"))
	job.LaborHours = parseNullableDecimal(getField(record, colMap, "labor hours"))
	job.LaborMarkup = parseNullableDecimal(getField(record, colMap, "labor markup"))
	job.MaterialMarkup = parseNullableDecimal(getField(record, colMap, "material markup"))
	job.OtherMarkup = parseNullableDecimal(getField(record, colMap, "other markup"))

	// PM goals
	job.TargetProfit = parseNullableDecimal(getField(record, colMap, "target profit"))
	job.TargetMargin = parseNullableDecimal(getField(record, colMap, "target margin"))

	job.Notes = parseNullableString(getField(record, colMap, "notes"))

	// Exports flatten the phase windows into numbered column triples
	for n := 1; n <= 4; n++ {
		name := getField(record, colMap, fmt.Sprintf("mobilization %d name", n))
		if name == "" {
			continue
		}
		job.Mobilizations = append(job.Mobilizations, MobilizationRow{
			Name:      name,
			StartDate: parseNullableDate(getField(record, colMap, fmt.Sprintf("mobilization %d start", n))),
			EndDate:   parseNullableDate(getField(record, colMap, fmt.Sprintf("mobilization %d end", n))),
		})
	}

	return job, nil
}

// parseChangeOrderRow converts a CSV row into a ChangeOrderRow struct
func (p *CSVParser) parseChangeOrderRow(record []string, colMap map[string]int, rowNum int) (ChangeOrderRow, error) {
	var co ChangeOrderRow
	var err error

	// Required fields
	co.JobNo, err = parseRequiredString(getField(record, colMap, "job no"), rowNum, "Job No")
	if err != nil {
		return co, err
	}

	co.Status = strings.ToLower(getField(record, colMap, "status"))
	if co.Status == "" {
		return co, &ValidationError{Row: rowNum, Column: "Status", Err: fmt.Errorf("required field is empty")}
	}

	co.CONumber = parseNullableInt64(getField(record, colMap, "co number"))
	co.COType = parseNullableString(getField(record, colMap, "co type"))
	co.Description = parseNullableString(getField(record, colMap, "description"))

	co.ContractLabor = parseNullableDecimal(getField(record, colMap, "contract labor"))
	co.ContractMaterial = parseNullableDecimal(getField(record, colMap, "contract material"))
	co.ContractOther = parseNullableDecimal(getField(record, colMap, "contract other"))

	co.BudgetLabor = parseNullableDecimal(getField(record, colMap, "budget labor"))
	co.BudgetMaterial = parseNullableDecimal(getField(record, colMap, "budget material"))
	co.BudgetOther = parseNullableDecimal(getField(record, colMap, "budget other"))

	co.CostsLabor = parseNullableDecimal(getField(record, colMap, "costs labor"))
	co.CostsMaterial = parseNullableDecimal(getField(record, colMap, "costs material"))
	co.CostsOther = parseNullableDecimal(getField(record, colMap, "costs other"))

	co.CostToCompleteLabor = parseNullableDecimal(getField(record, colMap, "cost to complete labor"))
	co.CostToCompleteMaterial = parseNullableDecimal(getField(record, colMap, "cost to complete material"))
	co.CostToCompleteOther = parseNullableDecimal(getField(record, colMap, "cost to complete other"))

	co.InvoicedLabor = parseNullableDecimal(getField(record, colMap, "invoiced labor"))
	co.InvoicedMaterial = parseNullableDecimal(getField(record, colMap, "invoiced material"))
	co.InvoicedOther = parseNullableDecimal(getField(record, colMap, "invoiced other"))

	return co, nil
}

// isEmptyRow reports whether every cell in the record is blank
func isEmptyRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// getField safely retrieves a field from a CSV row by column name
func getField(record []string, colMap map[string]int, columnName string) string {
	idx, ok := colMap[strings.ToLower(columnName)]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
