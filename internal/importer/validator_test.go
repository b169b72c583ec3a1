package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hardhatdata/wip.git/internal/parser"
)

func TestValidateRowsCleanData(t *testing.T) {
	jobRows := []parser.JobRow{
		{
			JobNo:         "24-101",
			JobType:       "fixed-price",
			Status:        "Active",
			ContractLabor: dp("100000"),
			BudgetLabor:   dp("80000"),
		},
	}
	coRows := []parser.ChangeOrderRow{
		{JobNo: "24-101", Status: "approved"},
	}

	assert.Empty(t, ValidateRows(jobRows, coRows))
}

func TestValidateRowsFlagsUnknownTypeAndStatus(t *testing.T) {
	jobRows := []parser.JobRow{
		{JobNo: "24-101", JobType: "cost-plus", Status: "Paused"},
	}

	warnings := ValidateRows(jobRows, nil)

	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "unknown job type")
	assert.Contains(t, warnings[1], "unknown status")
}

func TestValidateRowsFlagsZeroBudgetFixedPrice(t *testing.T) {
	jobRows := []parser.JobRow{
		{
			JobNo:         "24-101",
			JobType:       "fixed-price",
			Status:        "Active",
			ContractLabor: dp("100000"),
		},
	}

	warnings := ValidateRows(jobRows, nil)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "no budget")
}

func TestValidateRowsFlagsTMWithoutBillingSettings(t *testing.T) {
	jobRows := []parser.JobRow{
		{JobNo: "24-102", JobType: "time-material", Status: "Active"},
	}

	warnings := ValidateRows(jobRows, nil)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "no billing settings")
}

func TestValidateRowsFlagsBadChangeOrders(t *testing.T) {
	num := int64(0)
	coRows := []parser.ChangeOrderRow{
		{JobNo: "24-101", Status: "maybe"},
		{JobNo: "24-101", Status: "pending", CONumber: &num},
	}

	warnings := ValidateRows(nil, coRows)

	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "unknown status")
	assert.Contains(t, warnings[1], "below 1")
}
