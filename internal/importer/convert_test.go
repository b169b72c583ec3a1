package importer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hardhatdata/wip.git/internal/model"
	"github.com/hardhatdata/wip.git/internal/parser"
)

func dp(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func sp(s string) *string { return &s }

func TestJobFromRowCoercesMissingMoney(t *testing.T) {
	row := parser.JobRow{
		JobNo:   "24-101",
		JobName: "Warehouse",
		JobType: "fixed-price",
		Status:  "Active",

		ContractLabor: dp("60000"),
		// every other money cell left nil
	}

	job := JobFromRow(row)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, model.JobTypeFixedPrice, job.JobType)
	assert.Equal(t, model.JobStatusActive, job.Status)

	// Missing cells become zeros so downstream math never sees nil.
	assert.True(t, job.Contract.Labor.Equal(decimal.RequireFromString("60000")))
	assert.True(t, job.Contract.Material.IsZero())
	assert.True(t, job.Budget.Total().IsZero())
	assert.True(t, job.Costs.Total().IsZero())
	assert.Nil(t, job.TMSettings)
	assert.False(t, job.LastUpdated.IsZero())
}

func TestJobFromRowBuildsTMSettings(t *testing.T) {
	row := parser.JobRow{
		JobNo:       "24-102",
		JobName:     "Dock Repairs",
		JobType:     "time-material",
		Status:      "Active",
		LaborMarkup: dp("1.5"),
		OtherMarkup: dp("0"), // zero markup means unset, not free work
	}

	job := JobFromRow(row)

	require.NotNil(t, job.TMSettings)
	assert.Equal(t, model.LaborBillingMarkup, job.TMSettings.LaborBillingType)
	assert.True(t, job.TMSettings.LaborMarkup.Equal(decimal.RequireFromString("1.5")))
	// Blank and zero markups default to billing at cost.
	assert.True(t, job.TMSettings.MaterialMarkup.Equal(decimal.NewFromInt(1)))
	assert.True(t, job.TMSettings.OtherMarkup.Equal(decimal.NewFromInt(1)))
}

func TestJobFromRowFixedRateLabor(t *testing.T) {
	row := parser.JobRow{
		JobNo:            "24-103",
		JobName:          "Service Contract",
		JobType:          "time-material",
		Status:           "Active",
		LaborBillingType: sp("fixed-rate"),
		LaborBillRate:    dp("95"),
		LaborHours:       dp("120"),
	}

	job := JobFromRow(row)

	require.NotNil(t, job.TMSettings)
	assert.Equal(t, model.LaborBillingFixedRate, job.TMSettings.LaborBillingType)
	assert.True(t, job.TMSettings.LaborBillRate.Equal(decimal.RequireFromString("95")))
	assert.True(t, job.TMSettings.LaborHours.Equal(decimal.RequireFromString("120")))
}

func TestJobFromRowKeepsNilDates(t *testing.T) {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	row := parser.JobRow{
		JobNo:     "24-104",
		JobName:   "Bridge",
		JobType:   "fixed-price",
		Status:    "Active",
		StartDate: &start,
		// TargetEndDate nil: still TBD
	}

	job := JobFromRow(row)

	require.NotNil(t, job.StartDate)
	assert.Nil(t, job.TargetEndDate)
}

func TestJobFromRowCarriesMobilizations(t *testing.T) {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	hold := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	row := parser.JobRow{
		JobNo:      "24-103",
		JobName:    "Bridge Deck",
		JobType:    "fixed-price",
		Status:     "OnHold",
		OnHoldDate: &hold,
		Mobilizations: []parser.MobilizationRow{
			{Name: "Site prep", StartDate: &start},
			{Name: "Deck pour"},
		},
	}

	job := JobFromRow(row)

	require.NotNil(t, job.OnHoldDate)
	assert.True(t, job.OnHoldDate.Equal(hold))
	require.Len(t, job.Mobilizations, 2)
	assert.Equal(t, "Site prep", job.Mobilizations[0].Name)
	require.NotNil(t, job.Mobilizations[0].StartDate)
	assert.Nil(t, job.Mobilizations[1].StartDate)
}

func TestChangeOrderFromRow(t *testing.T) {
	num := int64(3)
	row := parser.ChangeOrderRow{
		JobNo:         "24-101",
		CONumber:      &num,
		Status:        "approved",
		COType:        sp("fixed-price"),
		Description:   sp("Added mezzanine"),
		ContractLabor: dp("12000"),
	}

	co := ChangeOrderFromRow(row, "job-id-1")

	assert.NotEmpty(t, co.ID)
	assert.Equal(t, "job-id-1", co.JobID)
	assert.Equal(t, 3, co.CONumber)
	assert.Equal(t, model.COStatusApproved, co.Status)
	assert.Equal(t, model.JobTypeFixedPrice, co.COType)
	assert.True(t, co.Contract.Labor.Equal(decimal.RequireFromString("12000")))
	assert.True(t, co.Budget.Total().IsZero())
}

func TestChangeOrderFromRowBlankNumber(t *testing.T) {
	row := parser.ChangeOrderRow{JobNo: "24-101", Status: "pending"}

	co := ChangeOrderFromRow(row, "job-id-1")

	// Zero tells the store to assign the next sequential number.
	assert.Equal(t, 0, co.CONumber)
	assert.Equal(t, model.JobTypeFixedPrice, co.COType)
}
