package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/hardhatdata/wip.git/internal/model"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBreakdownTotal(t *testing.T) {
	b := model.CostBreakdown{Labor: d("100.50"), Material: d("49.50"), Other: d("25")}
	assert.True(t, b.Total().Equal(d("175")), "got %s", b.Total())
}

func TestBreakdownAdd(t *testing.T) {
	a := model.CostBreakdown{Labor: d("10"), Material: d("20"), Other: d("30")}
	b := model.CostBreakdown{Labor: d("1"), Material: d("2"), Other: d("3")}

	sum := a.Add(b)

	assert.True(t, sum.Labor.Equal(d("11")))
	assert.True(t, sum.Material.Equal(d("22")))
	assert.True(t, sum.Other.Equal(d("33")))
}

func TestBreakdownIsZero(t *testing.T) {
	assert.True(t, model.CostBreakdown{}.IsZero())
	assert.False(t, model.CostBreakdown{Other: d("0.01")}.IsZero())
}

func TestStatusIsOpen(t *testing.T) {
	assert.True(t, model.JobStatusActive.IsOpen())
	assert.True(t, model.JobStatusOnHold.IsOpen())
	assert.False(t, model.JobStatusDraft.IsOpen())
	assert.False(t, model.JobStatusCompleted.IsOpen())
	assert.False(t, model.JobStatusArchived.IsOpen())
}

func TestCOStatusCountsTowardTotals(t *testing.T) {
	assert.True(t, model.COStatusApproved.CountsTowardTotals())
	assert.True(t, model.COStatusCompleted.CountsTowardTotals())
	assert.False(t, model.COStatusPending.CountsTowardTotals())
	assert.False(t, model.COStatusRejected.CountsTowardTotals())
}
