package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// JobType distinguishes how a job earns revenue
type JobType string

const (
	// JobTypeFixedPrice earns a fixed contract amount by percent-complete
	JobTypeFixedPrice JobType = "fixed-price"
	// JobTypeTimeMaterial earns cost-plus-markup with no contract ceiling
	JobTypeTimeMaterial JobType = "time-material"
)

// IsValid checks if the job type is one of the defined constants
func (t JobType) IsValid() bool {
	switch t {
	case JobTypeFixedPrice, JobTypeTimeMaterial:
		return true
	}
	return false
}

// String returns the string representation of the job type
func (t JobType) String() string {
	return string(t)
}

// JobStatus represents the lifecycle state of a job
type JobStatus string

const (
	JobStatusDraft     JobStatus = "Draft"
	JobStatusFuture    JobStatus = "Future"
	JobStatusActive    JobStatus = "Active"
	JobStatusOnHold    JobStatus = "OnHold"
	JobStatusCompleted JobStatus = "Completed"
	JobStatusArchived  JobStatus = "Archived"
)

// IsValid checks if the status is one of the defined constants
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusDraft, JobStatusFuture, JobStatusActive,
		JobStatusOnHold, JobStatusCompleted, JobStatusArchived:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s JobStatus) String() string {
	return string(s)
}

// IsOpen reports whether the job counts toward portfolio health and
// periodic reporting (Active and OnHold jobs do; everything else is
// either not started or closed out).
func (s JobStatus) IsOpen() bool {
	return s == JobStatusActive || s == JobStatusOnHold
}

// LaborBillingType selects how T&M labor is billed
type LaborBillingType string

const (
	// LaborBillingMarkup bills labor cost times the labor markup
	LaborBillingMarkup LaborBillingType = "markup"
	// LaborBillingFixedRate bills a fixed hourly rate times hours worked
	LaborBillingFixedRate LaborBillingType = "fixed-rate"
)

// TMSettings holds the billing method and markups for time-and-material
// jobs. Markups are multipliers (1.5 means cost plus 50%).
type TMSettings struct {
	LaborBillingType LaborBillingType
	LaborBillRate    decimal.Decimal // only used for fixed-rate labor
	LaborHours       decimal.Decimal // only used for fixed-rate labor
	LaborMarkup      decimal.Decimal
	MaterialMarkup   decimal.Decimal
	OtherMarkup      decimal.Decimal
}

// Mobilization is one phase window within a job (up to 4 per job,
// enforced at data entry).
type Mobilization struct {
	Name      string
	StartDate *time.Time
	EndDate   *time.Time
}

// Job is the central entity: one construction contract being tracked
// through the WIP process. Monetary figures are five cost breakdowns
// that together describe where the job stands financially.
type Job struct {
	ID      string
	JobNo   string
	JobName string
	JobType JobType
	Status  JobStatus

	StartDate *time.Time
	EndDate   *time.Time
	AsOfDate  *time.Time

	OnHoldDate *time.Time

	// TargetEndDate is the PM's committed finish date. nil means the
	// target is still TBD; schedule checks that need it skip the job.
	TargetEndDate *time.Time

	Contract       CostBreakdown // agreed revenue
	Budget         CostBreakdown // original planned cost
	Costs          CostBreakdown // actual cost to date
	CostToComplete CostBreakdown // remaining forecast cost
	Invoiced       CostBreakdown // billed to date

	TMSettings    *TMSettings
	Mobilizations []Mobilization

	// Optional PM-set goals; nil means no target was set, which callers
	// must distinguish from a target of exactly zero.
	TargetProfit *decimal.Decimal
	TargetMargin *decimal.Decimal

	Notes       *string
	LastUpdated time.Time
}

// EffectiveAsOf returns the date financial figures are current through:
// the job's as-of date when set, otherwise the supplied fallback.
func (j Job) EffectiveAsOf(fallback time.Time) time.Time {
	if j.AsOfDate != nil {
		return *j.AsOfDate
	}
	return fallback
}
