package model

import "time"

// COStatus represents the lifecycle state of a change order
type COStatus string

const (
	COStatusPending   COStatus = "pending"
	COStatusApproved  COStatus = "approved"
	COStatusRejected  COStatus = "rejected"
	COStatusCompleted COStatus = "completed"
)

// IsValid checks if the status is one of the defined constants
func (s COStatus) IsValid() bool {
	switch s {
	case COStatusPending, COStatusApproved, COStatusRejected, COStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s COStatus) String() string {
	return string(s)
}

// CountsTowardTotals reports whether a change order in this status folds
// into the job's effective financial totals. Pending and rejected change
// orders never do; pending contract value is surfaced separately as
// "not yet included" money.
func (s COStatus) CountsTowardTotals() bool {
	return s == COStatusApproved || s == COStatusCompleted
}

// ChangeOrder amends an existing job's contract, budget, and cost
// figures. CONumber is sequential per job starting at 1, assigned at
// creation time by the store.
type ChangeOrder struct {
	ID       string
	JobID    string
	CONumber int
	Status   COStatus
	COType   JobType

	Contract       CostBreakdown
	Budget         CostBreakdown
	Costs          CostBreakdown
	CostToComplete CostBreakdown
	Invoiced       CostBreakdown

	Description *string
	CreatedAt   time.Time
}
