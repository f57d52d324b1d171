package domain

import "time"

// RunMode selects whether an orchestration run persists its plan.
type RunMode string

const (
	RunModePreview RunMode = "preview"
	RunModeApply   RunMode = "apply"
)

// RunTotals summarizes the outcome of a completed run for quick
// display without walking ShiftsPlanned/ConstraintEvents.
type RunTotals struct {
	ShiftsPlanned  int
	ShiftsApplied  int
	Superseded     int
	Unassigned     int
	ViolationCount int
}

// OrchestrationRun is the audit record of a single orchestration,
// immutable once CompletedTS is set.
type OrchestrationRun struct {
	ID               RunID
	TeamID           TeamID
	HorizonStart     time.Time
	HorizonEnd       time.Time
	Products         []Product
	StartedTS        time.Time
	CompletedTS      *time.Time
	Mode             RunMode
	Totals           RunTotals
	ConstraintEvents []OrchestrationConstraint
	ShiftsPlanned    []Shift
}

// Completed reports whether the run has finished.
func (r OrchestrationRun) Completed() bool {
	return r.CompletedTS != nil
}
