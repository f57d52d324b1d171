package domain

// ConstraintKind classifies why an OrchestrationConstraint event was
// recorded.
type ConstraintKind string

const (
	ConstraintRecurringLeave   ConstraintKind = "recurring_leave"
	ConstraintApprovedLeave    ConstraintKind = "approved_leave"
	ConstraintDoubleAssignment ConstraintKind = "double_assignment"
	ConstraintSkillMismatch    ConstraintKind = "skill_mismatch"
	ConstraintOvertime         ConstraintKind = "overtime"
	ConstraintRestPeriod       ConstraintKind = "rest_period"
	ConstraintMinimumStaffing  ConstraintKind = "minimum_staffing"
)

// Severity grades how serious a recorded constraint event is.
type Severity string

const (
	SeverityInfo      Severity = "info"
	SeverityWarning   Severity = "warning"
	SeverityViolation Severity = "violation"
)

// Resolution records how the planner handled a constraint event.
type Resolution string

const (
	ResolutionSkipped    Resolution = "skipped"
	ResolutionReassigned Resolution = "reassigned"
	ResolutionSplit      Resolution = "split"
	ResolutionAccepted   Resolution = "accepted"
)

// OrchestrationConstraint is an audit event: a recorded skip, warning,
// or accepted exception encountered while planning. It is never an
// error; ConstraintViolation is data, not a failure.
type OrchestrationConstraint struct {
	ID         ConstraintEventID
	RunID      RunID
	EmployeeID *EmployeeID
	ShiftRef   *ShiftID
	Kind       ConstraintKind
	Severity   Severity
	Resolution Resolution
	Note       string
}
