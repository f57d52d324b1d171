package domain

// FairnessScore is a derived, per-run snapshot of one employee's load
// for one product. It is never persisted across runs; a stable
// snapshot of the scores that drove a run's decisions is logged on the
// OrchestrationRun for audit purposes.
type FairnessScore struct {
	EmployeeID              EmployeeID
	Product                 Product
	WeightedHoursLastNWeeks float64
	DecayFactor             float64
	CurrentPlanDebit        float64
	AvailabilityBonus       float64
	AssignmentCount         int
}

// Total is the combined score used for ordering: weighted historical
// load plus in-run debit, minus the availability bonus. Lower is
// preferred (internal/fairness owns the full ordering rule, including
// tie-breaks).
func (f FairnessScore) Total() float64 {
	return f.WeightedHoursLastNWeeks + f.CurrentPlanDebit - f.AvailabilityBonus
}
