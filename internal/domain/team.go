package domain

// Team is the ordered set of active employees the engine plans for,
// plus per-product configuration. Order does not affect selection:
// internal/fairness ranks candidates by score with a total tie-break
// that ends on employee id.
type Team struct {
	ID   TeamID
	Name string
	// EmployeeIDs is the ordered set of active employees belonging to
	// this team. Membership, not order, drives eligibility.
	EmployeeIDs []EmployeeID
	// MinimumStaffing, if set for a product, is informational context
	// for the minimum_staffing constraint; the engine does not enforce
	// a minimum beyond "one assignee per planning unit".
	MinimumStaffing map[Product]int
	// EnabledProducts controls which products are planned for this team.
	// Incidents is always implicitly enabled; Incidents-Standby and
	// Waakdienst are opt-in: emitted only when team configuration
	// enables the product.
	EnabledProducts map[Product]bool
	// AutoSchedulingEnabled gates whether the nightly rolling extender
	// (internal/runcontrol) picks this team up.
	AutoSchedulingEnabled bool
	// HolidayScope selects which Holiday rows apply to this team's
	// business-hours products.
	HolidayScope string
}

// ProductEnabled reports whether product p should be planned for this
// team. Incidents is always enabled.
func (t Team) ProductEnabled(p Product) bool {
	if p == ProductIncidents {
		return true
	}
	return t.EnabledProducts[p]
}

// HasEmployee reports whether id is a current member of the team.
func (t Team) HasEmployee(id EmployeeID) bool {
	for _, e := range t.EmployeeIDs {
		if e == id {
			return true
		}
	}
	return false
}
