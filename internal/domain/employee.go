package domain

import "time"

// Skill is a required-skill tag matched by exact tag against a
// ShiftTemplate's RequiredSkills: an employee qualifies when their
// skills include every required tag. There is no soft-skill matching.
type Skill string

// Employee is the read-model identity the engine assigns shifts to.
// It is created and modified by external user management; the core
// treats it as read-only.
type Employee struct {
	ID                     EmployeeID
	Name                   string
	AvailableForIncidents  bool
	AvailableForWaakdienst bool
	Skills                 map[Skill]struct{}
	SeniorityStartDate     time.Time
	// MaxConsecutiveWeeks caps, per product, how many planning units in a
	// row this employee may be assigned. Absence of a key means no cap.
	MaxConsecutiveWeeks map[Product]int
}

// AvailableFor reports whether the employee's availability flag is set
// for the given product. Incidents-Standby shares the Incidents flag;
// there is no separate available_for_incidents_standby column.
func (e Employee) AvailableFor(p Product) bool {
	switch p {
	case ProductIncidents, ProductIncidentsStandby:
		return e.AvailableForIncidents
	case ProductWaakdienst:
		return e.AvailableForWaakdienst
	default:
		return false
	}
}

// HasSkills reports whether e's skill set is a superset of required.
func (e Employee) HasSkills(required []Skill) bool {
	for _, s := range required {
		if _, ok := e.Skills[s]; !ok {
			return false
		}
	}
	return true
}

// MaxConsecutiveWeeksFor returns the configured cap for product p, and
// whether one is configured at all.
func (e Employee) MaxConsecutiveWeeksFor(p Product) (int, bool) {
	n, ok := e.MaxConsecutiveWeeks[p]
	return n, ok
}
