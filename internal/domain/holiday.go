package domain

import "time"

// Holiday suppresses business-hours products (Incidents,
// Incidents-Standby) on the given civil date for teams sharing its
// scope; Waakdienst continues regardless.
type Holiday struct {
	ID    HolidayID
	Date  time.Time
	Scope string
}

// AppliesTo reports whether the holiday suppresses business-hours
// planning for a team with the given holiday scope.
func (h Holiday) AppliesTo(teamScope string) bool {
	return h.Scope == teamScope
}

// OnDate reports whether the holiday falls on the civil date d.
func (h Holiday) OnDate(d time.Time) bool {
	hd := civilDate(h.Date)
	return civilDate(d).Equal(hd)
}
