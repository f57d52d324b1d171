package domain

import "time"

// ConflictHandling is a closed tagged variant selecting how a leave
// interval interacts with shift products. Modeled as a Go type rather
// than routed through string tokens beyond the wire boundary.
type ConflictHandling string

const (
	// ConflictFullUnavailable blocks all products during the interval.
	ConflictFullUnavailable ConflictHandling = "FULL_UNAVAILABLE"
	// ConflictDaytimeOnly blocks only business-hours products; Waakdienst
	// remains available.
	ConflictDaytimeOnly ConflictHandling = "DAYTIME_ONLY"
	// ConflictNoConflict is advisory only and never blocks a product.
	ConflictNoConflict ConflictHandling = "NO_CONFLICT"
)

// Blocks reports whether this conflict-handling variant blocks product p.
func (c ConflictHandling) Blocks(p Product) bool {
	switch c {
	case ConflictFullUnavailable:
		return true
	case ConflictDaytimeOnly:
		return p.IsBusinessHours()
	case ConflictNoConflict:
		return false
	default:
		return false
	}
}

// LeaveStatus is the approval state of a LeaveRequest.
type LeaveStatus string

const (
	LeavePending   LeaveStatus = "pending"
	LeaveApproved  LeaveStatus = "approved"
	LeaveRejected  LeaveStatus = "rejected"
	LeaveCancelled LeaveStatus = "cancelled"
)

// LeaveType names a leave category and the conflict-handling variant it
// carries.
type LeaveType struct {
	Name             string
	ConflictHandling ConflictHandling
}

// LeaveRequest is a single approved-or-not leave interval for one
// employee. Only Status == LeaveApproved blocks planning; pending is
// informational only (see DESIGN.md).
type LeaveRequest struct {
	ID         LeaveRequestID
	EmployeeID EmployeeID
	Window     TimeWindow
	Status     LeaveStatus
	Type       LeaveType
}

// Blocks reports whether this leave request, if approved, blocks
// product p for any instant inside window.
func (l LeaveRequest) Blocks(p Product, window TimeWindow) bool {
	if l.Status != LeaveApproved {
		return false
	}
	if !l.Window.Overlaps(window) {
		return false
	}
	return l.Type.ConflictHandling.Blocks(p)
}

// CoverageType mirrors ConflictHandling's FULL/DAYTIME_ONLY split for
// recurring leave patterns, which have no NO_CONFLICT variant.
type CoverageType string

const (
	CoverageFull        CoverageType = "FULL"
	CoverageDaytimeOnly CoverageType = "DAYTIME_ONLY"
)

// Blocks reports whether this coverage type blocks product p.
func (c CoverageType) Blocks(p Product) bool {
	switch c {
	case CoverageFull:
		return true
	case CoverageDaytimeOnly:
		return p.IsBusinessHours()
	default:
		return false
	}
}

// WeekdayMask is a bitmask over the seven ISO weekdays, bit 0 = Monday.
type WeekdayMask uint8

// WeekdayBit returns the mask bit for the given weekday.
func WeekdayBit(d time.Weekday) WeekdayMask {
	// time.Weekday is Sunday=0..Saturday=6; rotate so Monday=0.
	iso := (int(d) + 6) % 7
	return 1 << uint(iso)
}

// Has reports whether d is set in the mask.
func (m WeekdayMask) Has(d time.Weekday) bool {
	return m&WeekdayBit(d) != 0
}

// LocalTimeOfDay is an offset from local midnight, used to describe a
// recurring pattern's daily window without tying it to a specific date.
type LocalTimeOfDay time.Duration

// RecurringLeavePattern is a weekly-repeating leave interval, expanded
// lazily into concrete TimeWindows over a planning horizon.
type RecurringLeavePattern struct {
	ID             RecurringLeavePatternID
	EmployeeID     EmployeeID
	WeekdayMask    WeekdayMask
	WindowStart    LocalTimeOfDay
	WindowEnd      LocalTimeOfDay
	EffectiveFrom  time.Time
	EffectiveUntil *time.Time
	CoverageType   CoverageType
}

// activeOn reports whether the pattern is in effect on the civil date d.
func (p RecurringLeavePattern) activeOn(d time.Time) bool {
	if d.Before(civilDate(p.EffectiveFrom)) {
		return false
	}
	if p.EffectiveUntil != nil && d.After(civilDate(*p.EffectiveUntil)) {
		return false
	}
	return p.WeekdayMask.Has(d.Weekday())
}

// Occurrences expands the pattern into concrete TimeWindows for every
// matching day in [horizonStart, horizonEnd), civil dates in Location.
func (p RecurringLeavePattern) Occurrences(horizonStart, horizonEnd time.Time) []TimeWindow {
	var windows []TimeWindow
	start := civilDate(horizonStart)
	end := civilDate(horizonEnd)
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if !p.activeOn(d) {
			continue
		}
		windows = append(windows, TimeWindow{
			Start: d.Add(time.Duration(p.WindowStart)),
			End:   d.Add(time.Duration(p.WindowEnd)),
		})
	}
	return windows
}

// Blocks reports whether the pattern blocks product p at any instant
// inside window, by expanding occurrences across window's own day span.
func (p RecurringLeavePattern) Blocks(product Product, window TimeWindow) bool {
	if !p.CoverageType.Blocks(product) {
		return false
	}
	for _, occ := range p.Occurrences(window.Start.AddDate(0, 0, -1), window.End.AddDate(0, 0, 1)) {
		if occ.Overlaps(window) {
			return true
		}
	}
	return false
}

// civilDate truncates t to local midnight in Location.
func civilDate(t time.Time) time.Time {
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}
