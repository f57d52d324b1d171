package constraint

import (
	"fmt"
	"sort"
	"time"

	"github.com/oncallsvc/orchestrator/internal/domain"
)

// Outcome classifies how a candidate fared against a single window.
type Outcome int

const (
	// OutcomeOK means the candidate is fully eligible.
	OutcomeOK Outcome = iota
	// OutcomeWarn means the candidate is eligible but the assignment
	// should be recorded as an audited exception.
	OutcomeWarn
	// OutcomeSkip means the candidate is not eligible for this window.
	OutcomeSkip
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeWarn:
		return "warn"
	case OutcomeSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Verdict is the result of evaluating one candidate against one window.
// Kind is empty when the outcome should not produce an audit event, as
// is the case for a plain availability-flag mismatch: the candidate was
// never eligible to begin with, so there is nothing exceptional to
// record.
type Verdict struct {
	Outcome Outcome
	Kind    domain.ConstraintKind
	Note    string
}

func ok() Verdict { return Verdict{Outcome: OutcomeOK} }

func skip(kind domain.ConstraintKind, note string) Verdict {
	return Verdict{Outcome: OutcomeSkip, Kind: kind, Note: note}
}

func warn(kind domain.ConstraintKind, note string) Verdict {
	return Verdict{Outcome: OutcomeWarn, Kind: kind, Note: note}
}

// Context carries the per-candidate state the evaluator needs beyond
// the employee and shift template themselves.
type Context struct {
	Product domain.Product
	Window  domain.TimeWindow

	// ApprovedLeave and RecurringLeave are the employee's own leave
	// records; callers filter to the employee before calling Evaluate.
	ApprovedLeave  []domain.LeaveRequest
	RecurringLeave []domain.RecurringLeavePattern

	// ExistingAssignments are the employee's other shifts, already
	// applied or already planned earlier in the same run, across every
	// product. Used for the double-assignment and rest-period checks.
	ExistingAssignments []domain.Shift

	// RestPeriod is the minimum gap required between the end of one
	// assignment and the start of the next for this product.
	RestPeriod time.Duration

	// ConsecutiveWeeks is how many planning units in a row, immediately
	// preceding this one, are already assigned to this employee for
	// this product. Evaluate checks whether adding this unit would
	// exceed the employee's configured cap.
	ConsecutiveWeeks int
}

// Evaluate runs the full ordered check sequence for one employee against
// one candidate window and returns the first non-OK verdict, or OK if
// the employee clears every check.
func Evaluate(employee domain.Employee, template domain.ShiftTemplate, ctx Context) Verdict {
	if v := checkAvailability(employee, ctx.Product); v.Outcome != OutcomeOK {
		return v
	}
	if v := checkSkills(employee, template); v.Outcome != OutcomeOK {
		return v
	}
	if v := checkApprovedLeave(ctx.ApprovedLeave, ctx.Product, ctx.Window); v.Outcome != OutcomeOK {
		return v
	}
	if v := checkRecurringLeave(ctx.RecurringLeave, ctx.Product, ctx.Window); v.Outcome != OutcomeOK {
		return v
	}
	if v := checkDoubleAssignment(ctx.Product, ctx.Window, ctx.ExistingAssignments); v.Outcome != OutcomeOK {
		return v
	}
	if v := checkRestPeriod(ctx.Window, ctx.ExistingAssignments, ctx.RestPeriod); v.Outcome != OutcomeOK {
		return v
	}
	if v := checkMaxConsecutiveWeeks(employee, ctx.Product, ctx.ConsecutiveWeeks); v.Outcome != OutcomeOK {
		return v
	}
	return ok()
}

// EvaluateUnit evaluates every window of a planning unit and folds the
// per-window verdicts into a single unit-level verdict: skip if any
// window skips, warn if any window warns and none skip, ok otherwise.
// The caller still has each per-window Verdict available for auditing.
func EvaluateUnit(employee domain.Employee, template domain.ShiftTemplate, windows []domain.TimeWindow, ctxFor func(domain.TimeWindow) Context) (unit Verdict, perWindow []Verdict) {
	perWindow = make([]Verdict, len(windows))
	unit = ok()
	for i, w := range windows {
		v := Evaluate(employee, template, ctxFor(w))
		perWindow[i] = v
		switch v.Outcome {
		case OutcomeSkip:
			if unit.Outcome != OutcomeSkip {
				unit = v
			}
		case OutcomeWarn:
			if unit.Outcome == OutcomeOK {
				unit = v
			}
		}
	}
	return unit, perWindow
}

func checkAvailability(employee domain.Employee, product domain.Product) Verdict {
	if employee.AvailableFor(product) {
		return ok()
	}
	return skip("", fmt.Sprintf("employee %s is not available for %s", employee.ID, product))
}

func checkSkills(employee domain.Employee, template domain.ShiftTemplate) Verdict {
	if employee.HasSkills(template.RequiredSkills) {
		return ok()
	}
	return skip(domain.ConstraintSkillMismatch, fmt.Sprintf("employee %s lacks required skills for template %s", employee.ID, template.ID))
}

func checkApprovedLeave(leave []domain.LeaveRequest, product domain.Product, window domain.TimeWindow) Verdict {
	for _, l := range leave {
		if l.Blocks(product, window) {
			return skip(domain.ConstraintApprovedLeave, fmt.Sprintf("approved leave %s blocks %s", l.ID, product))
		}
	}
	return ok()
}

// LeaveBlocking reports whether any approved leave or recurring leave
// pattern blocks product at window, and which kind to attribute the
// block to. Approved leave takes precedence when both apply. Exported
// for internal/reassign, which needs to re-check a single day-window in
// isolation rather than run the full ordered Evaluate chain.
func LeaveBlocking(approved []domain.LeaveRequest, recurring []domain.RecurringLeavePattern, product domain.Product, window domain.TimeWindow) (bool, domain.ConstraintKind) {
	for _, l := range approved {
		if l.Blocks(product, window) {
			return true, domain.ConstraintApprovedLeave
		}
	}
	for _, p := range recurring {
		if p.Blocks(product, window) {
			return true, domain.ConstraintRecurringLeave
		}
	}
	return false, ""
}

// checkRecurringLeave returns warn rather than skip for business-hours
// products: recurring patterns are a softer signal than an approved
// one-off leave request, so Incidents and Incidents-Standby still
// assign the slot and let split coverage (internal/reassign) carve the
// pattern's own hours back out. Waakdienst has no splitting story for a
// single week, so a matching pattern there is a hard skip.
func checkRecurringLeave(patterns []domain.RecurringLeavePattern, product domain.Product, window domain.TimeWindow) Verdict {
	for _, p := range patterns {
		if !p.Blocks(product, window) {
			continue
		}
		note := fmt.Sprintf("recurring leave pattern %s overlaps %s", p.ID, product)
		if product.IsBusinessHours() {
			return warn(domain.ConstraintRecurringLeave, note)
		}
		return skip(domain.ConstraintRecurringLeave, note)
	}
	return ok()
}

// checkDoubleAssignment flags an overlap with another shift already
// held by the same employee, except across the Wednesday handover
// corridor where an Incidents business-hours shift is permitted to
// overlap a Waakdienst transition by design.
func checkDoubleAssignment(product domain.Product, window domain.TimeWindow, existing []domain.Shift) Verdict {
	candidate := domain.Shift{Product: product, Window: window}
	for _, s := range existing {
		if s.Assignee == nil || !s.Window.Overlaps(window) {
			continue
		}
		if isHandoverTransition(candidate, s) {
			continue
		}
		return skip(domain.ConstraintDoubleAssignment, fmt.Sprintf("overlaps existing %s assignment", s.Product))
	}
	return ok()
}

func isHandoverTransition(a, b domain.Shift) bool {
	if a.Product == domain.ProductIncidents && b.Product == domain.ProductWaakdienst {
		return a.IsHandoverCorridor()
	}
	if b.Product == domain.ProductIncidents && a.Product == domain.ProductWaakdienst {
		return b.IsHandoverCorridor()
	}
	return false
}

// checkRestPeriod enforces a minimum gap between the candidate window
// and the nearest non-overlapping neighbor already held by the
// employee. Overlapping neighbors are the double-assignment check's
// concern, not this one's.
func checkRestPeriod(window domain.TimeWindow, existing []domain.Shift, restPeriod time.Duration) Verdict {
	if restPeriod <= 0 {
		return ok()
	}
	neighbors := append([]domain.Shift(nil), existing...)
	sort.Slice(neighbors, func(i, j int) bool { return neighbors[i].Window.Start.Before(neighbors[j].Window.Start) })

	for _, s := range neighbors {
		if s.Assignee == nil || s.Window.Overlaps(window) {
			continue
		}
		var gap time.Duration
		switch {
		case s.Window.End.Before(window.Start) || s.Window.End.Equal(window.Start):
			gap = window.Start.Sub(s.Window.End)
		case window.End.Before(s.Window.Start) || window.End.Equal(s.Window.Start):
			gap = s.Window.Start.Sub(window.End)
		default:
			continue
		}
		if gap < restPeriod {
			return skip(domain.ConstraintRestPeriod, fmt.Sprintf("only %s rest before/after existing %s assignment, need %s", gap, s.Product, restPeriod))
		}
	}
	return ok()
}

func checkMaxConsecutiveWeeks(employee domain.Employee, product domain.Product, consecutiveWeeks int) Verdict {
	maxWeeks, hasCap := employee.MaxConsecutiveWeeksFor(product)
	if !hasCap || maxWeeks <= 0 {
		return ok()
	}
	if consecutiveWeeks+1 > maxWeeks {
		return skip(domain.ConstraintOvertime, fmt.Sprintf("assigning this unit would reach %d consecutive weeks, cap is %d", consecutiveWeeks+1, maxWeeks))
	}
	return ok()
}
