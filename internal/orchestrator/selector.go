package orchestrator

import (
	"fmt"
	"time"

	"github.com/oncallsvc/orchestrator/internal/constraint"
	"github.com/oncallsvc/orchestrator/internal/domain"
	"github.com/oncallsvc/orchestrator/internal/fairness"
	"github.com/oncallsvc/orchestrator/internal/window"
)

// TeamContext is the read-only snapshot a team-run plans against,
// loaded once at the run's initial suspension point.
type TeamContext struct {
	Team      domain.Team
	Employees []domain.Employee
	Templates map[domain.Product]domain.ShiftTemplate
	Holidays  []domain.Holiday

	ApprovedLeave  map[domain.EmployeeID][]domain.LeaveRequest
	RecurringLeave map[domain.EmployeeID][]domain.RecurringLeavePattern

	// Historical holds the team's prior applied shifts across every
	// product, used to seed fairness history. Double-assignment and
	// rest-period checks do not read it: they see only the plan
	// accumulated so far in the current run.
	Historical []domain.Shift

	RestPeriod map[domain.Product]time.Duration
}

// EmployeeByID looks up an employee in the snapshot by id, used by
// internal/reassign to resolve the original assignee of a shift back
// into a full domain.Employee before re-evaluating constraints.
func (c TeamContext) EmployeeByID(id domain.EmployeeID) (domain.Employee, bool) {
	for _, e := range c.Employees {
		if e.ID == id {
			return e, true
		}
	}
	return domain.Employee{}, false
}

// Plan is the provisional output of planning one product for one team:
// the shifts produced (assigned and unassigned placeholders alike) and
// the audit trail of every constraint event worth recording.
type Plan struct {
	Shifts []domain.Shift
	Events []domain.OrchestrationConstraint
}

// PlanProduct runs the full selector loop for one product across
// [horizonStart, horizonEnd). existingPlan carries any shifts already
// provisionally assigned by earlier products in this same team-run, so
// double-assignment checks see them; ledger accrues plan_debit for this
// product on top of whatever earlier products already recorded.
func PlanProduct(ctx TeamContext, product domain.Product, horizonStart, horizonEnd time.Time, runID domain.RunID, ledger *fairness.Ledger, existingPlan []domain.Shift) (Plan, error) {
	template, ok := ctx.Templates[product]
	if !ok {
		return Plan{}, fmt.Errorf("%w: no shift template for %s", domain.ErrUnknownProduct, product)
	}

	units, err := window.Generate(product, horizonStart, horizonEnd, HolidaysInScope(ctx.Holidays, ctx.Team.HolidayScope))
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{}
	assignments := append([]domain.Shift(nil), existingPlan...)

	var streakEmployee *domain.EmployeeID
	streak := 0

	for _, unit := range units {
		assigned, _, perWindow := selectUnit(ctx, product, template, unit, ledger, assignments, streakEmployee, streak)

		if assigned == nil {
			plan.Events = append(plan.Events, domain.OrchestrationConstraint{
				ID:         domain.NewID(),
				RunID:      runID,
				Kind:       domain.ConstraintMinimumStaffing,
				Severity:   domain.SeverityViolation,
				Resolution: domain.ResolutionSkipped,
				Note:       fmt.Sprintf("no eligible candidate for %s unit anchored %s", product, unit.Anchor.Format("2006-01-02")),
			})
			for _, w := range unit.Windows {
				placeholder := domain.Shift{
					ID:          domain.NewID(),
					Template:    template.ID,
					TeamID:      ctx.Team.ID,
					Product:     product,
					Assignee:    nil,
					Window:      w,
					SourceRunID: runID,
					Status:      domain.ShiftPlanned,
				}
				plan.Shifts = append(plan.Shifts, placeholder)
				assignments = append(assignments, placeholder)
			}
			streakEmployee = nil
			streak = 0
			continue
		}

		employeeID := *assigned
		var totalDuration time.Duration
		for i, w := range unit.Windows {
			s := domain.Shift{
				ID:          domain.NewID(),
				Template:    template.ID,
				TeamID:      ctx.Team.ID,
				Product:     product,
				Assignee:    assigned,
				Window:      w,
				SourceRunID: runID,
				Status:      domain.ShiftPlanned,
			}
			plan.Shifts = append(plan.Shifts, s)
			assignments = append(assignments, s)
			totalDuration += w.Duration()

			if v := perWindow[i]; v.Outcome == constraint.OutcomeWarn {
				eid := employeeID
				sid := s.ID
				plan.Events = append(plan.Events, domain.OrchestrationConstraint{
					ID:         domain.NewID(),
					RunID:      runID,
					EmployeeID: &eid,
					ShiftRef:   &sid,
					Kind:       v.Kind,
					Severity:   domain.SeverityWarning,
					Resolution: domain.ResolutionAccepted,
					Note:       v.Note,
				})
			}
		}

		ledger.RecordAssignment(employeeID, product, totalDuration)

		if streakEmployee != nil && *streakEmployee == employeeID {
			streak++
		} else {
			streakEmployee = &employeeID
			streak = 1
		}
	}

	return plan, nil
}

// selectUnit ranks eligible candidates and returns the first whose
// whole-unit verdict is not a skip, along with that candidate's
// per-window verdicts for audit purposes.
func selectUnit(ctx TeamContext, product domain.Product, template domain.ShiftTemplate, unit window.PlanningUnit, ledger *fairness.Ledger, assignments []domain.Shift, streakEmployee *domain.EmployeeID, streak int) (*domain.EmployeeID, constraint.Verdict, []constraint.Verdict) {
	candidates := EligibleCandidates(ctx, product)

	asOf := unit.Windows[0].Start
	ranked := ledger.Rank(candidates, product, asOf)

	for _, candidate := range ranked {
		consecutive := 0
		if streakEmployee != nil && *streakEmployee == candidate.ID {
			consecutive = streak
		}

		existing := AssignmentsFor(assignments, candidate.ID)
		unitVerdict, perWindow := constraint.EvaluateUnit(candidate, template, unit.Windows, func(w domain.TimeWindow) constraint.Context {
			return constraint.Context{
				Product:             product,
				Window:              w,
				ApprovedLeave:       ctx.ApprovedLeave[candidate.ID],
				RecurringLeave:      ctx.RecurringLeave[candidate.ID],
				ExistingAssignments: existing,
				RestPeriod:          ctx.RestPeriod[product],
				ConsecutiveWeeks:    consecutive,
			}
		})

		if unitVerdict.Outcome != constraint.OutcomeSkip {
			id := candidate.ID
			return &id, unitVerdict, perWindow
		}
	}

	return nil, constraint.Verdict{}, nil
}

// EligibleCandidates returns the team members who carry the
// availability flag for product, regardless of leave or load. Exported
// so internal/reassign can rebuild the same candidate pool when it
// re-ranks a replacement after the initial run.
func EligibleCandidates(ctx TeamContext, product domain.Product) []domain.Employee {
	candidates := make([]domain.Employee, 0, len(ctx.Employees))
	for _, e := range ctx.Employees {
		if ctx.Team.HasEmployee(e.ID) && e.AvailableFor(product) {
			candidates = append(candidates, e)
		}
	}
	return candidates
}

// AssignmentsFor returns the subset of assignments held by employeeID,
// exported for internal/reassign's own constraint re-evaluation.
func AssignmentsFor(assignments []domain.Shift, employeeID domain.EmployeeID) []domain.Shift {
	var out []domain.Shift
	for _, s := range assignments {
		if s.Assignee != nil && *s.Assignee == employeeID {
			out = append(out, s)
		}
	}
	return out
}

// HolidaysInScope filters holidays to those applying to scope, exported
// so internal/reassign regenerates the exact same planning units
// PlanProduct produced for the same team and horizon.
func HolidaysInScope(holidays []domain.Holiday, scope string) []domain.Holiday {
	var out []domain.Holiday
	for _, h := range holidays {
		if h.AppliesTo(scope) {
			out = append(out, h)
		}
	}
	return out
}
