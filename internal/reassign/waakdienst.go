package reassign

import (
	"fmt"
	"time"

	"github.com/oncallsvc/orchestrator/internal/constraint"
	"github.com/oncallsvc/orchestrator/internal/domain"
	"github.com/oncallsvc/orchestrator/internal/fairness"
	"github.com/oncallsvc/orchestrator/internal/orchestrator"
	"github.com/oncallsvc/orchestrator/internal/window"
)

// ResolveWaakdienst re-derives Waakdienst's on-call weeks and, for each
// one still held by its original assignee, re-checks that assignee
// against every block in the week. Waakdienst has no day-level split:
// if any block has become infeasible the whole week moves to the best
// remaining candidate, or to the unassigned pool if none clears it.
func ResolveWaakdienst(ctx orchestrator.TeamContext, horizonStart, horizonEnd time.Time, plan orchestrator.Plan, allAssignments []domain.Shift, runID domain.RunID, ledger *fairness.Ledger) (orchestrator.Plan, error) {
	const product = domain.ProductWaakdienst

	template, ok := ctx.Templates[product]
	if !ok {
		return plan, fmt.Errorf("%w: no shift template for %s", domain.ErrUnknownProduct, product)
	}

	units, err := window.Generate(product, horizonStart, horizonEnd, orchestrator.HolidaysInScope(ctx.Holidays, ctx.Team.HolidayScope))
	if err != nil {
		return plan, err
	}

	byStart := make(map[time.Time]int, len(plan.Shifts))
	for i, s := range plan.Shifts {
		if s.Product == product {
			byStart[s.Window.Start.UTC()] = i
		}
	}

	for _, unit := range units {
		original := originalAssignee(plan.Shifts, byStart, unit.Windows)
		if original == nil {
			continue
		}

		employee, ok := ctx.EmployeeByID(*original)
		if !ok {
			continue
		}

		unitAssignments := unitIndexes(byStart, unit.Windows)
		stillFeasible := unitVerdictFor(employee, template, unit.Windows, ctx, product, allAssignments, *original)
		if stillFeasible {
			continue
		}

		replacement, ok := bestUnitReplacement(ctx, product, template, unit.Windows, *original, allAssignments, ledger)
		var totalDuration time.Duration
		for _, w := range unit.Windows {
			totalDuration += w.Duration()
		}

		if !ok {
			ledger.RemoveDebit(*original, product, totalDuration)
			for _, idx := range unitAssignments {
				plan.Shifts[idx].Assignee = nil
			}
			plan.Events = append(plan.Events, domain.OrchestrationConstraint{
				ID:         domain.NewID(),
				RunID:      runID,
				Kind:       domain.ConstraintMinimumStaffing,
				Severity:   domain.SeverityViolation,
				Resolution: domain.ResolutionSkipped,
				Note:       fmt.Sprintf("no replacement available for waakdienst unit anchored %s", unit.Anchor.Format("2006-01-02")),
			})
			continue
		}

		ledger.TransferDebit(*original, replacement, product, totalDuration)
		for _, idx := range unitAssignments {
			rid := replacement
			plan.Shifts[idx].Assignee = &rid
		}

		rid := replacement
		plan.Events = append(plan.Events, domain.OrchestrationConstraint{
			ID:         domain.NewID(),
			RunID:      runID,
			EmployeeID: &rid,
			Kind:       domain.ConstraintDoubleAssignment,
			Severity:   domain.SeverityInfo,
			Resolution: domain.ResolutionReassigned,
			Note:       fmt.Sprintf("waakdienst unit anchored %s reassigned from original assignee", unit.Anchor.Format("2006-01-02")),
		})
	}

	return plan, nil
}

func unitIndexes(byStart map[time.Time]int, windows []domain.TimeWindow) []int {
	out := make([]int, 0, len(windows))
	for _, w := range windows {
		if idx, ok := byStart[w.Start.UTC()]; ok {
			out = append(out, idx)
		}
	}
	return out
}

// unitVerdictFor re-checks employee's own assignments, minus the unit's
// own shifts (which would otherwise look like a self double-assignment
// in double_assignment terms), against every block of the unit.
func unitVerdictFor(employee domain.Employee, template domain.ShiftTemplate, windows []domain.TimeWindow, ctx orchestrator.TeamContext, product domain.Product, allAssignments []domain.Shift, employeeID domain.EmployeeID) bool {
	existing := excludingWindows(orchestrator.AssignmentsFor(allAssignments, employeeID), windows)
	unitVerdict, _ := constraint.EvaluateUnit(employee, template, windows, func(w domain.TimeWindow) constraint.Context {
		return constraint.Context{
			Product:             product,
			Window:              w,
			ApprovedLeave:       ctx.ApprovedLeave[employeeID],
			RecurringLeave:      ctx.RecurringLeave[employeeID],
			ExistingAssignments: existing,
			RestPeriod:          ctx.RestPeriod[product],
		}
	})
	return unitVerdict.Outcome != constraint.OutcomeSkip
}

func excludingWindows(shifts []domain.Shift, windows []domain.TimeWindow) []domain.Shift {
	skip := make(map[time.Time]bool, len(windows))
	for _, w := range windows {
		skip[w.Start.UTC()] = true
	}
	out := make([]domain.Shift, 0, len(shifts))
	for _, s := range shifts {
		if !skip[s.Window.Start.UTC()] {
			out = append(out, s)
		}
	}
	return out
}

func bestUnitReplacement(ctx orchestrator.TeamContext, product domain.Product, template domain.ShiftTemplate, windows []domain.TimeWindow, original domain.EmployeeID, allAssignments []domain.Shift, ledger *fairness.Ledger) (domain.EmployeeID, bool) {
	candidates := orchestrator.EligibleCandidates(ctx, product)
	ranked := ledger.Rank(candidates, product, windows[0].Start)

	for _, candidate := range ranked {
		if candidate.ID == original {
			continue
		}
		existing := excludingWindows(orchestrator.AssignmentsFor(allAssignments, candidate.ID), windows)
		unitVerdict, _ := constraint.EvaluateUnit(candidate, template, windows, func(w domain.TimeWindow) constraint.Context {
			return constraint.Context{
				Product:             product,
				Window:              w,
				ApprovedLeave:       ctx.ApprovedLeave[candidate.ID],
				RecurringLeave:      ctx.RecurringLeave[candidate.ID],
				ExistingAssignments: existing,
				RestPeriod:          ctx.RestPeriod[product],
			}
		})
		if unitVerdict.Outcome != constraint.OutcomeSkip {
			return candidate.ID, true
		}
	}
	return domain.EmployeeID{}, false
}
