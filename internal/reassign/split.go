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

// ResolveBusinessHours re-derives the planning units PlanProduct used to
// build plan and, for each day-window still held by its original
// assignee, checks whether new or newly-discovered leave now blocks
// that assignee. A blocked day is carved out of the unit and handed to
// the best remaining candidate; the other days in the unit are left
// untouched. allAssignments is the team-run's full cross-product shift
// set (applied history plus every product's current plan) used to
// evaluate a replacement candidate's double-assignment and rest-period
// exposure; plan itself only has to carry this product's shifts.
func ResolveBusinessHours(ctx orchestrator.TeamContext, product domain.Product, horizonStart, horizonEnd time.Time, plan orchestrator.Plan, allAssignments []domain.Shift, runID domain.RunID, ledger *fairness.Ledger) (orchestrator.Plan, error) {
	if !product.IsBusinessHours() {
		return plan, fmt.Errorf("%w: %s is not a business-hours product", domain.ErrUnknownProduct, product)
	}

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

		for _, w := range unit.Windows {
			idx, ok := byStart[w.Start.UTC()]
			if !ok || plan.Shifts[idx].Assignee == nil {
				continue
			}

			blocked, kind := constraint.LeaveBlocking(ctx.ApprovedLeave[*original], ctx.RecurringLeave[*original], product, w)
			if !blocked {
				continue
			}

			if replacement := bestReplacement(ctx, product, template, w, *original, allAssignments, ledger); replacement != nil {
				ledger.TransferDebit(*original, *replacement, product, w.Duration())
				plan.Shifts[idx].Assignee = replacement

				rid := *replacement
				sid := plan.Shifts[idx].ID
				plan.Events = append(plan.Events, domain.OrchestrationConstraint{
					ID:         domain.NewID(),
					RunID:      runID,
					EmployeeID: &rid,
					ShiftRef:   &sid,
					Kind:       kind,
					Severity:   domain.SeverityInfo,
					Resolution: domain.ResolutionSplit,
					Note:       fmt.Sprintf("split coverage: %s on %s moved off original assignee", kind, w.Start.Format("2006-01-02")),
				})
				continue
			}

			ledger.RemoveDebit(*original, product, w.Duration())
			plan.Shifts[idx].Assignee = nil

			sid := plan.Shifts[idx].ID
			plan.Events = append(plan.Events, domain.OrchestrationConstraint{
				ID:         domain.NewID(),
				RunID:      runID,
				ShiftRef:   &sid,
				Kind:       domain.ConstraintMinimumStaffing,
				Severity:   domain.SeverityViolation,
				Resolution: domain.ResolutionSkipped,
				Note:       fmt.Sprintf("no replacement available for %s on %s", kind, w.Start.Format("2006-01-02")),
			})
		}
	}

	return plan, nil
}

// originalAssignee returns the assignee currently held across unit's
// windows, found via whichever window already has a shift recorded. A
// unit PlanProduct left entirely unassigned has nothing to split.
func originalAssignee(shifts []domain.Shift, byStart map[time.Time]int, windows []domain.TimeWindow) *domain.EmployeeID {
	for _, w := range windows {
		idx, ok := byStart[w.Start.UTC()]
		if !ok {
			continue
		}
		if a := shifts[idx].Assignee; a != nil {
			return a
		}
	}
	return nil
}

// bestReplacement ranks every eligible candidate other than original
// and returns the first one that clears Evaluate for this single
// window. Consecutive-week tracking is a whole-unit concept and is not
// re-checked here: a one-day swap cannot by itself push anyone over
// their cap.
func bestReplacement(ctx orchestrator.TeamContext, product domain.Product, template domain.ShiftTemplate, w domain.TimeWindow, original domain.EmployeeID, allAssignments []domain.Shift, ledger *fairness.Ledger) *domain.EmployeeID {
	candidates := orchestrator.EligibleCandidates(ctx, product)
	ranked := ledger.Rank(candidates, product, w.Start)

	for _, candidate := range ranked {
		if candidate.ID == original {
			continue
		}
		v := constraint.Evaluate(candidate, template, constraint.Context{
			Product:             product,
			Window:              w,
			ApprovedLeave:       ctx.ApprovedLeave[candidate.ID],
			RecurringLeave:      ctx.RecurringLeave[candidate.ID],
			ExistingAssignments: orchestrator.AssignmentsFor(allAssignments, candidate.ID),
			RestPeriod:          ctx.RestPeriod[product],
		})
		if v.Outcome != constraint.OutcomeSkip {
			id := candidate.ID
			return &id
		}
	}
	return nil
}
