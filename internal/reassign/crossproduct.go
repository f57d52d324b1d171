package reassign

import (
	"fmt"

	"github.com/oncallsvc/orchestrator/internal/domain"
	"github.com/oncallsvc/orchestrator/internal/fairness"
	"github.com/oncallsvc/orchestrator/internal/orchestrator"
)

// ResolveCrossProductDoubleAssignment finds engineers booked onto both
// Incidents and Incidents-Standby on the same business day and moves
// the Incidents-Standby side to the next-best candidate: Incidents is
// planned first and keeps priority. allAssignments should include both
// plans' shifts (plus any other product's) so the replacement search
// sees the engineer's full load.
func ResolveCrossProductDoubleAssignment(ctx orchestrator.TeamContext, incidentsPlan, standbyPlan orchestrator.Plan, allAssignments []domain.Shift, runID domain.RunID, ledger *fairness.Ledger) (orchestrator.Plan, error) {
	const product = domain.ProductIncidentsStandby

	template, ok := ctx.Templates[product]
	if !ok {
		return standbyPlan, fmt.Errorf("%w: no shift template for %s", domain.ErrUnknownProduct, product)
	}

	for i, s := range standbyPlan.Shifts {
		if s.Assignee == nil || !doubleBookedWithIncidents(*s.Assignee, s.Window, incidentsPlan.Shifts) {
			continue
		}

		original := *s.Assignee
		if replacement := bestReplacement(ctx, product, template, s.Window, original, allAssignments, ledger); replacement != nil {
			ledger.TransferDebit(original, *replacement, product, s.Window.Duration())
			standbyPlan.Shifts[i].Assignee = replacement

			rid := *replacement
			sid := s.ID
			standbyPlan.Events = append(standbyPlan.Events, domain.OrchestrationConstraint{
				ID:         domain.NewID(),
				RunID:      runID,
				EmployeeID: &rid,
				ShiftRef:   &sid,
				Kind:       domain.ConstraintDoubleAssignment,
				Severity:   domain.SeverityInfo,
				Resolution: domain.ResolutionReassigned,
				Note:       fmt.Sprintf("incidents-standby on %s moved off engineer already on incidents", s.Window.Start.Format("2006-01-02")),
			})
			continue
		}

		ledger.RemoveDebit(original, product, s.Window.Duration())
		standbyPlan.Shifts[i].Assignee = nil

		sid := s.ID
		standbyPlan.Events = append(standbyPlan.Events, domain.OrchestrationConstraint{
			ID:         domain.NewID(),
			RunID:      runID,
			ShiftRef:   &sid,
			Kind:       domain.ConstraintMinimumStaffing,
			Severity:   domain.SeverityViolation,
			Resolution: domain.ResolutionSkipped,
			Note:       fmt.Sprintf("no incidents-standby replacement for %s, engineer already on incidents", s.Window.Start.Format("2006-01-02")),
		})
	}

	return standbyPlan, nil
}

func doubleBookedWithIncidents(employeeID domain.EmployeeID, w domain.TimeWindow, incidentsShifts []domain.Shift) bool {
	for _, s := range incidentsShifts {
		if s.Assignee != nil && *s.Assignee == employeeID && s.Window.Overlaps(w) {
			return true
		}
	}
	return false
}
