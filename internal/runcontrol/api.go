package runcontrol

import (
	"context"
	"fmt"
	"time"

	"github.com/oncallsvc/orchestrator/internal/domain"
	"github.com/oncallsvc/orchestrator/internal/orchestrator/api"
)

// Controller implements internal/orchestrator/api.Service; this
// assertion fails to compile if the two drift apart.
var _ api.Service = (*Controller)(nil)

// GetRun looks up a previously saved run.
func (c *Controller) GetRun(ctx context.Context, runID domain.RunID) (domain.OrchestrationRun, error) {
	return c.store.Run(ctx, runID)
}

// EnableAuto turns on the nightly rolling extender for a team.
func (c *Controller) EnableAuto(ctx context.Context, teamID domain.TeamID) error {
	return c.store.SetAutoScheduling(ctx, teamID, true)
}

// DisableAuto turns off the nightly rolling extender for a team. Shifts
// already applied are untouched; only future extension ticks skip it.
func (c *Controller) DisableAuto(ctx context.Context, teamID domain.TeamID) error {
	return c.store.SetAutoScheduling(ctx, teamID, false)
}

// ToggleProduct enables or disables a single product for a team.
// Incidents cannot be disabled: it is always implicitly enabled per
// domain.Team.ProductEnabled.
func (c *Controller) ToggleProduct(ctx context.Context, teamID domain.TeamID, product domain.Product, enabled bool) error {
	if product == domain.ProductIncidents && !enabled {
		return fmt.Errorf("%w: incidents cannot be disabled", domain.ErrUnknownProduct)
	}
	return c.store.SetProductEnabled(ctx, teamID, product, enabled)
}

// Coverage renders the per-interval coverage view: every applied shift
// for the requested product(s) in [start, end), flagged for
// unassigned gaps.
func (c *Controller) Coverage(ctx context.Context, teamID domain.TeamID, start, end time.Time, product *domain.Product) ([]api.CoverageInterval, error) {
	horizon := domain.NewTimeWindow(start, end)
	shifts, err := c.store.AppliedShifts(ctx, teamID, horizon.Start)
	if err != nil {
		return nil, fmt.Errorf("load applied shifts: %w", err)
	}

	var out []api.CoverageInterval
	for _, s := range shifts {
		if !s.Window.Start.Before(horizon.End) {
			continue
		}
		if product != nil && s.Product != *product {
			continue
		}
		out = append(out, api.CoverageInterval{
			Product:  s.Product,
			Window:   s.Window,
			Assignee: s.Assignee,
			Status:   s.Status,
			HasGap:   s.Assignee == nil,
		})
	}
	return out, nil
}

// Availability renders the per-employee availability rollup for one
// product: each team member's availability flag, approved/pending
// leave overlapping the window, active recurring patterns, and their
// already-assigned windows for the product.
func (c *Controller) Availability(ctx context.Context, teamID domain.TeamID, start, end time.Time, product domain.Product) ([]api.AvailabilityEntry, error) {
	horizon := domain.NewTimeWindow(start, end)

	employees, err := c.store.Employees(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}
	approvedLeave, err := c.store.ApprovedLeave(ctx, teamID, horizon)
	if err != nil {
		return nil, fmt.Errorf("load approved leave: %w", err)
	}
	pendingLeave, err := c.store.PendingLeave(ctx, teamID, horizon)
	if err != nil {
		return nil, fmt.Errorf("load pending leave: %w", err)
	}
	recurringLeave, err := c.store.RecurringLeave(ctx, teamID, horizon)
	if err != nil {
		return nil, fmt.Errorf("load recurring leave: %w", err)
	}
	shifts, err := c.store.AppliedShifts(ctx, teamID, horizon.Start)
	if err != nil {
		return nil, fmt.Errorf("load applied shifts: %w", err)
	}

	assignedWindows := map[domain.EmployeeID][]domain.TimeWindow{}
	for _, s := range shifts {
		if s.Product != product || s.Assignee == nil || !s.Window.Start.Before(horizon.End) {
			continue
		}
		assignedWindows[*s.Assignee] = append(assignedWindows[*s.Assignee], s.Window)
	}

	out := make([]api.AvailabilityEntry, 0, len(employees))
	for _, e := range employees {
		out = append(out, api.AvailabilityEntry{
			EmployeeID:      e.ID,
			AvailableFlag:   e.AvailableFor(product),
			ApprovedLeave:   approvedLeave[e.ID],
			PendingLeave:    pendingLeave[e.ID],
			RecurringLeave:  recurringLeave[e.ID],
			AssignedWindows: assignedWindows[e.ID],
		})
	}
	return out, nil
}
