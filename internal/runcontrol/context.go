package runcontrol

import (
	"context"
	"time"

	"github.com/oncallsvc/orchestrator/internal/domain"
	"github.com/oncallsvc/orchestrator/internal/orchestrator"
)

// loadTeamContext performs the single batch-load suspension point spec
// §5 describes: one round trip per read port, assembled into the
// read-only snapshot the selector and reassignment passes plan against.
func (c *Controller) loadTeamContext(ctx context.Context, teamID domain.TeamID, horizon domain.TimeWindow) (orchestrator.TeamContext, domain.Team, error) {
	team, err := c.store.Team(ctx, teamID)
	if err != nil {
		return orchestrator.TeamContext{}, domain.Team{}, err
	}

	employees, err := c.store.Employees(ctx, teamID)
	if err != nil {
		return orchestrator.TeamContext{}, domain.Team{}, err
	}

	templates, err := c.store.ShiftTemplates(ctx, teamID)
	if err != nil {
		return orchestrator.TeamContext{}, domain.Team{}, err
	}

	approvedLeave, err := c.store.ApprovedLeave(ctx, teamID, horizon)
	if err != nil {
		return orchestrator.TeamContext{}, domain.Team{}, err
	}

	recurringLeave, err := c.store.RecurringLeave(ctx, teamID, horizon)
	if err != nil {
		return orchestrator.TeamContext{}, domain.Team{}, err
	}

	holidays, err := c.store.Holidays(ctx, team.HolidayScope, horizon)
	if err != nil {
		return orchestrator.TeamContext{}, domain.Team{}, err
	}

	// Fairness decay needs history stretching back well before the
	// horizon; a year is comfortably past every configured half-life.
	historical, err := c.store.AppliedShifts(ctx, teamID, horizon.Start.AddDate(-1, 0, 0))
	if err != nil {
		return orchestrator.TeamContext{}, domain.Team{}, err
	}

	restPeriod := make(map[domain.Product]time.Duration, len(c.rotation))
	for p, r := range c.rotation {
		restPeriod[p] = time.Duration(r.RestPeriodMinutes) * time.Minute
	}

	return orchestrator.TeamContext{
		Team:           team,
		Employees:      employees,
		Templates:      templates,
		Holidays:       holidays,
		ApprovedLeave:  approvedLeave,
		RecurringLeave: recurringLeave,
		Historical:     historical,
		RestPeriod:     restPeriod,
	}, team, nil
}
