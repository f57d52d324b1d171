package reassign_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oncallsvc/orchestrator/internal/domain"
	"github.com/oncallsvc/orchestrator/internal/fairness"
	"github.com/oncallsvc/orchestrator/internal/orchestrator"
	"github.com/oncallsvc/orchestrator/internal/reassign"
)

func mustDate(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, domain.Location)
}

func halfLives() map[domain.Product]float64 {
	return map[domain.Product]float64{
		domain.ProductIncidents:        26,
		domain.ProductIncidentsStandby: 26,
		domain.ProductWaakdienst:       13,
	}
}

func newTeam(employeeIDs ...domain.EmployeeID) domain.Team {
	return domain.Team{
		ID:          uuid.New(),
		EmployeeIDs: employeeIDs,
		EnabledProducts: map[domain.Product]bool{
			domain.ProductIncidents: true,
		},
		HolidayScope: "NL",
	}
}

// TestResolveBusinessHours_SplitsRecurringLeaveDay reproduces a
// recurring-leave split: the selector assigns a whole business week to
// the lowest-scoring engineer despite a recurring Wednesday leave
// pattern (recorded as an accepted warning), and ResolveBusinessHours
// then carves Wednesday back out to the next-best candidate.
func TestResolveBusinessHours_SplitsRecurringLeaveDay(t *testing.T) {
	e1 := domain.Employee{ID: uuid.New(), AvailableForIncidents: true, SeniorityStartDate: mustDate(2019, 1, 1, 0, 0)}
	e2 := domain.Employee{ID: uuid.New(), AvailableForIncidents: true, SeniorityStartDate: mustDate(2021, 1, 1, 0, 0)}
	team := newTeam(e1.ID, e2.ID)

	pattern := domain.RecurringLeavePattern{
		ID:            uuid.New(),
		EmployeeID:    e1.ID,
		WeekdayMask:   domain.WeekdayBit(time.Wednesday),
		WindowStart:   domain.LocalTimeOfDay(8 * time.Hour),
		WindowEnd:     domain.LocalTimeOfDay(17 * time.Hour),
		EffectiveFrom: mustDate(2025, 1, 1, 0, 0),
		CoverageType:  domain.CoverageFull,
	}

	ctx := orchestrator.TeamContext{
		Team:      team,
		Employees: []domain.Employee{e1, e2},
		Templates: map[domain.Product]domain.ShiftTemplate{
			domain.ProductIncidents: {ID: uuid.New()},
		},
		RecurringLeave: map[domain.EmployeeID][]domain.RecurringLeavePattern{
			e1.ID: {pattern},
		},
	}

	horizonStart := mustDate(2026, 1, 5, 0, 0)
	horizonEnd := mustDate(2026, 1, 12, 0, 0)
	runID := uuid.New()
	ledger := fairness.NewLedger(halfLives(), nil, nil)

	plan, err := orchestrator.PlanProduct(ctx, domain.ProductIncidents, horizonStart, horizonEnd, runID, ledger, nil)
	require.NoError(t, err)
	require.Len(t, plan.Shifts, 5)
	for _, s := range plan.Shifts {
		require.NotNil(t, s.Assignee)
		assert.Equal(t, e1.ID, *s.Assignee, "selector assigns the whole week to e1 despite the warning")
	}
	require.Len(t, plan.Events, 1)
	assert.Equal(t, domain.ResolutionAccepted, plan.Events[0].Resolution)

	plan, err = reassign.ResolveBusinessHours(ctx, domain.ProductIncidents, horizonStart, horizonEnd, plan, plan.Shifts, runID, ledger)
	require.NoError(t, err)

	var sawWednesday bool
	for _, s := range plan.Shifts {
		if s.Window.Start.Weekday() == time.Wednesday {
			sawWednesday = true
			require.NotNil(t, s.Assignee)
			assert.Equal(t, e2.ID, *s.Assignee, "wednesday moves to the next-best candidate")
			continue
		}
		require.NotNil(t, s.Assignee)
		assert.Equal(t, e1.ID, *s.Assignee, "every other day stays with the original assignee")
	}
	require.True(t, sawWednesday)

	require.Len(t, plan.Events, 2)
	split := plan.Events[1]
	assert.Equal(t, domain.ConstraintRecurringLeave, split.Kind)
	assert.Equal(t, domain.ResolutionSplit, split.Resolution)
	require.NotNil(t, split.EmployeeID)
	assert.Equal(t, e2.ID, *split.EmployeeID)
}

// TestResolveBusinessHours_NoReplacementUnassignsTheDay covers the case
// where the only other candidate is also blocked: the day is pulled
// back into the unassigned pool and a minimum_staffing violation is
// recorded instead of a split.
func TestResolveBusinessHours_NoReplacementUnassignsTheDay(t *testing.T) {
	e1 := domain.Employee{ID: uuid.New(), AvailableForIncidents: true}
	team := newTeam(e1.ID)

	pattern := domain.RecurringLeavePattern{
		ID:            uuid.New(),
		EmployeeID:    e1.ID,
		WeekdayMask:   domain.WeekdayBit(time.Wednesday),
		WindowStart:   domain.LocalTimeOfDay(8 * time.Hour),
		WindowEnd:     domain.LocalTimeOfDay(17 * time.Hour),
		EffectiveFrom: mustDate(2025, 1, 1, 0, 0),
		CoverageType:  domain.CoverageFull,
	}

	ctx := orchestrator.TeamContext{
		Team:      team,
		Employees: []domain.Employee{e1},
		Templates: map[domain.Product]domain.ShiftTemplate{
			domain.ProductIncidents: {ID: uuid.New()},
		},
		RecurringLeave: map[domain.EmployeeID][]domain.RecurringLeavePattern{
			e1.ID: {pattern},
		},
	}

	horizonStart := mustDate(2026, 1, 5, 0, 0)
	horizonEnd := mustDate(2026, 1, 12, 0, 0)
	runID := uuid.New()
	ledger := fairness.NewLedger(halfLives(), nil, nil)

	plan, err := orchestrator.PlanProduct(ctx, domain.ProductIncidents, horizonStart, horizonEnd, runID, ledger, nil)
	require.NoError(t, err)

	plan, err = reassign.ResolveBusinessHours(ctx, domain.ProductIncidents, horizonStart, horizonEnd, plan, plan.Shifts, runID, ledger)
	require.NoError(t, err)

	for _, s := range plan.Shifts {
		if s.Window.Start.Weekday() == time.Wednesday {
			assert.Nil(t, s.Assignee)
		} else {
			assert.NotNil(t, s.Assignee)
		}
	}

	require.Len(t, plan.Events, 2)
	assert.Equal(t, domain.ConstraintMinimumStaffing, plan.Events[1].Kind)
	assert.Equal(t, domain.SeverityViolation, plan.Events[1].Severity)
}
