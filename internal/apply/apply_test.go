package apply_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oncallsvc/orchestrator/internal/apply"
	"github.com/oncallsvc/orchestrator/internal/domain"
)

func shiftAt(team domain.TeamID, start time.Time, assignee domain.EmployeeID) domain.Shift {
	return domain.Shift{
		ID:      domain.NewID(),
		TeamID:  team,
		Product: domain.ProductIncidents,
		Window:  domain.NewTimeWindow(start, start.Add(9*time.Hour)),
		Assignee: func() *domain.EmployeeID {
			id := assignee
			return &id
		}(),
		Status: domain.ShiftPlanned,
	}
}

func TestReconcile_InsertsWhenNoExistingRow(t *testing.T) {
	team := uuid.New()
	planned := []domain.Shift{shiftAt(team, time.Date(2026, 3, 2, 8, 0, 0, 0, domain.Location), uuid.New())}

	decisions := apply.Reconcile(planned, nil)
	require.Len(t, decisions, 1)
	assert.Equal(t, apply.ActionInsert, decisions[0].Action)
}

func TestReconcile_KeepsUnchangedAssignment(t *testing.T) {
	team := uuid.New()
	employee := uuid.New()
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, domain.Location)

	existing := shiftAt(team, start, employee)
	existing.Status = domain.ShiftApplied
	planned := shiftAt(team, start, employee)

	decisions := apply.Reconcile([]domain.Shift{planned}, []domain.Shift{existing})
	require.Len(t, decisions, 1)
	assert.Equal(t, apply.ActionKeep, decisions[0].Action)
}

func TestReconcile_SupersedesOnAssigneeChange(t *testing.T) {
	team := uuid.New()
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, domain.Location)

	existing := shiftAt(team, start, uuid.New())
	existing.Status = domain.ShiftApplied
	planned := shiftAt(team, start, uuid.New())

	decisions := apply.Reconcile([]domain.Shift{planned}, []domain.Shift{existing})
	require.Len(t, decisions, 1)
	assert.Equal(t, apply.ActionSupersede, decisions[0].Action)
	assert.Equal(t, existing.ID, decisions[0].Existing.ID)
}

func TestReconcile_SupersedesOnEndTimeChange(t *testing.T) {
	team := uuid.New()
	employee := uuid.New()
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, domain.Location)

	existing := shiftAt(team, start, employee)
	existing.Status = domain.ShiftApplied
	existing.Window.End = existing.Window.End.Add(time.Hour)
	planned := shiftAt(team, start, employee)

	decisions := apply.Reconcile([]domain.Shift{planned}, []domain.Shift{existing})
	require.Len(t, decisions, 1)
	assert.Equal(t, apply.ActionSupersede, decisions[0].Action)
}

func TestReconcile_ReapplyIsIdempotent(t *testing.T) {
	team := uuid.New()
	employee := uuid.New()
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, domain.Location)
	planned := shiftAt(team, start, employee)

	first := apply.Reconcile([]domain.Shift{planned}, nil)
	inserted, kept, superseded := apply.Summarize(first)
	assert.Equal(t, 1, inserted)
	assert.Equal(t, 0, kept)
	assert.Equal(t, 0, superseded)

	applied := planned
	applied.Status = domain.ShiftApplied
	second := apply.Reconcile([]domain.Shift{planned}, []domain.Shift{applied})
	inserted, kept, superseded = apply.Summarize(second)
	assert.Equal(t, 0, inserted)
	assert.Equal(t, 1, kept)
	assert.Equal(t, 0, superseded)
}

func TestReconcile_UnassignedPlaceholderMatchesUnassignedExisting(t *testing.T) {
	team := uuid.New()
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, domain.Location)

	placeholder := domain.Shift{
		ID:      domain.NewID(),
		TeamID:  team,
		Product: domain.ProductIncidents,
		Window:  domain.NewTimeWindow(start, start.Add(9*time.Hour)),
		Status:  domain.ShiftApplied,
	}
	planned := placeholder
	planned.ID = domain.NewID()
	planned.Status = domain.ShiftPlanned

	decisions := apply.Reconcile([]domain.Shift{planned}, []domain.Shift{placeholder})
	require.Len(t, decisions, 1)
	assert.Equal(t, apply.ActionKeep, decisions[0].Action)
}
