package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oncallsvc/orchestrator/internal/domain"
	"github.com/oncallsvc/orchestrator/internal/store/memory"
)

func seedTeam(s *memory.Store) (domain.Team, domain.Employee) {
	team := domain.Team{ID: uuid.New(), Name: "core", AutoSchedulingEnabled: true}
	emp := domain.Employee{ID: uuid.New(), AvailableForIncidents: true, AvailableForWaakdienst: true}
	team.EmployeeIDs = []domain.EmployeeID{emp.ID}
	s.SeedTeam(team, []domain.Employee{emp}, map[domain.Product]domain.ShiftTemplate{
		domain.ProductIncidents: {ID: uuid.New(), TeamID: team.ID, Product: domain.ProductIncidents},
	})
	return team, emp
}

func TestStore_ApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	team, emp := seedTeam(s)

	start := time.Date(2026, 3, 2, 8, 0, 0, 0, domain.Location)
	shift := domain.Shift{
		ID:       domain.NewID(),
		TeamID:   team.ID,
		Product:  domain.ProductIncidents,
		Window:   domain.NewTimeWindow(start, start.Add(9*time.Hour)),
		Assignee: &emp.ID,
		Status:   domain.ShiftPlanned,
	}

	res1, err := s.Apply(ctx, team.ID, []domain.Shift{shift})
	require.NoError(t, err)
	assert.Equal(t, 1, res1.Inserted)

	res2, err := s.Apply(ctx, team.ID, []domain.Shift{shift})
	require.NoError(t, err)
	assert.Equal(t, 0, res2.Inserted)
	assert.Equal(t, 1, res2.Kept)
	assert.Equal(t, 0, res2.Superseded)

	applied, err := s.AppliedShifts(ctx, team.ID, start.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Len(t, applied, 1)
}

func TestStore_AutoScheduledTeamsFiltersDisabled(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	_, _ = seedTeam(s)

	disabled := domain.Team{ID: uuid.New(), Name: "other"}
	s.SeedTeam(disabled, nil, nil)

	teams, err := s.AutoScheduledTeams(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.True(t, teams[0].AutoSchedulingEnabled)
}

func TestStore_SetAutoSchedulingAndProductEnabled(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	team, _ := seedTeam(s)

	require.NoError(t, s.SetAutoScheduling(ctx, team.ID, false))
	require.NoError(t, s.SetProductEnabled(ctx, team.ID, domain.ProductWaakdienst, true))

	updated, err := s.Team(ctx, team.ID)
	require.NoError(t, err)
	assert.False(t, updated.AutoSchedulingEnabled)
	assert.True(t, updated.ProductEnabled(domain.ProductWaakdienst))

	err = s.SetAutoScheduling(ctx, uuid.New(), true)
	assert.ErrorIs(t, err, domain.ErrUnknownTeam)
}

func TestStore_WithTeamLockSerializesCallers(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	team, _ := seedTeam(s)

	order := make(chan int, 2)
	done := make(chan struct{})

	go func() {
		_ = s.WithTeamLock(ctx, team.ID, func(ctx context.Context) error {
			order <- 1
			time.Sleep(10 * time.Millisecond)
			return nil
		})
		done <- struct{}{}
	}()

	time.Sleep(2 * time.Millisecond)
	_ = s.WithTeamLock(ctx, team.ID, func(ctx context.Context) error {
		order <- 2
		return nil
	})
	<-done
	close(order)

	var seq []int
	for v := range order {
		seq = append(seq, v)
	}
	assert.Equal(t, []int{1, 2}, seq)
}
