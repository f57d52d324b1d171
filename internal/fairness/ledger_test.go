package fairness_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oncallsvc/orchestrator/internal/domain"
	"github.com/oncallsvc/orchestrator/internal/fairness"
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

func TestLedger_Score_NoHistoryIsZero(t *testing.T) {
	ledger := fairness.NewLedger(halfLives(), nil, nil)
	score := ledger.Score(uuid.New(), domain.ProductIncidents, mustDate(2026, 1, 5, 0, 0))
	assert.Zero(t, score.Total())
}

func TestLedger_Score_DecaysOlderShiftsLess(t *testing.T) {
	employeeID := uuid.New()
	asOf := mustDate(2026, 1, 5, 0, 0)

	recent := domain.Shift{
		Assignee: &employeeID,
		Product:  domain.ProductIncidents,
		Window:   domain.NewTimeWindow(mustDate(2025, 12, 29, 8, 0), mustDate(2025, 12, 29, 17, 0)),
	}
	old := domain.Shift{
		Assignee: &employeeID,
		Product:  domain.ProductIncidents,
		Window:   domain.NewTimeWindow(mustDate(2024, 1, 8, 8, 0), mustDate(2024, 1, 8, 17, 0)),
	}

	ledgerRecent := fairness.NewLedger(halfLives(), nil, []domain.Shift{recent})
	ledgerOld := fairness.NewLedger(halfLives(), nil, []domain.Shift{old})

	scoreRecent := ledgerRecent.Score(employeeID, domain.ProductIncidents, asOf)
	scoreOld := ledgerOld.Score(employeeID, domain.ProductIncidents, asOf)

	assert.Greater(t, scoreRecent.WeightedHoursLastNWeeks, scoreOld.WeightedHoursLastNWeeks,
		"a shift worked a week ago should weigh more than one worked a year ago")
}

func TestLedger_RecordAssignment_RaisesSubsequentScore(t *testing.T) {
	employeeID := uuid.New()
	asOf := mustDate(2026, 1, 5, 0, 0)
	ledger := fairness.NewLedger(halfLives(), nil, nil)

	before := ledger.Score(employeeID, domain.ProductIncidents, asOf)
	ledger.RecordAssignment(employeeID, domain.ProductIncidents, 9*time.Hour)
	after := ledger.Score(employeeID, domain.ProductIncidents, asOf)

	assert.Greater(t, after.Total(), before.Total())
	assert.Equal(t, 1, after.AssignmentCount)
}

func TestLedger_Rank_PrefersLowerScore(t *testing.T) {
	asOf := mustDate(2026, 1, 5, 0, 0)
	heavy := uuid.New()
	light := uuid.New()

	heavyShift := domain.Shift{
		Assignee: &heavy,
		Product:  domain.ProductIncidents,
		Window:   domain.NewTimeWindow(mustDate(2025, 12, 29, 8, 0), mustDate(2025, 12, 29, 17, 0)),
	}
	ledger := fairness.NewLedger(halfLives(), nil, []domain.Shift{heavyShift})

	candidates := []domain.Employee{
		{ID: heavy, SeniorityStartDate: mustDate(2020, 1, 1, 0, 0)},
		{ID: light, SeniorityStartDate: mustDate(2020, 1, 1, 0, 0)},
	}

	ranked := ledger.Rank(candidates, domain.ProductIncidents, asOf)
	require.Len(t, ranked, 2)
	assert.Equal(t, light, ranked[0].ID, "the employee with no recent load ranks first")
}

func TestLedger_Rank_TieBreaksBySeniorityThenID(t *testing.T) {
	asOf := mustDate(2026, 1, 5, 0, 0)
	senior := domain.Employee{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), SeniorityStartDate: mustDate(2015, 1, 1, 0, 0)}
	junior := domain.Employee{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), SeniorityStartDate: mustDate(2022, 1, 1, 0, 0)}

	ledger := fairness.NewLedger(halfLives(), nil, nil)
	ranked := ledger.Rank([]domain.Employee{junior, senior}, domain.ProductIncidents, asOf)

	require.Len(t, ranked, 2)
	assert.Equal(t, senior.ID, ranked[0].ID, "equal scores break ties by earliest seniority")
}

func TestLedger_Rank_TieBreaksByEmployeeIDWhenSeniorityEqual(t *testing.T) {
	asOf := mustDate(2026, 1, 5, 0, 0)
	same := mustDate(2020, 1, 1, 0, 0)
	first := domain.Employee{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), SeniorityStartDate: same}
	second := domain.Employee{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), SeniorityStartDate: same}

	ledger := fairness.NewLedger(halfLives(), nil, nil)
	ranked := ledger.Rank([]domain.Employee{second, first}, domain.ProductIncidents, asOf)

	require.Len(t, ranked, 2)
	assert.Equal(t, first.ID, ranked[0].ID)
}

func TestLedger_AvailabilityBonus_LowersScore(t *testing.T) {
	asOf := mustDate(2026, 1, 5, 0, 0)
	rare := uuid.New()
	bonus := map[domain.EmployeeID]float64{rare: 5}

	ledger := fairness.NewLedger(halfLives(), bonus, nil)
	score := ledger.Score(rare, domain.ProductIncidents, asOf)
	assert.Equal(t, -5.0, score.Total())
}
