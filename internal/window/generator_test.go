package window_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oncallsvc/orchestrator/internal/domain"
	"github.com/oncallsvc/orchestrator/internal/window"
)

func mustDate(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, domain.Location)
}

func TestGenerate_InvalidHorizon(t *testing.T) {
	_, err := window.Generate(
		domain.ProductIncidents,
		mustDate(2026, 2, 1, 0, 0),
		mustDate(2026, 1, 1, 0, 0),
		nil,
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidHorizon)
}

func TestGenerate_UnknownProduct(t *testing.T) {
	_, err := window.Generate(
		domain.Product("unknown"),
		mustDate(2026, 1, 1, 0, 0),
		mustDate(2026, 1, 8, 0, 0),
		nil,
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)
}

func TestGenerate_BusinessWeek_FullWeek(t *testing.T) {
	// 2026-01-05 is a Monday.
	units, err := window.Generate(
		domain.ProductIncidents,
		mustDate(2026, 1, 5, 0, 0),
		mustDate(2026, 1, 12, 0, 0),
		nil,
	)
	require.NoError(t, err)
	require.Len(t, units, 1)

	unit := units[0]
	assert.Equal(t, domain.ProductIncidents, unit.Product)
	assert.True(t, unit.Anchor.Equal(mustDate(2026, 1, 5, 0, 0)))
	require.Len(t, unit.Windows, 5)
	for i, w := range unit.Windows {
		day := mustDate(2026, 1, 5+i, 8, 0)
		assert.True(t, w.Start.Equal(day), "window %d start", i)
		assert.Equal(t, 9*time.Hour, w.Duration())
	}
}

func TestGenerate_BusinessWeek_HolidaySuppressesDay(t *testing.T) {
	holidays := []domain.Holiday{
		{Date: mustDate(2026, 1, 7, 0, 0), Scope: "NL"},
	}
	units, err := window.Generate(
		domain.ProductIncidents,
		mustDate(2026, 1, 5, 0, 0),
		mustDate(2026, 1, 12, 0, 0),
		holidays,
	)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Len(t, units[0].Windows, 4, "Wednesday 2026-01-07 is dropped")
}

func TestGenerate_BusinessWeek_PartialHorizonAnchorsOnCanonicalMonday(t *testing.T) {
	// Horizon starts mid-week (Wednesday 2026-01-07), but the unit is
	// still anchored on that week's Monday so a deterministic assignee
	// can be derived even for a partial unit.
	units, err := window.Generate(
		domain.ProductIncidentsStandby,
		mustDate(2026, 1, 7, 0, 0),
		mustDate(2026, 1, 12, 0, 0),
		nil,
	)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.True(t, units[0].Anchor.Equal(mustDate(2026, 1, 5, 0, 0)))
	assert.Len(t, units[0].Windows, 3, "only Wed, Thu, Fri fall inside the horizon")
}

func TestGenerate_BusinessWeek_SkipsEmptyWeek(t *testing.T) {
	holidays := []domain.Holiday{
		{Date: mustDate(2026, 1, 5, 0, 0), Scope: "NL"},
		{Date: mustDate(2026, 1, 6, 0, 0), Scope: "NL"},
	}
	// Horizon covers only Mon-Tue of the week, both holidays.
	units, err := window.Generate(
		domain.ProductIncidents,
		mustDate(2026, 1, 5, 0, 0),
		mustDate(2026, 1, 7, 0, 0),
		holidays,
	)
	require.NoError(t, err)
	assert.Empty(t, units)
}

func findUnit(t *testing.T, units []window.PlanningUnit, anchor time.Time) window.PlanningUnit {
	t.Helper()
	for _, u := range units {
		if u.Anchor.Equal(anchor) {
			return u
		}
	}
	require.Fail(t, "no unit anchored at", anchor)
	return window.PlanningUnit{}
}

func TestGenerate_Waakdienst_SevenBlockPattern(t *testing.T) {
	// 2026-01-07 is a Wednesday, outside any DST transition. The horizon
	// is widened on both sides so the on-call week it anchors is fully
	// contained regardless of which neighboring weeks also overlap it.
	units, err := window.Generate(
		domain.ProductWaakdienst,
		mustDate(2026, 1, 5, 0, 0),
		mustDate(2026, 1, 16, 0, 0),
		nil,
	)
	require.NoError(t, err)

	unit := findUnit(t, units, mustDate(2026, 1, 7, 0, 0))
	require.Len(t, unit.Windows, 7)

	wantDurations := []time.Duration{
		15 * time.Hour, 15 * time.Hour, 15 * time.Hour,
		24 * time.Hour, 24 * time.Hour,
		15 * time.Hour, 15 * time.Hour,
	}
	for i, w := range unit.Windows {
		assert.Equal(t, wantDurations[i], w.Duration(), "block %d", i)
	}

	assert.True(t, unit.Windows[0].Start.Equal(mustDate(2026, 1, 7, 17, 0)), "Wed evening start")
	assert.True(t, unit.Windows[6].End.Equal(mustDate(2026, 1, 14, 8, 0)), "closes at next Wed 08:00")
}

func TestGenerate_Waakdienst_PartialHorizonBeforeWednesdayBoundary(t *testing.T) {
	// A horizon starting Wednesday at noon, before the 17:00 handover,
	// still belongs to the previous on-call week.
	start := window.WaakdienstWeekStart(mustDate(2026, 1, 7, 12, 0))
	assert.True(t, start.Equal(mustDate(2025, 12, 31, 0, 0)))

	// A horizon starting Wednesday evening belongs to that week.
	start2 := window.WaakdienstWeekStart(mustDate(2026, 1, 7, 18, 0))
	assert.True(t, start2.Equal(mustDate(2026, 1, 7, 0, 0)))
}

func TestGenerate_Waakdienst_DSTWeekProducesAsymmetricDurations(t *testing.T) {
	// Clocks spring forward on 2026-03-29 (Sunday); the on-call week
	// starting Wednesday 2026-03-25 contains that transition inside its
	// Saturday/Sunday full-day blocks.
	units, err := window.Generate(
		domain.ProductWaakdienst,
		mustDate(2026, 3, 23, 0, 0),
		mustDate(2026, 4, 3, 0, 0),
		nil,
	)
	require.NoError(t, err)

	unit := findUnit(t, units, mustDate(2026, 3, 25, 0, 0))
	sunday := unit.Windows[4]
	assert.Equal(t, 23*time.Hour, sunday.Duration(), "the spring-forward day is 23h, never a hardcoded 24h")
}
