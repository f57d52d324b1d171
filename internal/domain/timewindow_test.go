package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oncallsvc/orchestrator/internal/domain"
)

func mustDate(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, domain.Location)
}

func TestTimeWindow_Overlaps(t *testing.T) {
	a := domain.NewTimeWindow(mustDate(2026, 1, 5, 8, 0), mustDate(2026, 1, 5, 17, 0))
	b := domain.NewTimeWindow(mustDate(2026, 1, 5, 16, 0), mustDate(2026, 1, 5, 20, 0))
	c := domain.NewTimeWindow(mustDate(2026, 1, 5, 17, 0), mustDate(2026, 1, 5, 18, 0))

	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
	assert.False(t, a.Overlaps(c), "half-open windows touching at the boundary do not overlap")
}

func TestTimeWindow_DSTSpringForward(t *testing.T) {
	// Europe/Amsterdam spring-forward 2026-03-29: clocks jump 02:00 -> 03:00.
	w := domain.NewTimeWindow(mustDate(2026, 3, 28, 17, 0), mustDate(2026, 3, 29, 8, 0))
	assert.Equal(t, 14*time.Hour, w.Duration())
}

func TestTimeWindow_DSTFallBack(t *testing.T) {
	// Europe/Amsterdam fall-back 2026-10-25: clocks repeat 02:00-03:00.
	w := domain.NewTimeWindow(mustDate(2026, 10, 24, 17, 0), mustDate(2026, 10, 25, 8, 0))
	assert.Equal(t, 16*time.Hour, w.Duration())
}

func TestTimeWindow_Intersection(t *testing.T) {
	a := domain.NewTimeWindow(mustDate(2026, 1, 5, 8, 0), mustDate(2026, 1, 5, 17, 0))
	b := domain.NewTimeWindow(mustDate(2026, 1, 5, 12, 0), mustDate(2026, 1, 5, 20, 0))

	inter, ok := a.Intersection(b)
	assert.True(t, ok)
	assert.Equal(t, mustDate(2026, 1, 5, 12, 0), inter.Start)
	assert.Equal(t, mustDate(2026, 1, 5, 17, 0), inter.End)

	c := domain.NewTimeWindow(mustDate(2026, 1, 6, 8, 0), mustDate(2026, 1, 6, 17, 0))
	_, ok = a.Intersection(c)
	assert.False(t, ok)
}
