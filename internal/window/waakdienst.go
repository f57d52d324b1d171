package window

import (
	"time"

	"github.com/oncallsvc/orchestrator/internal/domain"
)

// waakdienstBlockIsWeeknight marks, for each of the 7 days of one
// on-call week starting Wednesday, whether its block is a 17:00-08:00
// weeknight block (Wed/Thu/Fri, Mon/Tue) or a full civil day (Sat/Sun).
// Block bounds are computed from local civil time, so Duration()
// reports the true wall-clock length on DST days.
var waakdienstBlockIsWeeknight = [7]bool{true, true, true, false, false, true, true}

// WaakdienstWeekStart returns the civil date of the Wednesday that
// starts the on-call week containing t. The week itself begins at
// 17:00 local on that Wednesday, so a timestamp before that boundary on
// a Wednesday belongs to the previous week.
func WaakdienstWeekStart(t time.Time) time.Time {
	d := civilDate(t)
	for d.Weekday() != time.Wednesday {
		d = d.AddDate(0, 0, -1)
	}
	boundary := d.Add(17 * time.Hour)
	if t.In(domain.Location).Before(boundary) {
		d = d.AddDate(0, 0, -7)
	}
	return d
}

// waakdienstBlocks returns the 7 blocks of the on-call week anchored at
// weekStart (a Wednesday civil date), in order.
func waakdienstBlocks(weekStart time.Time) []domain.TimeWindow {
	blocks := make([]domain.TimeWindow, 0, 7)
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		if waakdienstBlockIsWeeknight[i] {
			blocks = append(blocks, domain.TimeWindow{
				Start: day.Add(17 * time.Hour),
				End:   day.AddDate(0, 0, 1).Add(8 * time.Hour),
			})
		} else {
			blocks = append(blocks, domain.TimeWindow{
				Start: day,
				End:   day.AddDate(0, 0, 1),
			})
		}
	}
	return blocks
}

// generateWaakdienstWeeks emits one planning unit per on-call week whose
// span intersects [horizonStart, horizonEnd). Units are never split
// here; §4.5 is the only place that ever drops a Waakdienst unit's
// original assignee, and even then it reassigns the whole unit.
func generateWaakdienstWeeks(horizonStart, horizonEnd time.Time) []PlanningUnit {
	var units []PlanningUnit

	weekStart := WaakdienstWeekStart(horizonStart)
	for {
		blocks := waakdienstBlocks(weekStart)
		weekWindow := domain.TimeWindow{Start: blocks[0].Start, End: blocks[len(blocks)-1].End}
		if !weekWindow.Start.Before(horizonEnd) {
			break
		}
		if weekWindow.End.After(horizonStart) {
			units = append(units, PlanningUnit{
				Product: domain.ProductWaakdienst,
				Anchor:  weekStart,
				Windows: blocks,
			})
		}
		weekStart = weekStart.AddDate(0, 0, 7)
	}

	return units
}
