package window

import (
	"fmt"
	"time"

	"github.com/oncallsvc/orchestrator/internal/domain"
)

// PlanningUnit groups the windows a product's selector assigns to a
// single engineer as one atomic choice: a business week for Incidents
// and Incidents-Standby, an on-call week for Waakdienst.
type PlanningUnit struct {
	Product domain.Product
	// Anchor is the canonical date identifying the unit, also for
	// partial units, and is used in audit notes: the week's Monday for
	// Incidents/Incidents-Standby, its Wednesday for Waakdienst.
	Anchor  time.Time
	Windows []domain.TimeWindow
}

// Generate produces the canonical planning units for product across the
// half-open civil-date range [horizonStart, horizonEnd). It fails only
// when the horizon is inverted.
func Generate(product domain.Product, horizonStart, horizonEnd time.Time, holidays []domain.Holiday) ([]PlanningUnit, error) {
	if horizonEnd.Before(horizonStart) {
		return nil, fmt.Errorf("%w: horizon_end %s before horizon_start %s", domain.ErrInvalidHorizon, horizonEnd, horizonStart)
	}

	horizonStart = civilDate(horizonStart)
	horizonEnd = civilDate(horizonEnd)

	switch product {
	case domain.ProductIncidents, domain.ProductIncidentsStandby:
		return generateBusinessWeeks(product, horizonStart, horizonEnd, holidays), nil
	case domain.ProductWaakdienst:
		return generateWaakdienstWeeks(horizonStart, horizonEnd), nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProduct, product)
	}
}

// civilDate truncates t to local midnight in domain.Location.
func civilDate(t time.Time) time.Time {
	t = t.In(domain.Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, domain.Location)
}

// mondayOnOrBefore returns the civil date of the Monday starting the
// calendar week containing d.
func mondayOnOrBefore(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return d.AddDate(0, 0, -offset)
}

// businessHoursWindow returns the local [08:00, 17:00) window for the
// civil date day.
func businessHoursWindow(day time.Time) domain.TimeWindow {
	return domain.TimeWindow{
		Start: day.Add(8 * time.Hour),
		End:   day.Add(17 * time.Hour),
	}
}

// isHoliday reports whether day matches any holiday in scope for any of
// the given holidays, independent of team scope filtering (callers pass
// a pre-filtered slice for their team's scope).
func isHoliday(day time.Time, holidays []domain.Holiday) bool {
	for _, h := range holidays {
		if h.OnDate(day) {
			return true
		}
	}
	return false
}

func generateBusinessWeeks(product domain.Product, horizonStart, horizonEnd time.Time, holidays []domain.Holiday) []PlanningUnit {
	var units []PlanningUnit

	for weekMonday := mondayOnOrBefore(horizonStart); weekMonday.Before(horizonEnd); weekMonday = weekMonday.AddDate(0, 0, 7) {
		var windows []domain.TimeWindow
		for offset := 0; offset < 5; offset++ {
			day := weekMonday.AddDate(0, 0, offset)
			if day.Before(horizonStart) || !day.Before(horizonEnd) {
				continue
			}
			if isHoliday(day, holidays) {
				continue
			}
			windows = append(windows, businessHoursWindow(day))
		}
		if len(windows) == 0 {
			continue
		}
		units = append(units, PlanningUnit{
			Product: product,
			Anchor:  weekMonday,
			Windows: windows,
		})
	}

	return units
}
