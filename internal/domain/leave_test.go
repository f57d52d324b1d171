package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oncallsvc/orchestrator/internal/domain"
)

func TestConflictHandling_Blocks(t *testing.T) {
	assert.True(t, domain.ConflictFullUnavailable.Blocks(domain.ProductIncidents))
	assert.True(t, domain.ConflictFullUnavailable.Blocks(domain.ProductWaakdienst))

	assert.True(t, domain.ConflictDaytimeOnly.Blocks(domain.ProductIncidents))
	assert.False(t, domain.ConflictDaytimeOnly.Blocks(domain.ProductWaakdienst))

	assert.False(t, domain.ConflictNoConflict.Blocks(domain.ProductIncidents))
	assert.False(t, domain.ConflictNoConflict.Blocks(domain.ProductWaakdienst))
}

func TestLeaveRequest_Blocks_OnlyWhenApproved(t *testing.T) {
	window := domain.NewTimeWindow(mustDate(2026, 1, 5, 8, 0), mustDate(2026, 1, 5, 17, 0))
	lr := domain.LeaveRequest{
		Window: window,
		Status: domain.LeavePending,
		Type:   domain.LeaveType{ConflictHandling: domain.ConflictFullUnavailable},
	}
	assert.False(t, lr.Blocks(domain.ProductIncidents, window), "pending leave is advisory only")

	lr.Status = domain.LeaveApproved
	assert.True(t, lr.Blocks(domain.ProductIncidents, window))
}

func TestRecurringLeavePattern_Occurrences(t *testing.T) {
	// Every Wednesday 08:00-17:00, matching scenario S3.
	p := domain.RecurringLeavePattern{
		WeekdayMask:   domain.WeekdayBit(time.Wednesday),
		WindowStart:   domain.LocalTimeOfDay(8 * time.Hour),
		WindowEnd:     domain.LocalTimeOfDay(17 * time.Hour),
		EffectiveFrom: mustDate(2026, 1, 1, 0, 0),
		CoverageType:  domain.CoverageFull,
	}

	occurrences := p.Occurrences(mustDate(2026, 1, 5, 0, 0), mustDate(2026, 1, 19, 0, 0))
	// Jan 5 2026 is a Monday; Wednesdays in range: Jan 7, Jan 14.
	assert.Len(t, occurrences, 2)
	assert.Equal(t, mustDate(2026, 1, 7, 8, 0), occurrences[0].Start)
	assert.Equal(t, mustDate(2026, 1, 7, 17, 0), occurrences[0].End)
	assert.Equal(t, mustDate(2026, 1, 14, 8, 0), occurrences[1].Start)
}

func TestRecurringLeavePattern_Blocks(t *testing.T) {
	p := domain.RecurringLeavePattern{
		WeekdayMask:   domain.WeekdayBit(time.Wednesday),
		WindowStart:   domain.LocalTimeOfDay(8 * time.Hour),
		WindowEnd:     domain.LocalTimeOfDay(17 * time.Hour),
		EffectiveFrom: mustDate(2026, 1, 1, 0, 0),
		CoverageType:  domain.CoverageFull,
	}

	wednesdayShift := domain.NewTimeWindow(mustDate(2026, 1, 7, 8, 0), mustDate(2026, 1, 7, 17, 0))
	assert.True(t, p.Blocks(domain.ProductIncidents, wednesdayShift))

	thursdayShift := domain.NewTimeWindow(mustDate(2026, 1, 8, 8, 0), mustDate(2026, 1, 8, 17, 0))
	assert.False(t, p.Blocks(domain.ProductIncidents, thursdayShift))
}

func TestRecurringLeavePattern_DaytimeOnlyDoesNotBlockWaakdienst(t *testing.T) {
	p := domain.RecurringLeavePattern{
		WeekdayMask:   domain.WeekdayBit(time.Wednesday),
		WindowStart:   domain.LocalTimeOfDay(8 * time.Hour),
		WindowEnd:     domain.LocalTimeOfDay(17 * time.Hour),
		EffectiveFrom: mustDate(2026, 1, 1, 0, 0),
		CoverageType:  domain.CoverageDaytimeOnly,
	}

	waakdienstBlock := domain.NewTimeWindow(mustDate(2026, 1, 7, 17, 0), mustDate(2026, 1, 8, 8, 0))
	assert.False(t, p.Blocks(domain.ProductWaakdienst, waakdienstBlock))
}

func TestRecurringLeavePattern_EffectiveUntilBoundsOccurrences(t *testing.T) {
	until := mustDate(2026, 1, 10, 0, 0)
	p := domain.RecurringLeavePattern{
		WeekdayMask:    domain.WeekdayBit(time.Wednesday),
		WindowStart:    domain.LocalTimeOfDay(8 * time.Hour),
		WindowEnd:      domain.LocalTimeOfDay(17 * time.Hour),
		EffectiveFrom:  mustDate(2026, 1, 1, 0, 0),
		EffectiveUntil: &until,
		CoverageType:   domain.CoverageFull,
	}

	occurrences := p.Occurrences(mustDate(2026, 1, 1, 0, 0), mustDate(2026, 1, 19, 0, 0))
	assert.Len(t, occurrences, 1, "only Jan 7 falls within [EffectiveFrom, EffectiveUntil]")
}
