package store

import (
	"context"
	"time"

	"github.com/oncallsvc/orchestrator/internal/domain"
)

// TeamReader loads the read-model snapshot a team-run plans against:
// the single batch-load suspension point before the selector loop
// starts (spec §5 "initial batch load of team members + leave +
// recurring patterns + holidays + prior applied shifts").
type TeamReader interface {
	Team(ctx context.Context, teamID domain.TeamID) (domain.Team, error)
	Employees(ctx context.Context, teamID domain.TeamID) ([]domain.Employee, error)
	ShiftTemplates(ctx context.Context, teamID domain.TeamID) (map[domain.Product]domain.ShiftTemplate, error)
	ApprovedLeave(ctx context.Context, teamID domain.TeamID, horizon domain.TimeWindow) (map[domain.EmployeeID][]domain.LeaveRequest, error)
	RecurringLeave(ctx context.Context, teamID domain.TeamID, horizon domain.TimeWindow) (map[domain.EmployeeID][]domain.RecurringLeavePattern, error)
	// PendingLeave returns leave requests still awaiting approval that
	// overlap horizon, surfaced only by the availability() read API per
	// spec §9's decision that pending leave is advisory, never a
	// planning constraint.
	PendingLeave(ctx context.Context, teamID domain.TeamID, horizon domain.TimeWindow) (map[domain.EmployeeID][]domain.LeaveRequest, error)
	Holidays(ctx context.Context, scope string, horizon domain.TimeWindow) ([]domain.Holiday, error)
	// AppliedShifts returns every applied (non-superseded) shift for
	// teamID whose window overlaps [since, +inf) — i.e. ends after
	// since, not merely starts at or after it — across all products.
	// The overlap test keeps a shift that started before since but
	// still runs into the queried range visible to both fairness
	// history seeding and any per-interval view built on the result.
	AppliedShifts(ctx context.Context, teamID domain.TeamID, since time.Time) ([]domain.Shift, error)
	// AutoScheduledTeams lists every team with AutoSchedulingEnabled set,
	// consulted once per tick by the nightly rolling extender.
	AutoScheduledTeams(ctx context.Context) ([]domain.Team, error)
}

// ApplyResult summarizes what PlanWriter.Apply actually changed in
// storage, feeding domain.RunTotals.
type ApplyResult struct {
	Inserted   int
	Kept       int
	Superseded int
	// PersistedIDs maps every planned shift's id, as produced by the
	// selector, to the id actually present in storage once Apply
	// returns: itself for an inserted or superseding row, or the prior
	// row's id for one left untouched by ActionKeep. A run's
	// constraint events reference the selector's id in ShiftRef, which
	// for a kept shift was never written to storage under its own id;
	// the caller must remap through PersistedIDs before calling
	// SaveRun, or the foreign key on an identical re-apply (spec §4.6)
	// references a row that was never inserted.
	PersistedIDs map[domain.ShiftID]domain.ShiftID
}

// PlanWriter persists a completed plan: the apply phase's final
// suspension point (spec §5), always executed under the caller's team
// scheduling lock.
type PlanWriter interface {
	// Apply persists shifts for teamID idempotently, keyed by (team,
	// product, start_ts), per the rules in spec §4.6. Unassigned
	// placeholders (Assignee == nil) are persisted the same way so
	// downstream tooling can see the gap.
	Apply(ctx context.Context, teamID domain.TeamID, shifts []domain.Shift) (ApplyResult, error)
	// SaveRun persists the completed OrchestrationRun audit record,
	// including its constraint events.
	SaveRun(ctx context.Context, run domain.OrchestrationRun) error
}

// RunReader looks up a previously saved run by id, backing the
// orchestration API's get_run.
type RunReader interface {
	Run(ctx context.Context, runID domain.RunID) (domain.OrchestrationRun, error)
}

// TeamWriter backs the orchestration API's enable_auto/disable_auto and
// toggle_product operations, the only team-configuration mutations the
// core itself performs (roster/leave/skill management stays with the
// external collaborators named in spec §6's read contracts).
type TeamWriter interface {
	SetAutoScheduling(ctx context.Context, teamID domain.TeamID, enabled bool) error
	SetProductEnabled(ctx context.Context, teamID domain.TeamID, product domain.Product, enabled bool) error
}

// Locker takes the per-team scheduling lock named in spec §5's
// "Locking discipline" for the duration of fn.
type Locker interface {
	WithTeamLock(ctx context.Context, teamID domain.TeamID, fn func(ctx context.Context) error) error
}

// Store bundles every port the run controller needs. Both adapters in
// this tree (pg, memory) implement it in full.
type Store interface {
	TeamReader
	PlanWriter
	RunReader
	TeamWriter
	Locker
}
