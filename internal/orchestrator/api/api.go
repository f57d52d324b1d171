// Package api declares the orchestration API surface named in spec §6:
// the stable contract an external HTTP layer, a CLI, or a cron job
// adapts to drive the engine. internal/runcontrol.Controller is the one
// implementation in this tree.
package api

import (
	"context"
	"time"

	"github.com/oncallsvc/orchestrator/internal/domain"
)

// CreateRunInput is create_run's input, named per spec §6:
// create_run(team_id, horizon_start, horizon_end, products, mode). An
// empty Products means every product the team has enabled.
type CreateRunInput struct {
	TeamID       domain.TeamID
	HorizonStart time.Time
	HorizonEnd   time.Time
	Products     []domain.Product
	Mode         domain.RunMode
}

// RunSummary is create_run's immediate return value: enough to report
// success without forcing the caller to fetch the full run.
type RunSummary struct {
	RunID          domain.RunID
	Mode           domain.RunMode
	ShiftsPlanned  int
	ShiftsApplied  int
	Superseded     int
	Unassigned     int
	ViolationCount int
}

// CoverageInterval is one row of coverage()'s per-interval view: a
// contiguous span of one product's planning-unit windows and who, if
// anyone, covers each one.
type CoverageInterval struct {
	Product    domain.Product
	Window     domain.TimeWindow
	Assignee   *domain.EmployeeID
	Status     domain.ShiftStatus
	HasGap     bool
	HasLeaveOn *domain.EmployeeID
}

// AvailabilityEntry is one employee's row in availability()'s rollup.
type AvailabilityEntry struct {
	EmployeeID      domain.EmployeeID
	AvailableFlag   bool
	ApprovedLeave   []domain.LeaveRequest
	PendingLeave    []domain.LeaveRequest
	RecurringLeave  []domain.RecurringLeavePattern
	AssignedWindows []domain.TimeWindow
}

// Service is the orchestration API surface from spec §6. All queries
// are scoped by team_id; dates are civil dates in domain.Location
// unless an explicit zone is supplied by the caller before conversion.
type Service interface {
	// CreateRun plans (and, in apply mode, persists) one team-run.
	CreateRun(ctx context.Context, in CreateRunInput) (RunSummary, domain.OrchestrationRun, error)
	GetRun(ctx context.Context, runID domain.RunID) (domain.OrchestrationRun, error)
	EnableAuto(ctx context.Context, teamID domain.TeamID) error
	DisableAuto(ctx context.Context, teamID domain.TeamID) error
	ToggleProduct(ctx context.Context, teamID domain.TeamID, product domain.Product, enabled bool) error
	Coverage(ctx context.Context, teamID domain.TeamID, start, end time.Time, product *domain.Product) ([]CoverageInterval, error)
	Availability(ctx context.Context, teamID domain.TeamID, start, end time.Time, product domain.Product) ([]AvailabilityEntry, error)
}
