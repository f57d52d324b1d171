package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/oncallsvc/orchestrator/internal/apply"
	"github.com/oncallsvc/orchestrator/internal/domain"
	platformpg "github.com/oncallsvc/orchestrator/internal/platform/pg"
	"github.com/oncallsvc/orchestrator/internal/store"
)

// Apply reconciles shifts against the team's current non-superseded
// rows (internal/apply.Reconcile) and executes the resulting inserts
// and supersessions. It performs no locking or transaction management
// of its own: callers must invoke it from inside Locker.WithTeamLock so
// every statement here runs against that call's single transaction per
// spec §4.6 ("In a single transaction per team").
func (r *Repo) Apply(ctx context.Context, teamID domain.TeamID, shifts []domain.Shift) (store.ApplyResult, error) {
	q := r.GetQuerier(ctx)

	existing, err := r.currentShifts(ctx, teamID)
	if err != nil {
		return store.ApplyResult{}, fmt.Errorf("load current shifts: %w", err)
	}

	decisions := apply.Reconcile(shifts, existing)
	persistedIDs := make(map[domain.ShiftID]domain.ShiftID, len(decisions))

	for _, d := range decisions {
		switch d.Action {
		case apply.ActionKeep:
			persistedIDs[d.Planned.ID] = d.Existing.ID
		case apply.ActionSupersede:
			if _, err := q.Exec(ctx, `UPDATE shifts SET status = 'superseded' WHERE id = $1`, d.Existing.ID); err != nil {
				return store.ApplyResult{}, fmt.Errorf("supersede shift %s: %w", d.Existing.ID, err)
			}
			if err := insertAppliedShift(ctx, q, d.Planned); err != nil {
				return store.ApplyResult{}, err
			}
			persistedIDs[d.Planned.ID] = d.Planned.ID
		case apply.ActionInsert:
			if err := insertAppliedShift(ctx, q, d.Planned); err != nil {
				return store.ApplyResult{}, err
			}
			persistedIDs[d.Planned.ID] = d.Planned.ID
		}
	}

	inserted, kept, superseded := apply.Summarize(decisions)
	return store.ApplyResult{Inserted: inserted, Kept: kept, Superseded: superseded, PersistedIDs: persistedIDs}, nil
}

func insertAppliedShift(ctx context.Context, q platformpg.Querier, s domain.Shift) error {
	_, err := q.Exec(ctx, `
		INSERT INTO shifts (id, template_id, team_id, product, assigned_employee_id, start_ts, end_ts, source_run_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'applied')`,
		s.ID, s.Template, s.TeamID, s.Product, s.Assignee, s.Window.Start, s.Window.End, s.SourceRunID)
	if err != nil {
		return fmt.Errorf("insert shift %s: %w", s.ID, err)
	}
	return nil
}

func (r *Repo) currentShifts(ctx context.Context, teamID domain.TeamID) ([]domain.Shift, error) {
	q := r.GetQuerier(ctx)
	rows, err := q.Query(ctx, `
		SELECT id, template_id, product, assigned_employee_id, start_ts, end_ts, source_run_id, status
		FROM shifts WHERE team_id = $1 AND status <> 'superseded'`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Shift
	for rows.Next() {
		s, err := scanShift(rows, teamID)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// SaveRun persists the completed OrchestrationRun and its constraint
// events. Like Apply, it runs against whatever querier is active in
// ctx; the run controller calls it from inside the same WithTeamLock
// transaction as Apply so a run's audit trail never outlives its plan.
func (r *Repo) SaveRun(ctx context.Context, run domain.OrchestrationRun) error {
	q := r.GetQuerier(ctx)

	products := make([]string, 0, len(run.Products))
	for _, p := range run.Products {
		products = append(products, string(p))
	}

	_, err := q.Exec(ctx, `
		INSERT INTO orchestration_runs
			(id, team_id, horizon_start, horizon_end, products, started_ts, completed_ts, mode,
			 shifts_planned, shifts_applied, superseded, unassigned, violation_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		run.ID, run.TeamID, run.HorizonStart, run.HorizonEnd, products, run.StartedTS, run.CompletedTS, run.Mode,
		len(run.ShiftsPlanned), run.Totals.ShiftsApplied, run.Totals.Superseded, run.Totals.Unassigned, run.Totals.ViolationCount)
	if err != nil {
		return fmt.Errorf("insert orchestration run: %w", err)
	}

	for _, ev := range run.ConstraintEvents {
		if _, err := q.Exec(ctx, `
			INSERT INTO orchestration_constraints (id, run_id, employee_id, shift_id, kind, severity, resolution, note)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			ev.ID, run.ID, ev.EmployeeID, ev.ShiftRef, ev.Kind, ev.Severity, ev.Resolution, ev.Note); err != nil {
			return fmt.Errorf("insert constraint event: %w", err)
		}
	}
	return nil
}

// Run looks up a previously saved run by id, used by the orchestration
// API's get_run. ShiftsPlanned itself is left empty since the planned
// shifts live in the shifts table keyed by source_run_id, not inline on
// the run row; ConstraintEvents is hydrated here since it is cheap and
// the audit trail is the main reason callers fetch a run by id.
func (r *Repo) Run(ctx context.Context, runID domain.RunID) (domain.OrchestrationRun, error) {
	q := r.GetQuerier(ctx)

	var (
		run         domain.OrchestrationRun
		products    []string
		completedTS *time.Time
		mode        string
	)
	err := q.QueryRow(ctx, `
		SELECT id, team_id, horizon_start, horizon_end, products, started_ts, completed_ts, mode,
		       shifts_planned, shifts_applied, superseded, unassigned, violation_count
		FROM orchestration_runs WHERE id = $1`, runID).
		Scan(&run.ID, &run.TeamID, &run.HorizonStart, &run.HorizonEnd, &products, &run.StartedTS, &completedTS, &mode,
			&run.Totals.ShiftsPlanned, &run.Totals.ShiftsApplied, &run.Totals.Superseded, &run.Totals.Unassigned, &run.Totals.ViolationCount)
	if err != nil {
		return domain.OrchestrationRun{}, fmt.Errorf("run %s: %w", runID, err)
	}

	run.CompletedTS = completedTS
	run.Mode = domain.RunMode(mode)
	for _, p := range products {
		run.Products = append(run.Products, domain.Product(p))
	}

	evRows, err := q.Query(ctx, `
		SELECT id, employee_id, shift_id, kind, severity, resolution, note
		FROM orchestration_constraints WHERE run_id = $1`, runID)
	if err != nil {
		return domain.OrchestrationRun{}, fmt.Errorf("query constraint events for run %s: %w", runID, err)
	}
	defer evRows.Close()

	for evRows.Next() {
		var (
			ev         domain.OrchestrationConstraint
			employeeID *domain.EmployeeID
			shiftID    *domain.ShiftID
			kind, sev, res string
		)
		if err := evRows.Scan(&ev.ID, &employeeID, &shiftID, &kind, &sev, &res, &ev.Note); err != nil {
			return domain.OrchestrationRun{}, fmt.Errorf("scan constraint event: %w", err)
		}
		ev.RunID = runID
		ev.EmployeeID = employeeID
		ev.ShiftRef = shiftID
		ev.Kind = domain.ConstraintKind(kind)
		ev.Severity = domain.Severity(sev)
		ev.Resolution = domain.Resolution(res)
		run.ConstraintEvents = append(run.ConstraintEvents, ev)
	}

	return run, nil
}
