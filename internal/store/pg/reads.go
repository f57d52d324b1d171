package pg

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oncallsvc/orchestrator/internal/domain"
)

func (r *Repo) Team(ctx context.Context, teamID domain.TeamID) (domain.Team, error) {
	q := r.GetQuerier(ctx)

	var (
		name                  string
		minStaffingRaw        []byte
		enabledProductsRaw    []byte
		autoSchedulingEnabled bool
		holidayScope          string
	)
	err := q.QueryRow(ctx, `
		SELECT name, minimum_staffing, enabled_products, auto_scheduling_enabled, holiday_scope
		FROM teams WHERE id = $1`, teamID).
		Scan(&name, &minStaffingRaw, &enabledProductsRaw, &autoSchedulingEnabled, &holidayScope)
	if err != nil {
		return domain.Team{}, fmt.Errorf("%w: %v", domain.ErrUnknownTeam, err)
	}

	rows, err := q.Query(ctx, `SELECT employee_id FROM team_members WHERE team_id = $1`, teamID)
	if err != nil {
		return domain.Team{}, fmt.Errorf("load team members: %w", err)
	}
	defer rows.Close()

	var employeeIDs []domain.EmployeeID
	for rows.Next() {
		var id domain.EmployeeID
		if err := rows.Scan(&id); err != nil {
			return domain.Team{}, fmt.Errorf("scan team member: %w", err)
		}
		employeeIDs = append(employeeIDs, id)
	}

	team := domain.Team{
		ID:                    teamID,
		Name:                  name,
		EmployeeIDs:           employeeIDs,
		AutoSchedulingEnabled: autoSchedulingEnabled,
		HolidayScope:          holidayScope,
	}
	if err := unmarshalProductInts(minStaffingRaw, &team.MinimumStaffing); err != nil {
		return domain.Team{}, fmt.Errorf("decode minimum_staffing: %w", err)
	}
	if err := unmarshalProductBools(enabledProductsRaw, &team.EnabledProducts); err != nil {
		return domain.Team{}, fmt.Errorf("decode enabled_products: %w", err)
	}
	return team, nil
}

func (r *Repo) Employees(ctx context.Context, teamID domain.TeamID) ([]domain.Employee, error) {
	rows, err := r.GetQuerier(ctx).Query(ctx, `
		SELECT e.id, e.name, e.available_for_incidents, e.available_for_waakdienst,
		       e.skills, e.seniority_start_date, e.max_consecutive_weeks
		FROM employees e
		JOIN team_members tm ON tm.employee_id = e.id
		WHERE tm.team_id = $1`, teamID)
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}
	defer rows.Close()

	var out []domain.Employee
	for rows.Next() {
		var (
			e           domain.Employee
			skills      []string
			seniority   time.Time
			maxConsRaw  []byte
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.AvailableForIncidents, &e.AvailableForWaakdienst,
			&skills, &seniority, &maxConsRaw); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		e.SeniorityStartDate = seniority
		e.Skills = make(map[domain.Skill]struct{}, len(skills))
		for _, s := range skills {
			e.Skills[domain.Skill(s)] = struct{}{}
		}
		if err := unmarshalProductInts(maxConsRaw, &e.MaxConsecutiveWeeks); err != nil {
			return nil, fmt.Errorf("decode max_consecutive_weeks: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *Repo) ShiftTemplates(ctx context.Context, teamID domain.TeamID) (map[domain.Product]domain.ShiftTemplate, error) {
	rows, err := r.GetQuerier(ctx).Query(ctx, `
		SELECT id, product, default_duration_secs, required_skills,
		       business_hours_start_secs, business_hours_end_secs
		FROM shift_templates WHERE team_id = $1`, teamID)
	if err != nil {
		return nil, fmt.Errorf("query shift templates: %w", err)
	}
	defer rows.Close()

	out := map[domain.Product]domain.ShiftTemplate{}
	for rows.Next() {
		var (
			t              domain.ShiftTemplate
			product        string
			durationSecs   int
			skills         []string
			startSecs      int
			endSecs        int
		)
		if err := rows.Scan(&t.ID, &product, &durationSecs, &skills, &startSecs, &endSecs); err != nil {
			return nil, fmt.Errorf("scan shift template: %w", err)
		}
		t.TeamID = teamID
		t.Product = domain.Product(product)
		t.DefaultDuration = time.Duration(durationSecs) * time.Second
		t.BusinessHoursStart = time.Duration(startSecs) * time.Second
		t.BusinessHoursEnd = time.Duration(endSecs) * time.Second
		for _, s := range skills {
			t.RequiredSkills = append(t.RequiredSkills, domain.Skill(s))
		}
		out[t.Product] = t
	}
	return out, nil
}

func (r *Repo) ApprovedLeave(ctx context.Context, teamID domain.TeamID, horizon domain.TimeWindow) (map[domain.EmployeeID][]domain.LeaveRequest, error) {
	rows, err := r.GetQuerier(ctx).Query(ctx, `
		SELECT l.id, l.employee_id, l.start_ts, l.end_ts, l.status, l.leave_type_name, l.conflict_handling
		FROM leave_requests l
		JOIN team_members tm ON tm.employee_id = l.employee_id
		WHERE tm.team_id = $1 AND l.status = 'approved' AND l.start_ts < $3 AND l.end_ts > $2`,
		teamID, horizon.Start, horizon.End)
	if err != nil {
		return nil, fmt.Errorf("query approved leave: %w", err)
	}
	defer rows.Close()

	out := map[domain.EmployeeID][]domain.LeaveRequest{}
	for rows.Next() {
		var (
			l                 domain.LeaveRequest
			start, end        time.Time
			status, typeName  string
			conflictHandling  string
		)
		if err := rows.Scan(&l.ID, &l.EmployeeID, &start, &end, &status, &typeName, &conflictHandling); err != nil {
			return nil, fmt.Errorf("scan leave request: %w", err)
		}
		l.Window = domain.NewTimeWindow(start, end)
		l.Status = domain.LeaveStatus(status)
		l.Type = domain.LeaveType{Name: typeName, ConflictHandling: domain.ConflictHandling(conflictHandling)}
		out[l.EmployeeID] = append(out[l.EmployeeID], l)
	}
	return out, nil
}

func (r *Repo) RecurringLeave(ctx context.Context, teamID domain.TeamID, horizon domain.TimeWindow) (map[domain.EmployeeID][]domain.RecurringLeavePattern, error) {
	rows, err := r.GetQuerier(ctx).Query(ctx, `
		SELECT p.id, p.employee_id, p.weekday_mask, p.window_start_secs, p.window_end_secs,
		       p.effective_from, p.effective_until, p.coverage_type
		FROM recurring_leave_patterns p
		JOIN team_members tm ON tm.employee_id = p.employee_id
		WHERE tm.team_id = $1 AND p.effective_from < $3
		  AND (p.effective_until IS NULL OR p.effective_until >= $2)`,
		teamID, horizon.Start, horizon.End)
	if err != nil {
		return nil, fmt.Errorf("query recurring leave: %w", err)
	}
	defer rows.Close()

	out := map[domain.EmployeeID][]domain.RecurringLeavePattern{}
	for rows.Next() {
		var (
			p                        domain.RecurringLeavePattern
			mask                     uint8
			startSecs, endSecs       int
			from                     time.Time
			until                    *time.Time
			coverage                 string
		)
		if err := rows.Scan(&p.ID, &p.EmployeeID, &mask, &startSecs, &endSecs, &from, &until, &coverage); err != nil {
			return nil, fmt.Errorf("scan recurring leave pattern: %w", err)
		}
		p.WeekdayMask = domain.WeekdayMask(mask)
		p.WindowStart = domain.LocalTimeOfDay(time.Duration(startSecs) * time.Second)
		p.WindowEnd = domain.LocalTimeOfDay(time.Duration(endSecs) * time.Second)
		p.EffectiveFrom = from
		p.EffectiveUntil = until
		p.CoverageType = domain.CoverageType(coverage)
		out[p.EmployeeID] = append(out[p.EmployeeID], p)
	}
	return out, nil
}

func (r *Repo) PendingLeave(ctx context.Context, teamID domain.TeamID, horizon domain.TimeWindow) (map[domain.EmployeeID][]domain.LeaveRequest, error) {
	rows, err := r.GetQuerier(ctx).Query(ctx, `
		SELECT l.id, l.employee_id, l.start_ts, l.end_ts, l.status, l.leave_type_name, l.conflict_handling
		FROM leave_requests l
		JOIN team_members tm ON tm.employee_id = l.employee_id
		WHERE tm.team_id = $1 AND l.status = 'pending' AND l.start_ts < $3 AND l.end_ts > $2`,
		teamID, horizon.Start, horizon.End)
	if err != nil {
		return nil, fmt.Errorf("query pending leave: %w", err)
	}
	defer rows.Close()

	out := map[domain.EmployeeID][]domain.LeaveRequest{}
	for rows.Next() {
		var (
			l                       domain.LeaveRequest
			start, end              time.Time
			status, typeName        string
			conflictHandling        string
		)
		if err := rows.Scan(&l.ID, &l.EmployeeID, &start, &end, &status, &typeName, &conflictHandling); err != nil {
			return nil, fmt.Errorf("scan pending leave request: %w", err)
		}
		l.Window = domain.NewTimeWindow(start, end)
		l.Status = domain.LeaveStatus(status)
		l.Type = domain.LeaveType{Name: typeName, ConflictHandling: domain.ConflictHandling(conflictHandling)}
		out[l.EmployeeID] = append(out[l.EmployeeID], l)
	}
	return out, nil
}

func (r *Repo) Holidays(ctx context.Context, scope string, horizon domain.TimeWindow) ([]domain.Holiday, error) {
	rows, err := r.GetQuerier(ctx).Query(ctx, `
		SELECT id, date, scope FROM holidays
		WHERE scope = $1 AND date >= $2 AND date < $3`, scope, horizon.Start, horizon.End)
	if err != nil {
		return nil, fmt.Errorf("query holidays: %w", err)
	}
	defer rows.Close()

	var out []domain.Holiday
	for rows.Next() {
		var h domain.Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Scope); err != nil {
			return nil, fmt.Errorf("scan holiday: %w", err)
		}
		out = append(out, h)
	}
	return out, nil
}

func (r *Repo) AppliedShifts(ctx context.Context, teamID domain.TeamID, since time.Time) ([]domain.Shift, error) {
	rows, err := r.GetQuerier(ctx).Query(ctx, `
		SELECT id, template_id, product, assigned_employee_id, start_ts, end_ts, source_run_id, status
		FROM shifts
		WHERE team_id = $1 AND status <> 'superseded' AND end_ts > $2`, teamID, since)
	if err != nil {
		return nil, fmt.Errorf("query applied shifts: %w", err)
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

func (r *Repo) AutoScheduledTeams(ctx context.Context) ([]domain.Team, error) {
	rows, err := r.GetQuerier(ctx).Query(ctx, `SELECT id FROM teams WHERE auto_scheduling_enabled`)
	if err != nil {
		return nil, fmt.Errorf("query auto-scheduled teams: %w", err)
	}
	defer rows.Close()

	var ids []domain.TeamID
	for rows.Next() {
		var id domain.TeamID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan team id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()

	out := make([]domain.Team, 0, len(ids))
	for _, id := range ids {
		t, err := r.Team(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// rowScanner is the subset of pgx.Row/pgx.Rows methods scanShift needs,
// letting it serve both single-row and multi-row callers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanShift(row rowScanner, teamID domain.TeamID) (domain.Shift, error) {
	var (
		s          domain.Shift
		product    string
		assignee   *domain.EmployeeID
		start, end time.Time
		status     string
	)
	if err := row.Scan(&s.ID, &s.Template, &product, &assignee, &start, &end, &s.SourceRunID, &status); err != nil {
		return domain.Shift{}, fmt.Errorf("scan shift: %w", err)
	}
	s.TeamID = teamID
	s.Product = domain.Product(product)
	s.Assignee = assignee
	s.Window = domain.NewTimeWindow(start, end)
	s.Status = domain.ShiftStatus(status)
	return s, nil
}

func unmarshalProductInts(raw []byte, out *map[domain.Product]int) error {
	m := map[domain.Product]int{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &m); err != nil {
			return err
		}
	}
	*out = m
	return nil
}

func unmarshalProductBools(raw []byte, out *map[domain.Product]bool) error {
	m := map[domain.Product]bool{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &m); err != nil {
			return err
		}
	}
	*out = m
	return nil
}
