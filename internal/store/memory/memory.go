// Package memory is an in-process implementation of internal/store's
// ports, backing unit tests and local examples the way
// _examples/Boreiy-Sttbot's own sqlite adapter backed its tests before
// a real database was wired up. It has no durability and no real
// locking beyond a process-local mutex per team.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oncallsvc/orchestrator/internal/apply"
	"github.com/oncallsvc/orchestrator/internal/domain"
	"github.com/oncallsvc/orchestrator/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store is a single in-memory team-scheduling database. The zero value
// is not usable; construct with New.
type Store struct {
	mu sync.Mutex

	teams           map[domain.TeamID]domain.Team
	employees       map[domain.TeamID][]domain.Employee
	templates       map[domain.TeamID]map[domain.Product]domain.ShiftTemplate
	approvedLeave   map[domain.EmployeeID][]domain.LeaveRequest
	recurringLeave  map[domain.EmployeeID][]domain.RecurringLeavePattern
	holidays        []domain.Holiday
	shifts          map[domain.TeamID][]domain.Shift
	runs            map[domain.RunID]domain.OrchestrationRun
	teamLocks       map[domain.TeamID]*sync.Mutex
}

// New creates an empty Store. Use the Seed* methods to populate it
// before planning against it.
func New() *Store {
	return &Store{
		teams:          map[domain.TeamID]domain.Team{},
		employees:      map[domain.TeamID][]domain.Employee{},
		templates:      map[domain.TeamID]map[domain.Product]domain.ShiftTemplate{},
		approvedLeave:  map[domain.EmployeeID][]domain.LeaveRequest{},
		recurringLeave: map[domain.EmployeeID][]domain.RecurringLeavePattern{},
		shifts:         map[domain.TeamID][]domain.Shift{},
		runs:           map[domain.RunID]domain.OrchestrationRun{},
		teamLocks:      map[domain.TeamID]*sync.Mutex{},
	}
}

// SeedTeam registers a team and its roster.
func (s *Store) SeedTeam(team domain.Team, employees []domain.Employee, templates map[domain.Product]domain.ShiftTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[team.ID] = team
	s.employees[team.ID] = employees
	s.templates[team.ID] = templates
}

// SeedLeave registers an employee's approved leave requests.
func (s *Store) SeedLeave(employeeID domain.EmployeeID, leave ...domain.LeaveRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.approvedLeave[employeeID] = append(s.approvedLeave[employeeID], leave...)
}

// SeedRecurringLeave registers an employee's recurring leave patterns.
func (s *Store) SeedRecurringLeave(employeeID domain.EmployeeID, patterns ...domain.RecurringLeavePattern) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recurringLeave[employeeID] = append(s.recurringLeave[employeeID], patterns...)
}

// SeedHolidays registers holidays visible to every scope that matches them.
func (s *Store) SeedHolidays(holidays ...domain.Holiday) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holidays = append(s.holidays, holidays...)
}

// SeedAppliedShifts seeds prior applied history for a team, used to
// exercise fairness decay and double-assignment checks without a full
// apply run.
func (s *Store) SeedAppliedShifts(teamID domain.TeamID, shifts ...domain.Shift) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shifts[teamID] = append(s.shifts[teamID], shifts...)
}

func (s *Store) Team(_ context.Context, teamID domain.TeamID) (domain.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[teamID]
	if !ok {
		return domain.Team{}, domain.ErrUnknownTeam
	}
	return t, nil
}

func (s *Store) Employees(_ context.Context, teamID domain.TeamID) ([]domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Employee(nil), s.employees[teamID]...), nil
}

func (s *Store) ShiftTemplates(_ context.Context, teamID domain.TeamID) (map[domain.Product]domain.ShiftTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.Product]domain.ShiftTemplate, len(s.templates[teamID]))
	for k, v := range s.templates[teamID] {
		out[k] = v
	}
	return out, nil
}

func (s *Store) ApprovedLeave(_ context.Context, teamID domain.TeamID, horizon domain.TimeWindow) (map[domain.EmployeeID][]domain.LeaveRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[domain.EmployeeID][]domain.LeaveRequest{}
	for _, e := range s.employees[teamID] {
		for _, l := range s.approvedLeave[e.ID] {
			if l.Status == domain.LeaveApproved && l.Window.Overlaps(horizon) {
				out[e.ID] = append(out[e.ID], l)
			}
		}
	}
	return out, nil
}

func (s *Store) RecurringLeave(_ context.Context, teamID domain.TeamID, _ domain.TimeWindow) (map[domain.EmployeeID][]domain.RecurringLeavePattern, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[domain.EmployeeID][]domain.RecurringLeavePattern{}
	for _, e := range s.employees[teamID] {
		if patterns := s.recurringLeave[e.ID]; len(patterns) > 0 {
			out[e.ID] = append([]domain.RecurringLeavePattern(nil), patterns...)
		}
	}
	return out, nil
}

func (s *Store) PendingLeave(_ context.Context, teamID domain.TeamID, horizon domain.TimeWindow) (map[domain.EmployeeID][]domain.LeaveRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[domain.EmployeeID][]domain.LeaveRequest{}
	for _, e := range s.employees[teamID] {
		for _, l := range s.approvedLeave[e.ID] {
			if l.Status == domain.LeavePending && l.Window.Overlaps(horizon) {
				out[e.ID] = append(out[e.ID], l)
			}
		}
	}
	return out, nil
}

func (s *Store) Holidays(_ context.Context, scope string, horizon domain.TimeWindow) ([]domain.Holiday, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Holiday
	for _, h := range s.holidays {
		if h.AppliesTo(scope) && horizon.Contains(h.Date) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *Store) AppliedShifts(_ context.Context, teamID domain.TeamID, since time.Time) ([]domain.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Shift
	for _, sh := range s.shifts[teamID] {
		if sh.Status != domain.ShiftSuperseded && sh.Window.End.After(since) {
			out = append(out, sh)
		}
	}
	return out, nil
}

func (s *Store) AutoScheduledTeams(_ context.Context) ([]domain.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Team
	ids := make([]string, 0, len(s.teams))
	byID := map[string]domain.Team{}
	for id, t := range s.teams {
		if t.AutoSchedulingEnabled {
			ids = append(ids, id.String())
			byID[id.String()] = t
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		out = append(out, byID[id])
	}
	return out, nil
}

func (s *Store) Apply(_ context.Context, teamID domain.TeamID, shifts []domain.Shift) (store.ApplyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make([]domain.Shift, 0, len(s.shifts[teamID]))
	for _, sh := range s.shifts[teamID] {
		if sh.Status != domain.ShiftSuperseded {
			existing = append(existing, sh)
		}
	}

	decisions := apply.Reconcile(shifts, existing)
	inserted, kept, superseded := apply.Summarize(decisions)
	persistedIDs := make(map[domain.ShiftID]domain.ShiftID, len(decisions))

	byID := make(map[domain.ShiftID]int, len(s.shifts[teamID]))
	for i, sh := range s.shifts[teamID] {
		byID[sh.ID] = i
	}

	for _, d := range decisions {
		switch d.Action {
		case apply.ActionInsert:
			applied := d.Planned
			applied.Status = domain.ShiftApplied
			s.shifts[teamID] = append(s.shifts[teamID], applied)
			persistedIDs[d.Planned.ID] = d.Planned.ID
		case apply.ActionSupersede:
			if idx, ok := byID[d.Existing.ID]; ok {
				s.shifts[teamID][idx].Status = domain.ShiftSuperseded
			}
			applied := d.Planned
			applied.Status = domain.ShiftApplied
			s.shifts[teamID] = append(s.shifts[teamID], applied)
			persistedIDs[d.Planned.ID] = d.Planned.ID
		case apply.ActionKeep:
			// no-op: existing row already matches.
			persistedIDs[d.Planned.ID] = d.Existing.ID
		}
	}

	return store.ApplyResult{Inserted: inserted, Kept: kept, Superseded: superseded, PersistedIDs: persistedIDs}, nil
}

func (s *Store) SaveRun(_ context.Context, run domain.OrchestrationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return nil
}

func (s *Store) Run(_ context.Context, runID domain.RunID) (domain.OrchestrationRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[runID]
	if !ok {
		return domain.OrchestrationRun{}, domain.ErrUnknownTeam
	}
	return r, nil
}

func (s *Store) SetAutoScheduling(_ context.Context, teamID domain.TeamID, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[teamID]
	if !ok {
		return domain.ErrUnknownTeam
	}
	t.AutoSchedulingEnabled = enabled
	s.teams[teamID] = t
	return nil
}

func (s *Store) SetProductEnabled(_ context.Context, teamID domain.TeamID, product domain.Product, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[teamID]
	if !ok {
		return domain.ErrUnknownTeam
	}
	if t.EnabledProducts == nil {
		t.EnabledProducts = map[domain.Product]bool{}
	}
	t.EnabledProducts[product] = enabled
	s.teams[teamID] = t
	return nil
}

// WithTeamLock serializes concurrent callers for the same teamID with a
// plain mutex, standing in for the Postgres advisory lock the real
// adapter takes.
func (s *Store) WithTeamLock(ctx context.Context, teamID domain.TeamID, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	lock, ok := s.teamLocks[teamID]
	if !ok {
		lock = &sync.Mutex{}
		s.teamLocks[teamID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn(ctx)
}
