package fairness

import (
	"math"
	"sort"
	"time"

	"github.com/oncallsvc/orchestrator/internal/domain"
)

const hoursPerWeek = 7 * 24

type ledgerKey struct {
	employee domain.EmployeeID
	product  domain.Product
}

// Ledger is the mutable, run-scoped fairness state for one team: the
// historical applied shifts that seed the decayed load term, and the
// plan_debit/assignment counts that accumulate as the run provisionally
// assigns shifts. It is never shared across runs or persisted.
type Ledger struct {
	halfLifeWeeks     map[domain.Product]float64
	availabilityBonus map[domain.EmployeeID]float64
	historical        []domain.Shift

	planDebit       map[ledgerKey]float64
	assignmentCount map[ledgerKey]int
}

// NewLedger builds a ledger seeded with the team's prior applied
// history. halfLifeWeeks supplies τ_p per product; availabilityBonus is
// an optional, externally computed per-employee bonus and may be nil,
// in which case every employee gets a bonus of 0.
func NewLedger(halfLifeWeeks map[domain.Product]float64, availabilityBonus map[domain.EmployeeID]float64, historical []domain.Shift) *Ledger {
	if availabilityBonus == nil {
		availabilityBonus = map[domain.EmployeeID]float64{}
	}
	return &Ledger{
		halfLifeWeeks:     halfLifeWeeks,
		availabilityBonus: availabilityBonus,
		historical:        historical,
		planDebit:         map[ledgerKey]float64{},
		assignmentCount:   map[ledgerKey]int{},
	}
}

// Score computes employee's fairness score for product as of asOf,
// using shifts already recorded in history and any assignments already
// recorded against this ledger in the current run.
func (l *Ledger) Score(employeeID domain.EmployeeID, product domain.Product, asOf time.Time) domain.FairnessScore {
	key := ledgerKey{employeeID, product}
	halfLife := l.halfLifeWeeks[product]

	var weighted float64
	for _, s := range l.historical {
		if s.Assignee == nil || *s.Assignee != employeeID || s.Product != product {
			continue
		}
		if !s.Window.Start.Before(asOf) {
			continue
		}
		ageWeeks := asOf.Sub(s.Window.End).Hours() / hoursPerWeek
		if ageWeeks < 0 {
			ageWeeks = 0
		}
		decay := decayFactor(ageWeeks, halfLife)
		weighted += s.Duration().Hours() * decay
	}

	return domain.FairnessScore{
		EmployeeID:              employeeID,
		Product:                 product,
		WeightedHoursLastNWeeks: weighted,
		DecayFactor:             decayFactor(0, halfLife),
		CurrentPlanDebit:        l.planDebit[key],
		AvailabilityBonus:       l.availabilityBonus[employeeID],
		AssignmentCount:         l.assignmentCount[key],
	}
}

// decayFactor returns exp(-ageWeeks/halfLifeWeeks). A non-positive
// half-life disables decay entirely (every historical hour counts at
// full weight), which is a deliberate escape hatch rather than a
// division-by-zero guard: callers pass 0 to mean "no decay".
func decayFactor(ageWeeks, halfLifeWeeks float64) float64 {
	if halfLifeWeeks <= 0 {
		return 1
	}
	return math.Exp(-ageWeeks / halfLifeWeeks)
}

// RecordAssignment updates plan_debit and the assignment count after a
// provisional assignment, so the next Score/Rank call for this employee
// reflects the new load.
func (l *Ledger) RecordAssignment(employeeID domain.EmployeeID, product domain.Product, duration time.Duration) {
	key := ledgerKey{employeeID, product}
	l.planDebit[key] += duration.Hours()
	l.assignmentCount[key]++
}

// RemoveDebit reverses a previously recorded assignment's plan_debit
// without crediting anyone else, used when a day-window or unit is
// pulled back into the unassigned pool rather than handed to a
// replacement.
func (l *Ledger) RemoveDebit(employeeID domain.EmployeeID, product domain.Product, duration time.Duration) {
	l.planDebit[ledgerKey{employeeID, product}] -= duration.Hours()
}

// TransferDebit moves duration's worth of plan_debit from one employee
// to another for product, used when reassignment hands a single
// day-window (or a whole unit) to a different engineer after the
// initial selection already recorded it against the original assignee.
// A zero-value from is treated as "no prior holder" and only credits to.
func (l *Ledger) TransferDebit(from, to domain.EmployeeID, product domain.Product, duration time.Duration) {
	if from != (domain.EmployeeID{}) {
		l.RemoveDebit(from, product, duration)
	}
	toKey := ledgerKey{to, product}
	l.planDebit[toKey] += duration.Hours()
	l.assignmentCount[toKey]++
}

// Rank orders candidates for (product, asOf) from most to least
// preferred: lowest score first, ties broken by fewest assignments in
// the current run, then earliest seniority, then employee id ascending.
func (l *Ledger) Rank(candidates []domain.Employee, product domain.Product, asOf time.Time) []domain.Employee {
	ranked := make([]domain.Employee, len(candidates))
	copy(ranked, candidates)
	scores := make(map[domain.EmployeeID]domain.FairnessScore, len(ranked))
	for _, e := range ranked {
		scores[e.ID] = l.Score(e.ID, product, asOf)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		sa, sb := scores[a.ID], scores[b.ID]

		if ta, tb := sa.Total(), sb.Total(); ta != tb {
			return ta < tb
		}
		if sa.AssignmentCount != sb.AssignmentCount {
			return sa.AssignmentCount < sb.AssignmentCount
		}
		if !a.SeniorityStartDate.Equal(b.SeniorityStartDate) {
			return a.SeniorityStartDate.Before(b.SeniorityStartDate)
		}
		return a.ID.String() < b.ID.String()
	})

	return ranked
}
