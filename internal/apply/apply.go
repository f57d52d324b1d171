package apply

import (
	"github.com/oncallsvc/orchestrator/internal/domain"
)

// Action classifies what an adapter must do with a Decision's Planned
// shift to make storage match the plan.
type Action int

const (
	// ActionInsert means no existing row shares Planned's idempotency
	// key; insert it as a new applied row.
	ActionInsert Action = iota
	// ActionKeep means an existing row already matches Planned exactly
	// (same assignee, same end time); leave it untouched.
	ActionKeep
	// ActionSupersede means an existing row shares Planned's key but
	// differs in assignee or end time: mark Existing superseded and
	// insert Planned as a new applied row.
	ActionSupersede
)

// Decision is one row-level outcome of reconciling a plan against
// existing storage.
type Decision struct {
	Planned  domain.Shift
	Action   Action
	Existing domain.Shift // valid when Action == ActionKeep or ActionSupersede
}

// Reconcile computes the idempotent decision for every shift in
// planned against existing, the team's current non-superseded shifts.
// It never inspects planned/existing status beyond "non-superseded":
// callers are expected to have already filtered existing to that set.
//
// Matching existing rows by Shift.Key() alone (not also by Status)
// is deliberate: spec §3 makes (team, product, start_ts) the
// idempotency key regardless of which run produced the prior row.
func Reconcile(planned []domain.Shift, existing []domain.Shift) []Decision {
	byKey := make(map[domain.IdempotencyKey]domain.Shift, len(existing))
	for _, s := range existing {
		byKey[s.Key()] = s
	}

	decisions := make([]Decision, 0, len(planned))
	for _, p := range planned {
		prior, ok := byKey[p.Key()]
		switch {
		case !ok:
			decisions = append(decisions, Decision{Planned: p, Action: ActionInsert})
		case p.SameAssignment(prior):
			decisions = append(decisions, Decision{Planned: p, Action: ActionKeep, Existing: prior})
		default:
			decisions = append(decisions, Decision{Planned: p, Action: ActionSupersede, Existing: prior})
		}
	}
	return decisions
}

// Summarize folds a Decision slice into the counts domain.RunTotals and
// store.ApplyResult both report.
func Summarize(decisions []Decision) (inserted, kept, superseded int) {
	for _, d := range decisions {
		switch d.Action {
		case ActionInsert:
			inserted++
		case ActionKeep:
			kept++
		case ActionSupersede:
			superseded++
		}
	}
	return
}
