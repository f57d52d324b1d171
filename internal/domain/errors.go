package domain

import "errors"

// Sentinel errors surfaced by the domain and the packages built on it.
// ConstraintViolation is deliberately absent: it is not an error, it is
// an audit event (OrchestrationConstraint) recorded inline while
// planning continues.
var (
	// ErrInvalidHorizon is returned when horizon_end_date < horizon_start_date.
	ErrInvalidHorizon = errors.New("invalid horizon: end before start")

	// ErrUnknownTeam is returned when a team_id does not resolve to an
	// active team.
	ErrUnknownTeam = errors.New("unknown team")

	// ErrUnknownProduct is returned when a product code does not match
	// any known product.
	ErrUnknownProduct = errors.New("unknown product")

	// ErrConcurrencyConflict is returned when another run already holds
	// the team scheduling lock; callers should treat this as "busy", not
	// as a failure.
	ErrConcurrencyConflict = errors.New("team scheduling lock held by another run")

	// ErrInternalInvariantBroken marks a fatal defect: the run aborts
	// without applying anything.
	ErrInternalInvariantBroken = errors.New("internal invariant broken")
)
