// Package domain holds the read-model and write-model entities the
// scheduling engine operates on: employees, teams, shift templates,
// leave, holidays, the shifts the engine produces, and the run/audit
// trail of an orchestration. Types here are data shapes plus small pure
// helpers; the algorithms that consume them live in the sibling
// internal/window, internal/constraint, internal/fairness,
// internal/orchestrator, internal/reassign and internal/apply packages.
package domain

import "time"

// Location is the canonical zone for all civil dates and zoned
// timestamps the engine produces or consumes; the engine never uses the
// host's local zone implicitly.
var Location = mustLoadAmsterdam()

func mustLoadAmsterdam() *time.Location {
	loc, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		panic("domain: failed to load Europe/Amsterdam timezone: " + err.Error())
	}
	return loc
}
