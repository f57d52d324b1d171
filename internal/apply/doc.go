// Package apply implements the storage-agnostic half of spec §4.6: given
// a provisional plan and the existing non-superseded shifts for a team,
// it decides which rows to insert, keep unchanged, or supersede, purely
// by idempotency key. internal/store/pg executes the decisions inside a
// transaction; internal/store/memory executes them against a map.
package apply
