// Package reassign repairs a plan already produced by
// internal/orchestrator once leave or a cross-product conflict makes
// part of it infeasible after the fact. Business-hours products
// (Incidents, Incidents-Standby) are repaired day-window by day-window,
// keeping the original assignee on every day that is still feasible.
// Waakdienst has no partial-week story, so an infeasible block takes
// the whole on-call week with it. Every change here updates the
// fairness ledger's plan_debit to match and records an audit event.
package reassign
