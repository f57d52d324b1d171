// Package runcontrol implements spec §4.7: the run controller that
// drives one team-run end to end (window generation → selection →
// reassignment → apply) and the nightly rolling extender that keeps
// every auto-scheduled team's horizon topped up. Grounded on the
// teacher's internal/scheduler for the cron/ticker cadence and on its
// internal/app wiring style for how a controller composes the other
// packages.
package runcontrol
