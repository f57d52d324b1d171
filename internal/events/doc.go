// Package events publishes orchestration lifecycle events to the
// message broker, letting downstream consumers (notification services,
// dashboards, audit pipelines) react to a completed run without polling
// get_run. Publishing is always best-effort: a broker outage never
// rolls back or blocks an already-applied run.
package events
