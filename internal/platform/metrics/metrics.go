// Package metrics declares the Prometheus collectors the orchestrator
// exposes: run throughput by mode and outcome, constraint events by
// kind and severity, run duration by mode, and how far behind the nightly
// rolling extender has fallen per team. Collectors are registered
// against a caller-supplied prometheus.Registerer rather than the
// global default registry, so cmd/orchestratorctl and tests can each
// use their own.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collectors bundles every metric the orchestrator records. The zero
// value is not usable; build one with New and register it.
type Collectors struct {
	RunsTotal              *prometheus.CounterVec
	RunDuration            *prometheus.HistogramVec
	ConstraintEventsTotal  *prometheus.CounterVec
	ShiftsAppliedTotal     *prometheus.CounterVec
	RollingExtensionLag    *prometheus.GaugeVec
}

// New builds the collector set with the orchestrator_ namespace.
// Callers must Register it on a prometheus.Registerer before any
// recording calls.
func New() *Collectors {
	return &Collectors{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orchestrator",
			Name:      "runs_total",
			Help:      "Orchestration runs, by mode and outcome.",
		}, []string{"mode", "outcome"}),
		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "orchestrator",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of a single orchestration run, from CreateRun entry to return.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}, []string{"mode"}),
		ConstraintEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orchestrator",
			Name:      "constraint_events_total",
			Help:      "Constraint evaluation outcomes recorded during planning, by kind and severity.",
		}, []string{"kind", "severity"}),
		ShiftsAppliedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orchestrator",
			Name:      "shifts_applied_total",
			Help:      "Shift rows written by an apply-mode run, by product and action (inserted/superseded).",
		}, []string{"product", "action"}),
		RollingExtensionLag: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "orchestrator",
			Name:      "rolling_extension_lag_seconds",
			Help:      "Seconds between a team's current applied horizon end and the nightly extender's target horizon, observed at the last sweep.",
		}, []string{"team_id"}),
	}
}

// Register adds every collector to reg. Grounded on the standard
// client_golang pattern of a MustRegister call per collector, done
// once at wiring time in cmd/orchestratorctl.
func (c *Collectors) Register(reg prometheus.Registerer) {
	reg.MustRegister(
		c.RunsTotal,
		c.RunDuration,
		c.ConstraintEventsTotal,
		c.ShiftsAppliedTotal,
		c.RollingExtensionLag,
	)
}
