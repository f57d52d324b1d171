package metrics

import (
	"time"

	"github.com/oncallsvc/orchestrator/internal/domain"
	"github.com/oncallsvc/orchestrator/internal/runcontrol"
)

// Recorder adapts Collectors onto internal/runcontrol.MetricsRecorder
// so the controller never has to import Prometheus directly.
type Recorder struct {
	c *Collectors
}

var _ runcontrol.MetricsRecorder = (*Recorder)(nil)

// NewRecorder wraps an already-registered Collectors set.
func NewRecorder(c *Collectors) *Recorder {
	return &Recorder{c: c}
}

func (r *Recorder) ObserveRun(mode domain.RunMode, outcome string, duration time.Duration) {
	r.c.RunsTotal.WithLabelValues(string(mode), outcome).Inc()
	r.c.RunDuration.WithLabelValues(string(mode)).Observe(duration.Seconds())
}

func (r *Recorder) ObserveConstraintEvent(kind domain.ConstraintKind, severity domain.Severity) {
	r.c.ConstraintEventsTotal.WithLabelValues(string(kind), string(severity)).Inc()
}

func (r *Recorder) ObserveShiftsApplied(product domain.Product, action string, count int) {
	if count == 0 {
		return
	}
	r.c.ShiftsAppliedTotal.WithLabelValues(string(product), action).Add(float64(count))
}

// ObserveRollingExtensionLag records how far behind teamID's applied
// horizon is from the extender's target at the moment of a sweep tick.
// Not part of runcontrol.MetricsRecorder: the extender calls it
// directly since the lag is a per-team gauge, not a per-run counter.
func (r *Recorder) ObserveRollingExtensionLag(teamID domain.TeamID, lag time.Duration) {
	r.c.RollingExtensionLag.WithLabelValues(teamID.String()).Set(lag.Seconds())
}
