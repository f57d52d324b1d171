package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/oncallsvc/orchestrator/internal/domain"
)

func TestRecorder_ObserveRun_IncrementsRunsCounter(t *testing.T) {
	c := New()
	reg := prometheus.NewRegistry()
	c.Register(reg)

	r := NewRecorder(c)
	r.ObserveRun(domain.RunModeApply, "success", 2*time.Second)

	metric := counterValue(t, c.RunsTotal, "apply", "success")
	require.Equal(t, 1.0, metric)
}

func TestRecorder_ObserveShiftsApplied_SkipsZeroCounts(t *testing.T) {
	c := New()
	r := NewRecorder(c)
	r.ObserveShiftsApplied(domain.ProductIncidents, "inserted", 0)
	r.ObserveShiftsApplied(domain.ProductIncidents, "inserted", 3)

	require.Equal(t, 3.0, counterValue(t, c.ShiftsAppliedTotal, string(domain.ProductIncidents), "inserted"))
}

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, vec.WithLabelValues(labels...).Write(&m))
	return m.GetCounter().GetValue()
}
