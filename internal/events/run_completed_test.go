package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/oncallsvc/orchestrator/internal/domain"
)

func TestFromRun_ProjectsCompletedRun(t *testing.T) {
	completedTS := time.Date(2026, 8, 10, 8, 0, 0, 0, time.UTC)
	run := domain.OrchestrationRun{
		ID:           uuid.New(),
		TeamID:       uuid.New(),
		Mode:         domain.RunModeApply,
		Products:     []domain.Product{domain.ProductIncidents, domain.ProductWaakdienst},
		HorizonStart: time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC),
		HorizonEnd:   time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC),
		CompletedTS:  &completedTS,
		Totals: domain.RunTotals{
			ShiftsPlanned:  10,
			ShiftsApplied:  8,
			Superseded:     2,
			Unassigned:     1,
			ViolationCount: 0,
		},
	}

	out := fromRun(run)

	assert.Equal(t, run.ID.String(), out.RunID)
	assert.Equal(t, run.TeamID.String(), out.TeamID)
	assert.Equal(t, "apply", out.Mode)
	assert.Equal(t, []string{"incidents", "waakdienst"}, out.Products)
	assert.Equal(t, 10, out.ShiftsPlanned)
	assert.Equal(t, 8, out.ShiftsApplied)
	assert.Equal(t, 2, out.Superseded)
	assert.Equal(t, 1, out.Unassigned)
	assert.Equal(t, "2026-08-10T08:00:00Z", out.CompletedTS)
}

func TestFromRun_NilCompletedTSLeavesEmptyString(t *testing.T) {
	run := domain.OrchestrationRun{ID: uuid.New(), TeamID: uuid.New()}
	out := fromRun(run)
	assert.Empty(t, out.CompletedTS)
}
