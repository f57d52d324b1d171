package events

import "github.com/oncallsvc/orchestrator/internal/domain"

// RunCompleted is the wire payload for a run.completed message, a flat
// projection of domain.OrchestrationRun that omits the full shift and
// constraint-event lists — consumers that need those call get_run.
type RunCompleted struct {
	RunID          string   `json:"run_id"`
	TeamID         string   `json:"team_id"`
	Mode           string   `json:"mode"`
	Products       []string `json:"products"`
	HorizonStart   string   `json:"horizon_start"`
	HorizonEnd     string   `json:"horizon_end"`
	ShiftsPlanned  int      `json:"shifts_planned"`
	ShiftsApplied  int      `json:"shifts_applied"`
	Superseded     int      `json:"superseded"`
	Unassigned     int      `json:"unassigned"`
	ViolationCount int      `json:"violation_count"`
	CompletedTS    string   `json:"completed_ts"`
}

// fromRun projects a completed OrchestrationRun into its wire shape.
// The caller is responsible for only calling this once run.Completed()
// is true.
func fromRun(run domain.OrchestrationRun) RunCompleted {
	products := make([]string, len(run.Products))
	for i, p := range run.Products {
		products[i] = string(p)
	}

	var completedTS string
	if run.CompletedTS != nil {
		completedTS = run.CompletedTS.Format(timeLayout)
	}

	return RunCompleted{
		RunID:          run.ID.String(),
		TeamID:         run.TeamID.String(),
		Mode:           string(run.Mode),
		Products:       products,
		HorizonStart:   run.HorizonStart.Format(timeLayout),
		HorizonEnd:     run.HorizonEnd.Format(timeLayout),
		ShiftsPlanned:  run.Totals.ShiftsPlanned,
		ShiftsApplied:  run.Totals.ShiftsApplied,
		Superseded:     run.Totals.Superseded,
		Unassigned:     run.Totals.Unassigned,
		ViolationCount: run.Totals.ViolationCount,
		CompletedTS:    completedTS,
	}
}

const timeLayout = "2006-01-02T15:04:05Z07:00"
