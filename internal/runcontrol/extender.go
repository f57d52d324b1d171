package runcontrol

import (
	"context"
	"fmt"
	"time"

	"github.com/oncallsvc/orchestrator/internal/domain"
	"github.com/oncallsvc/orchestrator/internal/scheduler"
)

// lagRecorder is an optional capability of MetricsRecorder: a gauge of
// how far a team's applied horizon trails the extender's target,
// observed once per sweep tick regardless of whether that team ends up
// needing a run this tick.
type lagRecorder interface {
	ObserveRollingExtensionLag(teamID domain.TeamID, lag time.Duration)
}

// RegisterNightlyExtender schedules ExtendAll on sched at the given
// cron expression with DelayIfRunning, so a slow night's sweep across
// many teams never overlaps the next tick. Grounded on the teacher's
// own cron registration pattern in internal/app.
func (c *Controller) RegisterNightlyExtender(sched *scheduler.Scheduler, schedule string) error {
	_, err := sched.AddCronJobWithOptions(schedule, c.ExtendAll, scheduler.JobOptions{
		Name:          "rolling-extender",
		Timeout:       c.runTimeout,
		OverlapPolicy: scheduler.DelayIfRunning,
	})
	return err
}

// ExtendAll sweeps every auto-scheduled team and tops up its horizon to
// now+defaultMonths, applying one run per team that has fallen behind.
// A single team's failure does not stop the sweep; failures are
// collected and, once every team has been visited, the first one is
// returned wrapped with the failure count so the caller (cron job
// wrapper) can surface it.
func (c *Controller) ExtendAll(ctx context.Context) error {
	teams, err := c.store.AutoScheduledTeams(ctx)
	if err != nil {
		return fmt.Errorf("list auto-scheduled teams: %w", err)
	}

	now := time.Now().UTC()
	targetEnd := now.Add(c.horizon)

	var failures []error
	for _, team := range teams {
		currentEnd, err := c.currentHorizonEnd(ctx, team.ID, now)
		if err != nil {
			failures = append(failures, fmt.Errorf("team %s: determine current horizon: %w", team.ID, err))
			continue
		}
		if lagRecorder, ok := c.metrics.(lagRecorder); ok {
			lagRecorder.ObserveRollingExtensionLag(team.ID, targetEnd.Sub(currentEnd))
		}
		if !currentEnd.Before(targetEnd) {
			continue
		}

		_, _, err = c.CreateRun(ctx, CreateRunInput{
			TeamID:       team.ID,
			HorizonStart: currentEnd,
			HorizonEnd:   targetEnd,
			Mode:         domain.RunModeApply,
		})
		if err != nil {
			failures = append(failures, fmt.Errorf("team %s: extend to %s: %w", team.ID, targetEnd.Format("2006-01-02"), err))
			continue
		}

		c.log.InfoContext(ctx, "rolling extension applied", "team_id", team.ID, "from", currentEnd, "to", targetEnd)
	}

	if len(failures) > 0 {
		return fmt.Errorf("rolling extension had %d failure(s): %w", len(failures), failures[0])
	}
	return nil
}

// currentHorizonEnd returns the latest end of any already-applied shift
// for team at or after now, or now itself if the team has no applied
// shifts in the future yet (first-ever extension).
func (c *Controller) currentHorizonEnd(ctx context.Context, teamID domain.TeamID, now time.Time) (time.Time, error) {
	shifts, err := c.store.AppliedShifts(ctx, teamID, now)
	if err != nil {
		return time.Time{}, err
	}
	end := now
	for _, s := range shifts {
		if s.Window.End.After(end) {
			end = s.Window.End
		}
	}
	return end, nil
}
