package runcontrol

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oncallsvc/orchestrator/internal/domain"
	"github.com/oncallsvc/orchestrator/internal/fairness"
	"github.com/oncallsvc/orchestrator/internal/orchestrator"
	"github.com/oncallsvc/orchestrator/internal/orchestrator/api"
	"github.com/oncallsvc/orchestrator/internal/platform/config"
	"github.com/oncallsvc/orchestrator/internal/reassign"
	"github.com/oncallsvc/orchestrator/internal/shared"
	"github.com/oncallsvc/orchestrator/internal/store"
)

// EventPublisher is the best-effort sink for completed runs. Defined
// here rather than imported from internal/events to keep runcontrol
// free of a hard dependency on AMQP; internal/events.Publisher
// satisfies it.
type EventPublisher interface {
	PublishRunCompleted(ctx context.Context, run domain.OrchestrationRun) error
}

// noopPublisher is used when the controller is built without a
// publisher, e.g. in tests against internal/store/memory.
type noopPublisher struct{}

func (noopPublisher) PublishRunCompleted(context.Context, domain.OrchestrationRun) error { return nil }

// MetricsRecorder is the observability sink for run outcomes. Defined
// here rather than imported from internal/platform/metrics to keep
// runcontrol free of a hard dependency on Prometheus;
// metrics.Collectors satisfies it through a thin adapter.
type MetricsRecorder interface {
	ObserveRun(mode domain.RunMode, outcome string, duration time.Duration)
	ObserveConstraintEvent(kind domain.ConstraintKind, severity domain.Severity)
	ObserveShiftsApplied(product domain.Product, action string, count int)
}

type noopMetrics struct{}

func (noopMetrics) ObserveRun(domain.RunMode, string, time.Duration)             {}
func (noopMetrics) ObserveConstraintEvent(domain.ConstraintKind, domain.Severity) {}
func (noopMetrics) ObserveShiftsApplied(domain.Product, string, int)             {}

// Controller drives one team-run end to end and owns the nightly
// rolling-extension sweep. It is the sole caller of
// internal/orchestrator.PlanProduct and internal/reassign, and the sole
// writer through internal/store.Store — no other package touches both.
type Controller struct {
	store      store.Store
	log        *slog.Logger
	rotation   map[domain.Product]config.RotationParams
	runTimeout time.Duration
	horizon    time.Duration
	publisher  EventPublisher
	metrics    MetricsRecorder
}

// SetMetrics installs a MetricsRecorder, replacing the no-op default.
// Separate from New so existing callers (and tests) that only care
// about EventPublisher are unaffected.
func (c *Controller) SetMetrics(m MetricsRecorder) {
	if m != nil {
		c.metrics = m
	}
}

// New builds a Controller. publisher may be nil, in which case
// published events are silently dropped (used by callers that only
// care about the orchestration result, such as the CLI's preview mode).
func New(st store.Store, cfg config.Config, log *slog.Logger, publisher EventPublisher) *Controller {
	if log == nil {
		log = slog.Default()
	}
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &Controller{
		store: st,
		log:   log.With("component", "runcontrol"),
		rotation: map[domain.Product]config.RotationParams{
			domain.ProductIncidents:        cfg.Rotation.Incidents,
			domain.ProductIncidentsStandby: cfg.Rotation.IncidentsStandby,
			domain.ProductWaakdienst:       cfg.Rotation.Waakdienst,
		},
		runTimeout: cfg.Horizon.RunTimeout,
		horizon:    time.Duration(cfg.Horizon.DefaultMonths) * 30 * 24 * time.Hour,
		publisher:  publisher,
		metrics:    noopMetrics{},
	}
}

// CreateRunInput is the input to CreateRun, mirroring spec §6's
// create_run operation. It is an alias for api.CreateRunInput so
// callers can write either runcontrol.CreateRunInput{...} or
// api.CreateRunInput{...} interchangeably.
type CreateRunInput = api.CreateRunInput

// CreateRun plans and, in apply mode, persists one team-run across
// every requested (or, if none given, every enabled) product, in the
// fixed order Incidents → Incidents-Standby → Waakdienst. It honors the
// configured run timeout and never applies a partial plan: a failure at
// any stage before SaveRun aborts with nothing written.
func (c *Controller) CreateRun(ctx context.Context, in CreateRunInput) (summary api.RunSummary, run domain.OrchestrationRun, err error) {
	if in.HorizonEnd.Before(in.HorizonStart) {
		return api.RunSummary{}, domain.OrchestrationRun{}, fmt.Errorf("%w", domain.ErrInvalidHorizon)
	}

	started := time.Now()
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		c.metrics.ObserveRun(in.Mode, outcome, time.Since(started))
	}()

	ctx, cancel := context.WithTimeout(ctx, c.runTimeout)
	defer cancel()

	run = domain.OrchestrationRun{
		ID:           domain.NewID(),
		TeamID:       in.TeamID,
		HorizonStart: in.HorizonStart,
		HorizonEnd:   in.HorizonEnd,
		Mode:         in.Mode,
		StartedTS:    time.Now().UTC(),
	}

	teamCtx, team, err := c.loadTeamContext(ctx, in.TeamID, domain.NewTimeWindow(in.HorizonStart, in.HorizonEnd))
	if err != nil {
		return api.RunSummary{}, domain.OrchestrationRun{}, shared.MarkKind(shared.Wrap(err, "load team context"), shared.KindNotFound)
	}

	plans, products, err := c.planAllProducts(teamCtx, in.HorizonStart, in.HorizonEnd, run.ID, in.Products)
	if err != nil {
		return api.RunSummary{}, domain.OrchestrationRun{}, shared.MarkKind(shared.Wrap(err, "plan products"), shared.KindInvariantViolated)
	}
	run.Products = products

	var allShifts []domain.Shift
	var allEvents []domain.OrchestrationConstraint
	for _, p := range plans {
		allShifts = append(allShifts, p.Shifts...)
		allEvents = append(allEvents, p.Events...)
	}
	run.ShiftsPlanned = allShifts
	run.ConstraintEvents = allEvents
	run.Totals = summarize(allShifts, allEvents)
	for _, e := range allEvents {
		c.metrics.ObserveConstraintEvent(e.Kind, e.Severity)
	}

	completedTS := time.Now().UTC()
	run.CompletedTS = &completedTS

	if in.Mode == domain.RunModePreview {
		c.log.InfoContext(ctx, "run previewed", "run_id", run.ID, "team_id", team.ID, "shifts", len(allShifts))
		return toSummary(run), run, nil
	}

	err = c.store.WithTeamLock(ctx, in.TeamID, func(ctx context.Context) error {
		shiftIDRemap := make(map[domain.ShiftID]domain.ShiftID, len(allShifts))
		for product, shifts := range groupByProduct(allShifts) {
			result, err := c.store.Apply(ctx, in.TeamID, shifts)
			if err != nil {
				return err
			}
			run.Totals.ShiftsApplied += result.Inserted
			run.Totals.Superseded += result.Superseded
			c.metrics.ObserveShiftsApplied(product, "inserted", result.Inserted)
			c.metrics.ObserveShiftsApplied(product, "superseded", result.Superseded)
			for plannedID, persistedID := range result.PersistedIDs {
				shiftIDRemap[plannedID] = persistedID
			}
		}

		// A kept shift's constraint events still carry this run's
		// freshly minted ShiftRef; rewrite them to the row Apply
		// actually found in storage so the foreign key on an
		// identical re-apply points at a row that exists.
		for i, ev := range run.ConstraintEvents {
			if ev.ShiftRef == nil {
				continue
			}
			if persisted, ok := shiftIDRemap[*ev.ShiftRef]; ok {
				run.ConstraintEvents[i].ShiftRef = &persisted
			}
		}

		return c.store.SaveRun(ctx, run)
	})
	if err != nil {
		return api.RunSummary{}, domain.OrchestrationRun{}, shared.MarkKind(shared.Wrap(err, "apply run"), shared.KindDependencyFailure)
	}

	c.log.InfoContext(ctx, "run applied", "run_id", run.ID, "team_id", team.ID,
		"applied", run.Totals.ShiftsApplied, "superseded", run.Totals.Superseded, "violations", run.Totals.ViolationCount)

	if err := c.publisher.PublishRunCompleted(ctx, run); err != nil {
		c.log.WarnContext(ctx, "run.completed publish failed", "run_id", run.ID, "error", err)
	}

	return toSummary(run), run, nil
}

func toSummary(run domain.OrchestrationRun) api.RunSummary {
	return api.RunSummary{
		RunID:          run.ID,
		Mode:           run.Mode,
		ShiftsPlanned:  run.Totals.ShiftsPlanned,
		ShiftsApplied:  run.Totals.ShiftsApplied,
		Superseded:     run.Totals.Superseded,
		Unassigned:     run.Totals.Unassigned,
		ViolationCount: run.Totals.ViolationCount,
	}
}

// planAllProducts runs the selector for each requested-and-enabled
// product in fixed order, then the three reassignment passes (§4.5),
// returning each product's final plan alongside the list of products
// actually planned. requested, if non-empty, restricts planning to that
// subset; an empty requested list means every product the team enables.
func (c *Controller) planAllProducts(teamCtx orchestrator.TeamContext, start, end time.Time, runID domain.RunID, requested []domain.Product) (map[domain.Product]orchestrator.Plan, []domain.Product, error) {
	halfLives := make(map[domain.Product]float64, len(c.rotation))
	for p, r := range c.rotation {
		halfLives[p] = r.HalfLifeWeeks
	}
	ledger := fairness.NewLedger(halfLives, nil, teamCtx.Historical)

	wanted := map[domain.Product]bool{}
	for _, p := range requested {
		wanted[p] = true
	}

	plans := map[domain.Product]orchestrator.Plan{}
	var products []domain.Product
	var cumulative []domain.Shift

	for _, product := range domain.Products {
		if !teamCtx.Team.ProductEnabled(product) {
			continue
		}
		if len(wanted) > 0 && !wanted[product] {
			continue
		}
		plan, err := orchestrator.PlanProduct(teamCtx, product, start, end, runID, ledger, cumulative)
		if err != nil {
			return nil, nil, fmt.Errorf("plan %s: %w", product, err)
		}
		plans[product] = plan
		products = append(products, product)
		cumulative = append(cumulative, plan.Shifts...)
	}

	for _, product := range products {
		if !product.IsBusinessHours() {
			continue
		}
		plan := plans[product]
		resolved, err := reassign.ResolveBusinessHours(teamCtx, product, start, end, plan, allPlanned(plans), runID, ledger)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve business hours for %s: %w", product, err)
		}
		plans[product] = resolved
	}

	if plan, ok := plans[domain.ProductWaakdienst]; ok {
		resolved, err := reassign.ResolveWaakdienst(teamCtx, start, end, plan, allPlanned(plans), runID, ledger)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve waakdienst: %w", err)
		}
		plans[domain.ProductWaakdienst] = resolved
	}

	incidentsPlan, hasIncidents := plans[domain.ProductIncidents]
	standbyPlan, hasStandby := plans[domain.ProductIncidentsStandby]
	if hasIncidents && hasStandby {
		resolved, err := reassign.ResolveCrossProductDoubleAssignment(teamCtx, incidentsPlan, standbyPlan, allPlanned(plans), runID, ledger)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve cross-product double assignment: %w", err)
		}
		plans[domain.ProductIncidentsStandby] = resolved
	}

	return plans, products, nil
}

func allPlanned(plans map[domain.Product]orchestrator.Plan) []domain.Shift {
	var out []domain.Shift
	for _, p := range plans {
		out = append(out, p.Shifts...)
	}
	return out
}

func groupByProduct(shifts []domain.Shift) map[domain.Product][]domain.Shift {
	out := map[domain.Product][]domain.Shift{}
	for _, s := range shifts {
		out[s.Product] = append(out[s.Product], s)
	}
	return out
}

func summarize(shifts []domain.Shift, events []domain.OrchestrationConstraint) domain.RunTotals {
	totals := domain.RunTotals{ShiftsPlanned: len(shifts)}
	for _, s := range shifts {
		if s.Assignee == nil {
			totals.Unassigned++
		}
	}
	for _, e := range events {
		if e.Severity == domain.SeverityViolation {
			totals.ViolationCount++
		}
	}
	return totals
}
