package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// JobFunc is a unit of scheduled work.
type JobFunc func(ctx context.Context) error

// CronJobID identifies a cron-scheduled job.
type CronJobID = cron.EntryID

// TickerJobID identifies a fixed-interval job.
type TickerJobID int

// OverlapPolicy controls what happens when a job is still running at its next tick.
type OverlapPolicy int

const (
	// AllowOverlap lets ticks run concurrently (default).
	AllowOverlap OverlapPolicy = iota
	// SkipIfRunning drops a tick if the previous run has not finished.
	SkipIfRunning
	// DelayIfRunning blocks a tick until the previous run finishes.
	DelayIfRunning
)

// JobOptions configures a scheduled job.
type JobOptions struct {
	// Name identifies the job in logs (optional).
	Name string
	// Timeout bounds a single run (optional, no bound if zero).
	Timeout time.Duration
	// OverlapPolicy controls concurrent-run behavior.
	OverlapPolicy OverlapPolicy
}

// jobWrapper pairs a job with its options and its own overlap lock.
type jobWrapper struct {
	job     JobFunc
	options JobOptions
	running sync.Mutex
}

// tickerJob tracks a running interval job.
type tickerJob struct {
	id      TickerJobID
	ticker  *time.Ticker
	cancel  context.CancelFunc
	wrapper *jobWrapper
}

// cronLogger adapts cron's logger interface to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	attrs := make([]slog.Attr, 0, len(keysAndValues)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			key := keysAndValues[i].(string)
			value := keysAndValues[i+1]
			attrs = append(attrs, slog.Any(key, value))
		}
	}
	l.logger.LogAttrs(context.Background(), slog.LevelInfo, msg, attrs...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	attrs := make([]slog.Attr, 0, len(keysAndValues)/2+1)
	attrs = append(attrs, slog.Any("error", err))
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			key := keysAndValues[i].(string)
			value := keysAndValues[i+1]
			attrs = append(attrs, slog.Any(key, value))
		}
	}
	l.logger.LogAttrs(context.Background(), slog.LevelError, msg, attrs...)
}

// Scheduler runs cron and interval jobs. The run controller (internal/runcontrol)
// uses one Scheduler per process to drive the nightly rolling extender per team.
type Scheduler struct {
	cron         *cron.Cron
	logger       *slog.Logger
	hooks        JobHooks
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	tickerJobs   map[TickerJobID]*tickerJob
	nextTickerID TickerJobID
	mu           sync.Mutex
	stopOnce     sync.Once
	startOnce    sync.Once
}

// JobHooks are optional observability callbacks.
type JobHooks struct {
	OnJobStart  func(jobName string)
	OnJobFinish func(jobName string, duration time.Duration, err error)
	OnJobError  func(jobName string, err error)
}

// Config configures a Scheduler.
type Config struct {
	Logger   *slog.Logger
	JobHooks JobHooks
}

// New creates a Scheduler bound to a background context.
func New(cfg Config) *Scheduler {
	return NewWithContext(context.Background(), cfg)
}

// NewWithContext creates a Scheduler bound to the given parent context.
func NewWithContext(parentCtx context.Context, cfg Config) *Scheduler {
	ctx, cancel := context.WithCancel(parentCtx)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cronOpts := []cron.Option{
		cron.WithSeconds(),
		cron.WithLogger(cronLogger{logger: logger.With("component", "cron")}),
	}

	return &Scheduler{
		cron:         cron.New(cronOpts...),
		logger:       logger,
		hooks:        cfg.JobHooks,
		ctx:          ctx,
		cancel:       cancel,
		tickerJobs:   make(map[TickerJobID]*tickerJob),
		nextTickerID: 1,
	}
}

// AddCronJob schedules job on a cron expression with default options.
// Examples: "0 30 * * * *" (at minute 30 of every hour), "@hourly", "@every 5m".
func (s *Scheduler) AddCronJob(schedule string, job JobFunc) (CronJobID, error) {
	return s.AddCronJobWithOptions(schedule, job, JobOptions{})
}

// AddCronJobWithOptions schedules job on a cron expression with explicit options.
func (s *Scheduler) AddCronJobWithOptions(schedule string, job JobFunc, opts JobOptions) (CronJobID, error) {
	wrapper := &jobWrapper{
		job:     job,
		options: opts,
	}

	var chain cron.Chain
	switch opts.OverlapPolicy {
	case SkipIfRunning:
		chain = cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger))
	case DelayIfRunning:
		chain = cron.NewChain(cron.DelayIfStillRunning(cron.DefaultLogger))
	default: // AllowOverlap
		chain = cron.NewChain()
	}

	id, err := s.cron.AddJob(schedule, chain.Then(cron.FuncJob(func() {
		s.runJobWrapper(wrapper)
	})))
	if err != nil {
		s.logger.Error("failed to add cron job", "schedule", schedule, "name", opts.Name, "error", err)
		return 0, err
	}

	s.logger.Info("cron job added", "schedule", schedule, "name", opts.Name, "overlap_policy", opts.OverlapPolicy, "id", id)
	return id, nil
}

// AddTickerJob schedules job on a fixed interval with default options.
func (s *Scheduler) AddTickerJob(interval time.Duration, job JobFunc) TickerJobID {
	return s.AddTickerJobWithOptions(interval, job, JobOptions{})
}

// AddTickerJobWithOptions schedules job on a fixed interval with explicit options.
func (s *Scheduler) AddTickerJobWithOptions(interval time.Duration, job JobFunc, opts JobOptions) TickerJobID {
	wrapper := &jobWrapper{
		job:     job,
		options: opts,
	}

	s.mu.Lock()
	id := s.nextTickerID
	s.nextTickerID++

	ticker := time.NewTicker(interval)
	ctx, cancel := context.WithCancel(s.ctx)

	tickerJob := &tickerJob{
		id:      id,
		ticker:  ticker,
		cancel:  cancel,
		wrapper: wrapper,
	}

	s.tickerJobs[id] = tickerJob
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer ticker.Stop()
		defer cancel()

		for {
			select {
			case <-ticker.C:
				s.runJobWrapper(wrapper)
			case <-ctx.Done():
				s.logger.Debug("ticker job stopped due to context cancellation", "name", opts.Name, "id", id)
				return
			}
		}
	}()

	s.logger.Info("ticker job added", "interval", interval, "name", opts.Name, "overlap_policy", opts.OverlapPolicy, "id", id)
	return id
}

// RemoveCronJob removes a cron job by ID.
func (s *Scheduler) RemoveCronJob(id CronJobID) {
	s.cron.Remove(id)
	s.logger.Info("cron job removed", "id", id)
}

// RemoveTickerJob removes a ticker job by ID. Returns false if the ID is unknown.
func (s *Scheduler) RemoveTickerJob(id TickerJobID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.tickerJobs[id]
	if !exists {
		return false
	}

	job.cancel()
	delete(s.tickerJobs, id)

	s.logger.Info("ticker job removed", "id", id, "name", job.wrapper.options.Name)
	return true
}

// Start starts the scheduler. Idempotent.
func (s *Scheduler) Start() {
	s.startOnce.Do(func() {
		s.logger.Info("starting scheduler")
		s.cron.Start()

		go func() {
			<-s.ctx.Done()
			s.logger.Info("stopping scheduler due to context cancellation")
			s.stopOnce.Do(s.stop)
		}()
	})
}

// Stop stops the scheduler and waits for all jobs to finish. Idempotent.
func (s *Scheduler) Stop() {
	if !s.IsRunning() {
		return
	}
	s.logger.Info("stopping scheduler")
	s.cancel()
	s.stopOnce.Do(s.stop)
}

// StopContext stops the scheduler, bounding the wait by ctx's deadline.
// Shutdown always completes; if ctx expires first, StopContext returns its
// error but still waits for jobs to actually finish before returning.
func (s *Scheduler) StopContext(ctx context.Context) error {
	if !s.IsRunning() {
		return nil
	}

	s.logger.Info("stopping scheduler with deadline")
	s.cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.stopOnce.Do(s.stop)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped gracefully within deadline")
		return nil
	case <-ctx.Done():
		s.logger.Warn("scheduler stop deadline exceeded, but shutdown will complete")
		<-done
		return ctx.Err()
	}
}

// stop performs the actual shutdown.
func (s *Scheduler) stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.mu.Lock()
	for _, job := range s.tickerJobs {
		job.cancel()
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

// runJobWrapper runs a job honoring its overlap policy, timeout, and hooks.
func (s *Scheduler) runJobWrapper(wrapper *jobWrapper) {
	jobName := wrapper.options.Name
	if jobName == "" {
		jobName = "unnamed"
	}

	if wrapper.options.OverlapPolicy != AllowOverlap {
		if wrapper.options.OverlapPolicy == SkipIfRunning {
			if !wrapper.running.TryLock() {
				s.logger.Debug("skipping job execution, already running", "name", jobName)
				return
			}
			defer wrapper.running.Unlock()
		} else if wrapper.options.OverlapPolicy == DelayIfRunning {
			wrapper.running.Lock()
			defer wrapper.running.Unlock()
		}
	}

	if s.hooks.OnJobStart != nil {
		s.hooks.OnJobStart(jobName)
	}

	defer func() {
		if r := recover(); r != nil {
			panicErr := fmt.Errorf("panic: %v", r)
			s.logger.Error("job panicked", "name", jobName, "panic", r)
			if s.hooks.OnJobError != nil {
				s.hooks.OnJobError(jobName, panicErr)
			}
		}
	}()

	ctx := s.ctx
	var cancel context.CancelFunc
	if wrapper.options.Timeout > 0 {
		ctx, cancel = context.WithTimeout(s.ctx, wrapper.options.Timeout)
		defer cancel()
	}

	start := time.Now()
	err := wrapper.job(ctx)
	duration := time.Since(start)

	if s.hooks.OnJobFinish != nil {
		s.hooks.OnJobFinish(jobName, duration, err)
	}

	if err != nil {
		s.logger.Error("job failed", "name", jobName, "error", err, "duration", duration)
		if s.hooks.OnJobError != nil {
			s.hooks.OnJobError(jobName, err)
		}
	} else {
		s.logger.Debug("job completed successfully", "name", jobName, "duration", duration)
	}
}

// IsRunning reports whether the scheduler has not been stopped (its
// context is not cancelled). It is true from construction onward,
// whether or not Start has been called.
func (s *Scheduler) IsRunning() bool {
	select {
	case <-s.ctx.Done():
		return false
	default:
		return true
	}
}
