package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// WaitStrategy is the backoff shape used between connectivity retries.
type WaitStrategy int

const (
	// LinearWait increases the interval by a fixed step each attempt.
	LinearWait WaitStrategy = iota
	// ExponentialWait doubles the interval each attempt.
	ExponentialWait
)

// HealthCheckOptions configures WaitForDB.
type HealthCheckOptions struct {
	// MaxRetries is the attempt cap (0 = unlimited, bounded only by ctx).
	MaxRetries int
	// InitialInterval is the delay before the second attempt.
	InitialInterval time.Duration
	// MaxInterval caps the delay between attempts.
	MaxInterval time.Duration
	// Strategy selects how the interval grows between attempts.
	Strategy WaitStrategy
	// PingTimeout bounds each individual ping attempt.
	PingTimeout time.Duration
}

// DefaultHealthCheckOptions returns sensible defaults for startup connectivity checks.
func DefaultHealthCheckOptions() HealthCheckOptions {
	return HealthCheckOptions{
		MaxRetries:      10,
		InitialInterval: 1 * time.Second,
		MaxInterval:     30 * time.Second,
		Strategy:        ExponentialWait,
		PingTimeout:     5 * time.Second,
	}
}

// WaitForDB blocks until the database is reachable or the retry/ctx budget
// is exhausted.
func WaitForDB(ctx context.Context, dsn string, opts HealthCheckOptions) error {
	attempt := 0
	interval := opts.InitialInterval

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled while waiting for database: %w", ctx.Err())
		default:
		}

		attempt++

		err := pingDatabase(ctx, dsn, opts.PingTimeout)
		if err == nil {
			return nil
		}

		if opts.MaxRetries > 0 && attempt >= opts.MaxRetries {
			return fmt.Errorf("database not available after %d attempts: %w", attempt, err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled after %d attempts: %w", attempt, ctx.Err())
		case <-time.After(interval):
		}

		interval = calculateNextInterval(interval, opts)
	}
}

// WaitForDBSimple waits for the database with default exponential backoff,
// bounded by timeout.
func WaitForDBSimple(ctx context.Context, dsn string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := DefaultHealthCheckOptions()
	opts.MaxRetries = 0

	return WaitForDB(ctx, dsn, opts)
}

// HealthCheck performs a single connectivity check.
func HealthCheck(ctx context.Context, dsn string) error {
	return pingDatabase(ctx, dsn, 5*time.Second)
}

// HealthCheckPool checks an existing pool, including a round-trip query.
func HealthCheckPool(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return fmt.Errorf("pool is nil")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("pool ping failed: %w", err)
	}

	var result int
	err := pool.QueryRow(ctx, "SELECT 1").Scan(&result)
	if err != nil {
		return fmt.Errorf("simple query failed: %w", err)
	}

	if result != 1 {
		return fmt.Errorf("unexpected query result: got %d, want 1", result)
	}

	return nil
}

// pingDatabase opens a short-lived pool just to verify connectivity.
func pingDatabase(ctx context.Context, dsn string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	return nil
}

// calculateNextInterval grows currentInterval according to opts.Strategy, capped at opts.MaxInterval.
func calculateNextInterval(currentInterval time.Duration, opts HealthCheckOptions) time.Duration {
	switch opts.Strategy {
	case LinearWait:
		next := currentInterval + opts.InitialInterval
		if next > opts.MaxInterval {
			return opts.MaxInterval
		}
		return next

	case ExponentialWait:
		next := currentInterval * 2
		if next > opts.MaxInterval {
			return opts.MaxInterval
		}
		return next

	default:
		return opts.InitialInterval
	}
}

// DBStats summarizes a connection pool's utilization.
type DBStats struct {
	MaxConns        int32
	OpenConns       int32
	InUse           int32
	Idle            int32
	WaitCount       int64
	WaitDuration    time.Duration
	MaxIdleDestroys int64
	MaxLifeCloses   int64
}

// GetPoolStats reads current utilization stats off the pool.
func GetPoolStats(pool *pgxpool.Pool) DBStats {
	if pool == nil {
		return DBStats{}
	}

	stats := pool.Stat()

	return DBStats{
		MaxConns:        stats.MaxConns(),
		OpenConns:       stats.TotalConns(),
		InUse:           stats.AcquiredConns(),
		Idle:            stats.IdleConns(),
		WaitCount:       stats.EmptyAcquireCount(),
		WaitDuration:    stats.AcquireDuration(),
		MaxIdleDestroys: stats.CanceledAcquireCount(),
		MaxLifeCloses:   int64(stats.ConstructingConns()),
	}
}

// IsHealthy reports whether stats indicate a pool with headroom left.
func IsHealthy(stats DBStats) bool {
	if stats.MaxConns == 0 {
		return false
	}
	if stats.OpenConns == 0 {
		return false
	}

	utilizationPercent := float64(stats.InUse) / float64(stats.MaxConns) * 100
	if utilizationPercent > 90 {
		return false
	}

	return true
}
