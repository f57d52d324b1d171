package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolOptions configures a PostgreSQL connection pool.
type PoolOptions struct {
	// MaxConns is the maximum number of pooled connections.
	MaxConns int32
	// MinConns is the minimum number of pooled connections.
	MinConns int32
	// HealthCheckPeriod is the interval between connection health checks.
	HealthCheckPeriod time.Duration
	// MaxConnLifetime is the maximum lifetime of a connection.
	MaxConnLifetime time.Duration
	// MaxConnIdleTime is the maximum idle time before a connection is closed.
	MaxConnIdleTime time.Duration
	// PingTimeout bounds the initial connectivity check when the pool is created.
	PingTimeout time.Duration
}

// DefaultPoolOptions returns pool settings sized for one orchestrator
// process: each team-run holds a short write transaction while reads
// (roster, leave, prior shifts) fan out across the rest of the pool.
func DefaultPoolOptions() PoolOptions {
	return PoolOptions{
		MaxConns:          20,
		MinConns:          2,
		HealthCheckPeriod: 30 * time.Second,
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   10 * time.Minute,
		PingTimeout:       5 * time.Second,
	}
}

// NewPool creates a PostgreSQL connection pool with default options.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	return NewPoolWithOptions(ctx, dsn, DefaultPoolOptions())
}

// NewPoolWithOptions creates a PostgreSQL connection pool with explicit options.
func NewPoolWithOptions(ctx context.Context, dsn string, opts PoolOptions) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	cfg.MaxConns = opts.MaxConns
	cfg.MinConns = opts.MinConns
	cfg.HealthCheckPeriod = opts.HealthCheckPeriod
	cfg.MaxConnLifetime = opts.MaxConnLifetime
	cfg.MaxConnIdleTime = opts.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
