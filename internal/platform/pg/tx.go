package pg

import (
	"context"
	"hash/fnv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// txKey is the context key under which an active transaction is stored.
type txKey struct{}

// Querier is the subset of methods shared by a pool and a transaction, so
// repositories can be written once and used inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ Querier = (*pgxpool.Pool)(nil)
	_ Querier = (pgx.Tx)(nil)
)

// TxRunner runs callbacks inside a transaction, committing on success and
// rolling back on error.
type TxRunner struct {
	Pool *pgxpool.Pool
}

// NewTxRunner creates a TxRunner over the given pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{Pool: pool}
}

// WithinTx runs fn inside a transaction with default options. The
// transaction is reachable inside fn via PgxTx(ctx).
func (r *TxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return pgx.BeginFunc(ctx, r.Pool, func(tx pgx.Tx) error {
		ctx = context.WithValue(ctx, txKey{}, tx)
		return fn(ctx)
	})
}

// WithinTxWithOptions runs fn inside a transaction with explicit options.
func (r *TxRunner) WithinTxWithOptions(ctx context.Context, txOptions pgx.TxOptions, fn func(ctx context.Context) error) error {
	return pgx.BeginTxFunc(ctx, r.Pool, txOptions, func(tx pgx.Tx) error {
		ctx = context.WithValue(ctx, txKey{}, tx)
		return fn(ctx)
	})
}

// PgxTx retrieves the active transaction from ctx, if any.
func PgxTx(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// GetQuerier returns the active transaction if one is present in ctx,
// otherwise the pool.
func (r *TxRunner) GetQuerier(ctx context.Context) Querier {
	if tx, ok := PgxTx(ctx); ok {
		return tx
	}
	return r.Pool
}

// teamLockKey hashes a team id to a 64-bit advisory lock key. Two team-runs for the same team always hash to the
// same key; different teams hash to (overwhelmingly likely) different keys.
func teamLockKey(teamID string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("orchestrator.team-lock:" + teamID))
	return int64(h.Sum64())
}

// WithTeamLock runs fn while holding the team's transaction-scoped advisory
// lock. The lock is released automatically when the transaction commits or
// rolls back. A second run for the same team blocks here until the first
// one's apply transaction finishes, preventing two concurrent extenders
// from producing colliding supersessions.
func (r *TxRunner) WithTeamLock(ctx context.Context, teamID string, fn func(ctx context.Context) error) error {
	return r.WithinTx(ctx, func(ctx context.Context) error {
		q := r.GetQuerier(ctx)
		if _, err := q.Exec(ctx, "select pg_advisory_xact_lock($1)", teamLockKey(teamID)); err != nil {
			return err
		}
		return fn(ctx)
	})
}
