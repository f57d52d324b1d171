package pg

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oncallsvc/orchestrator/internal/domain"
	platformpg "github.com/oncallsvc/orchestrator/internal/platform/pg"
	"github.com/oncallsvc/orchestrator/internal/store"
)

// Repo implements internal/store.Store against a PostgreSQL database.
// It embeds platformpg.TxRunner so repository methods can run inside or
// outside a transaction interchangeably via GetQuerier.
type Repo struct {
	*platformpg.TxRunner
	pool *pgxpool.Pool
	log  *slog.Logger
}

var _ store.Store = (*Repo)(nil)

// New builds a Repo over an already-open pool.
func New(pool *pgxpool.Pool, log *slog.Logger) *Repo {
	if log == nil {
		log = slog.Default()
	}
	return &Repo{
		TxRunner: platformpg.NewTxRunner(pool),
		pool:     pool,
		log:      log.With("component", "store.pg"),
	}
}

// WithTeamLock adapts the embedded TxRunner's string-keyed advisory
// lock to store.Locker's domain.TeamID signature.
func (r *Repo) WithTeamLock(ctx context.Context, teamID domain.TeamID, fn func(ctx context.Context) error) error {
	return r.TxRunner.WithTeamLock(ctx, teamID.String(), fn)
}
