package pg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oncallsvc/orchestrator/pkg/retry"
)

// transientPgCodes are the Postgres SQLSTATE codes spec §7 means by
// TransientStorage: connection-level failures and serialization
// conflicts that a retry at the next tick (or a retry-hint to a manual
// caller) can reasonably resolve.
var transientPgCodes = map[string]bool{
	"08000": true, // connection_exception
	"08006": true, // connection_failure
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
}

// IsRetryable extends retry.DefaultRetryable to recognize the
// Postgres error codes above, without coupling pkg/retry itself to a
// Postgres error type.
func IsRetryable(err error) bool {
	if retry.DefaultRetryable(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return transientPgCodes[pgErr.Code]
	}
	return false
}
