package pg

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oncallsvc/orchestrator/internal/domain"
)

func (r *Repo) SetAutoScheduling(ctx context.Context, teamID domain.TeamID, enabled bool) error {
	tag, err := r.GetQuerier(ctx).Exec(ctx, `UPDATE teams SET auto_scheduling_enabled = $1 WHERE id = $2`, enabled, teamID)
	if err != nil {
		return fmt.Errorf("set auto_scheduling_enabled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrUnknownTeam, teamID)
	}
	return nil
}

// SetProductEnabled reads the team's current enabled_products jsonb,
// flips the one key, and writes it back. A team row is never read and
// written concurrently outside the team scheduling lock in practice
// (toggle_product is an infrequent admin action), so this does not take
// a row lock of its own.
func (r *Repo) SetProductEnabled(ctx context.Context, teamID domain.TeamID, product domain.Product, enabled bool) error {
	q := r.GetQuerier(ctx)

	var raw []byte
	if err := q.QueryRow(ctx, `SELECT enabled_products FROM teams WHERE id = $1`, teamID).Scan(&raw); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnknownTeam, err)
	}

	var enabledProducts map[domain.Product]bool
	if err := unmarshalProductBools(raw, &enabledProducts); err != nil {
		return fmt.Errorf("decode enabled_products: %w", err)
	}
	enabledProducts[product] = enabled

	encoded, err := json.Marshal(enabledProducts)
	if err != nil {
		return fmt.Errorf("encode enabled_products: %w", err)
	}

	if _, err := q.Exec(ctx, `UPDATE teams SET enabled_products = $1 WHERE id = $2`, encoded, teamID); err != nil {
		return fmt.Errorf("set enabled_products: %w", err)
	}
	return nil
}
