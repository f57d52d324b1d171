package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newExtendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extend",
		Short: "Roll every auto-scheduled team's horizon forward (run from cron)",
		Long: `Sweeps every auto-scheduled team and applies one run per team
whose applied horizon has fallen behind the configured default. Intended
to be invoked nightly from cron; exits non-zero only on an
infrastructural failure, never because a team's plan has constraint
violations.`,
		RunE: withApp(func(ctx context.Context, a *app) error {
			if err := a.extend.ExtendAll(ctx); err != nil {
				return err
			}
			successColor.Println("rolling extension swept all auto-scheduled teams")
			return nil
		}),
	}
}
