package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/oncallsvc/orchestrator/internal/domain"
)

func newEnableAutoCmd() *cobra.Command {
	var teamFlag string
	cmd := &cobra.Command{
		Use:   "enable-auto",
		Short: "Enable nightly rolling extension for a team",
		RunE: withApp(func(ctx context.Context, a *app) error {
			teamID, err := parseTeamID(teamFlag)
			if err != nil {
				return err
			}
			if err := a.svc.EnableAuto(ctx, teamID); err != nil {
				return err
			}
			successColor.Printf("auto-scheduling enabled for team %s\n", teamID)
			return nil
		}),
	}
	cmd.Flags().StringVar(&teamFlag, "team", "", "team ID (required)")
	cmd.MarkFlagRequired("team")
	return cmd
}

func newDisableAutoCmd() *cobra.Command {
	var teamFlag string
	cmd := &cobra.Command{
		Use:   "disable-auto",
		Short: "Disable nightly rolling extension for a team",
		RunE: withApp(func(ctx context.Context, a *app) error {
			teamID, err := parseTeamID(teamFlag)
			if err != nil {
				return err
			}
			if err := a.svc.DisableAuto(ctx, teamID); err != nil {
				return err
			}
			successColor.Printf("auto-scheduling disabled for team %s\n", teamID)
			return nil
		}),
	}
	cmd.Flags().StringVar(&teamFlag, "team", "", "team ID (required)")
	cmd.MarkFlagRequired("team")
	return cmd
}

func newToggleProductCmd() *cobra.Command {
	var (
		teamFlag    string
		productFlag string
		enabled     bool
	)
	cmd := &cobra.Command{
		Use:   "toggle-product",
		Short: "Enable or disable one product for a team",
		Example: `  orchestratorctl toggle-product --team 3f2e... --product incidents_standby --enabled=true
  orchestratorctl toggle-product --team 3f2e... --product waakdienst --enabled=false`,
		RunE: withApp(func(ctx context.Context, a *app) error {
			teamID, err := parseTeamID(teamFlag)
			if err != nil {
				return err
			}
			product, err := domain.ParseProduct(productFlag)
			if err != nil {
				return err
			}
			if err := a.svc.ToggleProduct(ctx, teamID, product, enabled); err != nil {
				return err
			}
			successColor.Printf("team %s: %s %s\n", teamID, product, enabledLabel(enabled))
			return nil
		}),
	}
	cmd.Flags().StringVar(&teamFlag, "team", "", "team ID (required)")
	cmd.Flags().StringVar(&productFlag, "product", "", "product to toggle (required)")
	cmd.Flags().BoolVar(&enabled, "enabled", true, "enable (true) or disable (false) the product")
	cmd.MarkFlagRequired("team")
	cmd.MarkFlagRequired("product")
	return cmd
}

func enabledLabel(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
