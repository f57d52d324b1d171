package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oncallsvc/orchestrator/internal/domain"
	"github.com/oncallsvc/orchestrator/internal/orchestrator/api"
)

func newRunCmd() *cobra.Command {
	var (
		teamFlag     string
		startFlag    string
		endFlag      string
		productsFlag string
		apply        bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Create an orchestration run for a team",
		Example: `  orchestratorctl run --team 3f2e... --start 2026-09-01 --end 2026-12-01
  orchestratorctl run --team 3f2e... --start 2026-09-01 --end 2026-12-01 --products waakdienst --apply`,
		RunE: withApp(func(ctx context.Context, a *app) error {
			teamID, err := parseTeamID(teamFlag)
			if err != nil {
				return err
			}
			start, err := parseDate(startFlag)
			if err != nil {
				return err
			}
			end, err := parseDate(endFlag)
			if err != nil {
				return err
			}
			products, err := parseProducts(productsFlag)
			if err != nil {
				return err
			}

			mode := domain.RunModePreview
			if apply {
				mode = domain.RunModeApply
			}

			summary, _, err := a.svc.CreateRun(ctx, api.CreateRunInput{
				TeamID:       teamID,
				HorizonStart: start,
				HorizonEnd:   end,
				Products:     products,
				Mode:         mode,
			})
			if err != nil {
				return fmt.Errorf("create run: %w", err)
			}

			renderRunSummary(summary)
			return nil
		}),
	}

	cmd.Flags().StringVar(&teamFlag, "team", "", "team ID (required)")
	cmd.Flags().StringVar(&startFlag, "start", "", "horizon start date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&endFlag, "end", "", "horizon end date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&productsFlag, "products", "", "comma-separated product list (default: every product the team enables)")
	cmd.Flags().BoolVar(&apply, "apply", false, "persist the plan instead of previewing it")
	cmd.MarkFlagRequired("team")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")

	return cmd
}

func renderRunSummary(s api.RunSummary) {
	headerColor.Printf("run %s (%s)\n", s.RunID, s.Mode)
	fmt.Printf("  planned:    %d\n", s.ShiftsPlanned)
	fmt.Printf("  applied:    %d\n", s.ShiftsApplied)
	fmt.Printf("  superseded: %d\n", s.Superseded)
	if s.Unassigned > 0 {
		warnColor.Printf("  unassigned: %d\n", s.Unassigned)
	} else {
		fmt.Printf("  unassigned: %d\n", s.Unassigned)
	}
	if s.ViolationCount > 0 {
		warnColor.Printf("  violations: %d\n", s.ViolationCount)
	} else {
		successColor.Printf("  violations: %d\n", s.ViolationCount)
	}
}
