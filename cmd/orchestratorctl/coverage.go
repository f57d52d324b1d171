package main

import (
	"context"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/oncallsvc/orchestrator/internal/domain"
	"github.com/oncallsvc/orchestrator/internal/orchestrator/api"
)

func newCoverageCmd() *cobra.Command {
	var (
		teamFlag    string
		startFlag   string
		endFlag     string
		productFlag string
	)

	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Show who covers each planning-unit window for a team",
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

			var product *domain.Product
			if productFlag != "" {
				p, err := domain.ParseProduct(productFlag)
				if err != nil {
					return err
				}
				product = &p
			}

			intervals, err := a.svc.Coverage(ctx, teamID, start, end, product)
			if err != nil {
				return err
			}

			renderCoverage(intervals)
			return nil
		}),
	}

	cmd.Flags().StringVar(&teamFlag, "team", "", "team ID (required)")
	cmd.Flags().StringVar(&startFlag, "start", "", "window start date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&endFlag, "end", "", "window end date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&productFlag, "product", "", "restrict to one product (default: every product)")
	cmd.MarkFlagRequired("team")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")

	return cmd
}

func renderCoverage(intervals []api.CoverageInterval) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Product", "Start", "End", "Assignee", "Status", "Gap", "Leave"})
	table.SetBorder(false)

	for _, c := range intervals {
		row := []string{
			string(c.Product),
			c.Window.Start.Format(dateLayout),
			c.Window.End.Format(dateLayout),
			assigneeLabel(c.Assignee),
			string(c.Status),
			boolLabel(c.HasGap),
			assigneeLabel(c.HasLeaveOn),
		}
		if c.HasGap {
			table.Rich(row, []tablewriter.Colors{
				{}, {}, {}, {},
				{tablewriter.FgYellowColor},
				{tablewriter.FgRedColor, tablewriter.Bold},
				{},
			})
			continue
		}
		table.Append(row)
	}

	table.Render()
}

func assigneeLabel(id *domain.EmployeeID) string {
	if id == nil {
		return "-"
	}
	return id.String()
}

func boolLabel(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
