package main

import (
	"context"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/oncallsvc/orchestrator/internal/domain"
	"github.com/oncallsvc/orchestrator/internal/orchestrator/api"
)

func newAvailabilityCmd() *cobra.Command {
	var (
		teamFlag    string
		startFlag   string
		endFlag     string
		productFlag string
	)

	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Show per-employee availability for a team and product",
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
			product, err := domain.ParseProduct(productFlag)
			if err != nil {
				return err
			}

			entries, err := a.svc.Availability(ctx, teamID, start, end, product)
			if err != nil {
				return err
			}

			renderAvailability(entries)
			return nil
		}),
	}

	cmd.Flags().StringVar(&teamFlag, "team", "", "team ID (required)")
	cmd.Flags().StringVar(&startFlag, "start", "", "window start date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&endFlag, "end", "", "window end date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&productFlag, "product", "", "product to check availability for (required)")
	cmd.MarkFlagRequired("team")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	cmd.MarkFlagRequired("product")

	return cmd
}

func renderAvailability(entries []api.AvailabilityEntry) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Employee", "Available", "Approved Leave", "Pending Leave", "Recurring Leave", "Assigned Windows"})
	table.SetBorder(false)

	for _, e := range entries {
		row := []string{
			e.EmployeeID.String(),
			boolLabel(e.AvailableFlag),
			itoaLen(len(e.ApprovedLeave)),
			itoaLen(len(e.PendingLeave)),
			itoaLen(len(e.RecurringLeave)),
			itoaLen(len(e.AssignedWindows)),
		}
		if !e.AvailableFlag {
			table.Rich(row, []tablewriter.Colors{
				{}, {tablewriter.FgRedColor, tablewriter.Bold}, {}, {}, {}, {},
			})
			continue
		}
		table.Append(row)
	}

	table.Render()
}

func itoaLen(n int) string {
	if n == 0 {
		return "-"
	}
	return strconv.Itoa(n)
}
