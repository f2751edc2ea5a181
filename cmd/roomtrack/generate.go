package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/roomtrack/backend/internal/report"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the daily breakout-room report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			if date == "" {
				date = ctx.defaultDate()
			}
			if _, err := time.ParseInLocation("2006-01-02", date, ctx.loc); err != nil {
				return fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
			}

			pool, err := ctx.openPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			engine := ctx.newEngine(pool)
			result, err := engine.Generate(cmd.Context(), date)
			if err != nil {
				if report.NothingToReport(err) {
					return fmt.Errorf("no report for %s: %v", date, err)
				}
				return fmt.Errorf("generate report: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Report for %s\n", result.Date)
			fmt.Fprintf(out, "  events accepted: %d, rejected: %d\n", result.Stats.Accepted, result.Stats.Rejected)
			fmt.Fprintf(out, "  detail: %s\n", result.DetailPath)
			fmt.Fprintf(out, "  rooms:  %s\n", result.RoomsPath)

			rows := make([][]string, 0, len(result.RoomRows))
			for _, r := range result.RoomRows {
				rows = append(rows, []string{
					r.RoomName,
					strconv.Itoa(r.TotalParticipants),
					strconv.Itoa(r.TotalJoins),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Room", "Participants", "Joins"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Report date (YYYY-MM-DD, default yesterday)")
	return cmd
}
