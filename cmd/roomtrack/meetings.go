package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMeetingsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meetings",
		Short: "List past instances of the tracked Zoom meeting",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			client := ctx.zoomClient()
			if client == nil {
				return fmt.Errorf("zoom api not configured (ZOOM_CLIENT_ID, ZOOM_MEETING_ID)")
			}

			meetings, err := client.MeetingInstances(cmd.Context())
			if err != nil {
				return fmt.Errorf("list meeting instances: %w", err)
			}
			if len(meetings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No past meeting instances found")
				return nil
			}

			rows := make([][]string, 0, len(meetings))
			for _, m := range meetings {
				rows = append(rows, []string{
					m.StartTime.In(ctx.loc).Format("2006-01-02 15:04:05"),
					m.UUID,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Started", "UUID"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
	return cmd
}
