package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roomtrack/backend/internal/ingest"
	"github.com/roomtrack/backend/internal/models"
	"github.com/roomtrack/backend/internal/rooms"
)

func newRoomsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Inspect and name breakout rooms",
	}
	cmd.AddCommand(newRoomsListCommand(ctx))
	cmd.AddCommand(newRoomsSetupCommand(ctx))
	return cmd
}

func newRoomsListCommand(ctx *commandContext) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rooms observed on a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			roomIDs, roomMap, mapping, err := loadRooms(ctx, cmd, &date)
			if err != nil {
				return err
			}
			if len(roomIDs) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No rooms observed on %s\n", date)
				return nil
			}

			rows := make([][]string, 0, len(roomIDs))
			for i, id := range roomIDs {
				name, ok := mapping.DisplayName(id)
				if !ok {
					name = rooms.PositionalName(i + 1)
				}
				room := roomMap[id]
				rows = append(rows, []string{
					name,
					id,
					strconv.Itoa(len(room.Participants)),
					strconv.Itoa(room.EntryCount),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Room", "UUID", "Participants", "Joins"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to inspect (YYYY-MM-DD, default yesterday)")
	return cmd
}

func newRoomsSetupCommand(ctx *commandContext) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Interactively assign display names to observed rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			roomIDs, roomMap, mapping, err := loadRooms(ctx, cmd, &date)
			if err != nil {
				return err
			}
			if len(roomIDs) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No rooms observed on %s\n", date)
				return nil
			}

			out := cmd.OutOrStdout()
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for i, id := range roomIDs {
				current, ok := mapping.DisplayName(id)
				if !ok {
					current = rooms.PositionalName(i + 1)
				}
				room := roomMap[id]
				fmt.Fprintf(out, "Room %s (%d participants, %d joins)\n", id, len(room.Participants), room.EntryCount)
				fmt.Fprintf(out, "  name [%s]: ", current)
				if !scanner.Scan() {
					break
				}
				name := strings.TrimSpace(scanner.Text())
				if name != "" {
					mapping.Set(id, name)
				}
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			if err := mapping.Save(); err != nil {
				return fmt.Errorf("save mapping: %w", err)
			}
			fmt.Fprintf(out, "Saved %d room names to %s\n", mapping.Len(), ctx.cfg.Report.MappingFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day whose rooms to name (YYYY-MM-DD, default yesterday)")
	return cmd
}

// loadRooms aggregates a day's events into rooms. IDs come back in first-seen
// order so positional fallback names are stable.
func loadRooms(ctx *commandContext, cmd *cobra.Command, date *string) ([]string, map[string]*models.Room, *rooms.Mapping, error) {
	if _, err := ctx.ensureConfig(); err != nil {
		return nil, nil, nil, err
	}
	if *date == "" {
		*date = ctx.defaultDate()
	}

	pool, err := ctx.openPool(cmd.Context())
	if err != nil {
		return nil, nil, nil, err
	}
	defer pool.Close()

	records, err := ctx.eventRepo(pool).EventsForDay(cmd.Context(), *date)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load events: %w", err)
	}
	events, _ := ingest.Normalize(records)
	roomMap := rooms.Aggregate(events)

	seen := make(map[string]bool, len(roomMap))
	ids := make([]string, 0, len(roomMap))
	for _, ev := range events {
		if !seen[ev.RoomID] {
			seen[ev.RoomID] = true
			ids = append(ids, ev.RoomID)
		}
	}
	return ids, roomMap, ctx.mapping(), nil
}
