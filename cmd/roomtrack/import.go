package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roomtrack/backend/internal/ingest"
	"github.com/roomtrack/backend/internal/models"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <logfile>",
		Short: "Import a legacy webhook log file into the event store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open log: %w", err)
			}
			defer f.Close()

			records, err := ingest.ReadLegacyLog(f)
			if err != nil {
				return fmt.Errorf("parse log: %w", err)
			}

			pool, err := ctx.openPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()
			repo := ctx.eventRepo(pool)

			inserted, skipped := 0, 0
			for _, rec := range records {
				payload, err := json.Marshal(rec)
				if err != nil {
					skipped++
					continue
				}
				fields := ingest.Fields(rec)
				ev := &models.WebhookEvent{
					Event:            fields.Event,
					RoomUUID:         fields.RoomUUID,
					ParticipantName:  fields.Name,
					ParticipantEmail: fields.Email,
					EventTs:          fields.EventTs,
					Payload:          payload,
				}
				if err := repo.Insert(cmd.Context(), ev); err != nil {
					return fmt.Errorf("insert event: %w", err)
				}
				inserted++
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d events (%d skipped) from %s\n", inserted, skipped, args[0])
			return nil
		},
	}
	return cmd
}
