package cli

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"storefront/internal/events"
)

func newEventsCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Activity events",
	}

	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print activity events as they are published, one JSON object per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.broker == nil {
				return errors.New("activity events are not available; set events.rabbitmq_url")
			}
			enc := json.NewEncoder(a.out)
			return a.broker.ConsumeEvents(cmd.Context(), func(e events.Event) error {
				return enc.Encode(e)
			})
		},
	}

	cmd.AddCommand(tail)
	return cmd
}
