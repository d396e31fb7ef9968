package cli

import (
	"daybook-cli/internal/format"
	"daybook-cli/internal/storage"

	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the mutation log (append-only JSONL; debugging aid)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			events, err := storage.EventLog{Dir: dir}.Read(limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Data(map[string]any{"events": events}))
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Max events to return (0 = all)")
	return cmd
}
