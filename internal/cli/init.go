package cli

import (
	"context"

	"daybook-cli/internal/format"
	"daybook-cli/internal/storage"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the .daybook store in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, kv, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer kv.Close()

			root, err := storage.ListStore{KV: kv}.EnsureRoot(context.Background())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Data(map[string]any{
				"dir":  dir,
				"root": root,
			}))
		},
	}
}
