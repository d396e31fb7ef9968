package cli

import (
	"context"

	"daybook-cli/internal/format"
	"daybook-cli/internal/storage"

	"github.com/spf13/cobra"
)

func newListsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Manage checklists",
	}
	cmd.AddCommand(newListsShowCmd(app))
	cmd.AddCommand(newListsCreateCmd(app))
	cmd.AddCommand(newListsDeleteCmd(app))
	return cmd
}

func newListsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <list-id>",
		Short: "Show a checklist and its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, kv, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer kv.Close()

			l, err := storage.ListStore{KV: kv}.GetList(context.Background(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Data(l))
		},
	}
}

func newListsCreateCmd(app *App) *cobra.Command {
	var folder string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, kv, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer kv.Close()
			ctx := context.Background()
			lists := storage.ListStore{KV: kv}

			if _, err := lists.EnsureRoot(ctx); err != nil {
				return writeErr(cmd, err)
			}
			l, err := lists.CreateList(ctx, folder, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Data(l))
		},
	}
	cmd.Flags().StringVar(&folder, "folder", "root", "Parent folder id")
	return cmd
}

func newListsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <list-id>",
		Short: "Delete a checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, kv, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer kv.Close()

			ls := storage.ListStore{KV: kv}
			if err := ls.DeleteList(context.Background(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Data(map[string]any{"deleted": args[0]}))
		},
	}
}
