package cli

import (
	"context"

	"daybook-cli/internal/format"
	"daybook-cli/internal/model"
	"daybook-cli/internal/storage"

	"github.com/spf13/cobra"
)

func newFoldersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folders",
		Short: "Browse and manage the folder tree",
	}
	cmd.AddCommand(newFoldersShowCmd(app))
	cmd.AddCommand(newFoldersCreateCmd(app))
	cmd.AddCommand(newFoldersMoveCmd(app))
	cmd.AddCommand(newFoldersDeleteCmd(app))
	return cmd
}

func newFoldersShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [folder-id]",
		Short: "Show a folder and its entries (default: root)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, kv, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer kv.Close()
			ctx := context.Background()
			lists := storage.ListStore{KV: kv}

			id := model.RootFolderID
			if len(args) == 1 {
				id = args[0]
			}
			var f *model.Folder
			if id == model.RootFolderID {
				f, err = lists.EnsureRoot(ctx)
			} else {
				f, err = lists.GetFolder(ctx, id)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Data(f))
		},
	}
}

func newFoldersCreateCmd(app *App) *cobra.Command {
	var parent string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a folder",
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
			f, err := lists.CreateFolder(ctx, parent, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Data(f))
		},
	}
	cmd.Flags().StringVar(&parent, "parent", model.RootFolderID, "Parent folder id")
	return cmd
}

func newFoldersMoveCmd(app *App) *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "move <folder-or-list-id>",
		Short: "Re-parent a folder or list; it lands at the end of the target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, kv, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer kv.Close()
			ctx := context.Background()
			lists := storage.ListStore{KV: kv}

			if err := lists.MoveFolderItem(ctx, args[0], to); err != nil {
				return writeErr(cmd, err)
			}
			f, err := lists.GetFolder(ctx, to)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Data(f))
		},
	}
	cmd.Flags().StringVar(&to, "to", model.RootFolderID, "Target folder id")
	return cmd
}

func newFoldersDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <folder-id>",
		Short: "Delete a folder and everything beneath it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, kv, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer kv.Close()

			ls := storage.ListStore{KV: kv}
			if err := ls.DeleteFolder(context.Background(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Data(map[string]any{"deleted": args[0]}))
		},
	}
}
