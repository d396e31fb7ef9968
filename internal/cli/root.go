package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"daybook-cli/internal/format"
	"daybook-cli/internal/storage"
	"daybook-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "daybook",
		Short:        "Daybook (local-first) checklists + day planner, CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  daybook

  # Scriptable commands
  daybook lists create "Groceries"
  daybook items add <list-id> "Buy milk"
  daybook planner add today "Lunch with Sam 12:30pm"
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("DAYBOOK_DIR", ""), "Path to the .daybook store dir (default: discovered upward from the working dir)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newFoldersCmd(app))
	cmd.AddCommand(newListsCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newPlannerCmd(app))
	cmd.AddCommand(newEventsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	dir, err := resolveDir(app)
	if err != nil {
		return err
	}
	return tui.Run(dir)
}

func resolveDir(app *App) (string, error) {
	if app.Dir != "" {
		return app.Dir, nil
	}
	dir, err := storage.DefaultDir()
	if err != nil {
		return "", err
	}
	app.Dir = dir
	return dir, nil
}

// openStore resolves the store dir and opens the SQLite KV. The caller closes.
func openStore(app *App) (string, *storage.SQLiteKV, error) {
	dir, err := resolveDir(app)
	if err != nil {
		return "", nil, err
	}
	kv, err := storage.Store{Dir: dir}.OpenKV(context.Background())
	if err != nil {
		return "", nil, err
	}
	return dir, kv, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
