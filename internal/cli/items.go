package cli

import (
	"context"
	"errors"

	"daybook-cli/internal/engine"
	"daybook-cli/internal/format"
	"daybook-cli/internal/model"
	"daybook-cli/internal/storage"

	"github.com/spf13/cobra"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Manage checklist items",
	}
	cmd.AddCommand(newItemsAddCmd(app))
	cmd.AddCommand(newItemsSetCmd(app))
	cmd.AddCommand(newItemsMoveCmd(app))
	cmd.AddCommand(newItemsDeleteCmd(app))
	return cmd
}

// loadChecklist wires a lifecycle engine for one checklist, backed by the
// store and mirrored to the event log.
func loadChecklist(app *App, dir string, kv storage.KV, listID string) (*engine.SortedList, error) {
	log := storage.EventLog{Dir: dir}
	l := engine.NewSortedList(engine.Config{
		ListID: listID,
		Store:  storage.ChecklistAdapter{Lists: storage.ListStore{KV: kv}},
		OnEvent: func(typ, entityID string, payload any) {
			_ = log.Append(typ, entityID, payload)
		},
	})
	if err := l.Load(context.Background()); err != nil {
		return nil, err
	}
	return l, nil
}

func newItemsAddCmd(app *App) *cobra.Command {
	var after string
	cmd := &cobra.Command{
		Use:   "add <list-id> <text>",
		Short: "Add an item (appended, or after --after)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, kv, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer kv.Close()

			l, err := loadChecklist(app, dir, kv, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			anchor := after
			if anchor == "" {
				if items := l.Items(); len(items) > 0 {
					anchor = items[len(items)-1].ID
				}
			}
			item, err := l.AddTextfieldAfter(anchor)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := l.UpdateValue(item.ID, args[1]); err != nil {
				return writeErr(cmd, err)
			}
			if err := l.CommitTextfield(""); err != nil {
				return writeErr(cmd, err)
			}
			created, ok := l.ItemByID(item.ID)
			if !ok {
				return writeErr(cmd, errors.New("empty text: nothing created"))
			}
			return writeOut(cmd, app, format.Data(created))
		},
	}
	cmd.Flags().StringVar(&after, "after", "", "Insert after this item id (default: end of list)")
	return cmd
}

func newItemsSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <list-id> <item-id> <text>",
		Short: "Replace an item's text",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, kv, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer kv.Close()

			l, err := loadChecklist(app, dir, kv, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := l.ConvertToTextfield(args[1]); err != nil {
				return writeErr(cmd, err)
			}
			if err := l.UpdateValue(args[1], args[2]); err != nil {
				return writeErr(cmd, err)
			}
			if err := l.CommitTextfield(""); err != nil {
				return writeErr(cmd, err)
			}
			item, ok := l.ItemByID(args[1])
			if !ok {
				return writeErr(cmd, errors.New("empty text clears the item; use items delete instead"))
			}
			return writeOut(cmd, app, format.Data(item))
		},
	}
}

func newItemsMoveCmd(app *App) *cobra.Command {
	var before string
	var after string
	cmd := &cobra.Command{
		Use:   "move <list-id> <item-id>",
		Short: "Reorder an item within its list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (before == "" && after == "") || (before != "" && after != "") {
				return writeErr(cmd, errors.New("provide exactly one of --before or --after"))
			}
			dir, kv, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer kv.Close()

			l, err := loadChecklist(app, dir, kv, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			// MoveItem places after a predecessor; translate --before into the
			// reference item's own predecessor.
			pred := after
			if before != "" {
				pred, err = predecessorOf(l.Items(), before)
				if err != nil {
					return writeErr(cmd, err)
				}
			}
			if err := l.MoveItem(args[1], pred); err != nil {
				return writeErr(cmd, err)
			}
			item, _ := l.ItemByID(args[1])
			return writeOut(cmd, app, format.Data(item))
		},
	}
	cmd.Flags().StringVar(&before, "before", "", "Move before item id")
	cmd.Flags().StringVar(&after, "after", "", "Move after item id")
	return cmd
}

// predecessorOf returns the id of the item directly above beforeID, or ""
// when beforeID heads the list. An unknown beforeID is an error, not a move
// to the head.
func predecessorOf(items []model.ListItem, beforeID string) (string, error) {
	for i := range items {
		if items[i].ID == beforeID {
			if i == 0 {
				return "", nil
			}
			return items[i-1].ID, nil
		}
	}
	return "", storage.NotFoundError{Kind: "item", ID: beforeID}
}

func newItemsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <list-id> <item-id>",
		Short: "Delete an item (immediate; the undo window is a TUI affordance)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, kv, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer kv.Close()

			l, err := loadChecklist(app, dir, kv, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := l.ToggleDelete(args[1], true); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Data(map[string]any{"deleted": args[1]}))
		},
	}
}
