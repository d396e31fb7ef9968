package cli

import (
	"context"
	"errors"
	"time"

	"daybook-cli/internal/engine"
	"daybook-cli/internal/format"
	"daybook-cli/internal/model"
	"daybook-cli/internal/storage"

	"github.com/spf13/cobra"
)

func newPlannerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "planner",
		Short: "Manage day planners (date-keyed lists + recurring template)",
	}
	cmd.AddCommand(newPlannerShowCmd(app))
	cmd.AddCommand(newPlannerAddCmd(app))
	cmd.AddCommand(newPlannerDeleteCmd(app))
	return cmd
}

// plannerListID resolves the date argument. "today" and "tomorrow" are CLI
// conveniences; everything else must be YYYY-MM-DD or the recurring id.
func plannerListID(arg string) (string, error) {
	switch arg {
	case "today":
		return time.Now().Format("2006-01-02"), nil
	case "tomorrow":
		return time.Now().AddDate(0, 0, 1).Format("2006-01-02"), nil
	}
	return storage.NormalizeDate(arg)
}

// loadPlanner wires a time-aware engine for one day. Items created on the
// recurring template are stamped so dated copies can track their source.
func loadPlanner(app *App, dir string, kv storage.KV, listID string) *engine.SortedList {
	log := storage.EventLog{Dir: dir}
	cfg := engine.Config{
		ListID:    listID,
		Store:     storage.PlannerAdapter{Planner: storage.PlannerStore{KV: kv}},
		TimeAware: true,
		OnEvent: func(typ, entityID string, payload any) {
			_ = log.Append(typ, entityID, payload)
		},
	}
	if listID == storage.RecurringPlannerID {
		cfg.Initialize = func(item *model.ListItem) {
			item.RecurringConfig = &model.RecurringConfig{RecurringID: item.ID}
		}
	}
	return engine.NewSortedList(cfg)
}

func newPlannerShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <date>",
		Short: "Show a day's events (date, 'today', 'tomorrow', or 'recurring-weekday')",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listID, err := plannerListID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			_, kv, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer kv.Close()

			items, err := storage.PlannerStore{KV: kv}.LoadDay(context.Background(), listID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Data(map[string]any{
				"listId": listID,
				"items":  items,
			}))
		},
	}
}

func newPlannerAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <date> <text>",
		Short: "Add an event; a time token like '12:30pm' schedules it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			listID, err := plannerListID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			dir, kv, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer kv.Close()

			l := loadPlanner(app, dir, kv, listID)
			if err := l.Load(context.Background()); err != nil {
				return writeErr(cmd, err)
			}
			anchor := ""
			if items := l.Items(); len(items) > 0 {
				anchor = items[len(items)-1].ID
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
}

func newPlannerDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <date> <item-id>",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			listID, err := plannerListID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			dir, kv, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer kv.Close()

			l := loadPlanner(app, dir, kv, listID)
			if err := l.Load(context.Background()); err != nil {
				return writeErr(cmd, err)
			}
			if err := l.ToggleDelete(args[1], true); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Data(map[string]any{"deleted": args[1]}))
		},
	}
}
