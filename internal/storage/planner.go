package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"daybook-cli/internal/model"
)

// PlannerStore persists date-keyed planner events. Unlike checklists, each
// event lives under its own key (plannerevent_<date>_<id>) so persisting one
// event never rewrites the rest of the day.
type PlannerStore struct {
	KV KV
}

// RecurringPlannerID is the listId of the recurring-weekday template planner.
const RecurringPlannerID = "recurring-weekday"

func plannerEventKey(listID, itemID string) string {
	return "plannerevent_" + listID + "_" + itemID
}

// NormalizeDate validates and canonicalizes a planner list id. The recurring
// template id passes through unchanged.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == RecurringPlannerID {
		return s, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", fmt.Errorf("invalid planner date %q (want YYYY-MM-DD)", s)
	}
	return t.Format("2006-01-02"), nil
}

// LoadDay returns the day's events sorted by key.
func (s PlannerStore) LoadDay(ctx context.Context, listID string) ([]model.ListItem, error) {
	keys, err := s.KV.Keys(ctx, plannerEventKey(listID, ""))
	if err != nil {
		return nil, err
	}
	items := []model.ListItem{}
	for _, k := range keys {
		b, ok, err := s.KV.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		var it model.ListItem
		if err := json.Unmarshal(b, &it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	sortListItems(items)
	return items, nil
}

// Persist upserts a single event row.
func (s PlannerStore) Persist(ctx context.Context, item model.ListItem) error {
	b, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return s.KV.Set(ctx, plannerEventKey(item.ListID, item.ID), b)
}

// Remove deletes a single event row.
func (s PlannerStore) Remove(ctx context.Context, listID, itemID string) error {
	return s.KV.Delete(ctx, plannerEventKey(listID, itemID))
}
