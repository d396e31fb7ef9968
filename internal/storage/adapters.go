package storage

import (
	"context"

	"daybook-cli/internal/model"
)

// ChecklistAdapter exposes one checklist to the lifecycle engine using
// whole-list writes.
type ChecklistAdapter struct {
	Lists ListStore
}

func (a ChecklistAdapter) LoadAll(ctx context.Context, listID string) ([]model.ListItem, error) {
	l, err := a.Lists.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	return l.Items, nil
}

func (a ChecklistAdapter) SaveAll(ctx context.Context, listID string, items []model.ListItem) error {
	return a.Lists.SaveListItems(ctx, listID, items)
}

// PlannerAdapter exposes one day's planner to the engine. It declares the
// fine-grained hooks, so committing one event writes one row instead of the
// whole day.
type PlannerAdapter struct {
	Planner PlannerStore
}

func (a PlannerAdapter) LoadAll(ctx context.Context, listID string) ([]model.ListItem, error) {
	return a.Planner.LoadDay(ctx, listID)
}

func (a PlannerAdapter) SaveAll(ctx context.Context, listID string, items []model.ListItem) error {
	for _, it := range items {
		it.ListID = listID
		if err := a.Planner.Persist(ctx, it); err != nil {
			return err
		}
	}
	return nil
}

func (a PlannerAdapter) Create(ctx context.Context, item model.ListItem) error {
	return a.Planner.Persist(ctx, item)
}

func (a PlannerAdapter) Update(ctx context.Context, item model.ListItem) error {
	return a.Planner.Persist(ctx, item)
}

func (a PlannerAdapter) Delete(ctx context.Context, listID, itemID string) error {
	return a.Planner.Remove(ctx, listID, itemID)
}
