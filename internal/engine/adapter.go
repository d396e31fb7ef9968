package engine

import (
	"context"

	"daybook-cli/internal/model"
)

// Adapter is the persistent collection store contract for one kind of list.
// SaveAll overwrites the whole collection; it is the default write path.
type Adapter interface {
	LoadAll(ctx context.Context, listID string) ([]model.ListItem, error)
	SaveAll(ctx context.Context, listID string, items []model.ListItem) error
}

// FineGrained is the optional per-item write surface. Lists whose adapter
// implements it (date-keyed planners) persist single items instead of
// rewriting the whole blob on every commit.
type FineGrained interface {
	Create(ctx context.Context, item model.ListItem) error
	Update(ctx context.Context, item model.ListItem) error
	Delete(ctx context.Context, listID, itemID string) error
}
