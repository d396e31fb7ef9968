package storage

import (
	"context"
	"errors"
	"testing"

	"daybook-cli/internal/model"
)

func newListStore() ListStore {
	return ListStore{KV: NewMemoryKV()}
}

func TestEnsureRoot_CreatesOnceAndIsStable(t *testing.T) {
	ctx := context.Background()
	s := newListStore()

	root, err := s.EnsureRoot(ctx)
	if err != nil {
		t.Fatalf("EnsureRoot: %v", err)
	}
	if root.ID != model.RootFolderID {
		t.Fatalf("root id = %q", root.ID)
	}

	if _, err := s.CreateList(ctx, root.ID, "Groceries"); err != nil {
		t.Fatalf("CreateList: %v", err)
	}
	again, err := s.EnsureRoot(ctx)
	if err != nil {
		t.Fatalf("EnsureRoot (second): %v", err)
	}
	if len(again.Items) != 1 {
		t.Fatalf("second EnsureRoot lost content: %d items", len(again.Items))
	}
}

func TestCreateList_AppendsInOrderAndRoundtrips(t *testing.T) {
	ctx := context.Background()
	s := newListStore()
	root, _ := s.EnsureRoot(ctx)

	a, err := s.CreateList(ctx, root.ID, "Groceries")
	if err != nil {
		t.Fatalf("CreateList: %v", err)
	}
	b, err := s.CreateList(ctx, root.ID, "Chores")
	if err != nil {
		t.Fatalf("CreateList: %v", err)
	}

	got, err := s.GetFolder(ctx, root.ID)
	if err != nil {
		t.Fatalf("GetFolder: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("root items = %d, want 2", len(got.Items))
	}
	if got.Items[0].ID != a.ID || got.Items[1].ID != b.ID {
		t.Fatalf("creation order not preserved: %v then %v", got.Items[0].Value, got.Items[1].Value)
	}
	if !(got.Items[0].SortKey < got.Items[1].SortKey) {
		t.Fatalf("append keys not increasing: %q then %q", got.Items[0].SortKey, got.Items[1].SortKey)
	}
	if got.Items[0].Type != model.ItemTypeList {
		t.Fatalf("row type = %q", got.Items[0].Type)
	}

	l, err := s.GetList(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetList: %v", err)
	}
	if l.Value != "Groceries" || l.ParentFolderID != root.ID {
		t.Fatalf("list blob = %+v", l)
	}
}

func TestSaveListItems_SortsOnLoadAndSyncsChildrenCount(t *testing.T) {
	ctx := context.Background()
	s := newListStore()
	root, _ := s.EnsureRoot(ctx)
	l, _ := s.CreateList(ctx, root.ID, "Groceries")

	items := []model.ListItem{
		{ID: "i2", ListID: l.ID, Value: "Eggs", SortKey: "a2"},
		{ID: "i1", ListID: l.ID, Value: "Milk", SortKey: "a0"},
	}
	if err := s.SaveListItems(ctx, l.ID, items); err != nil {
		t.Fatalf("SaveListItems: %v", err)
	}

	got, err := s.GetList(ctx, l.ID)
	if err != nil {
		t.Fatalf("GetList: %v", err)
	}
	if got.Items[0].Value != "Milk" || got.Items[1].Value != "Eggs" {
		t.Fatalf("items not sorted by key on load: %+v", got.Items)
	}

	parent, _ := s.GetFolder(ctx, root.ID)
	if parent.Items[0].ChildrenCount != 2 {
		t.Fatalf("childrenCount = %d, want 2", parent.Items[0].ChildrenCount)
	}
}

func TestGetList_NotFound(t *testing.T) {
	s := newListStore()
	_, err := s.GetList(context.Background(), "nope")
	var nf NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "list" {
		t.Fatalf("want list NotFoundError, got %v", err)
	}
}

func TestMoveFolderItem_ReparentsListAndUpdatesChildBlob(t *testing.T) {
	ctx := context.Background()
	s := newListStore()
	root, _ := s.EnsureRoot(ctx)
	work, _ := s.CreateFolder(ctx, root.ID, "Work")
	l, _ := s.CreateList(ctx, root.ID, "Groceries")

	if err := s.MoveFolderItem(ctx, l.ID, work.ID); err != nil {
		t.Fatalf("MoveFolderItem: %v", err)
	}

	oldParent, _ := s.GetFolder(ctx, root.ID)
	for _, it := range oldParent.Items {
		if it.ID == l.ID {
			t.Fatalf("row still in old parent")
		}
	}
	newParent, _ := s.GetFolder(ctx, work.ID)
	if len(newParent.Items) != 1 || newParent.Items[0].ID != l.ID {
		t.Fatalf("row not in new parent: %+v", newParent.Items)
	}
	child, _ := s.GetList(ctx, l.ID)
	if child.ParentFolderID != work.ID {
		t.Fatalf("child parent pointer = %q, want %q", child.ParentFolderID, work.ID)
	}
}

func TestMoveFolderItem_SameParentIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newListStore()
	root, _ := s.EnsureRoot(ctx)
	l, _ := s.CreateList(ctx, root.ID, "Groceries")

	if err := s.MoveFolderItem(ctx, l.ID, root.ID); err != nil {
		t.Fatalf("MoveFolderItem: %v", err)
	}
	parent, _ := s.GetFolder(ctx, root.ID)
	if len(parent.Items) != 1 {
		t.Fatalf("no-op move changed the parent: %+v", parent.Items)
	}
}

func TestDeleteFolder_RemovesSubtreeAndRefusesRoot(t *testing.T) {
	ctx := context.Background()
	s := newListStore()
	root, _ := s.EnsureRoot(ctx)
	work, _ := s.CreateFolder(ctx, root.ID, "Work")
	inner, _ := s.CreateFolder(ctx, work.ID, "Projects")
	l, _ := s.CreateList(ctx, inner.ID, "Tasks")

	if err := s.DeleteFolder(ctx, model.RootFolderID); err == nil {
		t.Fatalf("deleting the root folder must fail")
	}
	if err := s.DeleteFolder(ctx, work.ID); err != nil {
		t.Fatalf("DeleteFolder: %v", err)
	}

	for _, id := range []string{work.ID, inner.ID} {
		if _, err := s.GetFolder(ctx, id); err == nil {
			t.Fatalf("folder %s survived subtree delete", id)
		}
	}
	if _, err := s.GetList(ctx, l.ID); err == nil {
		t.Fatalf("list survived subtree delete")
	}
	parent, _ := s.GetFolder(ctx, root.ID)
	if len(parent.Items) != 0 {
		t.Fatalf("root still references deleted folder: %+v", parent.Items)
	}
}

func TestDeleteList_RemovesBlobAndRow(t *testing.T) {
	ctx := context.Background()
	s := newListStore()
	root, _ := s.EnsureRoot(ctx)
	l, _ := s.CreateList(ctx, root.ID, "Groceries")

	if err := s.DeleteList(ctx, l.ID); err != nil {
		t.Fatalf("DeleteList: %v", err)
	}
	if _, err := s.GetList(ctx, l.ID); err == nil {
		t.Fatalf("list blob survived delete")
	}
	parent, _ := s.GetFolder(ctx, root.ID)
	if len(parent.Items) != 0 {
		t.Fatalf("parent row survived delete: %+v", parent.Items)
	}
}
