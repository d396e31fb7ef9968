package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"daybook-cli/internal/model"
	"daybook-cli/internal/sortkey"
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func folderKey(id string) string { return "folder_" + id }
func listKey(id string) string   { return "list_" + id }

// ListStore persists the folder/checklist tree as per-folder and per-list
// JSON blobs. Each blob is independent; cross-blob updates (re-parenting,
// childrenCount sync) are sequential best-effort writes.
type ListStore struct {
	KV KV
}

// EnsureRoot creates the root folder blob on first use.
func (s ListStore) EnsureRoot(ctx context.Context) (*model.Folder, error) {
	f, err := s.GetFolder(ctx, model.RootFolderID)
	if err == nil {
		return f, nil
	}
	var nf NotFoundError
	if !errors.As(err, &nf) {
		return nil, err
	}
	root := &model.Folder{ID: model.RootFolderID, Value: "Lists", Items: []model.FolderItem{}}
	if err := s.SaveFolder(ctx, root); err != nil {
		return nil, err
	}
	return root, nil
}

func (s ListStore) GetFolder(ctx context.Context, id string) (*model.Folder, error) {
	id = strings.TrimSpace(id)
	b, ok, err := s.KV.Get(ctx, folderKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NotFoundError{Kind: "folder", ID: id}
	}
	var f model.Folder
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	if f.Items == nil {
		f.Items = []model.FolderItem{}
	}
	sortFolderItems(f.Items)
	return &f, nil
}

func (s ListStore) SaveFolder(ctx context.Context, f *model.Folder) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return s.KV.Set(ctx, folderKey(f.ID), b)
}

func (s ListStore) GetList(ctx context.Context, id string) (*model.List, error) {
	id = strings.TrimSpace(id)
	b, ok, err := s.KV.Get(ctx, listKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NotFoundError{Kind: "list", ID: id}
	}
	var l model.List
	if err := json.Unmarshal(b, &l); err != nil {
		return nil, err
	}
	if l.Items == nil {
		l.Items = []model.ListItem{}
	}
	sortListItems(l.Items)
	return &l, nil
}

func (s ListStore) saveList(ctx context.Context, l *model.List) error {
	b, err := json.Marshal(l)
	if err != nil {
		return err
	}
	return s.KV.Set(ctx, listKey(l.ID), b)
}

// CreateFolder adds a folder at the end of parent's item set and writes the
// new folder's own (empty) blob.
func (s ListStore) CreateFolder(ctx context.Context, parentID, value string) (*model.Folder, error) {
	parent, err := s.GetFolder(ctx, parentID)
	if err != nil {
		return nil, err
	}
	id, err := NewID("folder")
	if err != nil {
		return nil, err
	}
	key, err := appendKey(parent.Items)
	if err != nil {
		return nil, err
	}
	parent.Items = append(parent.Items, model.FolderItem{
		ID:      id,
		ListID:  parent.ID,
		Value:   value,
		SortKey: key,
		Type:    model.ItemTypeFolder,
	})
	if err := s.SaveFolder(ctx, parent); err != nil {
		return nil, err
	}
	f := &model.Folder{ID: id, ParentFolderID: parent.ID, Value: value, Items: []model.FolderItem{}}
	if err := s.SaveFolder(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// CreateList adds a checklist at the end of parent's item set and writes the
// new list's own (empty) blob.
func (s ListStore) CreateList(ctx context.Context, parentID, value string) (*model.List, error) {
	parent, err := s.GetFolder(ctx, parentID)
	if err != nil {
		return nil, err
	}
	id, err := NewID("list")
	if err != nil {
		return nil, err
	}
	key, err := appendKey(parent.Items)
	if err != nil {
		return nil, err
	}
	parent.Items = append(parent.Items, model.FolderItem{
		ID:      id,
		ListID:  parent.ID,
		Value:   value,
		SortKey: key,
		Type:    model.ItemTypeList,
	})
	if err := s.SaveFolder(ctx, parent); err != nil {
		return nil, err
	}
	l := &model.List{ID: id, ParentFolderID: parent.ID, Value: value, Items: []model.ListItem{}}
	if err := s.saveList(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// SaveListItems overwrites a list's item set and refreshes the childrenCount
// shown on the list's row in its parent folder.
func (s ListStore) SaveListItems(ctx context.Context, listID string, items []model.ListItem) error {
	l, err := s.GetList(ctx, listID)
	if err != nil {
		return err
	}
	if items == nil {
		items = []model.ListItem{}
	}
	l.Items = items
	if err := s.saveList(ctx, l); err != nil {
		return err
	}

	parent, err := s.GetFolder(ctx, l.ParentFolderID)
	if err != nil {
		// The list blob is already durable; a missing parent row is not fatal.
		return nil
	}
	for i := range parent.Items {
		if parent.Items[i].ID == listID {
			parent.Items[i].ChildrenCount = len(items)
			return s.SaveFolder(ctx, parent)
		}
	}
	return nil
}

// DeleteList removes the list blob and its row in the parent folder.
func (s ListStore) DeleteList(ctx context.Context, id string) error {
	l, err := s.GetList(ctx, id)
	if err != nil {
		return err
	}
	if parent, err := s.GetFolder(ctx, l.ParentFolderID); err == nil {
		parent.Items = removeFolderItem(parent.Items, id)
		if err := s.SaveFolder(ctx, parent); err != nil {
			return err
		}
	}
	return s.KV.Delete(ctx, listKey(id))
}

// DeleteFolder removes a folder, everything beneath it, and its row in the
// parent folder.
func (s ListStore) DeleteFolder(ctx context.Context, id string) error {
	if id == model.RootFolderID {
		return fmt.Errorf("cannot delete the root folder")
	}
	f, err := s.GetFolder(ctx, id)
	if err != nil {
		return err
	}
	for _, it := range f.Items {
		switch it.Type {
		case model.ItemTypeFolder:
			if err := s.DeleteFolder(ctx, it.ID); err != nil {
				return err
			}
		case model.ItemTypeList:
			if err := s.KV.Delete(ctx, listKey(it.ID)); err != nil {
				return err
			}
		}
	}
	if parent, err := s.GetFolder(ctx, f.ParentFolderID); err == nil {
		parent.Items = removeFolderItem(parent.Items, id)
		if err := s.SaveFolder(ctx, parent); err != nil {
			return err
		}
	}
	return s.KV.Delete(ctx, folderKey(id))
}

// MoveFolderItem re-parents a folder or list: remove from the old parent's
// item set, append to the new parent's, update the child blob's parent
// pointer. The two parent writes are separate blobs with no atomicity beyond
// best effort.
func (s ListStore) MoveFolderItem(ctx context.Context, itemID, newParentID string) error {
	itemID = strings.TrimSpace(itemID)
	newParentID = strings.TrimSpace(newParentID)

	oldParent, item, err := s.findParentOf(ctx, itemID)
	if err != nil {
		return err
	}
	if oldParent.ID == newParentID {
		return nil
	}
	newParent, err := s.GetFolder(ctx, newParentID)
	if err != nil {
		return err
	}

	oldParent.Items = removeFolderItem(oldParent.Items, itemID)
	if err := s.SaveFolder(ctx, oldParent); err != nil {
		return err
	}

	key, err := appendKey(newParent.Items)
	if err != nil {
		return err
	}
	item.ListID = newParent.ID
	item.SortKey = key
	newParent.Items = append(newParent.Items, item)
	if err := s.SaveFolder(ctx, newParent); err != nil {
		return err
	}

	switch item.Type {
	case model.ItemTypeFolder:
		child, err := s.GetFolder(ctx, itemID)
		if err != nil {
			return err
		}
		child.ParentFolderID = newParent.ID
		return s.SaveFolder(ctx, child)
	case model.ItemTypeList:
		child, err := s.GetList(ctx, itemID)
		if err != nil {
			return err
		}
		child.ParentFolderID = newParent.ID
		return s.saveList(ctx, child)
	}
	return nil
}

func (s ListStore) findParentOf(ctx context.Context, itemID string) (*model.Folder, model.FolderItem, error) {
	keys, err := s.KV.Keys(ctx, "folder_")
	if err != nil {
		return nil, model.FolderItem{}, err
	}
	for _, k := range keys {
		f, err := s.GetFolder(ctx, strings.TrimPrefix(k, "folder_"))
		if err != nil {
			continue
		}
		for _, it := range f.Items {
			if it.ID == itemID {
				return f, it, nil
			}
		}
	}
	return nil, model.FolderItem{}, NotFoundError{Kind: "folder item", ID: itemID}
}

func appendKey(items []model.FolderItem) (string, error) {
	existing := map[string]bool{}
	last := ""
	for _, it := range items {
		k := strings.ToLower(strings.TrimSpace(it.SortKey))
		if k == "" {
			continue
		}
		existing[k] = true
		if k > last {
			last = k
		}
	}
	return sortkey.BetweenUnique(existing, last, "")
}

func removeFolderItem(items []model.FolderItem, id string) []model.FolderItem {
	out := items[:0]
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

func sortFolderItems(items []model.FolderItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.SortKey != b.SortKey {
			return a.SortKey < b.SortKey
		}
		return a.ID < b.ID
	})
}

func sortListItems(items []model.ListItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.SortKey != b.SortKey {
			return a.SortKey < b.SortKey
		}
		return a.ID < b.ID
	})
}
