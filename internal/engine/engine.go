// Package engine holds the sorted-list lifecycle core: the in-memory ordered
// view of one list, the textfield state machine, drag reordering, and the
// delayed-delete grace window. Storage is a durability sink behind it; the
// in-memory view is the read path for rendering.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"daybook-cli/internal/model"
	"daybook-cli/internal/sortkey"
	"daybook-cli/internal/storage"
	"daybook-cli/internal/timeparse"
)

// ErrTextfieldOpen is returned when an operation would open a second
// textfield. The caller must commit the open one (via the Coordinator) first.
var ErrTextfieldOpen = errors.New("engine: a textfield is already open")

var ErrItemNotFound = errors.New("engine: item not found")

// DefaultGracePeriod is the undo window between marking an item DELETING and
// physically removing it.
const DefaultGracePeriod = 3 * time.Second

// Config wires one SortedList instance.
type Config struct {
	ListID      string
	Store       Adapter
	Coordinator *Coordinator

	// Grace overrides DefaultGracePeriod when > 0.
	Grace time.Duration
	// NewTimer overrides time.AfterFunc (tests).
	NewTimer TimerFactory

	// TimeAware lists extract time expressions from value edits and keep
	// timed items in chronological key order (planners).
	TimeAware bool
	// Initialize mutates freshly created items before insertion (e.g. the
	// recurring planner stamps a RecurringConfig).
	Initialize func(item *model.ListItem)

	// OnChange fires after every change to the in-memory view.
	OnChange func()
	// OnEvent receives mutation records (item.create, item.update,
	// item.move, item.delete) for the audit log. Best effort.
	OnEvent func(typ, entityID string, payload any)
}

// SortedList is the lifecycle engine for one list.
type SortedList struct {
	listID    string
	store     Adapter
	coord     *Coordinator
	grace     time.Duration
	newTimer  TimerFactory
	timeAware bool
	initItem  func(*model.ListItem)
	onChange  func()
	onEvent   func(string, string, any)

	mu             sync.Mutex
	items          []model.ListItem
	textfieldID    string
	pendingDeletes map[string]Timer
	priorStatus    map[string]model.ItemStatus
}

func NewSortedList(cfg Config) *SortedList {
	grace := cfg.Grace
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	nt := cfg.NewTimer
	if nt == nil {
		nt = afterFunc
	}
	l := &SortedList{
		listID:         strings.TrimSpace(cfg.ListID),
		store:          cfg.Store,
		coord:          cfg.Coordinator,
		grace:          grace,
		newTimer:       nt,
		timeAware:      cfg.TimeAware,
		initItem:       cfg.Initialize,
		onChange:       cfg.OnChange,
		onEvent:        cfg.OnEvent,
		pendingDeletes: map[string]Timer{},
		priorStatus:    map[string]model.ItemStatus{},
	}
	if cfg.Coordinator != nil {
		cfg.Coordinator.register(l)
	}
	return l
}

func (l *SortedList) ListID() string { return l.listID }

// Load replaces the in-memory view with the persisted set, sorted by key.
// Transient statuses are never meaningful across a load.
func (l *SortedList) Load(ctx context.Context) error {
	items, err := l.store.LoadAll(ctx, l.listID)
	if err != nil {
		return err
	}
	for i := range items {
		items[i].Status = model.StatusStatic
		items[i].ListID = l.listID
	}
	sortByKey(items)

	l.mu.Lock()
	// Reloading replaces the view wholesale; a timer scheduled against the
	// old view must not fire into the new one.
	for _, t := range l.pendingDeletes {
		t.Stop()
	}
	l.pendingDeletes = map[string]Timer{}
	l.priorStatus = map[string]model.ItemStatus{}
	l.items = items
	l.textfieldID = ""
	l.mu.Unlock()
	l.notify()
	return nil
}

// Items returns a copy of the ordered in-memory view.
func (l *SortedList) Items() []model.ListItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.ListItem, len(l.items))
	copy(out, l.items)
	return out
}

// Textfield returns the list's open textfield item, if any.
func (l *SortedList) Textfield() (model.ListItem, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.textfieldID == "" {
		return model.ListItem{}, false
	}
	if i := l.indexLocked(l.textfieldID); i >= 0 {
		return l.items[i], true
	}
	return model.ListItem{}, false
}

func (l *SortedList) ItemByID(id string) (model.ListItem, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexLocked(id); i >= 0 {
		return l.items[i], true
	}
	return model.ListItem{}, false
}

// AddTextfieldAfter opens a NEW textfield directly after anchorID ("" means
// the head of the list). It refuses if any textfield is open anywhere; the
// caller is expected to commit that one through the Coordinator first.
//
// The new item exists only in memory: empty NEW items are never persisted.
func (l *SortedList) AddTextfieldAfter(anchorID string) (model.ListItem, error) {
	if other, _ := l.openTextfieldAnywhere(); other != nil {
		return model.ListItem{}, ErrTextfieldOpen
	}

	l.mu.Lock()
	item, err := l.insertTextfieldLocked(anchorID)
	l.mu.Unlock()
	if err != nil {
		return model.ListItem{}, err
	}

	if l.coord != nil {
		l.coord.noteFocus(l.listID)
	}
	l.notify()
	return item, nil
}

// insertTextfieldLocked creates the NEW item and places it between anchor
// and its successor.
func (l *SortedList) insertTextfieldLocked(anchorID string) (model.ListItem, error) {
	anchorID = strings.TrimSpace(anchorID)
	prevKey := ""
	nextKey := ""
	if anchorID != "" {
		i := l.indexLocked(anchorID)
		if i < 0 {
			return model.ListItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, anchorID)
		}
		prevKey = l.items[i].SortKey
		if i+1 < len(l.items) {
			nextKey = l.items[i+1].SortKey
		}
	} else if len(l.items) > 0 {
		nextKey = l.items[0].SortKey
	}

	key, err := sortkey.BetweenUnique(l.existingKeysLocked(nil), prevKey, nextKey)
	if err != nil {
		return model.ListItem{}, err
	}
	id, err := storage.NewID("item")
	if err != nil {
		return model.ListItem{}, err
	}

	item := model.ListItem{
		ID:      id,
		ListID:  l.listID,
		SortKey: key,
		Status:  model.StatusNew,
	}
	if l.initItem != nil {
		l.initItem(&item)
	}
	l.items = append(l.items, item)
	sortByKey(l.items)
	l.textfieldID = id
	return item, nil
}

// UpdateValue mutates an item's value in memory only; persistence happens on
// commit. On time-aware lists, typing a time expression ("Lunch 12:30pm")
// into an unscheduled item strips the token, schedules the item, and moves it
// to its chronological position. This is the one edit that reorders as a side
// effect.
func (l *SortedList) UpdateValue(id, text string) error {
	l.mu.Lock()
	i := l.indexLocked(id)
	if i < 0 {
		l.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	l.items[i].Value = text

	if l.timeAware && l.items[i].TimeConfig == nil {
		if cfg, stripped, ok := timeparse.Extract(text); ok {
			l.items[i].TimeConfig = cfg
			l.items[i].Value = stripped
			others := make([]sortkey.Timed, 0, len(l.items)-1)
			for j := range l.items {
				if j == i {
					continue
				}
				tn := sortkey.Timed{ID: l.items[j].ID, Key: l.items[j].SortKey}
				if tc := l.items[j].TimeConfig; tc != nil {
					tn.StartTime = tc.StartTime
				}
				others = append(others, tn)
			}
			if key, err := sortkey.ByStartTime(cfg.StartTime, others); err == nil {
				l.items[i].SortKey = key
				sortByKey(l.items)
			}
		}
	}
	l.mu.Unlock()
	l.notify()
	return nil
}

// CommitTextfield closes this list's open textfield, if any.
//
// Non-empty values become STATIC and are persisted. An empty NEW item is
// discarded (it was never persisted); an empty EDIT item enters the
// delayed-delete flow instead, since it already exists in storage. With a
// shift direction, a fresh textfield opens immediately above or below the
// committed item so submits can chain.
func (l *SortedList) CommitTextfield(shift model.ShiftDirection) error {
	l.mu.Lock()
	if l.textfieldID == "" {
		l.mu.Unlock()
		return nil
	}
	i := l.indexLocked(l.textfieldID)
	if i < 0 {
		l.textfieldID = ""
		l.mu.Unlock()
		return nil
	}

	item := &l.items[i]
	status := item.Status
	trimmed := strings.TrimSpace(item.Value)

	var persistItem *model.ListItem
	var persistKind string // "create" | "update"

	if trimmed == "" {
		switch status {
		case model.StatusNew:
			l.items = append(l.items[:i], l.items[i+1:]...)
			l.textfieldID = ""
		case model.StatusEdit:
			l.textfieldID = ""
			l.toggleDeleteOnLocked(i, false)
		}
		l.mu.Unlock()
		l.notify()
		return nil
	}

	item.Value = trimmed
	item.Status = model.StatusStatic
	l.textfieldID = ""
	saved := *item
	persistItem = &saved
	if status == model.StatusNew {
		persistKind = "create"
	} else {
		persistKind = "update"
	}

	openedNew := false
	if shift != "" {
		anchorID := ""
		switch shift {
		case model.ShiftBelow:
			anchorID = saved.ID
		case model.ShiftAbove:
			// The new textfield takes the committed item's old position and
			// the committed item shifts down: anchor on its predecessor.
			if idx := l.indexLocked(saved.ID); idx > 0 {
				anchorID = l.items[idx-1].ID
			}
		}
		if _, err := l.insertTextfieldLocked(anchorID); err == nil {
			openedNew = true
		}
	}
	l.mu.Unlock()

	if persistItem != nil {
		l.persist(persistKind, *persistItem)
	}
	if openedNew && l.coord != nil {
		l.coord.noteFocus(l.listID)
	}
	l.notify()
	return nil
}

// ConvertToTextfield reopens a committed item for editing. Items mid-delete
// or pending are left alone. Any open textfield anywhere commits first.
func (l *SortedList) ConvertToTextfield(id string) error {
	if it, ok := l.ItemByID(id); !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	} else if it.Status == model.StatusDeleting || it.Status == model.StatusPending {
		return nil
	}

	if l.coord != nil {
		l.coord.RequestFocus(l.listID)
	}
	// The open textfield may be in this list; commit it directly.
	if other, otherID := l.openTextfieldAnywhere(); other != nil && otherID != id {
		_ = other.CommitTextfield("")
	}

	l.mu.Lock()
	i := l.indexLocked(id)
	if i < 0 || l.items[i].Status == model.StatusDeleting || l.items[i].Status == model.StatusPending {
		l.mu.Unlock()
		return nil
	}
	l.items[i].Status = model.StatusEdit
	l.textfieldID = id
	l.mu.Unlock()

	if l.coord != nil {
		l.coord.noteFocus(l.listID)
	}
	l.notify()
	return nil
}

// MoveItem repositions an item directly after newPredecessorID ("" means the
// head of the list) and persists the new key.
func (l *SortedList) MoveItem(id, newPredecessorID string) error {
	l.mu.Lock()
	saved, err := l.moveItemLocked(id, newPredecessorID)
	l.mu.Unlock()
	if err != nil {
		return err
	}
	l.persist("move", saved)
	l.notify()
	return nil
}

func (l *SortedList) moveItemLocked(id, newPredecessorID string) (model.ListItem, error) {
	id = strings.TrimSpace(id)
	newPredecessorID = strings.TrimSpace(newPredecessorID)

	i := l.indexLocked(id)
	if i < 0 {
		return model.ListItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	item := l.items[i]
	rest := append([]model.ListItem{}, l.items[:i]...)
	rest = append(rest, l.items[i+1:]...)

	prevKey := ""
	nextKey := ""
	if newPredecessorID != "" {
		at := -1
		for j := range rest {
			if rest[j].ID == newPredecessorID {
				at = j
				break
			}
		}
		if at < 0 {
			return model.ListItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, newPredecessorID)
		}
		prevKey = rest[at].SortKey
		if at+1 < len(rest) {
			nextKey = rest[at+1].SortKey
		}
	} else if len(rest) > 0 {
		nextKey = rest[0].SortKey
	}

	key, err := sortkey.BetweenUnique(l.existingKeysLocked(map[string]bool{id: true}), prevKey, nextKey)
	if err != nil {
		return model.ListItem{}, err
	}
	item.SortKey = key
	rest = append(rest, item)
	sortByKey(rest)
	l.items = rest
	return item, nil
}

// BeginDrag marks an item as the list's dragged row. Only one item per list
// may be in DRAG at a time.
func (l *SortedList) BeginDrag(id string) {
	l.mu.Lock()
	for i := range l.items {
		if l.items[i].Status == model.StatusDrag {
			l.items[i].Status = model.StatusStatic
		}
	}
	if i := l.indexLocked(id); i >= 0 {
		if st := l.items[i].Status; st == model.StatusStatic || st == model.StatusDrag {
			l.items[i].Status = model.StatusDrag
		}
	}
	l.mu.Unlock()
	l.notify()
}

// ReorderOnDrop settles a drag: from and to index the current view. Equal
// indices just clear the DRAG status; otherwise the item moves after whatever
// now precedes the target position.
func (l *SortedList) ReorderOnDrop(from, to int) error {
	// Any open textfield commits before the reorder key is computed, so a
	// drop can never collide with an uncommitted edit.
	if l.coord != nil {
		l.coord.RequestFocus(l.listID)
	}
	if other, _ := l.openTextfieldAnywhere(); other != nil {
		_ = other.CommitTextfield("")
	}

	l.mu.Lock()
	if from < 0 || from >= len(l.items) || to < 0 || to >= len(l.items) {
		l.mu.Unlock()
		return fmt.Errorf("engine: drop index out of range (%d -> %d of %d)", from, to, len(l.items))
	}
	id := l.items[from].ID

	if from == to {
		if l.items[from].Status == model.StatusDrag {
			l.items[from].Status = model.StatusStatic
		}
		l.mu.Unlock()
		l.notify()
		return nil
	}

	rest := append([]model.ListItem{}, l.items[:from]...)
	rest = append(rest, l.items[from+1:]...)
	predID := ""
	if to > 0 {
		predID = rest[to-1].ID
	}
	saved, err := l.moveItemLocked(id, predID)
	if err != nil {
		l.mu.Unlock()
		return err
	}
	if i := l.indexLocked(id); i >= 0 && l.items[i].Status == model.StatusDrag {
		l.items[i].Status = model.StatusStatic
		saved.Status = model.StatusStatic
	}
	l.mu.Unlock()

	l.persist("move", saved)
	l.notify()
	return nil
}

// ToggleDelete flips an item in or out of the delayed-delete flow.
//
// Scheduling a delete restarts the grace window of every DELETING item in the
// list, so a burst of deletes shares one undo window. Undoing one delete also
// restarts the others' windows. immediate skips the grace period.
func (l *SortedList) ToggleDelete(id string, immediate bool) error {
	if l.coord != nil {
		l.coord.RequestFocus(l.listID)
	}

	l.mu.Lock()
	i := l.indexLocked(id)
	if i < 0 {
		l.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}

	if l.items[i].Status != model.StatusDeleting {
		if l.textfieldID == id {
			l.textfieldID = ""
		}
		l.toggleDeleteOnLocked(i, immediate)
		l.mu.Unlock()
		if immediate {
			// Synchronous removal; callers (CLI) need the write done on return.
			l.fireDelete(id)
		}
		l.notify()
		return nil
	}

	// Undo: cancel before removing the pending record so a stale fire can
	// never hit a re-added id.
	if t, ok := l.pendingDeletes[id]; ok {
		t.Stop()
		delete(l.pendingDeletes, id)
	}
	prior := l.priorStatus[id]
	delete(l.priorStatus, id)
	if prior == model.StatusEdit {
		if other, _ := l.openTextfieldAnywhereLocked(); other == nil {
			l.items[i].Status = model.StatusEdit
			l.textfieldID = id
		} else {
			l.items[i].Status = model.StatusStatic
		}
	} else {
		l.items[i].Status = model.StatusStatic
	}
	l.rescheduleLocked()
	l.mu.Unlock()
	l.notify()
	return nil
}

// toggleDeleteOnLocked schedules the delete of items[i]. Immediate deletes
// get a placeholder record; the caller fires them after releasing the lock.
func (l *SortedList) toggleDeleteOnLocked(i int, immediate bool) {
	item := &l.items[i]
	l.priorStatus[item.ID] = item.Status
	item.Status = model.StatusDeleting

	l.rescheduleLocked()

	id := item.ID
	if immediate {
		l.pendingDeletes[id] = noopTimer{}
		return
	}
	l.pendingDeletes[id] = l.newTimer(l.grace, func() { l.fireDelete(id) })
}

// rescheduleDeletes restarts every pending grace window (focus changes).
func (l *SortedList) rescheduleDeletes() {
	l.mu.Lock()
	l.rescheduleLocked()
	l.mu.Unlock()
}

func (l *SortedList) rescheduleLocked() {
	for _, t := range l.pendingDeletes {
		t.Reset(l.grace)
	}
}

// fireDelete is the grace timer callback: physical removal from the view and
// from storage. A concurrent undo already cancelled and cleared the pending
// record, making the fire a no-op.
func (l *SortedList) fireDelete(id string) {
	l.mu.Lock()
	if _, ok := l.pendingDeletes[id]; !ok {
		l.mu.Unlock()
		return
	}
	delete(l.pendingDeletes, id)
	delete(l.priorStatus, id)
	if l.textfieldID == id {
		l.textfieldID = ""
	}
	removed := false
	if i := l.indexLocked(id); i >= 0 {
		l.items = append(l.items[:i], l.items[i+1:]...)
		removed = true
	}
	l.mu.Unlock()

	if removed {
		l.persistDelete(id)
		l.notify()
	}
}

// --- persistence ---

// Writes are optimistic: the in-memory view has already advanced, storage is
// a durability sink, and a failed write is a silent durability gap rather
// than a rolled-back operation.

func (l *SortedList) persist(kind string, item model.ListItem) {
	ctx := context.Background()
	if fg, ok := l.store.(FineGrained); ok {
		switch kind {
		case "create":
			_ = fg.Create(ctx, item)
		default:
			_ = fg.Update(ctx, item)
		}
	} else {
		_ = l.store.SaveAll(ctx, l.listID, l.persistableItems())
	}
	l.emit("item."+kindEventName(kind), item.ID, item)
}

func (l *SortedList) persistDelete(id string) {
	ctx := context.Background()
	if fg, ok := l.store.(FineGrained); ok {
		_ = fg.Delete(ctx, l.listID, id)
	} else {
		_ = l.store.SaveAll(ctx, l.listID, l.persistableItems())
	}
	l.emit("item.delete", id, nil)
}

// persistableItems snapshots the committed view: NEW items are never
// persisted, and transient statuses are not meaningful in storage.
func (l *SortedList) persistableItems() []model.ListItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.ListItem, 0, len(l.items))
	for _, it := range l.items {
		if it.Status == model.StatusNew {
			continue
		}
		it.Status = model.StatusStatic
		out = append(out, it)
	}
	return out
}

func kindEventName(kind string) string {
	switch kind {
	case "create":
		return "create"
	case "move":
		return "move"
	default:
		return "update"
	}
}

// --- helpers ---

func (l *SortedList) indexLocked(id string) int {
	for i := range l.items {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *SortedList) existingKeysLocked(exclude map[string]bool) map[string]bool {
	out := map[string]bool{}
	for _, it := range l.items {
		if exclude != nil && exclude[it.ID] {
			continue
		}
		k := strings.ToLower(strings.TrimSpace(it.SortKey))
		if k != "" {
			out[k] = true
		}
	}
	return out
}

func (l *SortedList) textfieldIDSnapshot() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.textfieldID
}

func (l *SortedList) openTextfieldAnywhere() (*SortedList, string) {
	if l.coord != nil {
		return l.coord.openTextfield()
	}
	if id := l.textfieldIDSnapshot(); id != "" {
		return l, id
	}
	return nil, ""
}

// openTextfieldAnywhereLocked is the variant safe to call under l.mu: it
// checks this list without re-locking and asks the coordinator only about
// the others.
func (l *SortedList) openTextfieldAnywhereLocked() (*SortedList, string) {
	if l.textfieldID != "" {
		return l, l.textfieldID
	}
	if l.coord == nil {
		return nil, ""
	}
	l.coord.mu.Lock()
	all := l.coord.snapshotLocked()
	l.coord.mu.Unlock()
	for _, other := range all {
		if other == l {
			continue
		}
		if id := other.textfieldIDSnapshot(); id != "" {
			return other, id
		}
	}
	return nil, ""
}

func (l *SortedList) notify() {
	if l.onChange != nil {
		l.onChange()
	}
}

func (l *SortedList) emit(typ, entityID string, payload any) {
	if l.onEvent != nil {
		l.onEvent(typ, entityID, payload)
	}
}

func sortByKey(items []model.ListItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.SortKey != b.SortKey {
			return a.SortKey < b.SortKey
		}
		return a.ID < b.ID
	})
}
