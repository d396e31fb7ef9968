package engine

import (
	"testing"
	"time"

	"daybook-cli/internal/model"
)

func TestToggleDelete_RemovesAfterGraceWindow(t *testing.T) {
	clock := newFakeClock()
	l, store := newTestList(t, []model.ListItem{
		{ID: "a", Value: "A", SortKey: "a0"},
		{ID: "b", Value: "B", SortKey: "a2"},
	}, nil)
	l.newTimer = clock.NewTimer

	if err := l.ToggleDelete("a", false); err != nil {
		t.Fatalf("ToggleDelete: %v", err)
	}
	if it, _ := l.ItemByID("a"); it.Status != model.StatusDeleting {
		t.Fatalf("status = %q, want DELETING", it.Status)
	}
	if len(l.Items()) != 2 {
		t.Fatalf("DELETING item must stay visible")
	}
	if store.saves != 0 {
		t.Fatalf("nothing should persist before the window elapses")
	}

	clock.Advance(DefaultGracePeriod)

	if _, ok := l.ItemByID("a"); ok {
		t.Fatalf("item still present after grace window")
	}
	saved := values(store.lastSave())
	if len(saved) != 1 || saved[0] != "B" {
		t.Fatalf("persisted set = %v, want [B]", saved)
	}
}

func TestToggleDelete_ImmediateSkipsGrace(t *testing.T) {
	clock := newFakeClock()
	l, _ := newTestList(t, []model.ListItem{
		{ID: "a", Value: "A", SortKey: "a0"},
	}, nil)
	l.newTimer = clock.NewTimer

	if err := l.ToggleDelete("a", true); err != nil {
		t.Fatalf("ToggleDelete: %v", err)
	}
	clock.Advance(0)
	if _, ok := l.ItemByID("a"); ok {
		t.Fatalf("immediate delete should remove without waiting")
	}
}

func TestToggleDelete_UndoRestoresAndSurvivesOriginalDeadline(t *testing.T) {
	clock := newFakeClock()
	l, store := newTestList(t, []model.ListItem{
		{ID: "a", Value: "A", SortKey: "a0"},
	}, nil)
	l.newTimer = clock.NewTimer

	if err := l.ToggleDelete("a", false); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	clock.Advance(DefaultGracePeriod - time.Millisecond)
	if err := l.ToggleDelete("a", false); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if it, _ := l.ItemByID("a"); it.Status != model.StatusStatic {
		t.Fatalf("status after undo = %q, want STATIC", it.Status)
	}

	// Well past the original deadline: the cancelled timer must not fire.
	clock.Advance(10 * DefaultGracePeriod)
	if _, ok := l.ItemByID("a"); !ok {
		t.Fatalf("undone item was removed by a stale timer")
	}
	if store.saves != 0 {
		t.Fatalf("undo must not write storage; saves = %d", store.saves)
	}
}

func TestToggleDelete_BurstSharesOneWindow(t *testing.T) {
	clock := newFakeClock()
	l, _ := newTestList(t, []model.ListItem{
		{ID: "a", Value: "A", SortKey: "a0"},
		{ID: "b", Value: "B", SortKey: "a2"},
		{ID: "c", Value: "C", SortKey: "a4"},
	}, nil)
	l.newTimer = clock.NewTimer

	if err := l.ToggleDelete("a", false); err != nil {
		t.Fatalf("delete a: %v", err)
	}
	clock.Advance(DefaultGracePeriod - time.Millisecond)
	// Scheduling b restarts a's window too.
	if err := l.ToggleDelete("b", false); err != nil {
		t.Fatalf("delete b: %v", err)
	}
	clock.Advance(time.Millisecond)
	if _, ok := l.ItemByID("a"); !ok {
		t.Fatalf("a expired on its original deadline; the burst should share one window")
	}

	clock.Advance(DefaultGracePeriod)
	if _, ok := l.ItemByID("a"); ok {
		t.Fatalf("a survived the shared window")
	}
	if _, ok := l.ItemByID("b"); ok {
		t.Fatalf("b survived the shared window")
	}
	if _, ok := l.ItemByID("c"); !ok {
		t.Fatalf("c was never scheduled and must remain")
	}
}

func TestToggleDelete_UndoRestartsSiblingWindows(t *testing.T) {
	clock := newFakeClock()
	l, _ := newTestList(t, []model.ListItem{
		{ID: "a", Value: "A", SortKey: "a0"},
		{ID: "b", Value: "B", SortKey: "a2"},
	}, nil)
	l.newTimer = clock.NewTimer

	if err := l.ToggleDelete("a", false); err != nil {
		t.Fatalf("delete a: %v", err)
	}
	if err := l.ToggleDelete("b", false); err != nil {
		t.Fatalf("delete b: %v", err)
	}
	clock.Advance(DefaultGracePeriod - time.Millisecond)
	if err := l.ToggleDelete("b", false); err != nil {
		t.Fatalf("undo b: %v", err)
	}
	clock.Advance(time.Millisecond)
	if _, ok := l.ItemByID("a"); !ok {
		t.Fatalf("undoing b should have restarted a's window")
	}
	clock.Advance(DefaultGracePeriod)
	if _, ok := l.ItemByID("a"); ok {
		t.Fatalf("a should expire one full window after the undo")
	}
	if it, _ := l.ItemByID("b"); it.Status != model.StatusStatic {
		t.Fatalf("b should stay restored, got %q", it.Status)
	}
}

func TestLoad_CancelsPendingDeletes(t *testing.T) {
	clock := newFakeClock()
	l, _ := newTestList(t, []model.ListItem{
		{ID: "a", Value: "A", SortKey: "a0"},
	}, nil)
	l.newTimer = clock.NewTimer

	if err := l.ToggleDelete("a", false); err != nil {
		t.Fatalf("ToggleDelete: %v", err)
	}
	mustLoad(t, l)

	// The reload replaced the view; the old timer must not remove the fresh item.
	clock.Advance(10 * DefaultGracePeriod)
	it, ok := l.ItemByID("a")
	if !ok {
		t.Fatalf("reloaded item removed by a timer scheduled before the reload")
	}
	if it.Status != model.StatusStatic {
		t.Fatalf("status after reload = %q, want STATIC", it.Status)
	}
}

func TestCommitEmptyEdit_EntersDelayedDelete(t *testing.T) {
	clock := newFakeClock()
	l, _ := newTestList(t, []model.ListItem{
		{ID: "a", Value: "A", SortKey: "a0"},
	}, nil)
	l.newTimer = clock.NewTimer

	if err := l.ConvertToTextfield("a"); err != nil {
		t.Fatalf("ConvertToTextfield: %v", err)
	}
	if err := l.UpdateValue("a", ""); err != nil {
		t.Fatalf("UpdateValue: %v", err)
	}
	if err := l.CommitTextfield(""); err != nil {
		t.Fatalf("CommitTextfield: %v", err)
	}

	it, ok := l.ItemByID("a")
	if !ok || it.Status != model.StatusDeleting {
		t.Fatalf("empty EDIT commit should mark DELETING, got %+v (present=%v)", it, ok)
	}
	if _, open := l.Textfield(); open {
		t.Fatalf("textfield should be closed")
	}

	// Full grace window applies, so the clear is still undoable.
	clock.Advance(DefaultGracePeriod - time.Millisecond)
	if err := l.ToggleDelete("a", false); err != nil {
		t.Fatalf("undo: %v", err)
	}
	clock.Advance(10 * DefaultGracePeriod)
	if _, ok := l.ItemByID("a"); !ok {
		t.Fatalf("undone item was removed")
	}
}

func TestUndo_RestoresPriorEditStatus(t *testing.T) {
	clock := newFakeClock()
	l, _ := newTestList(t, []model.ListItem{
		{ID: "a", Value: "A", SortKey: "a0"},
	}, nil)
	l.newTimer = clock.NewTimer

	if err := l.ConvertToTextfield("a"); err != nil {
		t.Fatalf("ConvertToTextfield: %v", err)
	}
	if err := l.ToggleDelete("a", false); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, open := l.Textfield(); open {
		t.Fatalf("deleting an EDIT item should close its textfield")
	}

	if err := l.ToggleDelete("a", false); err != nil {
		t.Fatalf("undo: %v", err)
	}
	tf, open := l.Textfield()
	if !open || tf.ID != "a" || tf.Status != model.StatusEdit {
		t.Fatalf("undo should restore the EDIT textfield, got open=%v item=%+v", open, tf)
	}
}

func TestUndo_DoesNotReopenEditWhenAnotherTextfieldExists(t *testing.T) {
	clock := newFakeClock()
	l, _ := newTestList(t, []model.ListItem{
		{ID: "a", Value: "A", SortKey: "a0"},
		{ID: "b", Value: "B", SortKey: "a2"},
	}, nil)
	l.newTimer = clock.NewTimer

	if err := l.ConvertToTextfield("a"); err != nil {
		t.Fatalf("ConvertToTextfield: %v", err)
	}
	if err := l.ToggleDelete("a", false); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := l.AddTextfieldAfter("b"); err != nil {
		t.Fatalf("open other textfield: %v", err)
	}
	if err := l.ToggleDelete("a", false); err != nil {
		t.Fatalf("undo: %v", err)
	}
	it, _ := l.ItemByID("a")
	if it.Status != model.StatusStatic {
		t.Fatalf("undo with a textfield open elsewhere should restore STATIC, got %q", it.Status)
	}
}
