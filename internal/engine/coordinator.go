package engine

import (
	"strings"
	"sync"
)

// Coordinator tracks which list owns the active textfield. All focus changes
// funnel through RequestFocus, which commits the previously focused list's
// open textfield before the transfer completes. That commit-then-transfer
// step is what enforces the single-active-textfield invariant across lists.
type Coordinator struct {
	mu           sync.Mutex
	lists        map[string]*SortedList
	activeListID string
}

func NewCoordinator() *Coordinator {
	return &Coordinator{lists: map[string]*SortedList{}}
}

func (c *Coordinator) register(l *SortedList) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[l.listID] = l
}

func (c *Coordinator) ActiveListID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeListID
}

// RequestFocus transfers focus to listID. The previously focused list commits
// its open textfield first, and every registered list restarts its delete
// grace windows (the user's attention has moved).
func (c *Coordinator) RequestFocus(listID string) {
	listID = strings.TrimSpace(listID)

	c.mu.Lock()
	if c.activeListID == listID {
		c.mu.Unlock()
		return
	}
	prev := c.lists[c.activeListID]
	c.activeListID = listID
	all := c.snapshotLocked()
	c.mu.Unlock()

	if prev != nil {
		_ = prev.CommitTextfield("")
	}
	for _, l := range all {
		l.rescheduleDeletes()
	}
}

// noteFocus records focus without the commit step. Used by the list that just
// opened a textfield itself (there is nothing to commit by construction).
func (c *Coordinator) noteFocus(listID string) {
	c.mu.Lock()
	if c.activeListID == listID {
		c.mu.Unlock()
		return
	}
	c.activeListID = listID
	all := c.snapshotLocked()
	c.mu.Unlock()

	for _, l := range all {
		l.rescheduleDeletes()
	}
}

// openTextfield returns the list currently holding a textfield, if any.
func (c *Coordinator) openTextfield() (*SortedList, string) {
	c.mu.Lock()
	all := c.snapshotLocked()
	c.mu.Unlock()

	for _, l := range all {
		if id := l.textfieldIDSnapshot(); id != "" {
			return l, id
		}
	}
	return nil, ""
}

func (c *Coordinator) snapshotLocked() []*SortedList {
	out := make([]*SortedList, 0, len(c.lists))
	for _, l := range c.lists {
		out = append(out, l)
	}
	return out
}
