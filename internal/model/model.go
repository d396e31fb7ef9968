package model

// ItemStatus tags an item's position in the textfield/delete lifecycle.
// The zero value ("") means the item is committed and at rest (STATIC).
type ItemStatus string

const (
	StatusStatic   ItemStatus = ""
	StatusNew      ItemStatus = "NEW"
	StatusEdit     ItemStatus = "EDIT"
	StatusDrag     ItemStatus = "DRAG"
	StatusDeleting ItemStatus = "DELETING"
	StatusPending  ItemStatus = "PENDING"
)

// IsTextfield reports whether the status means the item is open for input.
func (s ItemStatus) IsTextfield() bool {
	return s == StatusNew || s == StatusEdit
}

// ShiftDirection controls where the follow-up textfield opens after a commit.
type ShiftDirection string

const (
	ShiftAbove ShiftDirection = "ABOVE"
	ShiftBelow ShiftDirection = "BELOW"
)

// TimeConfig attaches a time of day to a planner item.
type TimeConfig struct {
	StartTime string `json:"startTime"` // HH:MM, 24h
}

// RecurringConfig links a planner item back to its recurring template.
type RecurringConfig struct {
	RecurringID string `json:"recurringId"`
}

// ListItem is one row of a sorted list. SortKey totally orders items within
// a list; ties (legacy data only) break by ID. TimeConfig and RecurringConfig
// are only set on planner items.
type ListItem struct {
	ID      string     `json:"id"`
	ListID  string     `json:"listId"`
	Value   string     `json:"value"`
	SortKey string     `json:"sortKey"`
	Status  ItemStatus `json:"status,omitempty"`

	TimeConfig      *TimeConfig      `json:"timeConfig,omitempty"`
	RecurringConfig *RecurringConfig `json:"recurringConfig,omitempty"`
}

type ItemType string

const (
	ItemTypeFolder ItemType = "FOLDER"
	ItemTypeList   ItemType = "LIST"
)

// FolderItem is an entry in a folder: a nested folder or a checklist.
// ListID is the parent folder's id.
type FolderItem struct {
	ID            string   `json:"id"`
	ListID        string   `json:"listId"`
	Value         string   `json:"value"`
	SortKey       string   `json:"sortKey"`
	ChildrenCount int      `json:"childrenCount"`
	Type          ItemType `json:"type"`
}

// Folder is the persisted blob for one folder.
type Folder struct {
	ID             string       `json:"id"`
	ParentFolderID string       `json:"parentFolderId,omitempty"`
	Value          string       `json:"value"`
	Items          []FolderItem `json:"items"`
}

// List is the persisted blob for one checklist.
type List struct {
	ID             string     `json:"id"`
	ParentFolderID string     `json:"parentFolderId,omitempty"`
	Value          string     `json:"value"`
	Items          []ListItem `json:"items"`
}

// RootFolderID is the sentinel id of the top-level folder.
const RootFolderID = "root"
