package tui

import (
	"context"
	"fmt"
	"strings"

	"daybook-cli/internal/model"
	"daybook-cli/internal/storage"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// browserRow is one selectable row: a planner shortcut at the root, or a
// folder/list entry of the current folder.
type browserRow struct {
	kind    string // "planner" | "folder" | "list"
	id      string
	label   string
	count   int
	planner bool
}

type browserModel struct {
	deps   *deps
	folder *model.Folder
	crumbs []string // folder ids from root to current (exclusive)
	rows   []browserRow
	cursor int

	naming    bool
	nameKind  model.ItemType
	nameInput textinput.Model
}

func newBrowserModel(d *deps) (*browserModel, error) {
	b := &browserModel{deps: d}
	if err := b.openFolder(model.RootFolderID); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *browserModel) openFolder(id string) error {
	ctx := context.Background()
	var f *model.Folder
	var err error
	if id == model.RootFolderID {
		f, err = b.deps.lists.EnsureRoot(ctx)
	} else {
		f, err = b.deps.lists.GetFolder(ctx, id)
	}
	if err != nil {
		return err
	}
	b.folder = f
	b.rebuildRows()
	if b.cursor >= len(b.rows) {
		b.cursor = len(b.rows) - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
	return nil
}

func (b *browserModel) reload() error {
	return b.openFolder(b.folder.ID)
}

func (b *browserModel) rebuildRows() {
	rows := []browserRow{}
	if b.folder.ID == model.RootFolderID {
		rows = append(rows,
			browserRow{kind: "planner", id: todayListID(), label: "Today", planner: true},
			browserRow{kind: "planner", id: storage.RecurringPlannerID, label: "Recurring weekdays", planner: true},
		)
	}
	for _, it := range b.folder.Items {
		switch it.Type {
		case model.ItemTypeFolder:
			rows = append(rows, browserRow{kind: "folder", id: it.ID, label: it.Value})
		case model.ItemTypeList:
			rows = append(rows, browserRow{kind: "list", id: it.ID, label: it.Value, count: it.ChildrenCount})
		}
	}
	b.rows = rows
}

func (m *appModel) updateBrowser(msg tea.Msg) (tea.Model, tea.Cmd) {
	b := m.browser

	if b.naming {
		return m.updateBrowserNaming(msg)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q":
		return m, tea.Quit
	case "j", "down":
		if b.cursor < len(b.rows)-1 {
			b.cursor++
		}
	case "k", "up":
		if b.cursor > 0 {
			b.cursor--
		}
	case "enter", "l":
		if b.cursor < len(b.rows) {
			row := b.rows[b.cursor]
			switch row.kind {
			case "folder":
				b.crumbs = append(b.crumbs, b.folder.ID)
				if err := b.openFolder(row.id); err != nil {
					m.errMsg = err.Error()
					b.crumbs = b.crumbs[:len(b.crumbs)-1]
				}
				b.cursor = 0
			default:
				m.openList(row.id, row.label, row.planner)
			}
		}
	case "h", "backspace":
		if n := len(b.crumbs); n > 0 {
			parent := b.crumbs[n-1]
			b.crumbs = b.crumbs[:n-1]
			if err := b.openFolder(parent); err != nil {
				m.errMsg = err.Error()
			}
			b.cursor = 0
		}
	case "n":
		b.startNaming(model.ItemTypeList)
	case "N":
		b.startNaming(model.ItemTypeFolder)
	case "D":
		if b.cursor < len(b.rows) {
			row := b.rows[b.cursor]
			ctx := context.Background()
			var err error
			switch row.kind {
			case "folder":
				err = b.deps.lists.DeleteFolder(ctx, row.id)
			case "list":
				err = b.deps.lists.DeleteList(ctx, row.id)
			}
			if err != nil {
				m.errMsg = err.Error()
			} else if err := b.reload(); err != nil {
				m.errMsg = err.Error()
			}
		}
	}
	return m, nil
}

func (b *browserModel) startNaming(kind model.ItemType) {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "name"
	ti.Focus()
	b.nameInput = ti
	b.nameKind = kind
	b.naming = true
}

func (m *appModel) updateBrowserNaming(msg tea.Msg) (tea.Model, tea.Cmd) {
	b := m.browser
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEscape:
			b.naming = false
			return m, nil
		case tea.KeyEnter:
			name := strings.TrimSpace(b.nameInput.Value())
			b.naming = false
			if name == "" {
				return m, nil
			}
			ctx := context.Background()
			var err error
			if b.nameKind == model.ItemTypeFolder {
				_, err = b.deps.lists.CreateFolder(ctx, b.folder.ID, name)
			} else {
				_, err = b.deps.lists.CreateList(ctx, b.folder.ID, name)
			}
			if err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			if err := b.reload(); err != nil {
				m.errMsg = err.Error()
			}
			b.cursor = len(b.rows) - 1
			return m, nil
		}
	}
	var cmd tea.Cmd
	b.nameInput, cmd = b.nameInput.Update(msg)
	return m, cmd
}

func (b *browserModel) view(width, height int, errMsg string) string {
	if width < 20 {
		width = 80
	}

	var sb strings.Builder
	title := b.folder.Value
	if len(b.crumbs) > 0 {
		title = fmt.Sprintf("%s (%d up)", title, len(b.crumbs))
	}
	sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Render(title))
	sb.WriteString("\n\n")

	for i, row := range b.rows {
		var line string
		switch row.kind {
		case "folder":
			line = fmt.Sprintf("%s %s", glyphFolder(), row.label)
		case "list":
			line = fmt.Sprintf("%s %s (%d)", glyphBullet(), row.label, row.count)
		default:
			line = fmt.Sprintf("%s %s", glyphBullet(), row.label)
		}
		if i == b.cursor && !b.naming {
			line = styleSelected().Render(line)
		} else {
			line = lipgloss.NewStyle().Foreground(colorSurfaceFg).Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	if len(b.rows) == 0 {
		sb.WriteString(styleMuted().Render("(empty; n = new list, N = new folder)"))
		sb.WriteString("\n")
	}

	if b.naming {
		kind := "list"
		if b.nameKind == model.ItemTypeFolder {
			kind = "folder"
		}
		sb.WriteString("\n")
		sb.WriteString(styleMuted().Render("new " + kind + ": "))
		sb.WriteString(renderInputLine(width-12, b.nameInput.View()))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	if errMsg != "" {
		sb.WriteString(styleMuted().Render(errMsg))
	} else {
		sb.WriteString(styleMuted().Render("enter open  h up  n new list  N new folder  D delete  q quit"))
	}
	return sb.String()
}
