package tui

import (
	"strings"

	"daybook-cli/internal/engine"
	"daybook-cli/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// listModel is the checklist/planner screen: one lifecycle engine rendered as
// selectable rows, with at most one row swapped out for a text input.
type listModel struct {
	deps    *deps
	eng     *engine.SortedList
	title   string
	planner bool

	cursor  int
	editing bool
	editID  string
	input   textinput.Model

	dragging bool
	dragFrom int
	dragTo   int
}

func newListModel(d *deps, eng *engine.SortedList, title string, planner bool) *listModel {
	ls := &listModel{deps: d, eng: eng, title: title, planner: planner}
	ls.syncTextfield()
	return ls
}

// syncTextfield reconciles the local editing state with the engine's open
// textfield. Chained textfields (shift commits), commits forced by focus
// transfers, and deletes of the edited row all land here.
func (ls *listModel) syncTextfield() {
	tf, open := ls.eng.Textfield()
	if !open {
		ls.editing = false
		ls.editID = ""
		return
	}
	if !ls.editing || ls.editID != tf.ID {
		ti := textinput.New()
		ti.Prompt = ""
		ti.SetValue(tf.Value)
		ti.CursorEnd()
		ti.Focus()
		ls.input = ti
		ls.editing = true
		ls.editID = tf.ID
		if i := ls.indexOf(tf.ID); i >= 0 {
			ls.cursor = i
		}
	}
}

func (ls *listModel) indexOf(id string) int {
	items := ls.eng.Items()
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func (ls *listModel) selectedID() string {
	items := ls.eng.Items()
	if ls.cursor < 0 || ls.cursor >= len(items) {
		return ""
	}
	return items[ls.cursor].ID
}

func (ls *listModel) clampCursor() {
	n := len(ls.eng.Items())
	if ls.cursor >= n {
		ls.cursor = n - 1
	}
	if ls.cursor < 0 {
		ls.cursor = 0
	}
}

func (m *appModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	ls := m.list
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if ls.editing {
		return m.updateListEditing(key)
	}

	items := ls.eng.Items()
	switch key.String() {
	case "q", "esc":
		if ls.dragging {
			// Settle the drag in place rather than leaving a DRAG row behind.
			_ = ls.eng.ReorderOnDrop(ls.dragFrom, ls.dragFrom)
			ls.dragging = false
			return m, nil
		}
		m.closeList()
	case "j", "down":
		if ls.dragging {
			if ls.dragTo < len(items)-1 {
				ls.dragTo++
				ls.cursor = ls.dragTo
			}
		} else if ls.cursor < len(items)-1 {
			ls.cursor++
		}
	case "k", "up":
		if ls.dragging {
			if ls.dragTo > 0 {
				ls.dragTo--
				ls.cursor = ls.dragTo
			}
		} else if ls.cursor > 0 {
			ls.cursor--
		}
	case " ":
		if len(items) == 0 {
			return m, nil
		}
		if !ls.dragging {
			ls.eng.BeginDrag(items[ls.cursor].ID)
			ls.dragging = true
			ls.dragFrom = ls.cursor
			ls.dragTo = ls.cursor
		} else {
			if err := ls.eng.ReorderOnDrop(ls.dragFrom, ls.dragTo); err != nil {
				m.errMsg = err.Error()
			}
			ls.dragging = false
			ls.cursor = ls.dragTo
			ls.clampCursor()
		}
	case "o":
		if err := ls.openTextfieldAfter(ls.selectedID()); err != nil {
			m.errMsg = err.Error()
		}
	case "O":
		anchor := ""
		if ls.cursor > 0 && ls.cursor-1 < len(items) {
			anchor = items[ls.cursor-1].ID
		}
		if err := ls.openTextfieldAfter(anchor); err != nil {
			m.errMsg = err.Error()
		}
	case "a":
		anchor := ""
		if len(items) > 0 {
			anchor = items[len(items)-1].ID
		}
		if err := ls.openTextfieldAfter(anchor); err != nil {
			m.errMsg = err.Error()
		}
	case "enter", "e":
		if id := ls.selectedID(); id != "" {
			if err := ls.eng.ConvertToTextfield(id); err != nil {
				m.errMsg = err.Error()
			}
			ls.syncTextfield()
		}
	case "d":
		if id := ls.selectedID(); id != "" {
			if err := ls.eng.ToggleDelete(id, false); err != nil {
				m.errMsg = err.Error()
			}
			ls.syncTextfield()
		}
	case "D":
		if id := ls.selectedID(); id != "" {
			if err := ls.eng.ToggleDelete(id, true); err != nil {
				m.errMsg = err.Error()
			}
			ls.clampCursor()
			ls.syncTextfield()
		}
	}
	return m, nil
}

func (ls *listModel) openTextfieldAfter(anchorID string) error {
	if _, err := ls.eng.AddTextfieldAfter(anchorID); err != nil {
		return err
	}
	ls.syncTextfield()
	return nil
}

func (m *appModel) updateListEditing(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	ls := m.list
	switch key.Type {
	case tea.KeyEnter:
		// Commit and chain a fresh textfield below.
		if err := ls.eng.CommitTextfield(model.ShiftBelow); err != nil {
			m.errMsg = err.Error()
		}
		ls.syncTextfield()
		ls.clampCursor()
		return m, nil
	case tea.KeyEscape:
		if err := ls.eng.CommitTextfield(""); err != nil {
			m.errMsg = err.Error()
		}
		ls.syncTextfield()
		ls.clampCursor()
		return m, nil
	case tea.KeyTab:
		// Commit and chain above.
		if err := ls.eng.CommitTextfield(model.ShiftAbove); err != nil {
			m.errMsg = err.Error()
		}
		ls.syncTextfield()
		ls.clampCursor()
		return m, nil
	}

	var cmd tea.Cmd
	ls.input, cmd = ls.input.Update(key)
	if err := ls.eng.UpdateValue(ls.editID, ls.input.Value()); err != nil {
		m.errMsg = err.Error()
		return m, cmd
	}
	// Time extraction strips the token from the stored value; mirror that in
	// the visible input so what you see is what commits.
	if it, ok := ls.eng.ItemByID(ls.editID); ok && it.TimeConfig != nil && it.Value != ls.input.Value() {
		ls.input.SetValue(it.Value)
		ls.input.CursorEnd()
	}
	return m, cmd
}

func (ls *listModel) view(width, height int, errMsg string) string {
	if width < 20 {
		width = 80
	}
	items := ls.eng.Items()

	// While dragging, show the grabbed row at its tentative position.
	if ls.dragging && ls.dragFrom != ls.dragTo && ls.dragFrom < len(items) {
		moved := items[ls.dragFrom]
		rest := append([]model.ListItem{}, items[:ls.dragFrom]...)
		rest = append(rest, items[ls.dragFrom+1:]...)
		to := ls.dragTo
		if to > len(rest) {
			to = len(rest)
		}
		items = append(rest[:to:to], append([]model.ListItem{moved}, rest[to:]...)...)
	}

	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Render(ls.title))
	sb.WriteString("\n\n")

	for i, it := range items {
		if ls.editing && it.ID == ls.editID {
			sb.WriteString("  ")
			sb.WriteString(renderInputLine(width-4, ls.input.View()))
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(ls.renderRow(it, i == ls.cursor))
		sb.WriteString("\n")
	}
	if len(items) == 0 && !ls.editing {
		sb.WriteString(styleMuted().Render("(empty; a = add)"))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	if errMsg != "" {
		sb.WriteString(styleMuted().Render(errMsg))
	} else if ls.editing {
		sb.WriteString(styleMuted().Render("enter commit+below  tab commit+above  esc commit"))
	} else if ls.dragging {
		sb.WriteString(styleMuted().Render("j/k move  space drop  esc cancel"))
	} else {
		sb.WriteString(styleMuted().Render("a add  o/O insert  e edit  d delete  space drag  q back"))
	}
	return sb.String()
}

func (ls *listModel) renderRow(it model.ListItem, selected bool) string {
	prefix := glyphBullet() + " "
	if it.Status == model.StatusDrag {
		prefix = glyphGrab() + " "
	}

	var line string
	if ls.planner && it.TimeConfig != nil {
		timeStr := lipgloss.NewStyle().Foreground(colorTimeFg).Render(it.TimeConfig.StartTime)
		line = prefix + timeStr + " " + it.Value
	} else {
		line = prefix + it.Value
	}

	st := lipgloss.NewStyle().Foreground(colorSurfaceFg)
	switch it.Status {
	case model.StatusDeleting:
		st = lipgloss.NewStyle().Foreground(colorDeletingFg).Strikethrough(true)
	case model.StatusPending:
		st = lipgloss.NewStyle().Foreground(colorDeletingFg)
	case model.StatusDrag:
		st = lipgloss.NewStyle().Foreground(colorDragFg)
	}
	line = st.Render(line)
	if selected {
		line = styleSelected().Render(" " + line + " ")
	} else {
		line = " " + line + " "
	}
	return line
}
