// Package tui is the interactive surface: a folder browser plus checklist
// and planner screens driven by the lifecycle engine.
package tui

import (
	"context"

	"daybook-cli/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
)

func Run(dir string) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference()

	kv, err := storage.Store{Dir: dir}.OpenKV(context.Background())
	if err != nil {
		return err
	}
	defer kv.Close()

	m, err := newAppModel(dir, kv)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Grace timers fire off the Update loop; push a refresh so expired rows
	// disappear without a keypress.
	m.deps.send = func(msg tea.Msg) { go p.Send(msg) }

	_, err = p.Run()
	return err
}
