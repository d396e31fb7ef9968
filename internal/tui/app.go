package tui

import (
	"context"
	"time"

	"daybook-cli/internal/engine"
	"daybook-cli/internal/model"
	"daybook-cli/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
)

type screenMode int

const (
	modeBrowser screenMode = iota
	modeList
)

// refreshMsg re-reads engine state; sent when a grace timer fires.
type refreshMsg struct{}

// deps is shared by all screens and outlives screen switches, so engines (and
// their pending delete timers) survive navigating away and back.
type deps struct {
	dir     string
	kv      storage.KV
	lists   storage.ListStore
	planner storage.PlannerStore
	log     storage.EventLog
	coord   *engine.Coordinator
	engines map[string]*engine.SortedList
	send    func(tea.Msg)
}

// engineFor returns the lifecycle engine for a list, creating and loading it
// on first use.
func (d *deps) engineFor(listID string, planner bool) (*engine.SortedList, error) {
	if l, ok := d.engines[listID]; ok {
		return l, nil
	}
	cfg := engine.Config{
		ListID:      listID,
		Coordinator: d.coord,
		OnChange: func() {
			if d.send != nil {
				d.send(refreshMsg{})
			}
		},
		OnEvent: func(typ, entityID string, payload any) {
			_ = d.log.Append(typ, entityID, payload)
		},
	}
	if planner {
		cfg.Store = storage.PlannerAdapter{Planner: d.planner}
		cfg.TimeAware = true
		if listID == storage.RecurringPlannerID {
			cfg.Initialize = func(item *model.ListItem) {
				item.RecurringConfig = &model.RecurringConfig{RecurringID: item.ID}
			}
		}
	} else {
		cfg.Store = storage.ChecklistAdapter{Lists: d.lists}
	}
	l := engine.NewSortedList(cfg)
	if err := l.Load(context.Background()); err != nil {
		return nil, err
	}
	d.engines[listID] = l
	return l, nil
}

type appModel struct {
	deps *deps

	width  int
	height int
	mode   screenMode
	errMsg string

	browser *browserModel
	list    *listModel
}

func newAppModel(dir string, kv storage.KV) (*appModel, error) {
	d := &deps{
		dir:     dir,
		kv:      kv,
		lists:   storage.ListStore{KV: kv},
		planner: storage.PlannerStore{KV: kv},
		log:     storage.EventLog{Dir: dir},
		coord:   engine.NewCoordinator(),
		engines: map[string]*engine.SortedList{},
	}
	b, err := newBrowserModel(d)
	if err != nil {
		return nil, err
	}
	return &appModel{deps: d, browser: b}, nil
}

func (m *appModel) Init() tea.Cmd {
	return nil
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case refreshMsg:
		// Engine state changed off-loop; the View re-reads it.
		if m.mode == modeList && m.list != nil {
			m.list.syncTextfield()
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}

	m.errMsg = ""
	switch m.mode {
	case modeList:
		return m.updateList(msg)
	default:
		return m.updateBrowser(msg)
	}
}

func (m *appModel) View() string {
	if m.mode == modeList && m.list != nil {
		return m.list.view(m.width, m.height, m.errMsg)
	}
	return m.browser.view(m.width, m.height, m.errMsg)
}

// openList switches to a list screen, creating its engine on first visit.
func (m *appModel) openList(listID, title string, planner bool) {
	eng, err := m.deps.engineFor(listID, planner)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.list = newListModel(m.deps, eng, title, planner)
	m.mode = modeList
}

func (m *appModel) closeList() {
	if m.list != nil {
		_ = m.list.eng.CommitTextfield("")
	}
	m.list = nil
	m.mode = modeBrowser
	if err := m.browser.reload(); err != nil {
		m.errMsg = err.Error()
	}
}

func todayListID() string {
	return time.Now().Format("2006-01-02")
}
