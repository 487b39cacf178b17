package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/tally-app/tally-cli/internal/cache"
	"github.com/tally-app/tally-cli/internal/constants"
	"github.com/tally-app/tally-cli/internal/store"
	"github.com/tally-app/tally-cli/internal/tui/components/habitlist"
)

type Model struct {
	store *store.Store
	cache *cache.Cache

	state     constants.SessionState
	path      string // current route, resolved by nav for title/breadcrumbs
	detailID  string
	keys      KeyMap
	help      help.Model
	habitList habitlist.Model
	snap      store.Snapshot
	form      *huh.Form
	habitForm *HabitFormModel
	editingID string // id under edit, "" while creating
	confirmID string
	formError string
	statusMsg string
	quitting  bool
	width     int
	height    int
}

func NewModel(st *store.Store, c *cache.Cache) Model {
	snap := st.Snapshot()
	hl := habitlist.New(snap.Active(), 0, 0)
	hl.SetHabits(snap.Active(), snap.Statuses)

	return Model{
		store:     st,
		cache:     c,
		state:     constants.StateToday,
		path:      constants.RouteToday,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		habitList: hl,
		snap:      snap,
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateHabits:
		keys = append(keys, m.keys.Refresh)
	case constants.StateDetail:
		keys = append(keys, m.keys.Back)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter, m.keys.Back}
	return [][]key.Binding{global, navigation}
}

func (m Model) Init() tea.Cmd {
	return m.fetchAllCmd()
}

// refresh re-snapshots the store and pushes the new state into components.
func (m *Model) refresh() {
	m.snap = m.store.Snapshot()
	m.habitList.SetHabits(m.snap.Active(), m.snap.Statuses)
}

// navigate moves to a new session state and keeps the route path in sync so
// the view resolver sees the same world the user does.
func (m *Model) navigate(state constants.SessionState, path string) {
	m.state = state
	m.path = path
	m.formError = ""
}
