package habitlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tally-app/tally-cli/internal/models"
)

type AddHabitMsg struct{}

type OpenHabitMsg struct {
	ID string
}

type EditHabitMsg struct {
	ID string
}

type ArchiveHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID string
}

// ReorderMsg carries the full ordered id sequence after a move gesture.
type ReorderMsg struct {
	IDs []string
}

type Item struct {
	Habit  models.Habit
	Status models.EntityStatus
}

func (i Item) Title() string {
	title := i.Habit.Name
	switch i.Status {
	case models.StatusUpdating:
		title += " …"
	case models.StatusDeleting:
		title += " (deleting)"
	}
	return title
}

func (i Item) Description() string {
	freq := "daily"
	if i.Habit.Frequency == models.FrequencyWeekly {
		freq = "weekly"
	}
	return fmt.Sprintf("%s · streak %d", freq, i.Habit.CurrentStreak)
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add      key.Binding
	Open     key.Binding
	Edit     key.Binding
	Archive  key.Binding
	Delete   key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Archive: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "archive"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move down"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(habits []models.Habit, width, height int) Model {
	items := make([]list.Item, len(habits))
	for i, h := range habits {
		items[i] = Item{Habit: h, Status: models.StatusPristine}
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Open, keys.Edit, keys.Archive}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Open, keys.Edit, keys.Archive, keys.Delete, keys.MoveUp, keys.MoveDown}
	}

	return Model{list: l, keys: keys}
}

// SetHabits replaces the visible items. Callers pass the active set already
// ordered by sort order.
func (m *Model) SetHabits(habits []models.Habit, statuses map[string]models.EntityStatus) {
	items := make([]list.Item, len(habits))
	for i, h := range habits {
		st := statuses[h.ID]
		if st == "" {
			st = models.StatusPristine
		}
		items[i] = Item{Habit: h, Status: st}
	}
	m.list.SetItems(items)
}

// orderedIDs returns the current visible order with the selected item moved
// by delta positions, or nil when the move is out of range.
func (m Model) orderedIDs(delta int) []string {
	idx := m.list.Index()
	items := m.list.Items()
	target := idx + delta
	if target < 0 || target >= len(items) {
		return nil
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.(Item).Habit.ID
	}
	ids[idx], ids[target] = ids[target], ids[idx]
	return ids
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Open):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return OpenHabitMsg{ID: i.Habit.ID} }
			}
		case key.Matches(msg, m.keys.Edit):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return EditHabitMsg{ID: i.Habit.ID} }
			}
		case key.Matches(msg, m.keys.Archive):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return ArchiveHabitMsg{ID: i.Habit.ID} }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: i.Habit.ID} }
			}
		case key.Matches(msg, m.keys.MoveUp):
			if ids := m.orderedIDs(-1); ids != nil {
				m.list.CursorUp()
				return m, func() tea.Msg { return ReorderMsg{IDs: ids} }
			}
		case key.Matches(msg, m.keys.MoveDown):
			if ids := m.orderedIDs(1); ids != nil {
				m.list.CursorDown()
				return m, func() tea.Msg { return ReorderMsg{IDs: ids} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

// SelectedID returns the id of the highlighted habit, or "".
func (m Model) SelectedID() string {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.Habit.ID
	}
	return ""
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
