package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/tally-app/tally-cli/internal/api"
	"github.com/tally-app/tally-cli/internal/constants"
	"github.com/tally-app/tally-cli/internal/logger"
	"github.com/tally-app/tally-cli/internal/models"
	"github.com/tally-app/tally-cli/internal/nav"
	"github.com/tally-app/tally-cli/internal/tui/components/habitlist"
)

type fetchedMsg struct {
	err error
}

type habitFetchedMsg struct {
	id  string
	err error
}

type createdMsg struct {
	habit models.Habit
	err   error
}

type updatedMsg struct {
	habit models.Habit
	err   error
}

type archivedMsg struct {
	habit models.Habit
	err   error
}

type deletedMsg struct {
	id  string
	err error
}

type reorderedMsg struct {
	err error
}

// mainTabs maps tab position to session state and route path. Tab cycling
// only ever visits these four destinations.
var mainTabs = [constants.NumMainTabs]struct {
	state constants.SessionState
	path  string
}{
	{constants.StateToday, constants.RouteToday},
	{constants.StateHabits, constants.RouteHabits},
	{constants.StateInsights, constants.RouteInsights},
	{constants.StateSettings, constants.RouteSettings},
}

func (m Model) tabIndex() int {
	for i, tab := range mainTabs {
		if tab.state == m.state {
			return i
		}
	}
	return 0
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), constants.RequestTimeout)
}

// persistCache writes the current collection to the local cache. Failures
// are logged, never surfaced; a broken cache must not break the session.
func (m Model) persistCache() {
	if m.cache == nil {
		return
	}
	snap := m.store.Snapshot()
	all := make([]models.Habit, 0, len(snap.Habits))
	for _, h := range snap.Habits {
		all = append(all, h)
	}
	if err := m.cache.Replace(all); err != nil {
		logger.Warn("Cache save failed", "error", err)
	}
}

func (m Model) fetchAllCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		err := m.store.FetchAll(ctx)
		if err == nil {
			m.persistCache()
		}
		return fetchedMsg{err: err}
	}
}

func (m Model) fetchByIDCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		_, err := m.store.FetchByID(ctx, id)
		return habitFetchedMsg{id: id, err: err}
	}
}

func (m Model) createCmd(draft models.HabitDraft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		habit, err := m.store.Create(ctx, draft)
		if err == nil {
			m.persistCache()
		}
		return createdMsg{habit: habit, err: err}
	}
}

func (m Model) updateCmd(id string, patch models.HabitPatch) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		habit, err := m.store.Update(ctx, id, patch)
		if err == nil {
			m.persistCache()
		}
		return updatedMsg{habit: habit, err: err}
	}
}

func (m Model) archiveCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		habit, err := m.store.Archive(ctx, id)
		if err == nil {
			m.persistCache()
		}
		return archivedMsg{habit: habit, err: err}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		err := m.store.Delete(ctx, id)
		if err == nil {
			m.persistCache()
		}
		return deletedMsg{id: id, err: err}
	}
}

func (m Model) reorderCmd(ids []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		err := m.store.UpdateOrder(ctx, ids)
		if err == nil {
			m.persistCache()
		}
		return reorderedMsg{err: err}
	}
}

// goBack follows the resolved back target for the current route.
func (m *Model) goBack() {
	target := nav.BackTarget(m.path)
	if target == "" {
		return
	}
	if target == constants.RouteHabits {
		m.navigate(constants.StateHabits, target)
		return
	}
	m.detailID = strings.TrimPrefix(target, constants.RouteHabits+"/")
	m.navigate(constants.StateDetail, target)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Handle form states (create / edit habit)
	if m.state == constants.StateCreateHabit || m.state == constants.StateEditHabit {
		if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
			m.goBack()
			return m, nil
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}
		cmds = append(cmds, cmd)

		switch m.form.State {
		case huh.StateCompleted:
			if m.editingID == "" {
				draft := m.habitForm.Draft()
				m.statusMsg = "Creating habit…"
				m.navigate(constants.StateHabits, constants.RouteHabits)
				return m, tea.Batch(append(cmds, m.createCmd(draft))...)
			}
			orig, ok := m.snap.Get(m.editingID)
			if !ok {
				m.navigate(constants.StateHabits, constants.RouteHabits)
				return m, tea.Batch(cmds...)
			}
			patch := m.habitForm.Patch(orig)
			id := m.editingID
			m.statusMsg = "Saving…"
			m.detailID = id
			m.navigate(constants.StateDetail, constants.RouteHabits+"/"+id)
			return m, tea.Batch(append(cmds, m.updateCmd(id, patch))...)
		case huh.StateAborted:
			m.goBack()
		}
		return m, tea.Batch(cmds...)
	}

	// Handle Confirm Archive State
	if m.state == constants.StateConfirmArchive {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "y", "Y":
				id := m.confirmID
				m.confirmID = ""
				m.navigate(constants.StateHabits, constants.RouteHabits)
				return m, m.archiveCmd(id)
			case "n", "N", "esc", "q":
				m.confirmID = ""
				m.navigate(constants.StateHabits, constants.RouteHabits)
			}
		}
		return m, nil
	}

	// Handle Confirm Delete State
	if m.state == constants.StateConfirmDelete {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "y", "Y":
				id := m.confirmID
				m.confirmID = ""
				m.navigate(constants.StateHabits, constants.RouteHabits)
				return m, m.deleteCmd(id)
			case "n", "N", "esc", "q":
				m.confirmID = ""
				m.navigate(constants.StateHabits, constants.RouteHabits)
			}
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		listHeight := msg.Height - 5 // tabs + header + help
		m.habitList.SetSize(msg.Width-h, listHeight-v)

	case fetchedMsg:
		m.refresh()
		m.statusMsg = ""
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Fetch failed: %v", msg.err)
		}

	case habitFetchedMsg:
		m.refresh()
		if msg.err != nil && api.IsNotFound(msg.err) && m.state == constants.StateDetail && m.detailID == msg.id {
			// The habit is gone server-side; fall back to the list.
			m.statusMsg = "Habit not found"
			m.navigate(constants.StateHabits, constants.RouteHabits)
		}

	case createdMsg:
		m.refresh()
		if msg.err != nil {
			// Rejected creates leave no phantom rows; reopen the form so the
			// user can correct and resubmit.
			m.form = NewHabitForm(m.habitForm)
			m.editingID = ""
			m.navigate(constants.StateCreateHabit, constants.RouteCreate)
			m.formError = formatMutationError(msg.err)
			return m, m.form.Init()
		}
		m.statusMsg = fmt.Sprintf("Added %q", msg.habit.Name)

	case updatedMsg:
		m.refresh()
		if msg.err != nil {
			m.form = NewHabitForm(m.habitForm)
			m.navigate(constants.StateEditHabit, constants.RouteHabits+"/"+m.editingID+"/edit")
			m.formError = formatMutationError(msg.err)
			return m, m.form.Init()
		}
		m.statusMsg = ""

	case archivedMsg:
		m.refresh()
		m.statusMsg = ""
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Archive failed: %v", msg.err)
		}

	case deletedMsg:
		m.refresh()
		m.statusMsg = ""
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Delete failed: %v", msg.err)
		} else if m.state == constants.StateDetail && m.detailID == msg.id {
			m.navigate(constants.StateHabits, constants.RouteHabits)
		}

	case reorderedMsg:
		// On failure the store has already rolled the ordering back; the
		// refresh makes the reverted order visible.
		m.refresh()
		m.statusMsg = ""
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Reorder rejected: %v", msg.err)
		}

	case habitlist.AddHabitMsg:
		m.habitForm = newHabitFormModel()
		m.form = NewHabitForm(m.habitForm)
		m.editingID = ""
		m.navigate(constants.StateCreateHabit, constants.RouteCreate)
		return m, m.form.Init()

	case habitlist.OpenHabitMsg:
		m.detailID = msg.ID
		m.navigate(constants.StateDetail, constants.RouteHabits+"/"+msg.ID)
		return m, m.fetchByIDCmd(msg.ID)

	case habitlist.EditHabitMsg:
		return m.openEditForm(msg.ID)

	case habitlist.ArchiveHabitMsg:
		m.confirmID = msg.ID
		m.state = constants.StateConfirmArchive
		return m, nil

	case habitlist.DeleteHabitMsg:
		m.confirmID = msg.ID
		m.state = constants.StateConfirmDelete
		return m, nil

	case habitlist.ReorderMsg:
		return m, m.reorderCmd(msg.IDs)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			tab := mainTabs[(m.tabIndex()+1)%constants.NumMainTabs]
			m.navigate(tab.state, tab.path)
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			tab := mainTabs[(m.tabIndex()-1+constants.NumMainTabs)%constants.NumMainTabs]
			m.navigate(tab.state, tab.path)
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.statusMsg = "Refreshing…"
			return m, m.fetchAllCmd()
		case key.Matches(msg, m.keys.Back):
			m.goBack()
			return m, nil
		}

		if m.state == constants.StateDetail {
			switch msg.String() {
			case "e":
				return m.openEditForm(m.detailID)
			case "x":
				m.confirmID = m.detailID
				m.state = constants.StateConfirmArchive
				return m, nil
			case "d":
				m.confirmID = m.detailID
				m.state = constants.StateConfirmDelete
				return m, nil
			}
		}
	}

	if m.state == constants.StateHabits {
		var cmd tea.Cmd
		m.habitList, cmd = m.habitList.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) openEditForm(id string) (tea.Model, tea.Cmd) {
	habit, ok := m.snap.Get(id)
	if !ok {
		m.statusMsg = "Habit not found"
		return m, nil
	}
	m.habitForm = habitFormModelFrom(habit)
	m.form = NewHabitForm(m.habitForm)
	m.editingID = id
	m.navigate(constants.StateEditHabit, constants.RouteHabits+"/"+id+"/edit")
	return m, m.form.Init()
}

// formatMutationError renders a gateway error for the form error line,
// flattening field-level validation messages when present.
func formatMutationError(err error) string {
	if fields := api.FieldErrors(err); fields != nil {
		parts := make([]string, 0, len(fields))
		for field, msg := range fields {
			parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
		}
		return strings.Join(parts, "; ")
	}
	return err.Error()
}
