package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tally-app/tally-cli/internal/cli"
	"github.com/tally-app/tally-cli/internal/cli/insights"
	"github.com/tally-app/tally-cli/internal/constants"
	"github.com/tally-app/tally-cli/internal/models"
	"github.com/tally-app/tally-cli/internal/nav"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateToday:
		content = m.viewToday()
	case constants.StateHabits:
		content = docStyle.Render(m.habitList.View())
	case constants.StateInsights:
		content = m.viewInsights()
	case constants.StateSettings:
		content = m.viewSettings()
	case constants.StateDetail:
		content = m.viewDetail()
	case constants.StateCreateHabit, constants.StateEditHabit:
		content = m.viewForm()
	case constants.StateConfirmArchive:
		content = m.viewConfirmArchive()
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewHeader(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
	return ui
}

func (m Model) viewTabs() string {
	var tabs []string
	tabTitles := []string{"Today", "Habits", "Insights", "Settings"}
	for i, title := range tabTitles {
		if m.state == mainTabs[i].state {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// viewHeader renders the resolved title and, where the route has one, the
// breadcrumb trail.
func (m Model) viewHeader() string {
	title := titleStyle.Render(nav.Title(m.path, m.snap))
	crumbs := nav.Breadcrumbs(m.path, m.snap)
	if len(crumbs) == 0 {
		return " " + title
	}
	labels := make([]string, len(crumbs))
	for i, c := range crumbs {
		labels[i] = c.Label
	}
	trail := crumbStyle.Render(strings.Join(labels, " › "))
	return " " + title + "  " + trail
}

func (m Model) viewStatus() string {
	switch {
	case m.snap.PendingCreate:
		return warningStyle.Render(" Creating…")
	case m.snap.Loading:
		return warningStyle.Render(" Loading…")
	case m.statusMsg != "":
		return " " + m.statusMsg
	}
	return ""
}

func (m Model) viewToday() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("  %s\n\n", time.Now().Format("Monday, January 2")))

	active := m.snap.Active()
	if len(active) == 0 {
		b.WriteString("  No active habits. Press tab to visit the habit list.\n")
		return docStyle.Render(b.String())
	}

	for _, h := range active {
		marker := "○"
		if h.Type == models.TypeNegative {
			marker = "✕"
		}
		line := fmt.Sprintf("  %s %-28s %s", marker, h.Name, streakBadge(h))
		if h.TimeOfDay != "" {
			line += "  " + crumbStyle.Render(cli.TimeOfDayLabel(h.TimeOfDay))
		}
		b.WriteString(line + "\n")
	}
	return docStyle.Render(b.String())
}

func streakBadge(h models.Habit) string {
	unit := "d"
	if h.Frequency == models.FrequencyWeekly {
		unit = "w"
	}
	return fmt.Sprintf("🔥 %d%s", h.CurrentStreak, unit)
}

func (m Model) viewInsights() string {
	all := make([]models.Habit, 0, len(m.snap.Habits))
	for _, h := range m.snap.Habits {
		all = append(all, h)
	}
	s := insights.Summarize(all)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("  Habits       %d active, %d archived\n", s.Active, s.Archived))
	b.WriteString(fmt.Sprintf("  Build/Break  %d / %d\n", s.Positive, s.Negative))
	b.WriteString(fmt.Sprintf("  Cadence      %d daily, %d weekly\n", s.Daily, s.Weekly))
	if s.BestHabit != "" {
		b.WriteString(fmt.Sprintf("  Best streak  %d (%s)\n", s.BestStreak, s.BestHabit))
	}
	if len(s.ByCategory) > 0 {
		b.WriteString("\n  By category\n")
		for _, cat := range models.Categories {
			if n := s.ByCategory[cat.Name]; n > 0 {
				b.WriteString(fmt.Sprintf("    %-14s %d\n", cat.Name, n))
			}
		}
		if n := s.ByCategory["None"]; n > 0 {
			b.WriteString(fmt.Sprintf("    %-14s %d\n", "None", n))
		}
	}
	return docStyle.Render(b.String())
}

func (m Model) viewSettings() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("  %s %s\n\n", labelStyle.Render("Version"), constants.Version))
	if m.cache != nil {
		b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("Cache"), m.cache.Path()))
	}
	if !m.snap.LastFetchedAt.IsZero() {
		b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("Last sync"), m.snap.LastFetchedAt.Format(time.RFC1123)))
	}
	b.WriteString("\n  Manage the session with 'tally login' and 'tally logout'.\n")
	return docStyle.Render(b.String())
}

func (m Model) viewDetail() string {
	habit, ok := m.snap.Get(m.detailID)
	if !ok {
		return docStyle.Render("\n  Loading habit…")
	}

	habitType := "Build (positive)"
	if habit.Type == models.TypeNegative {
		habitType = "Break (negative)"
	}
	freq := "Daily"
	if habit.Frequency == models.FrequencyWeekly {
		freq = "Weekly"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("Type"), habitType))
	b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("Frequency"), freq))
	b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("Time of day"), cli.TimeOfDayLabel(habit.TimeOfDay)))
	b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("Category"), models.CategoryLabel(habit.Category)))
	b.WriteString(fmt.Sprintf("  %s %d\n", labelStyle.Render("Streak"), habit.CurrentStreak))
	if habit.StartDate != "" {
		b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("Start date"), habit.StartDate))
	}
	if habit.Archived {
		b.WriteString("\n  " + warningStyle.Render("Archived") + "\n")
	}
	if st := m.snap.Status(habit.ID); st != models.StatusPristine {
		b.WriteString("\n  " + warningStyle.Render(string(st)+"…") + "\n")
	}
	b.WriteString("\n  [e] edit  [x] archive  [d] delete  [esc] back\n")
	return docStyle.Render(b.String())
}

func (m Model) viewForm() string {
	if m.formError != "" {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			errorStyle.Render("  "+m.formError),
			m.form.View(),
		)
	}
	return m.form.View()
}

func (m Model) viewConfirmArchive() string {
	name := m.confirmName()
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			warningStyle.Render(fmt.Sprintf("Archive %q? Its streak history is kept.", name)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) viewConfirmDelete() string {
	name := m.confirmName()
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %q permanently?", name)),
			"This cannot be undone.",
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) confirmName() string {
	if h, ok := m.snap.Get(m.confirmID); ok {
		return h.Name
	}
	return "this habit"
}
