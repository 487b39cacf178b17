// Package nav derives presentation metadata (page title, breadcrumb trail,
// back-navigation target) from a route path and a store snapshot. All
// functions are pure: same inputs, same outputs, no side effects.
package nav

import (
	"strings"

	"github.com/tally-app/tally-cli/internal/constants"
	"github.com/tally-app/tally-cli/internal/store"
)

// Crumb is one element of a breadcrumb trail. Path is empty for the
// terminal (non-navigable) element.
type Crumb struct {
	Label string
	Path  string
}

// matchDetail reports whether path is a habit detail route ("/habits/{id}")
// and returns the id segment.
func matchDetail(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, constants.RouteHabits+"/")
	if !ok || rest == "" || strings.Contains(rest, "/") || rest == "create" {
		return "", false
	}
	return rest, true
}

// matchEdit reports whether path is a habit edit route ("/habits/{id}/edit")
// and returns the id segment.
func matchEdit(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, constants.RouteHabits+"/")
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, "/edit")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

// Title resolves the page title for a path. Detail and edit routes use the
// matched habit's name, falling back to a generic label when the habit is
// not yet in the snapshot (e.g. a deep link before the list has loaded).
func Title(path string, snap store.Snapshot) string {
	switch path {
	case constants.RouteToday:
		return "Today"
	case constants.RouteHabits:
		return "Habits"
	case constants.RouteCreate:
		return "Create Habit"
	case constants.RouteInsights:
		return "Insights"
	case constants.RouteSettings:
		return "Settings"
	}
	if id, ok := matchDetail(path); ok {
		if h, ok := snap.Get(id); ok {
			return h.Name
		}
		return "Habit"
	}
	if id, ok := matchEdit(path); ok {
		if h, ok := snap.Get(id); ok {
			return "Edit " + h.Name
		}
		return "Edit Habit"
	}
	return "Habit"
}

// Breadcrumbs resolves the breadcrumb trail for a path. Top-level
// destinations have no trail; create/detail/edit routes are rooted at the
// habit list.
func Breadcrumbs(path string, snap store.Snapshot) []Crumb {
	switch path {
	case constants.RouteToday, constants.RouteHabits, constants.RouteInsights, constants.RouteSettings:
		return nil
	case constants.RouteCreate:
		return []Crumb{
			{Label: "Habits", Path: constants.RouteHabits},
			{Label: "Create"},
		}
	}
	if id, ok := matchDetail(path); ok {
		label := "Habit"
		if h, ok := snap.Get(id); ok {
			label = h.Name
		}
		return []Crumb{
			{Label: "Habits", Path: constants.RouteHabits},
			{Label: label, Path: constants.RouteHabits + "/" + id},
		}
	}
	if id, ok := matchEdit(path); ok {
		label := "Habit"
		if h, ok := snap.Get(id); ok {
			label = h.Name
		}
		return []Crumb{
			{Label: "Habits", Path: constants.RouteHabits},
			{Label: label, Path: constants.RouteHabits + "/" + id},
			{Label: "Edit"},
		}
	}
	return nil
}

// BackTarget resolves the path a back gesture navigates to, or "" when the
// route has no logical parent (top-level destinations).
func BackTarget(path string) string {
	if path == constants.RouteCreate {
		return constants.RouteHabits
	}
	if _, ok := matchDetail(path); ok {
		return constants.RouteHabits
	}
	if id, ok := matchEdit(path); ok {
		return constants.RouteHabits + "/" + id
	}
	return ""
}
