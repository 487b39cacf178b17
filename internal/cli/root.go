package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tally-app/tally-cli/internal/api"
	"github.com/tally-app/tally-cli/internal/cache"
	"github.com/tally-app/tally-cli/internal/constants"
	"github.com/tally-app/tally-cli/internal/logger"
	"github.com/tally-app/tally-cli/internal/models"
	"github.com/tally-app/tally-cli/internal/store"
)

// Context carries the wired application dependencies into kong commands.
type Context struct {
	Store     *store.Store
	Client    *api.Client
	Cache     *cache.Cache
	ConfigDir string
}

// RequestContext returns a context bounded by the standard gateway timeout.
func (c *Context) RequestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), constants.RequestTimeout)
}

// HydrateFromCache seeds the store from the local cache, ignoring failures
// (a cold cache is not an error).
func (c *Context) HydrateFromCache() {
	if c.Cache == nil {
		return
	}
	habits, err := c.Cache.Load()
	if err != nil {
		logger.Warn("Cache load failed", "error", err)
		return
	}
	c.Store.Hydrate(habits)
}

// SaveCache persists the current snapshot, logging rather than surfacing
// failures so a broken cache never interrupts the user workflow.
func (c *Context) SaveCache() {
	if c.Cache == nil {
		return
	}
	snap := c.Store.Snapshot()
	all := make([]models.Habit, 0, len(snap.Habits))
	for _, h := range snap.Habits {
		all = append(all, h)
	}
	if err := c.Cache.Replace(all); err != nil {
		logger.Warn("Cache save failed", "error", err)
	}
}

// ExpandPath expands a leading "~" to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// FormatHabitLine renders one habit for list output.
func FormatHabitLine(h models.Habit) string {
	status := ""
	if h.Archived {
		status = " [ARCHIVED]"
	}
	freq := "daily"
	if h.Frequency == models.FrequencyWeekly {
		freq = "weekly"
	}
	return fmt.Sprintf("%-28s %-8s streak %-4d %s%s", h.Name, freq, h.CurrentStreak, h.ID, status)
}

// TimeOfDayLabel renders a habit's time-of-day for display.
func TimeOfDayLabel(t models.TimeOfDay) string {
	switch t {
	case models.TimeMorning:
		return "Morning"
	case models.TimeAfternoon:
		return "Afternoon"
	case models.TimeEvening:
		return "Evening"
	default:
		return "No time"
	}
}
