package store

import (
	"sort"
	"time"

	"github.com/tally-app/tally-cli/internal/models"
)

// Snapshot is an immutable point-in-time view of the store. Readers (the
// view resolver, TUI components) never see the live collection, so a
// snapshot taken before a mutation stays internally consistent.
type Snapshot struct {
	Habits        map[string]models.Habit
	Statuses      map[string]models.EntityStatus
	Loading       bool
	PendingCreate bool
	Err           error // most recent failure; nil once any later operation succeeds
	LastFetchedAt time.Time
}

// Snapshot copies the current store state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	habits := make(map[string]models.Habit, len(s.habits))
	for id, h := range s.habits {
		habits[id] = h
	}
	statuses := make(map[string]models.EntityStatus, len(s.statuses))
	for id, st := range s.statuses {
		statuses[id] = st
	}
	return Snapshot{
		Habits:        habits,
		Statuses:      statuses,
		Loading:       s.loading > 0,
		PendingCreate: s.pendingCreates > 0,
		Err:           s.lastErr,
		LastFetchedAt: s.lastFetchedAt,
	}
}

// Get returns the habit with the given id, if present.
func (s Snapshot) Get(id string) (models.Habit, bool) {
	h, ok := s.Habits[id]
	return h, ok
}

// Status returns the mutation status for an id, defaulting to pristine.
func (s Snapshot) Status(id string) models.EntityStatus {
	if st, ok := s.Statuses[id]; ok && st != "" {
		return st
	}
	return models.StatusPristine
}

// Active returns the non-archived habits ordered by sort order.
func (s Snapshot) Active() []models.Habit {
	all := make([]models.Habit, 0, len(s.Habits))
	for _, h := range s.Habits {
		all = append(all, h)
	}
	return models.SortActive(all)
}

// Archived returns the archived habits ordered by name.
func (s Snapshot) Archived() []models.Habit {
	var archived []models.Habit
	for _, h := range s.Habits {
		if h.Archived {
			archived = append(archived, h)
		}
	}
	sort.Slice(archived, func(i, j int) bool {
		return archived[i].Name < archived[j].Name
	})
	return archived
}
