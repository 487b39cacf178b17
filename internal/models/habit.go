package models

import "sort"

type HabitType string

const (
	TypePositive HabitType = "positive"
	TypeNegative HabitType = "negative"
)

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
)

// EntityStatus tracks an in-flight mutation on a single habit. It is
// client-side bookkeeping and never serialized to the server. Creates have
// no entity id until the server responds, so they are tracked by a
// store-level pending counter rather than a per-entity status.
type EntityStatus string

const (
	StatusPristine EntityStatus = "pristine"
	StatusUpdating EntityStatus = "updating"
	StatusDeleting EntityStatus = "deleting"
)

// Habit represents a recurring practice tracked against the remote service.
// CurrentStreak and SortOrder are server-assigned and never computed locally.
type Habit struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Type          HabitType `json:"type"`
	Frequency     Frequency `json:"frequency"`
	TimeOfDay     TimeOfDay `json:"time_of_day,omitempty"`
	Category      string    `json:"category,omitempty"`
	Color         string    `json:"color,omitempty"`
	StartDate     string    `json:"start_date,omitempty"` // YYYY-MM-DD format
	CurrentStreak int       `json:"current_streak"`
	SortOrder     int       `json:"sort_order"`
	Archived      bool      `json:"archived"`
}

// HabitDraft is the payload for creating a habit. The server assigns
// id, current_streak, and sort_order.
type HabitDraft struct {
	Name      string    `json:"name"`
	Type      HabitType `json:"type"`
	Frequency Frequency `json:"frequency"`
	TimeOfDay TimeOfDay `json:"time_of_day,omitempty"`
	Category  string    `json:"category,omitempty"`
	Color     string    `json:"color,omitempty"`
	StartDate string    `json:"start_date,omitempty"`
}

// HabitPatch is a partial update of mutable fields. Nil fields are omitted
// from the request body and left untouched server-side.
type HabitPatch struct {
	Name      *string    `json:"name,omitempty"`
	Type      *HabitType `json:"type,omitempty"`
	Frequency *Frequency `json:"frequency,omitempty"`
	TimeOfDay *TimeOfDay `json:"time_of_day,omitempty"`
	Category  *string    `json:"category,omitempty"`
	Color     *string    `json:"color,omitempty"`
	StartDate *string    `json:"start_date,omitempty"`
}

// SortActive returns the non-archived habits ordered by sort_order.
func SortActive(habits []Habit) []Habit {
	var active []Habit
	for _, h := range habits {
		if !h.Archived {
			active = append(active, h)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].SortOrder < active[j].SortOrder
	})
	return active
}

// StreakLabel returns the display label for a habit's streak unit.
func StreakLabel(f Frequency) string {
	if f == FrequencyWeekly {
		return "Streak (weeks)"
	}
	return "Streak (days)"
}
