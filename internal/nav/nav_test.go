package nav

import (
	"testing"

	"github.com/tally-app/tally-cli/internal/models"
	"github.com/tally-app/tally-cli/internal/store"
)

func snapshotWith(habits ...models.Habit) store.Snapshot {
	m := make(map[string]models.Habit, len(habits))
	for _, h := range habits {
		m[h.ID] = h
	}
	return store.Snapshot{Habits: m}
}

func TestTitle(t *testing.T) {
	snap := snapshotWith(models.Habit{ID: "42", Name: "Morning run"})

	tests := []struct {
		name string
		path string
		snap store.Snapshot
		want string
	}{
		{"today", "/", snap, "Today"},
		{"habits list", "/habits", snap, "Habits"},
		{"create", "/habits/create", snap, "Create Habit"},
		{"insights", "/insights", snap, "Insights"},
		{"settings", "/settings", snap, "Settings"},
		{"detail with known habit", "/habits/42", snap, "Morning run"},
		{"detail with unknown habit", "/habits/99", snap, "Habit"},
		{"detail before load", "/habits/42", snapshotWith(), "Habit"},
		{"edit with known habit", "/habits/42/edit", snap, "Edit Morning run"},
		{"edit with unknown habit", "/habits/99/edit", snap, "Edit Habit"},
		{"unknown route", "/bogus", snap, "Habit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Title(tt.path, tt.snap); got != tt.want {
				t.Errorf("Title(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestTitleDoesNotTreatCreateAsDetail(t *testing.T) {
	// A habit literally named by its id must not hijack the create route.
	snap := snapshotWith(models.Habit{ID: "create", Name: "Sneaky"})
	if got := Title("/habits/create", snap); got != "Create Habit" {
		t.Errorf("Title(/habits/create) = %q, want %q", got, "Create Habit")
	}
}

func TestBreadcrumbs(t *testing.T) {
	snap := snapshotWith(models.Habit{ID: "42", Name: "Morning run"})

	tests := []struct {
		name string
		path string
		snap store.Snapshot
		want []Crumb
	}{
		{"today has no trail", "/", snap, nil},
		{"habits has no trail", "/habits", snap, nil},
		{"insights has no trail", "/insights", snap, nil},
		{"settings has no trail", "/settings", snap, nil},
		{
			"create rooted at habits",
			"/habits/create",
			snap,
			[]Crumb{{Label: "Habits", Path: "/habits"}, {Label: "Create"}},
		},
		{
			"detail uses habit name",
			"/habits/42",
			snap,
			[]Crumb{{Label: "Habits", Path: "/habits"}, {Label: "Morning run", Path: "/habits/42"}},
		},
		{
			"detail falls back before load",
			"/habits/42",
			snapshotWith(),
			[]Crumb{{Label: "Habits", Path: "/habits"}, {Label: "Habit", Path: "/habits/42"}},
		},
		{
			"edit appends terminal crumb",
			"/habits/42/edit",
			snap,
			[]Crumb{
				{Label: "Habits", Path: "/habits"},
				{Label: "Morning run", Path: "/habits/42"},
				{Label: "Edit"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Breadcrumbs(tt.path, tt.snap)
			if len(got) != len(tt.want) {
				t.Fatalf("Breadcrumbs(%q) = %v, want %v", tt.path, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("crumb[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBackTarget(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"today is top-level", "/", ""},
		{"habits is top-level", "/habits", ""},
		{"insights is top-level", "/insights", ""},
		{"settings is top-level", "/settings", ""},
		{"create goes to list", "/habits/create", "/habits"},
		{"detail goes to list", "/habits/42", "/habits"},
		{"edit goes to detail", "/habits/42/edit", "/habits/42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BackTarget(tt.path); got != tt.want {
				t.Errorf("BackTarget(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

// Resolution is pure: resolving a path must not change the snapshot.
func TestResolversDoNotMutateSnapshot(t *testing.T) {
	snap := snapshotWith(models.Habit{ID: "42", Name: "Morning run"})

	Title("/habits/42/edit", snap)
	Breadcrumbs("/habits/42/edit", snap)
	BackTarget("/habits/42/edit")

	if len(snap.Habits) != 1 {
		t.Fatalf("snapshot mutated: %d entries", len(snap.Habits))
	}
	if snap.Habits["42"].Name != "Morning run" {
		t.Error("snapshot entry changed by resolution")
	}
}
