package cache

import (
	"path/filepath"
	"testing"

	"github.com/tally-app/tally-cli/internal/models"
)

func testCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "tally.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestLoadEmptyCache(t *testing.T) {
	c := testCache(t)

	habits, err := c.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(habits) != 0 {
		t.Errorf("Load() = %d habits, want 0", len(habits))
	}
}

func TestReplaceAndLoadRoundtrip(t *testing.T) {
	c := testCache(t)

	want := []models.Habit{
		{
			ID:            "a",
			Name:          "Read",
			Type:          models.TypePositive,
			Frequency:     models.FrequencyDaily,
			TimeOfDay:     models.TimeMorning,
			Category:      "learning",
			Color:         "#4F8EF7",
			StartDate:     "2026-01-15",
			CurrentStreak: 12,
			SortOrder:     0,
		},
		{
			ID:        "b",
			Name:      "Doomscroll",
			Type:      models.TypeNegative,
			Frequency: models.FrequencyWeekly,
			SortOrder: 1,
			Archived:  true,
		},
	}

	if err := c.Replace(want); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	got, err := c.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Load() = %d habits, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("habit[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReplaceOverwritesPreviousSet(t *testing.T) {
	c := testCache(t)

	first := []models.Habit{{ID: "a", Name: "Read", Type: models.TypePositive, Frequency: models.FrequencyDaily}}
	second := []models.Habit{{ID: "b", Name: "Run", Type: models.TypePositive, Frequency: models.FrequencyDaily}}

	if err := c.Replace(first); err != nil {
		t.Fatalf("Replace(first) error = %v", err)
	}
	if err := c.Replace(second); err != nil {
		t.Fatalf("Replace(second) error = %v", err)
	}

	got, err := c.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("Load() = %+v, want only habit b", got)
	}
}

func TestLoadOrdersBySortOrder(t *testing.T) {
	c := testCache(t)

	habits := []models.Habit{
		{ID: "c", Name: "Stretch", Type: models.TypePositive, Frequency: models.FrequencyDaily, SortOrder: 2},
		{ID: "a", Name: "Read", Type: models.TypePositive, Frequency: models.FrequencyDaily, SortOrder: 0},
		{ID: "b", Name: "Run", Type: models.TypePositive, Frequency: models.FrequencyDaily, SortOrder: 1},
	}
	if err := c.Replace(habits); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	got, err := c.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	wantIDs := []string{"a", "b", "c"}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "tally.db")
	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer c.Close()

	if c.Path() != path {
		t.Errorf("Path() = %q, want %q", c.Path(), path)
	}
}
