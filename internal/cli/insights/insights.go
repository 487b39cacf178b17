package insights

import (
	"fmt"

	"github.com/tally-app/tally-cli/internal/cli"
	"github.com/tally-app/tally-cli/internal/models"
)

type InsightsCmd struct{}

// Summary aggregates display-only statistics over a habit set. Streak
// values come from the server; nothing is computed beyond counting.
type Summary struct {
	Active     int
	Archived   int
	Positive   int
	Negative   int
	Daily      int
	Weekly     int
	BestStreak int
	BestHabit  string
	ByCategory map[string]int
}

// Summarize builds a Summary from the given habits.
func Summarize(habits []models.Habit) Summary {
	s := Summary{ByCategory: make(map[string]int)}
	for _, h := range habits {
		if h.Archived {
			s.Archived++
			continue
		}
		s.Active++
		if h.Type == models.TypeNegative {
			s.Negative++
		} else {
			s.Positive++
		}
		if h.Frequency == models.FrequencyWeekly {
			s.Weekly++
		} else {
			s.Daily++
		}
		if h.CurrentStreak > s.BestStreak {
			s.BestStreak = h.CurrentStreak
			s.BestHabit = h.Name
		}
		s.ByCategory[models.CategoryLabel(h.Category)]++
	}
	return s
}

func (c *InsightsCmd) Run(ctx *cli.Context) error {
	reqCtx, cancel := ctx.RequestContext()
	defer cancel()

	if err := ctx.Store.FetchAll(reqCtx); err != nil {
		return err
	}
	ctx.SaveCache()

	snap := ctx.Store.Snapshot()
	all := make([]models.Habit, 0, len(snap.Habits))
	for _, h := range snap.Habits {
		all = append(all, h)
	}
	s := Summarize(all)

	fmt.Printf("Habits: %d active, %d archived\n", s.Active, s.Archived)
	fmt.Printf("  Positive: %d   Negative: %d\n", s.Positive, s.Negative)
	fmt.Printf("  Daily:    %d   Weekly:   %d\n", s.Daily, s.Weekly)
	if s.BestHabit != "" {
		fmt.Printf("  Best streak: %d (%s)\n", s.BestStreak, s.BestHabit)
	}
	if len(s.ByCategory) > 0 {
		fmt.Println("\nBy category:")
		for _, cat := range models.Categories {
			if n := s.ByCategory[cat.Name]; n > 0 {
				fmt.Printf("  %-14s %d\n", cat.Name, n)
			}
		}
		if n := s.ByCategory["None"]; n > 0 {
			fmt.Printf("  %-14s %d\n", "None", n)
		}
	}
	return nil
}
