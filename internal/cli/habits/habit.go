package habits

import (
	"fmt"
	"strings"

	"github.com/tally-app/tally-cli/internal/api"
	"github.com/tally-app/tally-cli/internal/cli"
	"github.com/tally-app/tally-cli/internal/models"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Create a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits."`
	Show    HabitShowCmd    `cmd:"" help:"Show a habit's details."`
	Edit    HabitEditCmd    `cmd:"" help:"Edit a habit."`
	Archive HabitArchiveCmd `cmd:"" help:"Archive a habit."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit permanently."`
	Reorder HabitReorderCmd `cmd:"" help:"Reorder active habits."`
}

type HabitAddCmd struct {
	Name      string `arg:"" help:"Habit name."`
	Type      string `help:"Habit type: positive or negative." default:"positive" enum:"positive,negative"`
	Frequency string `help:"Tracking cadence: daily or weekly." default:"daily" enum:"daily,weekly"`
	TimeOfDay string `help:"Preferred time of day: morning, afternoon, or evening." default:"" enum:",morning,afternoon,evening"`
	Category  string `help:"Category id from the catalog."`
	Color     string `help:"Display color token." default:"#4F8EF7"`
	StartDate string `help:"Start date in YYYY-MM-DD format."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	draft := models.HabitDraft{
		Name:      strings.TrimSpace(c.Name),
		Type:      models.HabitType(c.Type),
		Frequency: models.Frequency(c.Frequency),
		TimeOfDay: models.TimeOfDay(c.TimeOfDay),
		Category:  c.Category,
		Color:     c.Color,
		StartDate: c.StartDate,
	}
	if draft.Name == "" {
		return fmt.Errorf("habit name cannot be empty")
	}

	reqCtx, cancel := ctx.RequestContext()
	defer cancel()

	habit, err := ctx.Store.Create(reqCtx, draft)
	if err != nil {
		if fields := api.FieldErrors(err); fields != nil {
			for field, msg := range fields {
				fmt.Printf("  %s: %s\n", field, msg)
			}
		}
		return err
	}
	ctx.SaveCache()

	fmt.Printf("Added habit: %s (%s)\n", habit.Name, habit.ID)
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	reqCtx, cancel := ctx.RequestContext()
	defer cancel()

	if err := ctx.Store.FetchAll(reqCtx); err != nil {
		return err
	}
	ctx.SaveCache()

	snap := ctx.Store.Snapshot()
	active := snap.Active()
	if len(active) == 0 && !c.Archived {
		fmt.Println("No habits found.")
		return nil
	}

	for _, h := range active {
		fmt.Println(cli.FormatHabitLine(h))
	}
	if c.Archived {
		for _, h := range snap.Archived() {
			fmt.Println(cli.FormatHabitLine(h))
		}
	}
	return nil
}

type HabitShowCmd struct {
	ID string `arg:"" help:"Habit id."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	reqCtx, cancel := ctx.RequestContext()
	defer cancel()

	habit, err := ctx.Store.FetchByID(reqCtx, c.ID)
	if err != nil {
		return err
	}

	habitType := "Positive"
	if habit.Type == models.TypeNegative {
		habitType = "Negative"
	}
	freq := "Daily"
	if habit.Frequency == models.FrequencyWeekly {
		freq = "Weekly"
	}

	fmt.Printf("%s\n\n", habit.Name)
	fmt.Printf("  Type:         %s\n", habitType)
	fmt.Printf("  Frequency:    %s\n", freq)
	fmt.Printf("  Time of day:  %s\n", cli.TimeOfDayLabel(habit.TimeOfDay))
	fmt.Printf("  Category:     %s\n", models.CategoryLabel(habit.Category))
	fmt.Printf("  %s: %d\n", models.StreakLabel(habit.Frequency), habit.CurrentStreak)
	if habit.StartDate != "" {
		fmt.Printf("  Start date:   %s\n", habit.StartDate)
	}
	if habit.Archived {
		fmt.Println("\n  This habit is archived.")
	}
	return nil
}

type HabitEditCmd struct {
	ID        string  `arg:"" help:"Habit id."`
	Name      *string `help:"New name."`
	Type      *string `help:"New type: positive or negative."`
	Frequency *string `help:"New cadence: daily or weekly."`
	TimeOfDay *string `help:"New time of day (empty clears)."`
	Category  *string `help:"New category id."`
	Color     *string `help:"New display color token."`
	StartDate *string `help:"New start date (YYYY-MM-DD)."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	patch := models.HabitPatch{
		Name:      c.Name,
		Category:  c.Category,
		Color:     c.Color,
		StartDate: c.StartDate,
	}
	if c.Type != nil {
		t := models.HabitType(*c.Type)
		patch.Type = &t
	}
	if c.Frequency != nil {
		f := models.Frequency(*c.Frequency)
		patch.Frequency = &f
	}
	if c.TimeOfDay != nil {
		tod := models.TimeOfDay(*c.TimeOfDay)
		patch.TimeOfDay = &tod
	}

	reqCtx, cancel := ctx.RequestContext()
	defer cancel()

	// The store requires the entity locally before it will patch it.
	if _, err := ctx.Store.FetchByID(reqCtx, c.ID); err != nil {
		return err
	}

	habit, err := ctx.Store.Update(reqCtx, c.ID, patch)
	if err != nil {
		if fields := api.FieldErrors(err); fields != nil {
			for field, msg := range fields {
				fmt.Printf("  %s: %s\n", field, msg)
			}
		}
		return err
	}
	ctx.SaveCache()

	fmt.Printf("Updated habit: %s\n", habit.Name)
	return nil
}

type HabitArchiveCmd struct {
	ID string `arg:"" help:"Habit id to archive."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	reqCtx, cancel := ctx.RequestContext()
	defer cancel()

	if _, err := ctx.Store.FetchByID(reqCtx, c.ID); err != nil {
		return err
	}

	habit, err := ctx.Store.Archive(reqCtx, c.ID)
	if err != nil {
		return err
	}
	ctx.SaveCache()

	fmt.Printf("Archived habit: %s\n", habit.Name)
	return nil
}

type HabitDeleteCmd struct {
	ID string `arg:"" help:"Habit id to delete."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	reqCtx, cancel := ctx.RequestContext()
	defer cancel()

	if _, err := ctx.Store.FetchByID(reqCtx, c.ID); err != nil {
		return err
	}

	if err := ctx.Store.Delete(reqCtx, c.ID); err != nil {
		return err
	}
	ctx.SaveCache()

	fmt.Println("Deleted habit.")
	fmt.Println("(Deletion is permanent; archived habits can be kept with 'tally habit archive')")
	return nil
}

type HabitReorderCmd struct {
	IDs []string `arg:"" help:"Full ordered sequence of active habit ids."`
}

func (c *HabitReorderCmd) Run(ctx *cli.Context) error {
	reqCtx, cancel := ctx.RequestContext()
	defer cancel()

	if err := ctx.Store.FetchAll(reqCtx); err != nil {
		return err
	}

	active := ctx.Store.Snapshot().Active()
	if len(c.IDs) != len(active) {
		return fmt.Errorf("expected all %d active habit ids, got %d", len(active), len(c.IDs))
	}

	if err := ctx.Store.UpdateOrder(reqCtx, c.IDs); err != nil {
		return err
	}
	ctx.SaveCache()

	fmt.Println("Reordered habits:")
	for _, h := range ctx.Store.Snapshot().Active() {
		fmt.Printf("  %d. %s\n", h.SortOrder+1, h.Name)
	}
	return nil
}
