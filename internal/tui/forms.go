package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/tally-app/tally-cli/internal/constants"
	"github.com/tally-app/tally-cli/internal/models"
)

// HabitFormModel backs both the create and edit forms.
type HabitFormModel struct {
	Name      string
	Type      models.HabitType
	Frequency models.Frequency
	TimeOfDay models.TimeOfDay
	Category  string
	Color     string
	StartDate string
}

func newHabitFormModel() *HabitFormModel {
	return &HabitFormModel{
		Type:      models.TypePositive,
		Frequency: models.FrequencyDaily,
		Color:     "#4F8EF7",
		StartDate: time.Now().Format(constants.DateFormat),
	}
}

func habitFormModelFrom(h models.Habit) *HabitFormModel {
	return &HabitFormModel{
		Name:      h.Name,
		Type:      h.Type,
		Frequency: h.Frequency,
		TimeOfDay: h.TimeOfDay,
		Category:  h.Category,
		Color:     h.Color,
		StartDate: h.StartDate,
	}
}

// Draft builds the create payload from the form values.
func (fm *HabitFormModel) Draft() models.HabitDraft {
	return models.HabitDraft{
		Name:      strings.TrimSpace(fm.Name),
		Type:      fm.Type,
		Frequency: fm.Frequency,
		TimeOfDay: fm.TimeOfDay,
		Category:  fm.Category,
		Color:     fm.Color,
		StartDate: fm.StartDate,
	}
}

// Patch builds a partial update containing only the fields that differ from
// the original habit.
func (fm *HabitFormModel) Patch(orig models.Habit) models.HabitPatch {
	var p models.HabitPatch
	if name := strings.TrimSpace(fm.Name); name != orig.Name {
		p.Name = &name
	}
	if fm.Type != orig.Type {
		t := fm.Type
		p.Type = &t
	}
	if fm.Frequency != orig.Frequency {
		f := fm.Frequency
		p.Frequency = &f
	}
	if fm.TimeOfDay != orig.TimeOfDay {
		tod := fm.TimeOfDay
		p.TimeOfDay = &tod
	}
	if fm.Category != orig.Category {
		c := fm.Category
		p.Category = &c
	}
	if fm.Color != orig.Color {
		c := fm.Color
		p.Color = &c
	}
	if fm.StartDate != orig.StartDate {
		d := fm.StartDate
		p.StartDate = &d
	}
	return p
}

// NewHabitForm creates the form used for both creating and editing habits.
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	categoryOptions := []huh.Option[string]{huh.NewOption("None", "")}
	for _, cat := range models.Categories {
		categoryOptions = append(categoryOptions, huh.NewOption(cat.Name, cat.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[models.HabitType]().
				Title("Type").
				Options(
					huh.NewOption("Build (positive)", models.TypePositive),
					huh.NewOption("Break (negative)", models.TypeNegative),
				).
				Value(&fm.Type),
			huh.NewSelect[models.Frequency]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", models.FrequencyDaily),
					huh.NewOption("Weekly", models.FrequencyWeekly),
				).
				Value(&fm.Frequency),
			huh.NewSelect[models.TimeOfDay]().
				Title("Time of day").
				Options(
					huh.NewOption("No preference", models.TimeOfDay("")),
					huh.NewOption("Morning", models.TimeMorning),
					huh.NewOption("Afternoon", models.TimeAfternoon),
					huh.NewOption("Evening", models.TimeEvening),
				).
				Value(&fm.TimeOfDay),
			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOptions...).
				Value(&fm.Category),
			huh.NewInput().
				Title("Color").
				Description("Hex token, e.g. #4F8EF7").
				Value(&fm.Color),
			huh.NewInput().
				Title("Start date").
				Description("YYYY-MM-DD").
				Value(&fm.StartDate).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if _, err := time.Parse(constants.DateFormat, s); err != nil {
						return fmt.Errorf("start date must be YYYY-MM-DD")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}
