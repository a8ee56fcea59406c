package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/nowaste/internal/constants"
	"github.com/julianstephens/nowaste/internal/models"
	"github.com/julianstephens/nowaste/internal/utils"
)

// priorityOptions starts with an empty choice so nothing is picked for the
// user; the select's validator rejects it.
func priorityOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(models.Priorities)+1)
	opts = append(opts, huh.NewOption("(choose a priority)", ""))
	for _, p := range models.Priorities {
		opts = append(opts, huh.NewOption(string(p), string(p)))
	}
	return opts
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

func validDate(s string) error {
	if _, err := utils.ParseDate(strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func optionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return validDate(s)
}

// NewTaskForm edits fm in place; the engine does the final validation.
func NewTaskForm(fm *TaskFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(required("title")),
			huh.NewInput().
				Title("Deadline").
				Description("YYYY-MM-DD").
				Value(&fm.Deadline).
				Validate(validDate),
			huh.NewSelect[string]().
				Title("Priority").
				Options(priorityOptions()...).
				Value(&fm.Priority).
				Validate(required("priority")),
		),
	)
}

func NewRewardForm(fm *RewardFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Reward").
				Value(&fm.Name).
				Validate(required("name")),
			huh.NewSelect[int]().
				Title("Required score").
				Options(
					huh.NewOption("10 (normal)", 10),
					huh.NewOption("20 (normal)", 20),
					huh.NewOption("50 (luxury)", 50),
					huh.NewOption("100 (premium)", 100),
				).
				Value(&fm.Score),
		),
	)
}

// NewFeelingForm offers the preset feelings plus free text, which wins when
// both are given.
func NewFeelingForm(title string, fm *FeelingFormModel) *huh.Form {
	opts := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, f := range constants.Feelings {
		opts = append(opts, huh.NewOption(f, f))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("How did \""+title+"\" feel?").
				Options(opts...).
				Value(&fm.Preset),
			huh.NewInput().
				Title("In your own words").
				Description("Optional, replaces the choice above").
				Value(&fm.Custom),
		),
	)
}

func NewBreakdownForm(fm *BreakdownFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("What do you want to break down?").
				Value(&fm.Description).
				Validate(required("description")),
		),
	)
}

// NewStepForm asks for the priority and deadline of one or more suggested
// steps. There is no default priority.
func NewStepForm(title string, fm *StepFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Description("Priority").
				Options(priorityOptions()...).
				Value(&fm.Priority).
				Validate(required("priority")),
			huh.NewInput().
				Title("Deadline").
				Description("YYYY-MM-DD, blank for a week from today").
				Value(&fm.Deadline).
				Validate(optionalDate),
		),
	)
}
