package ai

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/nowaste/internal/cli"
	"github.com/julianstephens/nowaste/internal/engine"
	"github.com/julianstephens/nowaste/internal/models"
)

type BreakdownCmd struct {
	Description []string `arg:"" help:"The task to break into steps."`
	Accept      bool     `help:"Add the proposed subtasks to the task list."`
	Priority    string   `short:"p" help:"Priority for accepted subtasks (low|medium|high)."`
	Deadline    string   `short:"d" help:"Deadline for accepted subtasks (YYYY-MM-DD); defaults to a week from today."`
	Steps       []string `name:"step" short:"s" help:"Only add step N. \"N:priority[:deadline]\" sets that step's own priority and deadline. Repeatable."`
}

// stepChoice is one --step value. Empty fields fall back to the command's
// --priority and --deadline.
type stepChoice struct {
	index    int
	priority string
	deadline string
}

func parseStep(s string) (stepChoice, error) {
	parts := strings.SplitN(s, ":", 3)
	n, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || n < 1 {
		return stepChoice{}, fmt.Errorf("invalid --step %q: expected a step number from 1", s)
	}
	c := stepChoice{index: n - 1}
	if len(parts) > 1 {
		c.priority = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		c.deadline = strings.TrimSpace(parts[2])
	}
	return c, nil
}

func (c *BreakdownCmd) choices() ([]stepChoice, error) {
	var out []stepChoice
	for _, s := range c.Steps {
		choice, err := parseStep(s)
		if err != nil {
			return nil, err
		}
		out = append(out, choice)
	}
	return out, nil
}

func (c *BreakdownCmd) Validate() error {
	if !c.Accept {
		if len(c.Steps) > 0 {
			return errors.New("--step only makes sense with --accept")
		}
		return nil
	}
	choices, err := c.choices()
	if err != nil {
		return err
	}
	if strings.TrimSpace(c.Priority) != "" {
		return nil
	}
	if len(choices) == 0 {
		return errors.New("--accept needs a --priority for the new tasks")
	}
	for _, ch := range choices {
		if ch.priority == "" {
			return fmt.Errorf("step %d has no priority: use --priority or --step %d:PRIORITY", ch.index+1, ch.index+1)
		}
	}
	return nil
}

func (c *BreakdownCmd) Run(ctx *cli.Context) error {
	choices, err := c.choices()
	if err != nil {
		return err
	}

	reqCtx, cancel := ctx.RequestContext()
	defer cancel()
	subtasks, err := ctx.Client.Breakdown(reqCtx, strings.Join(c.Description, " "))
	if err != nil {
		return err
	}

	ctx.Printf("Suggested steps:\n")
	for i, s := range subtasks {
		ctx.Printf("  %d. %s\n", i+1, s.Title)
		if s.Description != "" {
			ctx.Printf("     %s\n", s.Description)
		}
	}
	if !c.Accept {
		ctx.Printf("\nRun again with --accept --priority P to add them as tasks, or pick steps with --step N[:priority[:deadline]].\n")
		return nil
	}

	if len(choices) == 0 {
		for i := range subtasks {
			choices = append(choices, stepChoice{index: i})
		}
	}

	today := ctx.Engine.Today()
	rows := make([]engine.TaskInput, 0, len(choices))
	for _, ch := range choices {
		if ch.index >= len(subtasks) {
			return fmt.Errorf("step %d does not exist: the service suggested %d step(s)", ch.index+1, len(subtasks))
		}
		priority, deadline := c.Priority, c.Deadline
		if ch.priority != "" {
			priority = ch.priority
		}
		if ch.deadline != "" {
			deadline = ch.deadline
		}
		rows = append(rows, subtasks[ch.index].TaskInput(priority, deadline, today))
	}
	res, err := ctx.Engine.CreateTasks(rows)
	if err != nil {
		return err
	}
	ctx.Println()
	cli.ReportBatch(ctx, "task", res, func(t models.Task) string {
		return cli.FormatTask(t, false)
	})
	return nil
}
