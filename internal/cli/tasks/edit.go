package tasks

import (
	"errors"

	"github.com/julianstephens/nowaste/internal/cli"
	"github.com/julianstephens/nowaste/internal/engine"
)

type TaskEditCmd struct {
	ID       string  `arg:"" help:"Task ID to edit."`
	Title    *string `short:"t" help:"New title."`
	Deadline *string `short:"d" help:"New deadline (YYYY-MM-DD)."`
	Priority *string `short:"p" help:"New priority (low|medium|high)."`
}

func (c *TaskEditCmd) Validate() error {
	if c.Title == nil && c.Deadline == nil && c.Priority == nil {
		return errors.New("nothing to change: give --title, --deadline or --priority")
	}
	return nil
}

func (c *TaskEditCmd) Run(ctx *cli.Context) error {
	id, err := cli.ParseID(c.ID)
	if err != nil {
		return err
	}
	current, err := ctx.Engine.Task(id)
	if err != nil {
		return err
	}

	in := engine.TaskInput{
		Title:    current.Title,
		Deadline: current.Deadline,
		Priority: string(current.Priority),
	}
	if c.Title != nil {
		in.Title = *c.Title
	}
	if c.Deadline != nil {
		in.Deadline = *c.Deadline
	}
	if c.Priority != nil {
		in.Priority = *c.Priority
	}

	task, err := ctx.Engine.EditTask(id, in)
	if err != nil {
		return err
	}
	ctx.Printf("Updated task: %s\n", cli.FormatTask(task, engine.Overdue(task, ctx.Engine.Today())))
	return nil
}
