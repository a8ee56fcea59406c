package tasks

import (
	"github.com/julianstephens/nowaste/internal/cli"
	"github.com/julianstephens/nowaste/internal/engine"
)

type TaskAddCmd struct {
	Title    string `arg:"" help:"Task title."`
	Deadline string `short:"d" help:"Deadline (YYYY-MM-DD)." required:""`
	Priority string `short:"p" help:"Priority (low|medium|high)." required:""`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Engine.CreateTask(engine.TaskInput{
		Title:    c.Title,
		Deadline: c.Deadline,
		Priority: c.Priority,
	})
	if err != nil {
		return err
	}

	ctx.Printf("Added task: %s (ID: %d)\n", task.Title, task.ID)
	return nil
}
