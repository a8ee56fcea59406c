package tasks

import (
	"fmt"

	"github.com/julianstephens/nowaste/internal/cli"
)

type TaskDeleteCmd struct {
	ID string `arg:"" help:"Task ID to delete."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	id, err := cli.ParseID(c.ID)
	if err != nil {
		return err
	}
	task, err := ctx.Engine.Task(id)
	if err != nil {
		return fmt.Errorf("failed to find task with ID %d: %w", id, err)
	}

	if err := ctx.Engine.DeleteTask(id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	ctx.Printf("Deleted task: %s (ID: %d)\n", task.Title, id)
	return nil
}
