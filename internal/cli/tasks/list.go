package tasks

import (
	"github.com/julianstephens/nowaste/internal/cli"
	"github.com/julianstephens/nowaste/internal/engine"
)

type TaskListCmd struct {
	Status   string `short:"s" help:"Filter by status (all|pending|completed)." default:"all" enum:"all,pending,completed"`
	Priority string `short:"p" help:"Filter by priority (all|low|medium|high)." default:"all" enum:"all,low,medium,high"`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	tasks, err := ctx.Engine.ListTasks(engine.StatusFilter(c.Status), c.Priority)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		ctx.Println("No tasks found.")
		return nil
	}

	today := ctx.Engine.Today()
	for _, t := range tasks {
		ctx.Println(cli.FormatTask(t, engine.Overdue(t, today)))
	}
	return nil
}
