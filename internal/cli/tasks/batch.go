package tasks

import (
	"errors"

	"github.com/julianstephens/nowaste/internal/cli"
	"github.com/julianstephens/nowaste/internal/engine"
	"github.com/julianstephens/nowaste/internal/models"
)

type TaskBatchCmd struct {
	Rows []string `name:"row" short:"r" help:"Row as \"title|deadline|priority\". Repeatable."`
	File string   `short:"f" help:"YAML or JSON file with a list of {title, deadline, priority}." type:"existingfile"`
}

func (c *TaskBatchCmd) Validate() error {
	if len(c.Rows) == 0 && c.File == "" {
		return errors.New("give at least one --row or a --file")
	}
	return nil
}

// Run adds file rows first, then --row values, numbering rows in that order.
func (c *TaskBatchCmd) Run(ctx *cli.Context) error {
	var rows []engine.TaskInput
	if c.File != "" {
		fromFile, err := cli.ReadRowsFile[engine.TaskInput](c.File)
		if err != nil {
			return err
		}
		rows = append(rows, fromFile...)
	}
	for _, r := range c.Rows {
		rows = append(rows, cli.ParseTaskRow(r))
	}

	res, err := ctx.Engine.CreateTasks(rows)
	if err != nil {
		return err
	}
	today := ctx.Engine.Today()
	cli.ReportBatch(ctx, "task", res, func(t models.Task) string {
		return cli.FormatTask(t, engine.Overdue(t, today))
	})
	return nil
}
