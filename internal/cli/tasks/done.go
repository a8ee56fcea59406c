package tasks

import (
	"strings"

	"github.com/julianstephens/nowaste/internal/cli"
	"github.com/julianstephens/nowaste/internal/constants"
)

type TaskDoneCmd struct {
	ID      string `arg:"" help:"Task ID to complete."`
	Feeling string `short:"f" help:"How it felt (easy, smooth, tired, stressed, procrastinated, overwhelmed, or free text)."`
}

func (c *TaskDoneCmd) Run(ctx *cli.Context) error {
	id, err := cli.ParseID(c.ID)
	if err != nil {
		return err
	}

	res, err := ctx.Engine.CompleteTask(id, c.Feeling)
	if err != nil {
		return err
	}

	timing := "on time"
	if !res.OnTime {
		timing = "late"
	}
	ctx.Printf("Completed task: %s (%s, %+d points, score %d)\n", res.Task.Title, timing, res.Delta, res.Score)
	if !res.Task.HasFeeling() {
		ctx.Printf("No feeling recorded; this task will not be used for diagnosis.\n")
		ctx.Printf("Feelings: %s\n", strings.Join(constants.Feelings, ", "))
	}
	return nil
}
