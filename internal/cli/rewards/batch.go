package rewards

import (
	"errors"

	"github.com/julianstephens/nowaste/internal/cli"
	"github.com/julianstephens/nowaste/internal/engine"
)

type RewardBatchCmd struct {
	Rows []string `name:"row" short:"r" help:"Row as \"name|score\"; score defaults to 20. Repeatable."`
	File string   `short:"f" help:"YAML or JSON file with a list of {name, requiredScore}." type:"existingfile"`
}

func (c *RewardBatchCmd) Validate() error {
	if len(c.Rows) == 0 && c.File == "" {
		return errors.New("give at least one --row or a --file")
	}
	return nil
}

func (c *RewardBatchCmd) Run(ctx *cli.Context) error {
	var rows []engine.RewardInput
	if c.File != "" {
		fromFile, err := cli.ReadRowsFile[engine.RewardInput](c.File)
		if err != nil {
			return err
		}
		rows = append(rows, fromFile...)
	}
	for _, r := range c.Rows {
		rows = append(rows, cli.ParseRewardRow(r))
	}

	res, err := ctx.Engine.CreateRewards(rows)
	if err != nil {
		return err
	}
	cli.ReportBatch(ctx, "reward", res, cli.FormatReward)
	ctx.Printf("%d reward slot(s) left\n", ctx.Engine.RemainingRewardSlots())
	return nil
}
