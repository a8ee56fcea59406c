package rewards

import (
	"github.com/julianstephens/nowaste/internal/cli"
	"github.com/julianstephens/nowaste/internal/engine"
)

type RewardAddCmd struct {
	Name  string `arg:"" help:"Reward name."`
	Score int    `short:"s" help:"Required score tier (10|20|50|100)." default:"20"`
}

func (c *RewardAddCmd) Run(ctx *cli.Context) error {
	reward, err := ctx.Engine.CreateReward(engine.RewardInput{Name: c.Name, RequiredScore: engine.Required(c.Score)})
	if err != nil {
		return err
	}

	ctx.Printf("Added reward: %s\n", cli.FormatReward(reward))
	ctx.Printf("%d reward slot(s) left\n", ctx.Engine.RemainingRewardSlots())
	return nil
}
