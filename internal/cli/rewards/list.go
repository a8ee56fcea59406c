package rewards

import (
	"github.com/julianstephens/nowaste/internal/cli"
	"github.com/julianstephens/nowaste/internal/constants"
)

type RewardListCmd struct {
	Unclaimed bool `short:"u" help:"Only show rewards that can still be drawn."`
}

func (c *RewardListCmd) Run(ctx *cli.Context) error {
	rewards := ctx.Engine.ListRewards()
	shown := 0
	for _, r := range rewards {
		if c.Unclaimed && r.Claimed {
			continue
		}
		ctx.Println(cli.FormatReward(r))
		shown++
	}
	if shown == 0 {
		ctx.Println("No rewards found.")
	}
	ctx.Printf("\n%d of %d unclaimed slots used\n", constants.MaxUnclaimedRewards-ctx.Engine.RemainingRewardSlots(), constants.MaxUnclaimedRewards)
	return nil
}
