package gacha

import (
	"github.com/julianstephens/nowaste/internal/cli"
	"github.com/julianstephens/nowaste/internal/engine"
)

type GachaDrawCmd struct {
	Tier string `arg:"" help:"Tier to draw from (normal|luxury|premium)." enum:"normal,luxury,premium"`
}

func (c *GachaDrawCmd) Run(ctx *cli.Context) error {
	tier, err := engine.ParseTier(c.Tier)
	if err != nil {
		return err
	}
	if status, err := ctx.Engine.TierStatus(tier); err == nil && status.Enabled() {
		ctx.PerformAutomaticBackup()
	}

	res, err := ctx.Engine.Draw(tier)
	if err != nil {
		return err
	}
	ctx.Printf("You drew: %s!\n", res.Reward.Name)
	ctx.Printf("Spent %d points on a %s draw, score is now %d\n", res.Cost, res.Tier, res.Score)
	return nil
}
