package gacha

import (
	"github.com/julianstephens/nowaste/internal/cli"
)

type GachaStatusCmd struct{}

func (c *GachaStatusCmd) Run(ctx *cli.Context) error {
	ctx.Printf("Score: %d\n\n", ctx.Engine.Score())
	for _, a := range ctx.Engine.TierStatuses() {
		state := "ready"
		switch {
		case a.Eligible == 0 && a.Score < a.Cost:
			state = "no rewards, not enough points"
		case a.Eligible == 0:
			state = "no rewards"
		case a.Score < a.Cost:
			state = "not enough points"
		}
		ctx.Printf("%-8s cost %3d  rewards %2d  %s\n", a.Tier, a.Cost, a.Eligible, state)
	}
	return nil
}
