package gacha

import (
	"github.com/julianstephens/nowaste/internal/cli"
	"github.com/julianstephens/nowaste/internal/constants"
)

type ScoreCmd struct{}

func (c *ScoreCmd) Run(ctx *cli.Context) error {
	ctx.Printf("Score: %d\n", ctx.Engine.Score())
	ctx.Printf("On-time completion %+d, late completion %+d\n", constants.OnTimeCompletionPoints, constants.LateCompletionPoints)
	return nil
}
