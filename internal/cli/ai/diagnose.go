package ai

import (
	"github.com/julianstephens/nowaste/internal/cli"
	"github.com/julianstephens/nowaste/internal/diagnosis"
	"github.com/julianstephens/nowaste/internal/utils"
)

type DiagnoseCmd struct {
	Raw bool `help:"Print plain markdown instead of rendering it."`
}

func (c *DiagnoseCmd) Run(ctx *cli.Context) error {
	tasks := ctx.Engine.CompletedWithFeeling()
	ctx.Printf("Analyzing %d completed task(s)...\n\n", len(tasks))

	reqCtx, cancel := ctx.RequestContext()
	defer cancel()
	result, err := ctx.Client.Diagnose(reqCtx, tasks)
	if err != nil {
		return err
	}

	md := diagnosis.Markdown(result)
	if c.Raw {
		ctx.Printf("%s", md)
		return nil
	}
	ctx.Println(utils.RenderMarkdown(md))
	return nil
}
