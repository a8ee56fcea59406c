package data

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/nowaste/internal/cli"
	"github.com/julianstephens/nowaste/internal/models"
)

type ExportCmd struct {
	Format string `short:"f" help:"Output format (json|yaml)." default:"json" enum:"json,yaml"`
	Out    string `short:"o" help:"Write to this file instead of stdout."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	data, err := Encode(ctx.Engine.Snapshot(), c.Format)
	if err != nil {
		return err
	}

	if c.Out == "" {
		_, err := ctx.Writer().Write(data)
		return err
	}
	if err := os.WriteFile(c.Out, data, 0o600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	ctx.Printf("Exported %d task(s) and %d reward(s) to %s\n", len(ctx.Engine.Snapshot().Tasks), len(ctx.Engine.Snapshot().Rewards), c.Out)
	return nil
}

// Encode serializes a snapshot in the given format.
func Encode(snap models.Snapshot, format string) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(snap)
	case "json", "":
		out, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}
