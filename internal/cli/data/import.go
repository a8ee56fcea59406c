package data

import (
	"fmt"
	"os"

	"github.com/julianstephens/nowaste/internal/cli"
	"github.com/julianstephens/nowaste/internal/models"
	"github.com/julianstephens/nowaste/internal/validation"
)

type ImportCmd struct {
	File  string `arg:"" help:"JSON or YAML snapshot to load." type:"existingfile"`
	Force bool   `help:"Import even if the snapshot fails validation."`
	Yes   bool   `short:"y" help:"Do not ask for confirmation."`
}

// Run replaces the whole state with the file's snapshot.
func (c *ImportCmd) Run(ctx *cli.Context) error {
	raw, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}
	var snap models.Snapshot
	if err := cli.Unmarshal(c.File, raw, &snap); err != nil {
		return fmt.Errorf("failed to parse %s: %w", c.File, err)
	}
	snap = snap.Normalize()

	result := validation.New().ValidateSnapshot(snap)
	if result.HasConflicts() {
		ctx.Printf("%s", result.FormatReport())
		if !c.Force {
			return fmt.Errorf("refusing to import an invalid snapshot (use --force to import anyway)")
		}
	}

	current := ctx.Engine.Snapshot()
	if !c.Yes {
		ctx.Printf("This replaces %d task(s), %d reward(s) and a score of %d with %d task(s), %d reward(s) and a score of %d.\n",
			len(current.Tasks), len(current.Rewards), current.Score,
			len(snap.Tasks), len(snap.Rewards), snap.Score)
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Import cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Engine.Replace(snap); err != nil {
		return err
	}
	ctx.Printf("Imported %d task(s) and %d reward(s), score %d\n", len(snap.Tasks), len(snap.Rewards), snap.Score)
	return nil
}
