package system

import (
	"fmt"

	"github.com/julianstephens/nowaste/internal/cli"
	"github.com/julianstephens/nowaste/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Repair conflicts that have a safe automatic fix."`
}

// Run checks the stored data rather than the engine's copy, which already
// has its id counters raised past every stored id.
func (c *ValidateCmd) Run(ctx *cli.Context) error {
	snap, err := ctx.Store.Load()
	if err != nil {
		return err
	}
	result := validation.New().ValidateSnapshot(snap)
	ctx.Println(result.FormatReport())

	if !result.HasConflicts() || !c.Fix {
		return nil
	}

	fixed, actions := validation.AutoFix(snap, result.Conflicts)
	if len(actions) == 0 {
		ctx.Println()
		ctx.Println("No automatic fixes available. Edit the data by hand or restore a backup.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Engine.Replace(fixed); err != nil {
		return fmt.Errorf("failed to save fixes: %w", err)
	}

	ctx.Println()
	ctx.Println("Applied fixes:")
	for _, a := range actions {
		ctx.Printf("- %s\n", a.Action)
	}

	stored, err := ctx.Store.Load()
	if err != nil {
		return err
	}
	remaining := validation.New().ValidateSnapshot(stored)
	if remaining.HasConflicts() {
		ctx.Println()
		ctx.Printf("%d conflict(s) still need manual attention.\n", len(remaining.Conflicts))
	}
	return nil
}
