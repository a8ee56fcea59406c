package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/nowaste/internal/cli"
	"github.com/julianstephens/nowaste/internal/config"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Store path or connection string to copy data from (any supported backend)."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized nowaste storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if ctx.Config.Kind() == config.KindPostgres {
		return errors.New("--force is not supported for PostgreSQL; drop the schema manually")
	}
	dbPath := ctx.Store.GetConfigPath()
	if abs, err := filepath.Abs(dbPath); err == nil {
		dbPath = abs
	}
	if c.Source != "" {
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		ctx.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

// migrateData copies the whole snapshot from the source store.
func (c *InitCmd) migrateData(ctx *cli.Context) error {
	srcCfg := ctx.Config
	srcCfg.ConfigPath = c.Source
	srcCfg.FromKeyring = false
	src, err := cli.OpenStore(srcCfg)
	if err != nil {
		return err
	}
	defer src.Close()

	snap, err := src.Load()
	if err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	if err := ctx.Store.Save(snap); err != nil {
		return fmt.Errorf("failed to save to destination: %w", err)
	}
	ctx.Printf("  Migrated %d tasks\n", len(snap.Tasks))
	ctx.Printf("  Migrated %d rewards\n", len(snap.Rewards))
	ctx.Printf("  Score: %d\n", snap.Score)
	return nil
}
