package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/nowaste/internal/backup"
	"github.com/julianstephens/nowaste/internal/cli"
	"github.com/julianstephens/nowaste/internal/config"
	"github.com/julianstephens/nowaste/internal/migration"
	"github.com/julianstephens/nowaste/internal/models"
	"github.com/julianstephens/nowaste/internal/storage"
	"github.com/julianstephens/nowaste/internal/validation"
)

type DoctorCmd struct {
	Offline bool `help:"Skip the diagnosis service check."`
}

type check struct {
	name     string
	needsDB  bool
	warnOnly bool
	run      func() error
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	var snap models.Snapshot
	checks := []check{
		{name: "Database reachable", run: func() error {
			s, err := ctx.Store.Load()
			if err != nil {
				return fmt.Errorf("failed to load database: %w", err)
			}
			snap = s
			return nil
		}},
		{name: "Schema version", needsDB: true, run: func() error { return checkSchemaVersion(ctx) }},
		{name: "Backups present", warnOnly: true, run: func() error { return checkBackupsPresent(ctx) }},
		{name: "Data validation", needsDB: true, run: func() error { return checkValidation(snap) }},
		{name: "Clock/timezone", run: func() error { return checkClockTimezone(ctx) }},
	}
	if !cmd.Offline && ctx.Client != nil {
		checks = append(checks, check{name: "Diagnosis service", warnOnly: true, run: func() error { return checkService(ctx) }})
	}

	hasError := false
	dbReachable := false
	for i, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run()
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
			if i == 0 {
				dbReachable = true
			}
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	reporter, ok := ctx.Store.(storage.SchemaReporter)
	if !ok {
		return nil
	}
	current, latest, err := reporter.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	return migration.CompareVersions(string(ctx.Config.Kind()), current, latest)
}

func checkBackupsPresent(ctx *cli.Context) error {
	if ctx.Config.Kind() != config.KindSQLite {
		return nil
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found - consider creating one with 'nowaste backup create'")
	}
	return nil
}

func checkValidation(snap models.Snapshot) error {
	result := validation.New().ValidateSnapshot(snap)
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s) found, run 'nowaste validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	loc, err := ctx.Config.Location()
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", ctx.Config.Timezone, err)
	}
	now := time.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	ctx.Printf("   Today is %s in %s\n", now.In(loc).Format("2006-01-02"), loc)
	return nil
}

func checkService(ctx *cli.Context) error {
	reqCtx, cancel := ctx.RequestContext()
	defer cancel()
	h, err := ctx.Client.Health(reqCtx)
	if err != nil {
		return fmt.Errorf("%s: %w", ctx.Client.BaseURL(), err)
	}
	if h.Status != "ok" && h.Status != "healthy" {
		return fmt.Errorf("service reports status %q", h.Status)
	}
	if !h.GeminiConfigured {
		return errors.New("service is up but has no model API key configured")
	}
	return nil
}
