package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/nowaste/internal/cli"
	"github.com/julianstephens/nowaste/internal/cli/ai"
	"github.com/julianstephens/nowaste/internal/cli/backups"
	"github.com/julianstephens/nowaste/internal/cli/data"
	"github.com/julianstephens/nowaste/internal/cli/gacha"
	"github.com/julianstephens/nowaste/internal/cli/rewards"
	"github.com/julianstephens/nowaste/internal/cli/system"
	"github.com/julianstephens/nowaste/internal/cli/tasks"
	"github.com/julianstephens/nowaste/internal/config"
	"github.com/julianstephens/nowaste/internal/constants"
	"github.com/julianstephens/nowaste/internal/diagnosis"
	apperrors "github.com/julianstephens/nowaste/internal/errors"
	"github.com/julianstephens/nowaste/internal/lock"
	"github.com/julianstephens/nowaste/internal/logger"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string        `help:"Store path (.db, .json, .bolt) or PostgreSQL connection string. PostgreSQL passwords belong in the OS keyring, PGPASSWORD or ~/.pgpass." type:"string"`
	Debug    bool          `help:"Enable debug logging."`
	APIURL   string        `name:"api-url" help:"Base URL of the diagnosis service."`
	Timeout  time.Duration `help:"Timeout for diagnosis service requests."`
	Timezone string        `name:"tz" help:"IANA timezone used for deadlines and completion dates."`

	Init     system.InitCmd     `cmd:"" help:"Initialize nowaste storage."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Check stored data for conflicts."`
	Task     struct {
		Add    tasks.TaskAddCmd    `cmd:"" help:"Add a new task."`
		Batch  tasks.TaskBatchCmd  `cmd:"" help:"Add several tasks at once."`
		Edit   tasks.TaskEditCmd   `cmd:"" help:"Edit a pending task."`
		Done   tasks.TaskDoneCmd   `cmd:"" help:"Complete a task and record how it felt."`
		Delete tasks.TaskDeleteCmd `cmd:"" help:"Delete a task."`
		List   tasks.TaskListCmd   `cmd:"" help:"List tasks."`
	} `cmd:"" help:"Manage tasks."`
	Reward struct {
		Add   rewards.RewardAddCmd   `cmd:"" help:"Add a reward to the gacha pool."`
		Batch rewards.RewardBatchCmd `cmd:"" help:"Add several rewards at once."`
		List  rewards.RewardListCmd  `cmd:"" help:"List rewards."`
	} `cmd:"" help:"Manage rewards."`
	Gacha struct {
		Status gacha.GachaStatusCmd `cmd:"" help:"Show which tiers can be drawn." default:"1"`
		Draw   gacha.GachaDrawCmd   `cmd:"" help:"Spend points on a random reward."`
	} `cmd:"" help:"Draw rewards."`
	Score gacha.ScoreCmd `cmd:"" help:"Show the current score."`
	AI    struct {
		Diagnose  ai.DiagnoseCmd  `cmd:"" help:"Diagnose procrastination patterns in completed tasks."`
		Breakdown ai.BreakdownCmd `cmd:"" help:"Break a task into smaller steps."`
	} `cmd:"" name:"ai" help:"Ask the diagnosis service for help."`
	Export data.ExportCmd `cmd:"" help:"Write all data as JSON or YAML."`
	Import data.ImportCmd `cmd:"" help:"Replace all data from an export file."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check whether the OS keyring is usable." default:"1"`
	} `cmd:"" help:"Manage credentials in the OS keyring."`
}

// Commands that manage the store or credentials themselves and must not
// require a loaded state.
var skipLoad = map[string]bool{"init": true, "doctor": true, "keyring": true}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("nowaste"),
		kong.Description("Task tracker that pays out completed work as gacha rewards"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	if err := run(kctx); err != nil {
		apperrors.Fatal(err)
	}
}

func run(kctx *kong.Context) error {
	command := strings.Fields(kctx.Command())[0]

	cfg, err := config.Load(config.Flags{
		Config:   CLI.Config,
		APIURL:   CLI.APIURL,
		Timeout:  CLI.Timeout,
		Debug:    CLI.Debug,
		Timezone: CLI.Timezone,
	})
	if err != nil {
		return err
	}

	if err := logger.Init(logger.Config{
		Debug:     cfg.Debug,
		ConfigDir: cfg.Dir(),
		Command:   command,
		Quiet:     command == "tui",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	defer logger.Close()
	logger.Debug("Starting", "command", kctx.Command(), "store", cfg.Kind())

	if command == "keyring" {
		return kctx.Run(&cli.Context{Config: cfg})
	}

	store, err := cli.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if command != "doctor" {
		l, err := lock.Acquire(cfg.Dir())
		if err != nil {
			return err
		}
		defer l.Release()
	}

	appCtx := &cli.Context{
		Config: cfg,
		Store:  store,
		Client: diagnosis.NewClient(cfg.APIURL, &http.Client{Timeout: cfg.Timeout}),
	}

	if !skipLoad[command] {
		if err := appCtx.Load(); err != nil {
			return err
		}
	}

	return kctx.Run(appCtx)
}
