package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/julianstephens/nowaste/internal/backup"
	"github.com/julianstephens/nowaste/internal/config"
	"github.com/julianstephens/nowaste/internal/diagnosis"
	"github.com/julianstephens/nowaste/internal/engine"
	"github.com/julianstephens/nowaste/internal/logger"
	"github.com/julianstephens/nowaste/internal/models"
	"github.com/julianstephens/nowaste/internal/storage"
)

// Context is shared by every command. Engine stays nil until Load.
type Context struct {
	Config config.Config
	Store  storage.Provider
	Engine *engine.Engine
	Client *diagnosis.Client

	// EngineOptions are applied after the configured timezone.
	EngineOptions []engine.Option

	Out io.Writer
	In  io.Reader
}

// Load reads the snapshot from the store and builds the engine on top of it.
func (c *Context) Load() error {
	snap, err := c.Store.Load()
	if err != nil {
		return err
	}
	loc, err := c.Config.Location()
	if err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}
	opts := append([]engine.Option{engine.WithLocation(loc)}, c.EngineOptions...)
	c.Engine = engine.New(snap, c.Store, opts...)
	logger.Debug("State loaded", "tasks", len(snap.Tasks), "rewards", len(snap.Rewards), "score", snap.Score)
	return nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors.
// Only SQLite stores are file copies that can be backed up this way.
func (c *Context) PerformAutomaticBackup() {
	if c.Config.Kind() != config.KindSQLite {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// RequestContext bounds a call to the diagnosis service by the configured timeout.
func (c *Context) RequestContext() (context.Context, context.CancelFunc) {
	if c.Config.Timeout > 0 {
		return context.WithTimeout(context.Background(), c.Config.Timeout)
	}
	return context.WithCancel(context.Background())
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

func (c *Context) Writer() io.Writer {
	return c.out()
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Reader() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

// Confirm asks a yes/no question on the context's input. Anything but y/yes
// is a no.
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	answer, err := bufio.NewReader(c.Reader()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

// ParseID parses a task or reward id given on the command line.
func ParseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id < 0 {
		return 0, &engine.ValidationError{Field: "id", Reason: fmt.Sprintf("%q is not a valid id", s)}
	}
	return id, nil
}

// FormatTask renders one task as a single list line.
func FormatTask(t models.Task, overdue bool) string {
	mark := "[ ]"
	if t.Completed {
		mark = "[x]"
	}
	line := fmt.Sprintf("%s #%d %s (due %s, %s)", mark, t.ID, t.Title, t.Deadline, t.Priority)
	if overdue {
		line += " OVERDUE"
	}
	if t.Completed && t.CompletedDate != nil {
		line += " done " + *t.CompletedDate
		if t.HasFeeling() {
			line += ", felt " + *t.Feeling
		}
	}
	return line
}

// FormatReward renders one reward as a single list line.
func FormatReward(r models.Reward) string {
	status := "unclaimed"
	if r.Claimed {
		status = "claimed"
	}
	tier, _ := engine.TierForScore(r.RequiredScore)
	return fmt.Sprintf("#%d %s (%d pts, %s tier, %s)", r.ID, r.Name, r.RequiredScore, tier, status)
}
