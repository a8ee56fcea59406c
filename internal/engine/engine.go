// Package engine owns the application state: the task ledger, the reward
// catalog, the score account and the gacha draw. Every mutation is applied to
// a copy of the snapshot, persisted, and only then made visible.
package engine

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/julianstephens/nowaste/internal/logger"
	"github.com/julianstephens/nowaste/internal/models"
	"github.com/julianstephens/nowaste/internal/utils"
)

// Saver persists a full snapshot. storage.Provider satisfies it.
type Saver interface {
	Save(models.Snapshot) error
}

// Picker chooses an index in [0, n). *rand.Rand satisfies it.
type Picker interface {
	IntN(n int) int
}

type globalPicker struct{}

func (globalPicker) IntN(n int) int { return rand.IntN(n) }

// Engine is a single-owner state machine. It is not safe for concurrent use.
type Engine struct {
	state models.Snapshot
	store Saver
	now   func() time.Time
	loc   *time.Location
	rng   Picker
}

type Option func(*Engine)

// WithClock overrides the clock used to decide "today".
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the timezone in which "today" is computed.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithPicker replaces the random source used by Draw.
func WithPicker(p Picker) Option {
	return func(e *Engine) {
		if p != nil {
			e.rng = p
		}
	}
}

// New builds an engine from a loaded snapshot. The snapshot is normalized and
// copied, so the caller may keep using its own value.
func New(snap models.Snapshot, store Saver, opts ...Option) *Engine {
	e := &Engine{
		state: raiseCounters(snap.Normalize()),
		store: store,
		now:   time.Now,
		loc:   time.Local,
		rng:   globalPicker{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() models.Snapshot {
	return e.state.Clone()
}

// Today returns the current calendar date in the engine's timezone.
func (e *Engine) Today() time.Time {
	return utils.DateOf(e.now().In(e.loc))
}

// Replace swaps the whole state for snap, e.g. after an import. The snapshot
// is normalized and persisted before it becomes visible.
func (e *Engine) Replace(snap models.Snapshot) error {
	if err := e.commit(raiseCounters(snap.Normalize())); err != nil {
		return err
	}
	logger.Info("State replaced", "tasks", len(snap.Tasks), "rewards", len(snap.Rewards), "score", snap.Score)
	return nil
}

// raiseCounters moves each id counter up to the highest id in use, so the
// next assigned id is always fresh. Counters never move down.
func raiseCounters(s models.Snapshot) models.Snapshot {
	for _, t := range s.Tasks {
		if t.ID > s.TaskIDCounter {
			logger.Debug("Raising task id counter", "from", s.TaskIDCounter, "to", t.ID)
			s.TaskIDCounter = t.ID
		}
	}
	for _, r := range s.Rewards {
		if r.ID > s.RewardIDCounter {
			logger.Debug("Raising reward id counter", "from", s.RewardIDCounter, "to", r.ID)
			s.RewardIDCounter = r.ID
		}
	}
	return s
}

// commit persists next and installs it. On failure the current state is kept.
func (e *Engine) commit(next models.Snapshot) error {
	if e.store != nil {
		if err := e.store.Save(next.Clone()); err != nil {
			logger.Error("Failed to persist snapshot", "error", err)
			return fmt.Errorf("failed to save state: %w", err)
		}
	}
	e.state = next
	return nil
}
