package validation

import (
	"fmt"
	"strings"

	"github.com/julianstephens/nowaste/internal/constants"
	"github.com/julianstephens/nowaste/internal/models"
	"github.com/julianstephens/nowaste/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateTaskID      ConflictType = "duplicate_task_id"
	ConflictDuplicateRewardID    ConflictType = "duplicate_reward_id"
	ConflictTaskCounterBehind    ConflictType = "task_counter_behind"
	ConflictRewardCounterBehind  ConflictType = "reward_counter_behind"
	ConflictTooManyUnclaimed     ConflictType = "too_many_unclaimed"
	ConflictMissingCompletedDate ConflictType = "missing_completed_date"
	ConflictPendingWithFeeling   ConflictType = "pending_with_feeling"
	ConflictInvalidPriority      ConflictType = "invalid_priority"
	ConflictInvalidDate          ConflictType = "invalid_date"
	ConflictInvalidRewardScore   ConflictType = "invalid_reward_score"
	ConflictBlankTitle           ConflictType = "blank_title"
)

// Conflict is one invariant violation found in a snapshot.
type Conflict struct {
	Type        ConflictType
	Description string
	TaskIDs     []int
	RewardIDs   []int
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Of returns the conflicts of the given type.
func (vr *ValidationResult) Of(t ConflictType) []Conflict {
	var out []Conflict
	for _, c := range vr.Conflicts {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator checks a stored snapshot against the rules the engine keeps.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateSnapshot reports every rule the snapshot breaks. The engine never
// produces these states itself; they come from hand edits or bad imports.
func (v *Validator) ValidateSnapshot(snap models.Snapshot) ValidationResult {
	var result ValidationResult
	add := func(c Conflict) { result.Conflicts = append(result.Conflicts, c) }

	maxTask := 0
	seenTasks := map[int]bool{}
	for _, t := range snap.Tasks {
		maxTask = max(maxTask, t.ID)
		if seenTasks[t.ID] {
			add(Conflict{
				Type:        ConflictDuplicateTaskID,
				Description: fmt.Sprintf("Task id %d is used more than once", t.ID),
				TaskIDs:     []int{t.ID},
			})
		}
		seenTasks[t.ID] = true

		if strings.TrimSpace(t.Title) == "" {
			add(Conflict{Type: ConflictBlankTitle, Description: fmt.Sprintf("Task %d has no title", t.ID), TaskIDs: []int{t.ID}})
		}
		if !t.Priority.IsValid() {
			add(Conflict{
				Type:        ConflictInvalidPriority,
				Description: fmt.Sprintf("Task %d has invalid priority %q", t.ID, t.Priority),
				TaskIDs:     []int{t.ID},
			})
		}
		if _, err := utils.ParseDate(t.Deadline); err != nil {
			add(Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Task %d has invalid deadline %q", t.ID, t.Deadline),
				TaskIDs:     []int{t.ID},
			})
		}

		switch {
		case t.Completed && t.CompletedDate == nil:
			add(Conflict{
				Type:        ConflictMissingCompletedDate,
				Description: fmt.Sprintf("Task %d is completed but has no completion date", t.ID),
				TaskIDs:     []int{t.ID},
			})
		case t.Completed:
			if _, err := utils.ParseDate(*t.CompletedDate); err != nil {
				add(Conflict{
					Type:        ConflictInvalidDate,
					Description: fmt.Sprintf("Task %d has invalid completion date %q", t.ID, *t.CompletedDate),
					TaskIDs:     []int{t.ID},
				})
			}
		case t.Feeling != nil || t.CompletedDate != nil:
			add(Conflict{
				Type:        ConflictPendingWithFeeling,
				Description: fmt.Sprintf("Task %d is pending but carries completion data", t.ID),
				TaskIDs:     []int{t.ID},
			})
		}
	}
	if snap.TaskIDCounter < maxTask {
		add(Conflict{
			Type:        ConflictTaskCounterBehind,
			Description: fmt.Sprintf("Task id counter %d is behind the highest task id %d", snap.TaskIDCounter, maxTask),
		})
	}

	maxReward := 0
	seenRewards := map[int]bool{}
	var unclaimed []int
	for _, r := range snap.Rewards {
		maxReward = max(maxReward, r.ID)
		if seenRewards[r.ID] {
			add(Conflict{
				Type:        ConflictDuplicateRewardID,
				Description: fmt.Sprintf("Reward id %d is used more than once", r.ID),
				RewardIDs:   []int{r.ID},
			})
		}
		seenRewards[r.ID] = true

		if strings.TrimSpace(r.Name) == "" {
			add(Conflict{Type: ConflictBlankTitle, Description: fmt.Sprintf("Reward %d has no name", r.ID), RewardIDs: []int{r.ID}})
		}
		if !models.IsValidRequiredScore(r.RequiredScore) {
			add(Conflict{
				Type:        ConflictInvalidRewardScore,
				Description: fmt.Sprintf("Reward %d has invalid required score %d", r.ID, r.RequiredScore),
				RewardIDs:   []int{r.ID},
			})
		}
		if !r.Claimed {
			unclaimed = append(unclaimed, r.ID)
		}
	}
	if snap.RewardIDCounter < maxReward {
		add(Conflict{
			Type:        ConflictRewardCounterBehind,
			Description: fmt.Sprintf("Reward id counter %d is behind the highest reward id %d", snap.RewardIDCounter, maxReward),
		})
	}
	if len(unclaimed) > constants.MaxUnclaimedRewards {
		add(Conflict{
			Type:        ConflictTooManyUnclaimed,
			Description: fmt.Sprintf("%d unclaimed rewards exceed the limit of %d", len(unclaimed), constants.MaxUnclaimedRewards),
			RewardIDs:   unclaimed,
		})
	}

	return result
}

// AutoFix repairs the conflicts that have a safe mechanical fix. Counters are
// raised to the highest id in use and stray completion data on pending tasks
// is dropped. Everything else is left for the user.
func AutoFix(snap models.Snapshot, conflicts []Conflict) (models.Snapshot, []FixAction) {
	fixed := snap.Clone()
	actions := []FixAction{}

	for _, c := range conflicts {
		switch c.Type {
		case ConflictTaskCounterBehind:
			next := fixed.TaskIDCounter
			for _, t := range fixed.Tasks {
				next = max(next, t.ID)
			}
			fixed.TaskIDCounter = next
			actions = append(actions, FixAction{Action: fmt.Sprintf("Set task id counter to %d", next), SourceConflict: c})
		case ConflictRewardCounterBehind:
			next := fixed.RewardIDCounter
			for _, r := range fixed.Rewards {
				next = max(next, r.ID)
			}
			fixed.RewardIDCounter = next
			actions = append(actions, FixAction{Action: fmt.Sprintf("Set reward id counter to %d", next), SourceConflict: c})
		case ConflictPendingWithFeeling:
			for i := range fixed.Tasks {
				if fixed.Tasks[i].ID == c.TaskIDs[0] && !fixed.Tasks[i].Completed {
					fixed.Tasks[i].Feeling = nil
					fixed.Tasks[i].CompletedDate = nil
				}
			}
			actions = append(actions, FixAction{Action: fmt.Sprintf("Cleared completion data on pending task %d", c.TaskIDs[0]), SourceConflict: c})
		}
	}
	return fixed, actions
}
