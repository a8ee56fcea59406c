package engine

import "fmt"

// ValidationError reports user input the engine refuses to store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError is returned when an id does not name an existing task or reward.
type NotFoundError struct {
	Kind string
	ID   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// AlreadyCompletedError is returned for any mutation of a completed task.
type AlreadyCompletedError struct {
	TaskID int
}

func (e *AlreadyCompletedError) Error() string {
	return fmt.Sprintf("task %d is already completed", e.TaskID)
}

// CapacityError is returned when a reward would exceed the unclaimed cap.
type CapacityError struct {
	Limit     int
	Unclaimed int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("reward capacity reached: %d of %d unclaimed rewards", e.Unclaimed, e.Limit)
}

// NoEligibleRewardError means the tier has no unclaimed reward to draw.
type NoEligibleRewardError struct {
	Tier Tier
}

func (e *NoEligibleRewardError) Error() string {
	return fmt.Sprintf("no unclaimed rewards available for %s draw", e.Tier)
}

// InsufficientScoreError means the score does not cover the tier cost.
type InsufficientScoreError struct {
	Tier     Tier
	Required int
	Score    int
}

func (e *InsufficientScoreError) Error() string {
	return fmt.Sprintf("%s draw costs %d points, current score is %d", e.Tier, e.Required, e.Score)
}

// RowError ties a batch failure to its 1-based input row.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
