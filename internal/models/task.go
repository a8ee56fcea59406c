package models

import "strings"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the valid priorities from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// ParsePriority normalizes user input. It does not validate; call IsValid.
func ParsePriority(s string) Priority {
	return Priority(strings.ToLower(strings.TrimSpace(s)))
}

type Task struct {
	ID            int      `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	Deadline      string   `json:"deadline" yaml:"deadline"` // YYYY-MM-DD format
	Priority      Priority `json:"priority" yaml:"priority"`
	Completed     bool     `json:"completed" yaml:"completed"`
	CompletedDate *string  `json:"completedDate" yaml:"completedDate"` // YYYY-MM-DD format, nil while pending
	Feeling       *string  `json:"feeling" yaml:"feeling"`
}

// HasFeeling reports whether the task was completed with a recorded feeling.
func (t Task) HasFeeling() bool {
	return t.Feeling != nil && strings.TrimSpace(*t.Feeling) != ""
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	c := t
	if t.CompletedDate != nil {
		d := *t.CompletedDate
		c.CompletedDate = &d
	}
	if t.Feeling != nil {
		f := *t.Feeling
		c.Feeling = &f
	}
	return c
}
