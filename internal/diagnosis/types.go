package diagnosis

import (
	"strings"
	"time"

	"github.com/julianstephens/nowaste/internal/constants"
	"github.com/julianstephens/nowaste/internal/engine"
	"github.com/julianstephens/nowaste/internal/models"
	"github.com/julianstephens/nowaste/internal/utils"
)

// TaskRecord is the reduced view of a completed task sent for diagnosis.
type TaskRecord struct {
	Title         string `json:"title"`
	Feeling       string `json:"feeling"`
	Deadline      string `json:"deadline"`
	CompletedDate string `json:"completedDate"`
	Priority      string `json:"priority"`
}

// Records keeps the completed tasks that carry a feeling, in order.
func Records(tasks []models.Task) []TaskRecord {
	var out []TaskRecord
	for _, t := range tasks {
		if !t.Completed || !t.HasFeeling() {
			continue
		}
		rec := TaskRecord{
			Title:    t.Title,
			Feeling:  *t.Feeling,
			Deadline: t.Deadline,
			Priority: string(t.Priority),
		}
		if t.CompletedDate != nil {
			rec.CompletedDate = *t.CompletedDate
		}
		out = append(out, rec)
	}
	return out
}

// Result is one of Diagnosis, LegacyDiagnosis or StructuredLegacyDiagnosis.
type Result interface {
	isResult()
}

// Diagnosis is the current response shape: one cause and a few solutions.
type Diagnosis struct {
	Cause     string
	Solutions []string
}

// LegacyDiagnosis is a free-form markdown summary.
type LegacyDiagnosis struct {
	Summary string
}

// StructuredLegacyDiagnosis is the oldest, sectioned response shape.
type StructuredLegacyDiagnosis struct {
	Patterns    string
	Triggers    string
	Causes      string
	Suggestions []string
}

func (Diagnosis) isResult()                 {}
func (LegacyDiagnosis) isResult()           {}
func (StructuredLegacyDiagnosis) isResult() {}

// Subtask is one step proposed by a breakdown.
type Subtask struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// TaskInput turns the subtask into ledger input. An empty deadline defaults to
// a week after today. Priority is passed through untouched so that a missing
// choice fails task validation.
func (s Subtask) TaskInput(priority, deadline string, today time.Time) engine.TaskInput {
	if strings.TrimSpace(deadline) == "" {
		deadline = utils.FormatDate(utils.AddDays(today, constants.SubtaskDeadlineDays))
	}
	return engine.TaskInput{
		Title:    s.Title,
		Deadline: deadline,
		Priority: priority,
	}
}

// Health is the service's /health report.
type Health struct {
	Status           string `json:"status"`
	GeminiConfigured bool   `json:"gemini_configured"`
}
