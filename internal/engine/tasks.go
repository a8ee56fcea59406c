package engine

import (
	"strings"
	"time"

	"github.com/julianstephens/nowaste/internal/logger"
	"github.com/julianstephens/nowaste/internal/models"
	"github.com/julianstephens/nowaste/internal/utils"
)

// TaskInput is the user-editable part of a task.
type TaskInput struct {
	Title    string `json:"title" yaml:"title"`
	Deadline string `json:"deadline" yaml:"deadline"`
	Priority string `json:"priority" yaml:"priority"`
}

func (in TaskInput) blank() bool {
	return strings.TrimSpace(in.Title) == "" &&
		strings.TrimSpace(in.Deadline) == "" &&
		strings.TrimSpace(in.Priority) == ""
}

func (in TaskInput) validate() (TaskInput, error) {
	out := TaskInput{
		Title:    strings.TrimSpace(in.Title),
		Deadline: strings.TrimSpace(in.Deadline),
	}
	if out.Title == "" {
		return TaskInput{}, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if out.Deadline == "" {
		return TaskInput{}, &ValidationError{Field: "deadline", Reason: "must not be empty"}
	}
	if _, err := utils.ParseDate(out.Deadline); err != nil {
		return TaskInput{}, &ValidationError{Field: "deadline", Reason: err.Error()}
	}
	p := models.ParsePriority(in.Priority)
	if !p.IsValid() {
		return TaskInput{}, &ValidationError{Field: "priority", Reason: "must be one of low, medium, high"}
	}
	out.Priority = string(p)
	return out, nil
}

// BatchResult reports a batch create. Rows that failed are listed in Errors
// and did not change state.
type BatchResult[T any] struct {
	Added  []T
	Errors []*RowError
}

// CompleteResult describes a completion and its effect on the score.
type CompleteResult struct {
	Task   models.Task
	OnTime bool
	Delta  int
	Score  int
}

// StatusFilter selects tasks by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusPending   StatusFilter = "pending"
	StatusCompleted StatusFilter = "completed"
)

// PriorityAll disables priority filtering in ListTasks.
const PriorityAll = "all"

func (e *Engine) findTask(s *models.Snapshot, id int) (int, error) {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return i, nil
		}
	}
	return -1, &NotFoundError{Kind: "task", ID: id}
}

// Task returns the task with the given id.
func (e *Engine) Task(id int) (models.Task, error) {
	i, err := e.findTask(&e.state, id)
	if err != nil {
		return models.Task{}, err
	}
	return e.state.Tasks[i].Clone(), nil
}

// CreateTask validates in, assigns the next id and persists the new task.
func (e *Engine) CreateTask(in TaskInput) (models.Task, error) {
	valid, err := in.validate()
	if err != nil {
		return models.Task{}, err
	}

	next := e.state.Clone()
	task := appendTask(&next, valid)
	if err := e.commit(next); err != nil {
		return models.Task{}, err
	}

	logger.Debug("Task created", "id", task.ID, "deadline", task.Deadline, "priority", task.Priority)
	return task, nil
}

// CreateTasks adds every valid row in a single persist. Fully blank rows are
// skipped; invalid rows are reported with their 1-based row number. The
// returned error is only set when persisting fails, in which case nothing was
// added.
func (e *Engine) CreateTasks(rows []TaskInput) (BatchResult[models.Task], error) {
	var res BatchResult[models.Task]
	next := e.state.Clone()

	for i, row := range rows {
		if row.blank() {
			continue
		}
		valid, err := row.validate()
		if err != nil {
			res.Errors = append(res.Errors, &RowError{Row: i + 1, Err: err})
			continue
		}
		res.Added = append(res.Added, appendTask(&next, valid))
	}

	if len(res.Added) == 0 {
		return res, nil
	}
	if err := e.commit(next); err != nil {
		return BatchResult[models.Task]{}, err
	}

	logger.Debug("Task batch created", "added", len(res.Added), "failed", len(res.Errors))
	return res, nil
}

func appendTask(s *models.Snapshot, in TaskInput) models.Task {
	s.TaskIDCounter++
	task := models.Task{
		ID:       s.TaskIDCounter,
		Title:    in.Title,
		Deadline: in.Deadline,
		Priority: models.Priority(in.Priority),
	}
	s.Tasks = append(s.Tasks, task)
	return task
}

// CompleteTask marks a task done today with the given feeling and applies the
// on-time or late score delta. Completion is irreversible.
func (e *Engine) CompleteTask(id int, feeling string) (CompleteResult, error) {
	next := e.state.Clone()
	i, err := e.findTask(&next, id)
	if err != nil {
		return CompleteResult{}, err
	}
	task := &next.Tasks[i]
	if task.Completed {
		return CompleteResult{}, &AlreadyCompletedError{TaskID: id}
	}

	done := utils.FormatDate(e.Today())
	cmp, err := utils.CompareDates(done, task.Deadline)
	if err != nil {
		return CompleteResult{}, &ValidationError{Field: "deadline", Reason: err.Error()}
	}
	onTime := cmp <= 0
	delta := completionDelta(onTime)

	task.Completed = true
	task.CompletedDate = &done
	if f := strings.TrimSpace(feeling); f != "" {
		task.Feeling = &f
	}
	next.Score += delta

	if err := e.commit(next); err != nil {
		return CompleteResult{}, err
	}

	logger.Debug("Task completed", "id", id, "on_time", onTime, "delta", delta, "score", next.Score)
	return CompleteResult{
		Task:   e.state.Tasks[i].Clone(),
		OnTime: onTime,
		Delta:  delta,
		Score:  next.Score,
	}, nil
}

// EditTask overwrites the editable fields of a pending task.
func (e *Engine) EditTask(id int, in TaskInput) (models.Task, error) {
	next := e.state.Clone()
	i, err := e.findTask(&next, id)
	if err != nil {
		return models.Task{}, err
	}
	if next.Tasks[i].Completed {
		return models.Task{}, &AlreadyCompletedError{TaskID: id}
	}
	valid, err := in.validate()
	if err != nil {
		return models.Task{}, err
	}

	next.Tasks[i].Title = valid.Title
	next.Tasks[i].Deadline = valid.Deadline
	next.Tasks[i].Priority = models.Priority(valid.Priority)

	if err := e.commit(next); err != nil {
		return models.Task{}, err
	}
	logger.Debug("Task edited", "id", id)
	return e.state.Tasks[i].Clone(), nil
}

// DeleteTask removes a pending task. Completed tasks are kept forever.
func (e *Engine) DeleteTask(id int) error {
	next := e.state.Clone()
	i, err := e.findTask(&next, id)
	if err != nil {
		return err
	}
	if next.Tasks[i].Completed {
		return &AlreadyCompletedError{TaskID: id}
	}

	next.Tasks = append(next.Tasks[:i], next.Tasks[i+1:]...)
	if err := e.commit(next); err != nil {
		return err
	}
	logger.Debug("Task deleted", "id", id)
	return nil
}

// ListTasks returns the tasks matching both filters in insertion order.
// Empty filters mean "all".
func (e *Engine) ListTasks(status StatusFilter, priority string) ([]models.Task, error) {
	switch status {
	case "", StatusAll, StatusPending, StatusCompleted:
	default:
		return nil, &ValidationError{Field: "status", Reason: "must be one of all, pending, completed"}
	}
	p := models.ParsePriority(priority)
	if p != "" && p != PriorityAll && !p.IsValid() {
		return nil, &ValidationError{Field: "priority", Reason: "must be one of all, low, medium, high"}
	}

	out := make([]models.Task, 0, len(e.state.Tasks))
	for _, t := range e.state.Tasks {
		if status == StatusPending && t.Completed {
			continue
		}
		if status == StatusCompleted && !t.Completed {
			continue
		}
		if p != "" && p != PriorityAll && t.Priority != p {
			continue
		}
		out = append(out, t.Clone())
	}
	return out, nil
}

// CompletedWithFeeling returns the completed tasks that carry a feeling, the
// input of a diagnosis.
func (e *Engine) CompletedWithFeeling() []models.Task {
	var out []models.Task
	for _, t := range e.state.Tasks {
		if t.Completed && t.HasFeeling() {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Overdue reports whether a pending task's deadline is before asOf. Only the
// calendar date of asOf is considered.
func Overdue(t models.Task, asOf time.Time) bool {
	if t.Completed {
		return false
	}
	deadline, err := utils.ParseDate(t.Deadline)
	if err != nil {
		return false
	}
	return deadline.Before(utils.DateOf(asOf))
}
