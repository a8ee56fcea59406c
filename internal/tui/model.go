package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/nowaste/internal/cli"
	"github.com/julianstephens/nowaste/internal/diagnosis"
	"github.com/julianstephens/nowaste/internal/engine"
	apperrors "github.com/julianstephens/nowaste/internal/errors"
	"github.com/julianstephens/nowaste/internal/models"
	"github.com/julianstephens/nowaste/internal/tui/components/gacha"
	"github.com/julianstephens/nowaste/internal/tui/components/rewardlist"
	"github.com/julianstephens/nowaste/internal/tui/components/tasklist"
	"github.com/julianstephens/nowaste/internal/validation"
)

type SessionState int

// The first four states are the tabs, in display order.
const (
	StateTasks SessionState = iota
	StateRewards
	StateGacha
	StateInsights
	StateTaskForm
	StateRewardForm
	StateFeelingForm
	StateBreakdownForm
	StateStepForm
	StateConfirmDelete
)

const tabCount = 4

var tabTitles = []string{"Tasks", "Rewards", "Gacha", "Insights"}

type TaskFormModel struct {
	Title    string
	Deadline string
	Priority string
}

type RewardFormModel struct {
	Name  string
	Score int
}

type FeelingFormModel struct {
	Preset string
	Custom string
}

// Feeling is the custom text when given, else the chosen preset.
func (f FeelingFormModel) Feeling() string {
	if f.Custom != "" {
		return f.Custom
	}
	return f.Preset
}

type BreakdownFormModel struct {
	Description string
}

// StepFormModel holds the priority and deadline chosen for suggested steps
// before they become tasks.
type StepFormModel struct {
	Priority string
	Deadline string
}

type StatusBar struct {
	Text    string
	IsError bool
}

type Model struct {
	ctx    *cli.Context
	engine *engine.Engine
	client *diagnosis.Client

	state    SessionState
	lastTab  SessionState
	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	quitting bool
	width    int
	height   int

	taskList   tasklist.Model
	rewardList rewardlist.Model
	gachaModel gacha.Model

	form          *huh.Form
	taskForm      *TaskFormModel
	rewardForm    *RewardFormModel
	feelingForm   *FeelingFormModel
	breakdownForm *BreakdownFormModel
	stepForm      *StepFormModel

	editingTaskID    int // -1 while adding
	completingTaskID int
	taskToDeleteID   int

	// busy is set while a diagnosis or breakdown call is in flight; only one
	// runs at a time.
	busy      bool
	insight   string
	subtasks  []diagnosis.Subtask
	// stepCursor selects a suggested step; stepTargets are the steps the
	// open step form applies to.
	stepCursor  int
	stepTargets []int
	status    StatusBar
	conflicts []validation.Conflict
}

// NewModel builds the TUI over a loaded context.
func NewModel(ctx *cli.Context) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	m := Model{
		ctx:        ctx,
		engine:     ctx.Engine,
		client:     ctx.Client,
		state:      StateTasks,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		spinner:    s,
		taskList:   tasklist.New(0, 0),
		rewardList: rewardlist.New(0, 0),
		gachaModel: gacha.New(),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh rebuilds every view from the engine state.
func (m *Model) refresh() {
	tasks, err := m.engine.ListTasks(engine.StatusAll, "")
	if err != nil {
		tasks = []models.Task{}
	}
	m.taskList.SetTasks(tasks, m.engine.Today())
	m.rewardList.SetRewards(m.engine.ListRewards())
	m.gachaModel.SetStatuses(m.engine.Score(), m.engine.TierStatuses())

	result := validation.New().ValidateSnapshot(m.engine.Snapshot())
	m.conflicts = result.Conflicts
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = StatusBar{Text: fmt.Sprintf(format, args...)}
}

func (m *Model) setError(err error) {
	text := err.Error()
	if hint := apperrors.Hint(err); hint != "" {
		text += " (" + hint + ")"
	}
	m.status = StatusBar{Text: text, IsError: true}
}

func (m Model) isTab() bool {
	return m.state < tabCount
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateTasks:
		keys = append(keys, tasklist.DefaultKeyMap().Add, tasklist.DefaultKeyMap().Complete)
	case StateRewards:
		keys = append(keys, rewardlist.DefaultKeyMap().Add)
	case StateGacha:
		keys = append(keys, m.gachaModel.Keys().Draw)
	case StateInsights:
		if len(m.subtasks) > 0 {
			keys = append(keys, m.keys.Accept, m.keys.AcceptAll, m.keys.Discard)
		}
	}
	return append(keys, m.keys.Diagnose, m.keys.Breakdown)
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	service := []key.Binding{m.keys.Diagnose, m.keys.Breakdown}

	var actions []key.Binding
	switch m.state {
	case StateTasks:
		k := tasklist.DefaultKeyMap()
		actions = []key.Binding{k.Add, k.Complete, k.Edit, k.Delete}
	case StateRewards:
		actions = []key.Binding{rewardlist.DefaultKeyMap().Add}
	case StateGacha:
		k := m.gachaModel.Keys()
		actions = []key.Binding{k.Up, k.Down, k.Draw}
	case StateInsights:
		actions = []key.Binding{m.keys.StepUp, m.keys.StepDown, m.keys.Accept, m.keys.AcceptAll, m.keys.Discard}
	}
	return [][]key.Binding{global, service, actions}
}
