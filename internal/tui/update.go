package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/nowaste/internal/diagnosis"
	"github.com/julianstephens/nowaste/internal/engine"
	"github.com/julianstephens/nowaste/internal/tui/components/gacha"
	"github.com/julianstephens/nowaste/internal/tui/components/rewardlist"
	"github.com/julianstephens/nowaste/internal/tui/components/tasklist"
	"github.com/julianstephens/nowaste/internal/utils"
)

var errNoService = errors.New("no diagnosis service configured")

type diagnoseDoneMsg struct {
	result diagnosis.Result
	err    error
}

type breakdownDoneMsg struct {
	subtasks []diagnosis.Subtask
	err      error
}

// reserved lines outside the active tab: tabs, banner, status and help
const chromeHeight = 4

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.taskList.SetSize(msg.Width-h, msg.Height-v-chromeHeight)
		m.rewardList.SetSize(msg.Width-h, msg.Height-v-chromeHeight)
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case diagnoseDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.insight = utils.RenderMarkdownWidth(diagnosis.Markdown(msg.result), m.contentWidth())
		m.subtasks = nil
		m.state = StateInsights
		m.setStatus("Diagnosis ready")
		return m, nil

	case breakdownDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.subtasks = msg.subtasks
		m.stepCursor = 0
		m.state = StateInsights
		m.setStatus("%d step(s) suggested, press y to add one or a to add all", len(msg.subtasks))
		return m, nil
	}

	switch m.state {
	case StateTaskForm, StateRewardForm, StateFeelingForm, StateBreakdownForm, StateStepForm:
		return m.updateForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if handled, cmd := m.handleComponentMsg(msg); handled {
		return m, cmd
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		if km.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if !m.filtering() {
			switch {
			case key.Matches(km, m.keys.Quit):
				m.quitting = true
				return m, tea.Quit
			case key.Matches(km, m.keys.Tab):
				m.state = (m.state + 1) % tabCount
				return m, nil
			case key.Matches(km, m.keys.ShiftTab):
				m.state = (m.state + tabCount - 1) % tabCount
				return m, nil
			case key.Matches(km, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
				return m, nil
			case key.Matches(km, m.keys.Diagnose):
				return m.startDiagnosis()
			case key.Matches(km, m.keys.Breakdown):
				return m.openBreakdownForm()
			case m.state == StateInsights && len(m.subtasks) > 0 && key.Matches(km, m.keys.StepUp):
				m.stepCursor = max(m.stepCursor-1, 0)
				return m, nil
			case m.state == StateInsights && len(m.subtasks) > 0 && key.Matches(km, m.keys.StepDown):
				m.stepCursor = min(m.stepCursor+1, len(m.subtasks)-1)
				return m, nil
			case m.state == StateInsights && len(m.subtasks) > 0 && key.Matches(km, m.keys.Accept):
				return m, m.openStepForm([]int{m.stepCursor})
			case m.state == StateInsights && len(m.subtasks) > 0 && key.Matches(km, m.keys.AcceptAll):
				all := make([]int, len(m.subtasks))
				for i := range all {
					all[i] = i
				}
				return m, m.openStepForm(all)
			case m.state == StateInsights && len(m.subtasks) > 0 && key.Matches(km, m.keys.Discard):
				m.subtasks = nil
				m.setStatus("Suggested steps discarded")
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateTasks:
		m.taskList, cmd = m.taskList.Update(msg)
	case StateRewards:
		m.rewardList, cmd = m.rewardList.Update(msg)
	case StateGacha:
		m.gachaModel, cmd = m.gachaModel.Update(msg)
	}
	return m, cmd
}

func (m Model) filtering() bool {
	switch m.state {
	case StateTasks:
		return m.taskList.Filtering()
	case StateRewards:
		return m.rewardList.Filtering()
	}
	return false
}

func (m Model) contentWidth() int {
	h, _ := docStyle.GetFrameSize()
	return max(m.width-h, 0)
}

// handleComponentMsg reacts to the requests emitted by the tab components.
func (m *Model) handleComponentMsg(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case tasklist.AddTaskMsg:
		m.editingTaskID = -1
		m.taskForm = &TaskFormModel{}
		return true, m.openForm(StateTaskForm, NewTaskForm(m.taskForm))

	case tasklist.EditTaskMsg:
		m.editingTaskID = msg.Task.ID
		m.taskForm = &TaskFormModel{
			Title:    msg.Task.Title,
			Deadline: msg.Task.Deadline,
			Priority: string(msg.Task.Priority),
		}
		return true, m.openForm(StateTaskForm, NewTaskForm(m.taskForm))

	case tasklist.CompleteTaskMsg:
		m.completingTaskID = msg.Task.ID
		m.feelingForm = &FeelingFormModel{}
		return true, m.openForm(StateFeelingForm, NewFeelingForm(msg.Task.Title, m.feelingForm))

	case tasklist.DeleteTaskMsg:
		m.taskToDeleteID = msg.ID
		m.lastTab = m.state
		m.state = StateConfirmDelete
		return true, nil

	case rewardlist.AddRewardMsg:
		m.rewardForm = &RewardFormModel{Score: 20}
		return true, m.openForm(StateRewardForm, NewRewardForm(m.rewardForm))

	case gacha.DrawMsg:
		m.draw(msg.Tier)
		return true, nil
	}
	return false, nil
}

func (m *Model) openForm(state SessionState, form *huh.Form) tea.Cmd {
	if m.isTab() {
		m.lastTab = m.state
	}
	m.form = form
	m.state = state
	return m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyEsc {
		m.state = m.lastTab
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		state := m.state
		m.state = m.lastTab
		switch state {
		case StateTaskForm:
			m.submitTask()
		case StateRewardForm:
			m.submitReward()
		case StateFeelingForm:
			m.submitFeeling()
		case StateBreakdownForm:
			return m.startBreakdown()
		case StateStepForm:
			m.submitSteps()
		}
	case huh.StateAborted:
		m.state = m.lastTab
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) submitTask() {
	in := engine.TaskInput{Title: m.taskForm.Title, Deadline: m.taskForm.Deadline, Priority: m.taskForm.Priority}
	if m.editingTaskID < 0 {
		t, err := m.engine.CreateTask(in)
		if err != nil {
			m.setError(err)
			return
		}
		m.setStatus("Added task: %s (ID: %d)", t.Title, t.ID)
	} else {
		t, err := m.engine.EditTask(m.editingTaskID, in)
		if err != nil {
			m.setError(err)
			return
		}
		m.setStatus("Updated task: %s", t.Title)
	}
	m.refresh()
}

func (m *Model) submitReward() {
	r, err := m.engine.CreateReward(engine.RewardInput{Name: m.rewardForm.Name, RequiredScore: engine.Required(m.rewardForm.Score)})
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus("Added reward: %s (%d pts), %d slot(s) left", r.Name, r.RequiredScore, m.engine.RemainingRewardSlots())
	m.refresh()
}

func (m *Model) submitFeeling() {
	res, err := m.engine.CompleteTask(m.completingTaskID, m.feelingForm.Feeling())
	if err != nil {
		m.setError(err)
		return
	}
	timing := "late"
	if res.OnTime {
		timing = "on time"
	}
	m.setStatus("Completed %s %s: %+d points, score %d", res.Task.Title, timing, res.Delta, res.Score)
	m.refresh()
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, m.keys.Confirm):
		if err := m.engine.DeleteTask(m.taskToDeleteID); err != nil {
			m.setError(err)
		} else {
			m.setStatus("Deleted task %d", m.taskToDeleteID)
			m.refresh()
		}
		m.state = m.lastTab
	case key.Matches(km, m.keys.Cancel):
		m.state = m.lastTab
	}
	return m, nil
}

// draw backs up file stores only when the draw is going to succeed.
func (m *Model) draw(tier engine.Tier) {
	if status, err := m.engine.TierStatus(tier); err == nil && status.Enabled() {
		m.ctx.PerformAutomaticBackup()
	}
	res, err := m.engine.Draw(tier)
	if err != nil {
		m.setError(err)
		return
	}
	m.gachaModel.SetLastDraw(res.Reward.Name)
	m.setStatus("You drew: %s! (-%d points, score %d)", res.Reward.Name, res.Cost, res.Score)
	m.refresh()
}

func (m Model) startDiagnosis() (tea.Model, tea.Cmd) {
	if m.busy {
		m.setStatus("A request is already running")
		return m, nil
	}
	if m.client == nil {
		m.setError(errNoService)
		return m, nil
	}
	m.busy = true
	m.status = StatusBar{Text: "Diagnosing completed tasks..."}
	return m, tea.Batch(m.diagnoseCmd(), m.spinner.Tick)
}

// diagnoseCmd snapshots the input now so the ledger stays usable meanwhile.
func (m Model) diagnoseCmd() tea.Cmd {
	tasks := m.engine.CompletedWithFeeling()
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		reqCtx, cancel := ctx.RequestContext()
		defer cancel()
		res, err := client.Diagnose(reqCtx, tasks)
		return diagnoseDoneMsg{result: res, err: err}
	}
}

func (m Model) openBreakdownForm() (tea.Model, tea.Cmd) {
	if m.busy {
		m.setStatus("A request is already running")
		return m, nil
	}
	if m.client == nil {
		m.setError(errNoService)
		return m, nil
	}
	m.breakdownForm = &BreakdownFormModel{}
	cmd := m.openForm(StateBreakdownForm, NewBreakdownForm(m.breakdownForm))
	return m, cmd
}

func (m Model) startBreakdown() (tea.Model, tea.Cmd) {
	m.busy = true
	m.status = StatusBar{Text: "Breaking the task down..."}
	return m, tea.Batch(m.breakdownCmd(m.breakdownForm.Description), m.spinner.Tick)
}

func (m Model) breakdownCmd(description string) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		reqCtx, cancel := ctx.RequestContext()
		defer cancel()
		subtasks, err := client.Breakdown(reqCtx, description)
		return breakdownDoneMsg{subtasks: subtasks, err: err}
	}
}

// openStepForm asks for the priority and deadline of the given steps.
func (m *Model) openStepForm(targets []int) tea.Cmd {
	title := fmt.Sprintf("Add all %d steps", len(targets))
	if len(targets) == 1 {
		title = fmt.Sprintf("Add step %d: %s", targets[0]+1, m.subtasks[targets[0]].Title)
	}
	m.stepTargets = targets
	m.stepForm = &StepFormModel{}
	return m.openForm(StateStepForm, NewStepForm(title, m.stepForm))
}

// submitSteps turns the targeted steps into tasks. Steps that were added leave
// the list; steps that failed stay so they can be retried.
func (m *Model) submitSteps() {
	today := m.engine.Today()
	rows := make([]engine.TaskInput, 0, len(m.stepTargets))
	for _, i := range m.stepTargets {
		rows = append(rows, m.subtasks[i].TaskInput(m.stepForm.Priority, m.stepForm.Deadline, today))
	}
	res, err := m.engine.CreateTasks(rows)
	if err != nil {
		m.setError(err)
		return
	}
	if len(res.Added) == 0 && len(res.Errors) > 0 {
		m.setError(res.Errors[0].Err)
		return
	}

	done := make(map[int]bool, len(m.stepTargets))
	for _, i := range m.stepTargets {
		done[i] = true
	}
	for _, e := range res.Errors {
		done[m.stepTargets[e.Row-1]] = false
	}
	kept := make([]diagnosis.Subtask, 0, len(m.subtasks))
	for i, s := range m.subtasks {
		if !done[i] {
			kept = append(kept, s)
		}
	}
	m.subtasks = kept
	m.stepTargets = nil
	m.stepCursor = min(m.stepCursor, max(len(kept)-1, 0))

	text := fmt.Sprintf("Added %d task(s)", len(res.Added))
	if len(res.Errors) > 0 {
		text += fmt.Sprintf(", skipped %d", len(res.Errors))
	}
	m.setStatus("%s", text)
	m.refresh()
}
