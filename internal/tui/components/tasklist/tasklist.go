package tasklist

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/nowaste/internal/engine"
	"github.com/julianstephens/nowaste/internal/models"
)

type AddTaskMsg struct{}

type EditTaskMsg struct {
	Task models.Task
}

type CompleteTaskMsg struct {
	Task models.Task
}

type DeleteTaskMsg struct {
	ID int
}

type Item struct {
	Task    models.Task
	Overdue bool
}

func (i Item) Title() string {
	switch {
	case i.Task.Completed:
		return "✓ " + i.Task.Title
	case i.Overdue:
		return "! " + i.Task.Title
	default:
		return "○ " + i.Task.Title
	}
}

func (i Item) Description() string {
	parts := []string{fmt.Sprintf("#%d", i.Task.ID), "due " + i.Task.Deadline, string(i.Task.Priority)}
	if i.Overdue {
		parts = append(parts, "OVERDUE")
	}
	if i.Task.Completed && i.Task.CompletedDate != nil {
		parts = append(parts, "done "+*i.Task.CompletedDate)
		if i.Task.HasFeeling() {
			parts = append(parts, "felt "+*i.Task.Feeling)
		}
	}
	return strings.Join(parts, " · ")
}

func (i Item) FilterValue() string { return i.Task.Title }

type KeyMap struct {
	Add      key.Binding
	Edit     key.Binding
	Complete key.Binding
	Delete   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c", "enter"),
			key.WithHelp("c", "complete"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Tasks"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Complete, keys.Edit, keys.Delete}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	return Model{list: l, keys: keys}
}

// SetTasks replaces the list contents, marking pending tasks whose deadline
// is before today.
func (m *Model) SetTasks(tasks []models.Task, today time.Time) {
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = Item{Task: t, Overdue: engine.Overdue(t, today)}
	}
	m.list.SetItems(items)
}

func (m Model) Items() []Item {
	out := make([]Item, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		if i, ok := it.(Item); ok {
			out = append(out, i)
		}
	}
	return out
}

func (m *Model) Select(index int) {
	m.list.Select(index)
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && !m.Filtering() {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddTaskMsg{} }
		case key.Matches(msg, m.keys.Edit):
			if i, ok := m.list.SelectedItem().(Item); ok && !i.Task.Completed {
				return m, func() tea.Msg { return EditTaskMsg{Task: i.Task} }
			}
		case key.Matches(msg, m.keys.Complete):
			if i, ok := m.list.SelectedItem().(Item); ok && !i.Task.Completed {
				return m, func() tea.Msg { return CompleteTaskMsg{Task: i.Task} }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteTaskMsg{ID: i.Task.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No tasks yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
