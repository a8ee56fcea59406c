package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateTasks:
		content = docStyle.Render(m.taskList.View())
	case StateRewards:
		content = docStyle.Render(m.rewardList.View())
	case StateGacha:
		content = docStyle.Render(m.gachaModel.View())
	case StateInsights:
		content = docStyle.Render(m.viewInsights())
	case StateTaskForm, StateRewardForm, StateFeelingForm, StateBreakdownForm, StateStepForm:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewBanner(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if !m.isTab() {
		active = m.lastTab
	}
	var tabs []string
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	tabs = append(tabs, scoreBadgeStyle.Render(fmt.Sprintf("%d pts", m.engine.Score())))
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewBanner() string {
	if len(m.conflicts) == 0 {
		return ""
	}
	return warningStyle.Render(fmt.Sprintf("⚠ %d data conflict(s), run 'nowaste validate' for details", len(m.conflicts)))
}

func (m Model) viewStatus() string {
	if m.busy {
		return m.spinner.View() + " " + m.status.Text
	}
	if m.status.Text == "" {
		return ""
	}
	if m.status.IsError {
		return dangerStyle.Render(m.status.Text)
	}
	return successStyle.Render(m.status.Text)
}

func (m Model) viewInsights() string {
	if len(m.subtasks) > 0 {
		var b strings.Builder
		b.WriteString("Suggested steps:\n\n")
		for i, s := range m.subtasks {
			cursor := "  "
			if i == m.stepCursor {
				cursor = "> "
			}
			fmt.Fprintf(&b, "%s%d. %s\n", cursor, i+1, s.Title)
			if s.Description != "" {
				fmt.Fprintf(&b, "     %s\n", s.Description)
			}
		}
		b.WriteString("\n[y] add selected step   [a] add all   [x] discard")
		return b.String()
	}
	if m.insight != "" {
		return m.insight
	}
	return "No insights yet.\nPress 'i' to diagnose your completed tasks or 'b' to break a task down."
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, max(m.height-chromeHeight, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete task %d? This cannot be undone.", m.taskToDeleteID)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
