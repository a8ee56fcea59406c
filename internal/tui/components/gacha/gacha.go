package gacha

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/nowaste/internal/engine"
)

type DrawMsg struct {
	Tier engine.Tier
}

var (
	scoreStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	enabledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	drawnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

type KeyMap struct {
	Up   key.Binding
	Down key.Binding
	Draw key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Draw: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "draw"),
		),
	}
}

// Model shows the score and one row per tier. Only enabled tiers can be drawn.
type Model struct {
	keys     KeyMap
	statuses []engine.TierAvailability
	score    int
	cursor   int
	lastDraw string
}

func New() Model {
	return Model{keys: DefaultKeyMap()}
}

func (m *Model) SetStatuses(score int, statuses []engine.TierAvailability) {
	m.score = score
	m.statuses = statuses
	if m.cursor >= len(statuses) {
		m.cursor = 0
	}
}

func (m *Model) SetLastDraw(name string) {
	m.lastDraw = name
}

func (m Model) Cursor() int {
	return m.cursor
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(km, m.keys.Down):
		if m.cursor < len(m.statuses)-1 {
			m.cursor++
		}
	case key.Matches(km, m.keys.Draw):
		if m.cursor < len(m.statuses) && m.statuses[m.cursor].Enabled() {
			tier := m.statuses[m.cursor].Tier
			return m, func() tea.Msg { return DrawMsg{Tier: tier} }
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(scoreStyle.Render(fmt.Sprintf("Score: %d", m.score)))
	b.WriteString("\n\n")

	for i, s := range m.statuses {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		line := fmt.Sprintf("%-8s cost %3d  rewards %2d  %s", s.Tier, s.Cost, s.Eligible, reason(s))
		if s.Enabled() {
			line = enabledStyle.Render(line)
		} else {
			line = disabledStyle.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}

	if m.lastDraw != "" {
		b.WriteString("\n")
		b.WriteString(drawnStyle.Render("You drew: " + m.lastDraw + "!"))
		b.WriteString("\n")
	}
	return b.String()
}

func reason(s engine.TierAvailability) string {
	switch {
	case s.Enabled():
		return "ready"
	case s.Eligible == 0 && s.Score < s.Cost:
		return "no rewards, not enough points"
	case s.Eligible == 0:
		return "no rewards"
	default:
		return "not enough points"
	}
}
