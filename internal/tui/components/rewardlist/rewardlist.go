package rewardlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/nowaste/internal/engine"
	"github.com/julianstephens/nowaste/internal/models"
)

type AddRewardMsg struct{}

type Item struct {
	Reward models.Reward
}

func (i Item) Title() string {
	if i.Reward.Claimed {
		return "★ " + i.Reward.Name
	}
	return "○ " + i.Reward.Name
}

func (i Item) Description() string {
	tier, _ := engine.TierForScore(i.Reward.RequiredScore)
	status := "waiting in the " + string(tier) + " pool"
	if i.Reward.Claimed {
		status = "claimed"
	}
	return fmt.Sprintf("#%d · %d pts · %s", i.Reward.ID, i.Reward.RequiredScore, status)
}

func (i Item) FilterValue() string { return i.Reward.Name }

type KeyMap struct {
	Add key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Rewards"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	return Model{list: l, keys: keys}
}

func (m *Model) SetRewards(rewards []models.Reward) {
	items := make([]list.Item, len(rewards))
	for i, r := range rewards {
		items[i] = Item{Reward: r}
	}
	m.list.SetItems(items)
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	if msg, ok := msg.(tea.KeyMsg); ok && !m.Filtering() && key.Matches(msg, m.keys.Add) {
		return m, func() tea.Msg { return AddRewardMsg{} }
	}
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No rewards yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
