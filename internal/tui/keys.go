package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Tab       key.Binding
	ShiftTab  key.Binding
	Quit      key.Binding
	Help      key.Binding
	Diagnose  key.Binding
	Breakdown key.Binding
	StepUp    key.Binding
	StepDown  key.Binding
	Accept    key.Binding
	AcceptAll key.Binding
	Discard   key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev tab"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Diagnose: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "diagnose"),
		),
		Breakdown: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "break down"),
		),
		StepUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev step"),
		),
		StepDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next step"),
		),
		Accept: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "add step"),
		),
		AcceptAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add all steps"),
		),
		Discard: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "discard steps"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "no"),
		),
	}
}
