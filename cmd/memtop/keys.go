package main

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	Step    key.Binding
	Compact key.Binding
	Reset   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default keyboard shortcuts
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Step: key.NewBinding(
			key.WithKeys(" ", "n"),
			key.WithHelp("space/n", "step workload"),
		),
		Compact: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "compact"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset console"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
