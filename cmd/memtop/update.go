package main

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Init is the bubbletea entry point; the dashboard is purely key-driven.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Step):
			m.step()
			return m, nil

		case key.Matches(msg, m.keys.Compact):
			m.con.scratch = nil
			m.err = m.con.m.Compact()
			m.lastAction = "compact (manual)"
			return m, nil

		case key.Matches(msg, m.keys.Reset):
			m.reset()
			return m, nil

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		}
	}
	return m, nil
}
