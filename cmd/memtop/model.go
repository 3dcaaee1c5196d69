package main

import (
	"github.com/joshuapare/consolekit/cmd/memtop/logger"
)

// Model is the main application model
type Model struct {
	con  *console
	keys KeyMap

	stepIdx    int
	stepCount  int
	lastAction string

	width  int
	height int

	showHelp bool
	err      error
}

// NewModel boots a console and wraps it in a dashboard model.
func NewModel() (Model, error) {
	con, err := bootConsole()
	if err != nil {
		return Model{}, err
	}
	return Model{
		con:        con,
		keys:       DefaultKeyMap(),
		lastAction: "booted",
	}, nil
}

// step runs the next scripted action and records the outcome.
func (m *Model) step() {
	st := script[m.stepIdx%len(script)]
	m.stepIdx++
	m.stepCount++
	m.lastAction = st.label
	m.err = st.run(m.con)
	if m.err != nil {
		logger.Warn("step failed", "action", st.label, "error", m.err)
		return
	}
	logger.Debug("step", "action", st.label, "n", m.stepCount)
}

// reset tears the console down and boots a fresh one.
func (m *Model) reset() {
	m.con.close()
	con, err := bootConsole()
	if err != nil {
		m.err = err
		return
	}
	m.con = con
	m.stepIdx = 0
	m.stepCount = 0
	m.lastAction = "reset"
	m.err = nil
	logger.Info("console reset")
}

// Close releases the console's memory.
func (m Model) Close() {
	m.con.close()
}
