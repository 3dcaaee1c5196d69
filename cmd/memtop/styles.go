package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/joshuapare/consolekit/console/mem"
)

var (
	// Color palette
	primaryColor = lipgloss.Color("#7D56F4")
	successColor = lipgloss.Color("#04B575")
	errorColor   = lipgloss.Color("#FF4B4B")
	mutedColor   = lipgloss.Color("#666666")
	borderColor  = lipgloss.Color("#383838")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	paneTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	statusStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	actionStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// tagColors maps block tags to the map bar's segment colors.
var tagColors = map[mem.Tag]lipgloss.Color{
	mem.TagKernel:   lipgloss.Color("#FF4B4B"),
	mem.TagUser:     lipgloss.Color("#00D7FF"),
	mem.TagGame:     lipgloss.Color("#04B575"),
	mem.TagGraphics: lipgloss.Color("#FF00FF"),
	mem.TagAudio:    lipgloss.Color("#FFA500"),
	mem.TagReserved: lipgloss.Color("#AAAAAA"),
}

var freeSegmentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#333333"))

func segmentStyle(tag mem.Tag) lipgloss.Style {
	c, ok := tagColors[tag]
	if !ok {
		c = mutedColor
	}
	return lipgloss.NewStyle().Foreground(c)
}
