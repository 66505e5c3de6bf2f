package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/josephgoksu/taskledger/models"
)

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray
	ColorBlue      = lipgloss.Color("75")  // Blue for in-progress work

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)

	// Components
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	statusStyles = map[models.TaskStatus]lipgloss.Style{
		models.StatusPending:    lipgloss.NewStyle().Foreground(ColorWarning),
		models.StatusInProgress: lipgloss.NewStyle().Foreground(ColorBlue),
		models.StatusDone:       lipgloss.NewStyle().Foreground(ColorSuccess),
		models.StatusDeferred:   lipgloss.NewStyle().Foreground(ColorSecondary),
		models.StatusCancelled:  lipgloss.NewStyle().Foreground(ColorError),
	}

	priorityStyles = map[models.TaskPriority]lipgloss.Style{
		models.PriorityHigh:   lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		models.PriorityMedium: lipgloss.NewStyle().Foreground(ColorWarning),
		models.PriorityLow:    lipgloss.NewStyle().Foreground(ColorSecondary),
	}
)

// RenderStatus colors a task status for terminal display.
func RenderStatus(s models.TaskStatus) string {
	if style, ok := statusStyles[s]; ok {
		return style.Render(string(s))
	}
	return string(s)
}

// RenderPriority colors a task priority for terminal display.
func RenderPriority(p models.TaskPriority) string {
	if style, ok := priorityStyles[p]; ok {
		return style.Render(string(p))
	}
	return string(p)
}

// Percent formats a progress percentage as a fixed-width cell, e.g. " 42%".
func Percent(p float64) string {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return fmt.Sprintf("%3.0f%%", p)
}
