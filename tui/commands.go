package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"renderbot/tracking"
)

// refreshInterval is how often the tracking file is re-read
const refreshInterval = 2 * time.Second

// loadReport creates a command that reads the tracking file
func loadReport(path string) tea.Cmd {
	return func() tea.Msg {
		report, err := tracking.ReadReport(path)
		return ReportLoadedMsg{Report: report, Err: err}
	}
}

// tickCmd creates a command that ticks to trigger the next read
func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
