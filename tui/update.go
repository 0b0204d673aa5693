package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case ReportLoadedMsg:
		return m.handleReportLoaded(msg)
	case TickMsg:
		return m, tea.Batch(loadReport(m.TrackingPath), tickCmd())
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r", "R":
		return m, loadReport(m.TrackingPath)
	}
	return m, nil
}

// handleReportLoaded folds a fresh read into the model. Read errors are
// shown but do not clear the last good report.
func (m Model) handleReportLoaded(msg ReportLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Err = msg.Err
		return m, nil
	}
	m.Err = nil
	m.Loaded = true
	m.Report = msg.Report
	return m, nil
}
