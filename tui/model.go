package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"renderbot/types"
)

// Model is a read-only viewer over the tracking file. It shares no
// process with the automation run, so it can attach and detach freely.
type Model struct {
	TrackingPath string

	Report types.StatusReport
	Loaded bool
	Err    error
}

// NewModel creates a new status viewer model
func NewModel(trackingPath string) Model {
	return Model{TrackingPath: trackingPath}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	// Read immediately, then keep ticking
	return tea.Batch(
		loadReport(m.TrackingPath),
		tickCmd(),
	)
}

// headline returns the one-line summary for the current report
func (m Model) headline() string {
	if m.Err != nil {
		return ErrorStyle.Render(fmt.Sprintf("❌ Cannot read %s: %v", m.TrackingPath, m.Err))
	}
	if !m.Loaded {
		return InfoStyle.Render("⏳ Reading tracking state...")
	}
	if m.Report.Total == 0 {
		return InfoStyle.Render("💤 No tracked videos yet")
	}
	if m.Report.Pending == 0 {
		return HighlightStyle.Render(fmt.Sprintf("✅ Run complete: %d downloaded, %d failed", m.Report.Downloaded, m.Report.Failed))
	}
	return StatusStyle.Render(fmt.Sprintf("🔄 %d of %d still in flight", m.Report.Pending, m.Report.Total))
}

// statusIcon maps a record status to its marker
func statusIcon(s types.Status) string {
	switch s {
	case types.StatusQueued:
		return "⏸"
	case types.StatusSubmitted, types.StatusRendering:
		return "🔄"
	case types.StatusReady:
		return "📥"
	case types.StatusDownloaded:
		return "✅"
	case types.StatusFailed:
		return "❌"
	default:
		return "•"
	}
}

func styleFor(s types.Status) func(...string) string {
	switch s {
	case types.StatusDownloaded:
		return StatusStyle.Render
	case types.StatusFailed:
		return ErrorStyle.Render
	case types.StatusQueued:
		return InfoStyle.Render
	default:
		return WarnStyle.Render
	}
}

var _ tea.Model = Model{}
