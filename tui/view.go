package tui

import (
	"fmt"
	"strings"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	// Title
	b.WriteString(TitleStyle.Render("🎬 RenderBot Status"))
	b.WriteString("\n\n")

	// Current state
	b.WriteString(m.headline())
	b.WriteString("\n\n")

	// Statistics
	if m.Loaded && m.Report.Total > 0 {
		stats := fmt.Sprintf("📊 Total: %d | Pending: %d | Downloaded: %d | Failed: %d",
			m.Report.Total, m.Report.Pending, m.Report.Downloaded, m.Report.Failed)
		b.WriteString(InfoStyle.Render(stats))
		b.WriteString("\n")
		if m.Report.SessionID != "" {
			b.WriteString(InfoStyle.Render("   Session: " + m.Report.SessionID))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Per-video rows
	if m.Loaded && len(m.Report.Records) > 0 {
		var rows strings.Builder
		for _, rec := range m.Report.Records {
			line := fmt.Sprintf("%s %-12s %s", statusIcon(rec.Status), rec.Status, rec.Title)
			if rec.Status.IsTerminal() && rec.LastError != "" {
				line += "  (" + firstLine(rec.LastError) + ")"
			}
			rows.WriteString(styleFor(rec.Status)(line))
			rows.WriteString("\n")
		}
		b.WriteString(BoxStyle.Render(strings.TrimRight(rows.String(), "\n")))
		b.WriteString("\n\n")
	}

	// Help text
	b.WriteString(InfoStyle.Render("Press 'r' to refresh | Press 'q' or Ctrl+C to quit"))

	return b.String()
}

// firstLine truncates multi-line errors so rows stay one line tall
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 80 {
		s = s[:77] + "..."
	}
	return s
}
