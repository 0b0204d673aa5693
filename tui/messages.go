package tui

import (
	"time"

	"renderbot/types"
)

// Messages for the tea program (polling-based)

// ReportLoadedMsg is sent when a fresh tracking report has been read
type ReportLoadedMsg struct {
	Report types.StatusReport
	Err    error
}

// TickMsg is sent periodically to trigger a re-read
type TickMsg struct {
	Time time.Time
}
