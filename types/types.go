package types

import (
	"fmt"
	"time"
)

// Status represents the lifecycle state of a tracked render job
type Status string

const (
	StatusQueued     Status = "queued"
	StatusSubmitted  Status = "submitted"
	StatusRendering  Status = "rendering"
	StatusReady      Status = "ready"
	StatusDownloaded Status = "downloaded"
	StatusFailed     Status = "failed"
)

// statusRank orders the forward-only lifecycle. Failed is reachable from
// any non-terminal state and is handled separately.
var statusRank = map[Status]int{
	StatusQueued:     0,
	StatusSubmitted:  1,
	StatusRendering:  2,
	StatusReady:      3,
	StatusDownloaded: 4,
}

// IsTerminal reports whether no further transitions are expected
func (s Status) IsTerminal() bool {
	return s == StatusDownloaded || s == StatusFailed
}

// CanTransitionTo reports whether moving from s to next is a legal
// forward transition. Failed is always reachable from a non-terminal state.
func (s Status) CanTransitionTo(next Status) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StatusFailed {
		return true
	}
	from, ok1 := statusRank[s]
	to, ok2 := statusRank[next]
	return ok1 && ok2 && to > from
}

// ErrorCategory classifies why a job failed so the operator can decide
// whether to resubmit or investigate the site manually
type ErrorCategory string

const (
	ErrSelectorNotFound  ErrorCategory = "selector-not-found"
	ErrNavigationTimeout ErrorCategory = "navigation-timeout"
	ErrValidationReject  ErrorCategory = "validation-rejected"
	ErrSiteRejected      ErrorCategory = "site-rejected"
	ErrDownloadFailed    ErrorCategory = "download-failed"
)

// RenderConfig holds the render options applied to every video in a batch
type RenderConfig struct {
	Quality   string `json:"quality"`
	FPS       string `json:"fps"`
	Subtitles string `json:"subtitles"`
}

var (
	allowedQualities = map[string]bool{"720p": true, "1080p": true}
	allowedFPS       = map[string]bool{"25": true, "30": true, "60": true}
	allowedSubtitles = map[string]bool{"yes": true, "no": true}
)

// Validate rejects unsupported option values rather than clamping them
func (c RenderConfig) Validate() error {
	if !allowedQualities[c.Quality] {
		return fmt.Errorf("unsupported quality %q (allowed: 720p, 1080p)", c.Quality)
	}
	if !allowedFPS[c.FPS] {
		return fmt.Errorf("unsupported fps %q (allowed: 25, 30, 60)", c.FPS)
	}
	if !allowedSubtitles[c.Subtitles] {
		return fmt.Errorf("unsupported subtitles value %q (allowed: yes, no)", c.Subtitles)
	}
	return nil
}

// DefaultRenderConfig returns the defaults applied when the UI omits options
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{Quality: "720p", FPS: "25", Subtitles: "yes"}
}

// QueueItem is one title+script pair submitted through the UI
type QueueItem struct {
	Title  string `json:"title"`
	Script string `json:"script"`
}

// QueueBatch is one UI-submitted set of items plus shared defaults
type QueueBatch struct {
	ProjectName string       `json:"project_name"`
	Avatar      string       `json:"avatar"`
	Config      RenderConfig `json:"config"`
	Items       []QueueItem  `json:"items"`
}

// JobItem is one requested video render, immutable once submission begins
type JobItem struct {
	ID          string       `json:"id"`
	ProjectName string       `json:"project_name"`
	Title       string       `json:"title"`
	Script      string       `json:"script"`
	Avatar      string       `json:"avatar"`
	Config      RenderConfig `json:"config"`
}

// TrackingRecord is the durable per-item lifecycle state
type TrackingRecord struct {
	ID          string       `json:"id"`
	ProjectName string       `json:"project_name"`
	Title       string       `json:"title"`
	Avatar      string       `json:"avatar"`
	Config      RenderConfig `json:"config"`

	// Script is carried on the record so a job still queued after a crash
	// can be re-submitted without the consumed queue file.
	Script string `json:"script,omitempty"`

	// FolderName is the site folder the job was filed under; VideoName is
	// the deterministic title used to correlate the finished render when
	// the site exposes no stable job reference.
	FolderName string `json:"folder_name,omitempty"`
	VideoName  string `json:"video_name,omitempty"`

	Status       Status        `json:"status"`
	RenderJobRef string        `json:"render_job_ref,omitempty"`
	Attempts     int           `json:"attempts"`
	LastError    string        `json:"last_error,omitempty"`
	ErrorReason  ErrorCategory `json:"error_category,omitempty"`
	OutputPath   string        `json:"output_path,omitempty"`

	CreatedAt    time.Time  `json:"created_at"`
	SubmittedAt  *time.Time `json:"submitted_at,omitempty"`
	RenderingAt  *time.Time `json:"rendering_at,omitempty"`
	ReadyAt      *time.Time `json:"ready_at,omitempty"`
	DownloadedAt *time.Time `json:"downloaded_at,omitempty"`
	FailedAt     *time.Time `json:"failed_at,omitempty"`
}

// StatusReport is the aggregate view of the tracking file served to the
// UI and the terminal status viewer
type StatusReport struct {
	SessionID   string           `json:"session_id,omitempty"`
	GeneratedAt time.Time        `json:"generated_at"`
	Total       int              `json:"total"`
	Pending     int              `json:"pending"`
	Downloaded  int              `json:"downloaded"`
	Failed      int              `json:"failed"`
	Records     []TrackingRecord `json:"records"`
}
