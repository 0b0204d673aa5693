package config

import "time"

// Browser Constants
const (
	// ProfileDir holds the persistent Chrome profile created by the
	// one-time login setup; automation refuses to start without it
	ProfileDir = "chrome_profile"

	// ActionTimeout bounds every individual page action (navigation,
	// selector wait, click)
	ActionTimeout = 30 * time.Second

	// NavigationSettle is the pause after a top-level navigation before
	// interacting with the page
	NavigationSettle = 3 * time.Second

	// SiteURL is the target site homepage
	SiteURL = "https://www.heygen.com/"
)

// Submission Constants
const (
	// MaxSubmitAttempts bounds retries of a single submission step before
	// the job is marked failed
	MaxSubmitAttempts = 3

	// SubmitRetryBackoff is the pause between submission retries
	SubmitRetryBackoff = 5 * time.Second

	// InterSubmissionDelay is the pause between consecutive job submissions
	InterSubmissionDelay = 5 * time.Second

	// MaxScriptChars is the site's script length limit; longer scripts are
	// truncated at the last sentence boundary
	MaxScriptChars = 25000
)

// Polling & Download Constants
const (
	// PollInterval is the wait between completion-check passes
	PollInterval = 90 * time.Second

	// MaxDownloadAttempts bounds download retries per video
	MaxDownloadAttempts = 3

	// DownloadStableCheck is the interval used to decide a downloading
	// file has stopped growing
	DownloadStableCheck = 2 * time.Second

	// DownloadWaitLimit bounds how long one triggered download may take
	DownloadWaitLimit = 10 * time.Minute
)

// File & Directory Constants
const (
	// OutputDir receives finished videos
	OutputDir = "outputFiles"

	// QueueFile is the batch handoff file written by the UI server
	QueueFile = "ui_queue.json"

	// TrackingFile is the durable per-job state file
	TrackingFile = "tracking.json"

	// AvatarFile persists the usable avatar names
	AvatarFile = "config.txt"
)
