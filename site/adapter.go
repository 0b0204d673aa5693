package site

import (
	"context"
	"errors"

	"renderbot/types"
)

// Sentinel errors the submission driver maps onto failure categories.
var (
	// ErrNotFound means a required control never became visible
	ErrNotFound = errors.New("site control not found")
	// ErrGenerateDisabled means the site refused the job (disabled Generate
	// button, usually an avatar without audio or an empty script)
	ErrGenerateDisabled = errors.New("generate button is disabled")
)

// Adapter exposes the site workflow as named operations so that selector
// churn stays inside one implementation and never touches orchestration.
type Adapter interface {
	// Open navigates to the site homepage and settles
	Open(ctx context.Context) error

	// CreateFolder creates a project folder to file submissions under
	CreateFolder(ctx context.Context, name string) error

	// SelectAvatar finds the named avatar card (scrolling as needed),
	// clicks it, and handles the use-this-avatar confirmation dialog
	SelectAvatar(ctx context.Context, name string) error

	// OpenStudio brings up the script editor for the selected avatar
	OpenStudio(ctx context.Context) error

	// EnterScript puts the script into the editor. It reports whether the
	// clipboard paste path succeeded; on paste mismatch the field is
	// cleared and direct insertion is used exactly once.
	EnterScript(ctx context.Context, script string) (pasted bool, err error)

	// SetTitle names the video; the title doubles as the correlation key
	SetTitle(ctx context.Context, title string) error

	// ApplyConfig applies editor-level options (subtitles, engine)
	ApplyConfig(ctx context.Context, cfg types.RenderConfig) error

	// Submit opens the generate modal, sets resolution/fps, files the job
	// under folderName, and confirms. The returned job reference is empty
	// when the site exposes none; callers then correlate by video title,
	// a weaker positional guarantee.
	Submit(ctx context.Context, cfg types.RenderConfig, folderName string) (jobRef string, err error)

	// OpenFolder navigates into a project folder
	OpenFolder(ctx context.Context, folderName string) error

	// ListReadyVideos returns the card titles of finished renders in the
	// currently open folder, one page read per poll pass
	ListReadyVideos(ctx context.Context) ([]string, error)

	// TriggerDownload starts the browser download for a finished video
	TriggerDownload(ctx context.Context, videoName string) error

	// DismissOverlays best-effort clears rating prompts and modal
	// backdrops; called opportunistically at step boundaries because
	// overlay triggers are not predictable
	DismissOverlays(ctx context.Context)
}
