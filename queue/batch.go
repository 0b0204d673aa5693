package queue

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"renderbot/types"
)

// LoadBatch reads and validates the UI queue file. Validation failures
// reject the whole batch before any tracking record or browser interaction
// exists: an empty script in any item, an unknown avatar, or an
// unsupported render option all abort the run.
func LoadBatch(path string, avatars []string) (*types.QueueBatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read queue file: %w", err)
	}

	var batch types.QueueBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parse queue file: %w", err)
	}

	ApplyDefaults(&batch)

	batch.Avatar = strings.TrimSpace(batch.Avatar)
	if batch.Avatar == "" {
		return nil, fmt.Errorf("queue batch has no avatar")
	}
	if !containsAvatar(avatars, batch.Avatar) {
		return nil, fmt.Errorf("avatar %q is not in the configured avatar set", batch.Avatar)
	}

	if err := batch.Config.Validate(); err != nil {
		return nil, fmt.Errorf("queue batch config: %w", err)
	}

	if len(batch.Items) == 0 {
		return nil, fmt.Errorf("queue batch has no items")
	}
	for i, item := range batch.Items {
		if strings.TrimSpace(item.Script) == "" {
			return nil, fmt.Errorf("item %d (%q) has an empty script", i+1, item.Title)
		}
	}

	return &batch, nil
}

// BuildJobs expands a validated batch into job items with stable ids
// derived from the project name and item position, so re-running the same
// batch addresses the same tracking records.
func BuildJobs(batch *types.QueueBatch) []types.JobItem {
	jobs := make([]types.JobItem, 0, len(batch.Items))
	for i, item := range batch.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = fmt.Sprintf("Untitled %d", i+1)
		}
		jobs = append(jobs, types.JobItem{
			ID:          fmt.Sprintf("%s-%02d", slugify(batch.ProjectName), i+1),
			ProjectName: batch.ProjectName,
			Title:       title,
			Script:      strings.TrimSpace(item.Script),
			Avatar:      batch.Avatar,
			Config:      batch.Config,
		})
	}
	return jobs
}

// Consume renames the queue file aside so a restarted process resumes
// from tracking state instead of re-reading an already-accepted batch.
func Consume(path string) error {
	if err := os.Rename(path, path+".consumed"); err != nil {
		return fmt.Errorf("consume queue file: %w", err)
	}
	return nil
}

// ApplyDefaults fills the batch fields the UI leaves blank: the project
// name falls back to "Pasted Scripts" and missing render options take
// the standard values. Invalid values are left for Validate to reject.
func ApplyDefaults(batch *types.QueueBatch) {
	batch.ProjectName = strings.TrimSpace(batch.ProjectName)
	if batch.ProjectName == "" {
		batch.ProjectName = "Pasted Scripts"
	}

	def := types.DefaultRenderConfig()
	if strings.TrimSpace(batch.Config.Quality) == "" {
		batch.Config.Quality = def.Quality
	}
	if strings.TrimSpace(batch.Config.FPS) == "" {
		batch.Config.FPS = def.FPS
	}
	if strings.TrimSpace(batch.Config.Subtitles) == "" {
		batch.Config.Subtitles = def.Subtitles
	}
}

func containsAvatar(avatars []string, name string) bool {
	for _, a := range avatars {
		if strings.EqualFold(a, name) {
			return true
		}
	}
	return false
}

// slugify reduces a project name to a filesystem- and id-safe token
func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "project"
	}
	return slug
}
