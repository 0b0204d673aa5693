package poller

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"renderbot/config"
	"renderbot/types"
)

// OutputBase is the deterministic output filename (without extension)
// for a record, derived from its id and title so re-runs land on the
// same file.
func OutputBase(rec types.TrackingRecord) string {
	return sanitizeFilename(rec.ID + " " + rec.Title)
}

// findExistingOutput returns a prior non-empty download for the record,
// whatever extension the site handed out. Names are matched literally,
// so titles containing pattern characters still resolve.
func findExistingOutput(dir string, rec types.TrackingRecord) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	prefix := OutputBase(rec) + "."
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			return path
		}
	}
	return ""
}

// awaitDownload watches the output directory until the triggered download
// finishes, then renames it to the record's deterministic name and
// verifies it is non-empty.
func awaitDownload(ctx context.Context, dir string, rec types.TrackingRecord, since time.Time) (string, error) {
	got, err := waitForLatestDownload(ctx, dir, since)
	if err != nil {
		return "", err
	}

	ext := filepath.Ext(got)
	if ext == "" {
		ext = ".mp4"
	}
	finalPath := filepath.Join(dir, OutputBase(rec)+ext)
	if finalPath != got {
		if err := os.Remove(finalPath); err != nil && !os.IsNotExist(err) {
			return "", fmt.Errorf("clear stale output: %w", err)
		}
		if err := os.Rename(got, finalPath); err != nil {
			return "", fmt.Errorf("rename download: %w", err)
		}
	}

	info, err := os.Stat(finalPath)
	if err != nil {
		return "", fmt.Errorf("stat download: %w", err)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("downloaded file %s is empty", finalPath)
	}
	return finalPath, nil
}

// waitForLatestDownload polls the directory for a completed download that
// appeared after since: newest file, not an in-progress artifact, with a
// size that holds steady across one check interval.
func waitForLatestDownload(ctx context.Context, dir string, since time.Time) (string, error) {
	deadline := time.Now().Add(config.DownloadWaitLimit)

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(config.DownloadStableCheck):
		}

		latest, modTime := latestFile(dir)
		if latest == "" || modTime.Before(since) {
			continue
		}
		if strings.HasSuffix(latest, ".crdownload") || strings.HasSuffix(latest, ".tmp") {
			continue
		}

		size1, err := fileSize(latest)
		if err != nil || size1 == 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(config.DownloadStableCheck):
		}
		size2, err := fileSize(latest)
		if err != nil {
			continue
		}
		if size1 == size2 {
			return latest, nil
		}
	}
	return "", fmt.Errorf("download did not complete within %s", config.DownloadWaitLimit)
}

func latestFile(dir string) (string, time.Time) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", time.Time{}
	}
	var (
		latest  string
		modTime time.Time
	)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(modTime) {
			latest = filepath.Join(dir, entry.Name())
			modTime = info.ModTime()
		}
	}
	return latest, modTime
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// sanitizeFilename strips characters that break cross-platform paths
func sanitizeFilename(name string) string {
	r := strings.NewReplacer("/", "-", ":", "-", "\\", "-", "|", "-")
	return r.Replace(name)
}
