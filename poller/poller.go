package poller

import (
	"context"
	"log"
	"strings"
	"time"

	"renderbot/config"
	"renderbot/site"
	"renderbot/tracking"
	"renderbot/types"
)

// Archiver receives finished videos after download. Optional.
type Archiver interface {
	Archive(ctx context.Context, localPath, id string) error
}

// Poller checks the site for finished renders and downloads them. One
// pass per interval: each project folder is opened once and its card
// list read once, however many records are outstanding in it.
type Poller struct {
	site      site.Adapter
	store     *tracking.Store
	outputDir string
	interval  time.Duration
	archiver  Archiver

	maxAttempts int
	attempts    map[string]int
}

func New(adapter site.Adapter, store *tracking.Store, outputDir string) *Poller {
	return &Poller{
		site:        adapter,
		store:       store,
		outputDir:   outputDir,
		interval:    config.PollInterval,
		maxAttempts: config.MaxDownloadAttempts,
		attempts:    make(map[string]int),
	}
}

// WithInterval overrides the poll interval (used by tests)
func (p *Poller) WithInterval(d time.Duration) *Poller {
	p.interval = d
	return p
}

// WithArchiver enables post-download archival
func (p *Poller) WithArchiver(a Archiver) *Poller {
	p.archiver = a
	return p
}

// Run polls until every tracking record is terminal, then returns nil.
// This is what ends the otherwise indefinitely-running process: there is
// no global deadline, only the drain condition and ctx cancellation
// between passes.
func (p *Poller) Run(ctx context.Context) error {
	start := time.Now()
	cycle := 0
	log.Println("⏳ Starting polling loop (runs until the queue drains or the process is interrupted)")

	for {
		if p.store.AllTerminal() {
			log.Println("🎉 All tracked videos are downloaded or failed")
			return nil
		}

		cycle++
		outstanding := p.outstanding()
		log.Printf("🔄 Cycle %d: %d videos pending (elapsed: %d min)",
			cycle, len(outstanding), int(time.Since(start).Minutes()))

		p.pass(ctx, outstanding)

		if p.store.AllTerminal() {
			log.Println("🎉 All tracked videos are downloaded or failed")
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		log.Printf("💤 Waiting %s before next cycle...", p.interval)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.interval):
		}
	}
}

// outstanding returns every record still waiting on the site
func (p *Poller) outstanding() []types.TrackingRecord {
	var out []types.TrackingRecord
	for _, rec := range p.store.Records() {
		switch rec.Status {
		case types.StatusSubmitted, types.StatusRendering, types.StatusReady:
			out = append(out, rec)
		}
	}
	return out
}

// pass visits each folder with pending records and downloads whatever is
// ready. Folder navigation failures skip to the next folder; the records
// stay pending for the next cycle.
func (p *Poller) pass(ctx context.Context, outstanding []types.TrackingRecord) {
	byFolder := make(map[string][]types.TrackingRecord)
	var folders []string
	for _, rec := range outstanding {
		if ctx.Err() != nil {
			return
		}
		// A record without a folder never reached the site; nothing to poll.
		if rec.FolderName == "" {
			continue
		}
		if _, seen := byFolder[rec.FolderName]; !seen {
			folders = append(folders, rec.FolderName)
		}
		byFolder[rec.FolderName] = append(byFolder[rec.FolderName], rec)
	}

	for _, folder := range folders {
		if ctx.Err() != nil {
			return
		}
		log.Printf("📂 Checking folder: %s", folder)
		if err := p.site.OpenFolder(ctx, folder); err != nil {
			log.Printf("⚠️ Could not open folder %q, skipping this cycle: %v", folder, err)
			continue
		}
		cards, err := p.site.ListReadyVideos(ctx)
		if err != nil {
			log.Printf("⚠️ Error listing videos in %q: %v", folder, err)
			continue
		}

		for _, rec := range byFolder[folder] {
			if ctx.Err() != nil {
				return
			}
			if !cardPresent(cards, rec.VideoName) {
				continue
			}
			log.Printf("✅ Ready: %s", rec.Title)
			p.download(ctx, rec)
		}
	}
}

func cardPresent(cards []string, videoName string) bool {
	if videoName == "" {
		return false
	}
	for _, card := range cards {
		if strings.Contains(card, videoName) {
			return true
		}
	}
	return false
}

// download fetches one finished video, verifies it, and marks the record
// downloaded. Failures are retried on later passes up to the budget,
// then the record fails with a download-failed reason.
func (p *Poller) download(ctx context.Context, rec types.TrackingRecord) {
	// Re-running against an existing valid file is a no-op.
	if existing := findExistingOutput(p.outputDir, rec); existing != "" {
		log.Printf("📦 Output already present for %s: %s", rec.ID, existing)
		p.markDownloaded(ctx, rec, existing)
		return
	}

	if rec.Status != types.StatusReady {
		if err := p.store.Transition(rec.ID, types.StatusReady, nil); err != nil {
			log.Printf("⚠️ Could not mark %s ready: %v", rec.ID, err)
			return
		}
	}

	started := time.Now()
	err := p.site.TriggerDownload(ctx, rec.VideoName)
	var finalPath string
	if err == nil {
		finalPath, err = awaitDownload(ctx, p.outputDir, rec, started)
	}
	if err != nil {
		p.attempts[rec.ID]++
		log.Printf("❌ Download error for %s (attempt %d/%d): %v",
			rec.ID, p.attempts[rec.ID], p.maxAttempts, err)
		if p.attempts[rec.ID] >= p.maxAttempts {
			if err := p.store.Transition(rec.ID, types.StatusFailed, func(r *types.TrackingRecord) {
				r.LastError = err.Error()
				r.ErrorReason = types.ErrDownloadFailed
			}); err != nil {
				log.Printf("⚠️ Could not mark %s failed: %v", rec.ID, err)
			}
		}
		return
	}

	p.markDownloaded(ctx, rec, finalPath)
}

func (p *Poller) markDownloaded(ctx context.Context, rec types.TrackingRecord, path string) {
	if err := p.store.Transition(rec.ID, types.StatusDownloaded, func(r *types.TrackingRecord) {
		r.OutputPath = path
	}); err != nil {
		log.Printf("⚠️ Could not mark %s downloaded: %v", rec.ID, err)
		return
	}
	log.Printf("📥 Downloaded: %s", path)

	if p.archiver != nil {
		if err := p.archiver.Archive(ctx, path, rec.ID); err != nil {
			// Archival never affects tracking state.
			log.Printf("⚠️ Archive upload failed for %s: %v", rec.ID, err)
		}
	}
}
