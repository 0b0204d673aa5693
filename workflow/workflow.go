package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"renderbot/config"
	"renderbot/poller"
	"renderbot/queue"
	"renderbot/site"
	"renderbot/state"
	"renderbot/submit"
	"renderbot/tracking"
	"renderbot/types"
)

// ErrNothingToDo reports a run with no new batch and no pending work.
// One-shot callers treat it as a startup error; scheduled callers skip
// the tick.
var ErrNothingToDo = errors.New("no queued batch and no pending work to resume")

// Paths collects the files the runner exchanges with the UI collaborator
type Paths struct {
	QueueFile  string
	AvatarFile string
	OutputDir  string
}

// Runner executes the complete automation workflow: accept the queue
// batch, submit every pending job, then poll and download until every
// record is terminal.
type Runner struct {
	paths   Paths
	store   *tracking.Store
	adapter site.Adapter
	driver  *submit.Driver
	poller  *poller.Poller
	state   *state.Manager
	delay   time.Duration
	now     func() time.Time
}

// NewRunner wires the workflow components
func NewRunner(paths Paths, store *tracking.Store, adapter site.Adapter, driver *submit.Driver, p *poller.Poller, sm *state.Manager) *Runner {
	return &Runner{
		paths:   paths,
		store:   store,
		adapter: adapter,
		driver:  driver,
		poller:  p,
		state:   sm,
		delay:   config.InterSubmissionDelay,
		now:     time.Now,
	}
}

// Run executes the workflow end to end. Interruption via ctx is honored
// between job submissions and between poll passes; the in-flight browser
// step finishes first.
func (r *Runner) Run(ctx context.Context) error {
	freshFolder, err := r.load(ctx)
	if errors.Is(err, ErrNothingToDo) {
		r.state.SetPhase(state.PhaseIdle)
		return err
	}
	if err != nil {
		r.state.SetError(fmt.Errorf("load: %w", err))
		return err
	}

	if err := r.submitPending(ctx, freshFolder); err != nil {
		r.state.SetError(fmt.Errorf("submit: %w", err))
		return err
	}

	if err := r.drain(ctx); err != nil {
		r.state.SetError(fmt.Errorf("poll: %w", err))
		return err
	}

	r.state.SetPhase(state.PhaseComplete)
	r.state.AddLog("All tracked videos reached a terminal state")
	return nil
}

// load reads tracking state and, when a queue file is present, folds the
// new batch into it. Returns the fresh batch's folder name when new
// records were created (a fresh batch needs its site folder created);
// empty on a pure resume.
func (r *Runner) load(ctx context.Context) (string, error) {
	r.state.SetPhase(state.PhaseLoading)

	if _, err := r.store.Load(); err != nil {
		return "", err
	}

	if _, err := os.Stat(r.paths.QueueFile); os.IsNotExist(err) {
		// Restart path: no new batch, resume whatever tracking holds.
		if r.hasNonTerminal() {
			r.state.AddLog("No queue file; resuming from tracking state")
			log.Println("⏩ No queue file found, resuming from tracking state")
			return "", nil
		}
		return "", fmt.Errorf("%s: %w", r.paths.QueueFile, ErrNothingToDo)
	}

	avatars, err := queue.LoadAvatars(r.paths.AvatarFile)
	if err != nil {
		return "", err
	}

	batch, err := queue.LoadBatch(r.paths.QueueFile, avatars)
	if err != nil {
		return "", err
	}

	folderName := fmt.Sprintf("%s %s", r.now().Format("01-02-2006 03-04 PM"), batch.ProjectName)
	created := 0
	for _, job := range queue.BuildJobs(batch) {
		if _, exists := r.store.Get(job.ID); exists {
			// Idempotent resume: a record in any state means this item was
			// already accepted; never create a second one.
			continue
		}
		rec := types.TrackingRecord{
			ID:          job.ID,
			ProjectName: job.ProjectName,
			Title:       job.Title,
			Avatar:      job.Avatar,
			Config:      job.Config,
			Script:      job.Script,
			FolderName:  folderName,
			Status:      types.StatusQueued,
			CreatedAt:   r.now(),
		}
		if err := r.store.Upsert(rec); err != nil {
			return "", err
		}
		created++
	}
	r.state.AddLog(fmt.Sprintf("Accepted batch %q: %d new job(s)", batch.ProjectName, created))
	log.Printf("📋 Accepted batch %q with %d new job(s)", batch.ProjectName, created)

	if err := queue.Consume(r.paths.QueueFile); err != nil {
		return "", err
	}
	if created == 0 {
		return "", nil
	}
	return folderName, nil
}

// submitPending drives the browser once per job still queued. Records
// already rendering or ready are left for the poller; this split is what
// prevents duplicate submissions after a crash.
func (r *Runner) submitPending(ctx context.Context, freshFolder string) error {
	pending := r.store.FindByStatus(types.StatusQueued)
	if len(pending) == 0 {
		log.Println("⏩ No queued jobs to submit")
		return nil
	}

	r.state.SetPhase(state.PhaseSubmitting)
	if err := r.adapter.Open(ctx); err != nil {
		return err
	}

	// Leftover queued records from an earlier run share the pending list
	// but not the fresh batch's folder, so the folder name comes from
	// load, never from pending[0].
	if freshFolder != "" {
		if err := r.adapter.CreateFolder(ctx, freshFolder); err != nil {
			return err
		}
	}

	total := len(pending)
	for i, rec := range pending {
		if ctx.Err() != nil {
			log.Println("⚠️ Interrupted; stopping before next submission")
			return ctx.Err()
		}

		log.Printf("🎬 Processing %d/%d: %s", i+1, total, rec.Title)
		job := types.JobItem{
			ID:          rec.ID,
			ProjectName: rec.ProjectName,
			Title:       rec.Title,
			Script:      rec.Script,
			Avatar:      rec.Avatar,
			Config:      rec.Config,
		}
		if err := r.driver.Submit(ctx, job, rec.FolderName); err != nil {
			if ctx.Err() != nil {
				// Interrupted mid-submission; the record is still queued
				// and the next run picks it up.
				log.Println("⚠️ Interrupted; stopping submissions")
				return ctx.Err()
			}
			// The record is already marked failed with a reason; the batch
			// moves on so one bad job cannot stall the rest.
			r.state.CountSubmission(false)
			log.Printf("❌ %v", err)
		} else {
			r.state.CountSubmission(true)
		}

		if i < total-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.delay):
			}
		}
	}
	return nil
}

// drain runs the poller until every record is terminal
func (r *Runner) drain(ctx context.Context) error {
	if r.store.AllTerminal() {
		return nil
	}
	r.state.SetPhase(state.PhasePolling)
	return r.poller.Run(ctx)
}

func (r *Runner) hasNonTerminal() bool {
	for _, rec := range r.store.Records() {
		if !rec.Status.IsTerminal() {
			return true
		}
	}
	return false
}
