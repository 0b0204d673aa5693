package submit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"renderbot/config"
	"renderbot/site"
	"renderbot/tracking"
	"renderbot/types"
)

// Driver transitions a job item from queued to rendering by walking the
// site's submission flow. Every step is retried within a bounded budget;
// exhaustion marks the record failed with a categorized reason.
type Driver struct {
	site        site.Adapter
	store       *tracking.Store
	maxAttempts int
	backoff     time.Duration
	now         func() time.Time
}

func NewDriver(adapter site.Adapter, store *tracking.Store) *Driver {
	return &Driver{
		site:        adapter,
		store:       store,
		maxAttempts: config.MaxSubmitAttempts,
		backoff:     config.SubmitRetryBackoff,
		now:         time.Now,
	}
}

// Submit runs the full submission flow for one job. The tracking record
// must already exist in the queued state. On success the record is
// rendering; on exhausted retries or a site rejection it is failed.
func (d *Driver) Submit(ctx context.Context, job types.JobItem, folderName string) error {
	rec, ok := d.store.Get(job.ID)
	if !ok {
		return fmt.Errorf("no tracking record for job %s", job.ID)
	}
	if rec.Status != types.StatusQueued {
		return fmt.Errorf("job %s is %s, not queued", job.ID, rec.Status)
	}

	script := SmartTruncate(job.Script, config.MaxScriptChars)
	videoName := fmt.Sprintf("%s %s", d.now().Format("01/02/2006 03:04 PM"), job.Title)

	var lastErr error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		rec.Attempts = attempt
		if err := d.store.Upsert(rec); err != nil {
			return err
		}

		log.Printf("🎬 Submitting %q (attempt %d/%d)", job.Title, attempt, d.maxAttempts)
		jobRef, err := d.attempt(ctx, job, script, videoName, folderName)
		if err == nil {
			if err := d.store.Transition(job.ID, types.StatusSubmitted, func(r *types.TrackingRecord) {
				r.FolderName = folderName
				r.VideoName = videoName
				r.RenderJobRef = jobRef
			}); err != nil {
				return err
			}
			// The modal submit is the site's acceptance signal; the job
			// is rendering from this point on.
			if err := d.store.Transition(job.ID, types.StatusRendering, nil); err != nil {
				return err
			}
			log.Printf("✅ Submitted: %q", job.Title)
			return nil
		}

		// An operator stop is not a job failure. The record stays queued
		// so the next run re-submits it.
		if ctx.Err() != nil {
			log.Printf("⏰ Interrupted while submitting %q; job stays queued", job.Title)
			return ctx.Err()
		}

		lastErr = err
		category := Categorize(err)
		log.Printf("⚠️ Submission attempt %d failed (%s): %v", attempt, category, err)

		if !retryable(category) {
			return d.fail(job.ID, category, err)
		}
		if attempt < d.maxAttempts {
			select {
			case <-ctx.Done():
				log.Printf("⏰ Interrupted while submitting %q; job stays queued", job.Title)
				return ctx.Err()
			case <-time.After(d.backoff):
			}
		}
	}
	return d.fail(job.ID, Categorize(lastErr), lastErr)
}

// attempt performs one pass over the submission steps. Overlay dismissal
// runs at each boundary because overlay triggers are unpredictable.
func (d *Driver) attempt(ctx context.Context, job types.JobItem, script, videoName, folderName string) (string, error) {
	d.site.DismissOverlays(ctx)
	if err := d.site.SelectAvatar(ctx, job.Avatar); err != nil {
		return "", fmt.Errorf("select avatar: %w", err)
	}

	d.site.DismissOverlays(ctx)
	if err := d.site.OpenStudio(ctx); err != nil {
		return "", fmt.Errorf("open studio: %w", err)
	}

	pasted, err := d.site.EnterScript(ctx, script)
	if err != nil {
		return "", fmt.Errorf("enter script: %w", err)
	}
	if pasted {
		log.Printf("📝 Script added via clipboard (%d characters)", len(script))
	} else {
		log.Printf("📝 Script added via direct insert (%d characters)", len(script))
	}

	if err := d.site.SetTitle(ctx, videoName); err != nil {
		return "", fmt.Errorf("set title: %w", err)
	}
	if err := d.site.ApplyConfig(ctx, job.Config); err != nil {
		return "", fmt.Errorf("apply config: %w", err)
	}

	d.site.DismissOverlays(ctx)
	jobRef, err := d.site.Submit(ctx, job.Config, folderName)
	if err != nil {
		return "", fmt.Errorf("submit: %w", err)
	}
	return jobRef, nil
}

func (d *Driver) fail(id string, category types.ErrorCategory, cause error) error {
	msg := "submission failed"
	if cause != nil {
		msg = cause.Error()
	}
	if err := d.store.Transition(id, types.StatusFailed, func(r *types.TrackingRecord) {
		r.LastError = msg
		r.ErrorReason = category
	}); err != nil {
		return err
	}
	return fmt.Errorf("job %s failed (%s): %s", id, category, msg)
}

// Categorize maps a step error onto the operator-facing failure taxonomy
func Categorize(err error) types.ErrorCategory {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, site.ErrGenerateDisabled):
		return types.ErrSiteRejected
	case errors.Is(err, context.DeadlineExceeded):
		return types.ErrNavigationTimeout
	case errors.Is(err, site.ErrNotFound):
		return types.ErrSelectorNotFound
	default:
		return types.ErrSelectorNotFound
	}
}

// retryable reports whether a failure category is worth another attempt.
// Site rejections need operator action; retrying would resubmit the same
// rejected content.
func retryable(category types.ErrorCategory) bool {
	switch category {
	case types.ErrSiteRejected, types.ErrValidationReject:
		return false
	}
	return true
}
