package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"renderbot/archive"
	"renderbot/browser"
	"renderbot/config"
	"renderbot/poller"
	"renderbot/queue"
	"renderbot/site"
	"renderbot/state"
	"renderbot/submit"
	"renderbot/tracking"
	"renderbot/workflow"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	queueFile := flag.String("queue", config.QueueFile, "Path to the queued batch file")
	trackingFile := flag.String("tracking", config.TrackingFile, "Path to the tracking state file")
	avatarFile := flag.String("avatars", config.AvatarFile, "Path to the avatar config file")
	outputDir := flag.String("out", config.OutputDir, "Directory for downloaded videos")
	profileDir := flag.String("profile", config.ProfileDir, "Chrome profile directory with a signed-in session")
	cronSchedule := flag.String("cron", "", "Cron schedule for repeated runs (empty: run once and exit)")
	inputDir := flag.String("input-dir", "", "Project folder with scene subfolders of script files (alternative to a UI batch)")
	avatarName := flag.String("avatar", "", "Avatar for folder-discovered batches (default: first configured avatar)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Fatalf("❌ Cannot create output directory: %v", err)
	}

	paths := workflow.Paths{
		QueueFile:  *queueFile,
		AvatarFile: *avatarFile,
		OutputDir:  *outputDir,
	}

	if *inputDir != "" {
		if err := stageInputFolder(paths, *inputDir, *avatarName); err != nil {
			log.Fatalf("❌ %v", err)
		}
	}

	if *cronSchedule == "" {
		if err := runOnce(ctx, paths, *trackingFile, *profileDir); err != nil {
			if errors.Is(err, context.Canceled) {
				log.Println("⚠️ Interrupted; tracking state is saved, re-run to resume")
				os.Exit(0)
			}
			log.Fatalf("❌ %v", err)
		}
		log.Println("🎉 All videos accounted for")
		return
	}

	runScheduled(ctx, paths, *trackingFile, *profileDir, *cronSchedule)
}

// runOnce executes a single automation run: one browser session, one
// workflow pass over the queue and tracking files.
func runOnce(ctx context.Context, paths workflow.Paths, trackingFile, profileDir string) error {
	sess, err := browser.NewSession(browser.Config{
		ProfileDir:  profileDir,
		DownloadDir: mustAbs(paths.OutputDir),
		ChromePath:  config.ChromePath(),
		Headless:    config.Headless(),
		Timeout:     config.ActionTimeout,
	})
	if err != nil {
		return fmt.Errorf("start browser: %w", err)
	}
	defer sess.Close()

	adapter := site.NewHeyGen(sess, config.SiteURL)
	store := tracking.NewStore(trackingFile)
	driver := submit.NewDriver(adapter, store)
	p := poller.New(adapter, store, paths.OutputDir)

	if cfg, ok := archive.FromEnv(); ok {
		uploader, err := archive.NewUploader(ctx, cfg)
		if err != nil {
			log.Printf("⚠️ Archive disabled: %v", err)
		} else {
			log.Printf("☁️ Archiving downloads to s3://%s/%s", cfg.Bucket, cfg.Prefix)
			p = p.WithArchiver(uploader)
		}
	}

	runner := workflow.NewRunner(paths, store, adapter, driver, p, state.NewManager())
	return runner.Run(ctx)
}

// runScheduled repeats runOnce on the given cron schedule until the
// process is signalled. Ticks overlapping a running pass are skipped, as
// are ticks with nothing to pick up.
func runScheduled(ctx context.Context, paths workflow.Paths, trackingFile, profileDir, schedule string) {
	busy := make(chan struct{}, 1)

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		select {
		case busy <- struct{}{}:
		default:
			log.Println("⚠️ Cron skipped: previous run still in progress")
			return
		}
		defer func() { <-busy }()

		log.Println("🔄 Cron triggered: starting automation run")
		err := runOnce(ctx, paths, trackingFile, profileDir)
		switch {
		case err == nil:
			log.Println("🎉 Run complete")
		case errors.Is(err, workflow.ErrNothingToDo):
			log.Println("💤 Nothing to do")
		case errors.Is(err, context.Canceled):
		default:
			log.Printf("❌ Run failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("❌ Invalid cron schedule %q: %v", schedule, err)
	}

	c.Start()
	log.Printf("⏰ Scheduled runs with cron expression %q; Ctrl+C to stop", schedule)

	<-ctx.Done()
	log.Println("Shutting down...")
	<-c.Stop().Done()
}

// stageInputFolder turns a project folder of scene scripts into a queued
// batch, the non-UI entry path. The batch lands in the same queue file
// the UI writes, so the workflow treats both sources identically.
func stageInputFolder(paths workflow.Paths, projectDir, avatarName string) error {
	if _, err := os.Stat(paths.QueueFile); err == nil {
		return fmt.Errorf("a batch is already queued at %s", paths.QueueFile)
	}

	avatars, err := queue.LoadAvatars(paths.AvatarFile)
	if err != nil {
		return fmt.Errorf("load avatars: %w", err)
	}
	if avatarName == "" {
		if len(avatars) == 0 {
			return fmt.Errorf("no avatars configured in %s; add one or pass -avatar", paths.AvatarFile)
		}
		avatarName = avatars[0]
	}

	batch, err := queue.DiscoverBatch(projectDir, avatarName)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}
	if err := os.WriteFile(paths.QueueFile, data, 0o644); err != nil {
		return fmt.Errorf("write queue file: %w", err)
	}
	log.Printf("📂 Discovered %d scene(s) under %s as project %q", len(batch.Items), projectDir, batch.ProjectName)
	return nil
}

func mustAbs(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		log.Fatalf("❌ Cannot resolve path %s: %v", p, err)
	}
	return abs
}
