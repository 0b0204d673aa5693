package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"renderbot/poller"
	"renderbot/queue"
	"renderbot/site"
	"renderbot/state"
	"renderbot/submit"
	"renderbot/tracking"
	"renderbot/types"
)

// happySite submits everything and reports every submitted video ready
type happySite struct {
	submitCalls   int
	folderCreates []string
	cards         []string
}

func (f *happySite) Open(ctx context.Context) error { return nil }
func (f *happySite) CreateFolder(ctx context.Context, name string) error {
	f.folderCreates = append(f.folderCreates, name)
	return nil
}
func (f *happySite) SelectAvatar(ctx context.Context, name string) error { return nil }
func (f *happySite) OpenStudio(ctx context.Context) error { return nil }
func (f *happySite) EnterScript(ctx context.Context, s string) (bool, error) { return true, nil }
func (f *happySite) SetTitle(ctx context.Context, title string) error {
	// Every submission ends up as a ready card under the title it was given.
	f.cards = append(f.cards, title)
	return nil
}
func (f *happySite) ApplyConfig(ctx context.Context, cfg types.RenderConfig) error { return nil }
func (f *happySite) Submit(ctx context.Context, cfg types.RenderConfig, folder string) (string, error) {
	f.submitCalls++
	return "", nil
}
func (f *happySite) OpenFolder(ctx context.Context, folderName string) error { return nil }
func (f *happySite) ListReadyVideos(ctx context.Context) ([]string, error) { return f.cards, nil }
func (f *happySite) TriggerDownload(ctx context.Context, videoName string) error { return nil }
func (f *happySite) DismissOverlays(ctx context.Context) {}

var _ site.Adapter = (*happySite)(nil)

type env struct {
	paths    Paths
	tracking string
	store    *tracking.Store
	fake     *happySite
	runner   *Runner
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	e := &env{
		paths: Paths{
			QueueFile:  filepath.Join(dir, "ui_queue.json"),
			AvatarFile: filepath.Join(dir, "config.txt"),
			OutputDir:  filepath.Join(dir, "outputFiles"),
		},
		tracking: filepath.Join(dir, "tracking.json"),
		fake:     &happySite{},
	}
	if err := os.MkdirAll(e.paths.OutputDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := queue.SaveAvatars(e.paths.AvatarFile, []string{"Amelia"}); err != nil {
		t.Fatalf("SaveAvatars: %v", err)
	}
	e.rebuild(t)
	return e
}

// rebuild recreates the runner stack the way a process restart would
func (e *env) rebuild(t *testing.T) {
	t.Helper()
	e.store = tracking.NewStore(e.tracking)
	driver := submit.NewDriver(e.fake, e.store)
	p := poller.New(e.fake, e.store, e.paths.OutputDir).WithInterval(time.Millisecond)
	e.runner = NewRunner(e.paths, e.store, e.fake, driver, p, state.NewManager())
	e.runner.delay = 0
}

func (e *env) writeBatch(t *testing.T) {
	t.Helper()
	batch := `{
		"project_name": "Demo Project",
		"avatar": "Amelia",
		"config": {"quality": "720p", "fps": "25", "subtitles": "yes"},
		"items": [
			{"title": "First", "script": "Hello."},
			{"title": "Second", "script": "World."}
		]
	}`
	if err := os.WriteFile(e.paths.QueueFile, []byte(batch), 0o644); err != nil {
		t.Fatalf("write batch: %v", err)
	}
}

// placeOutputs pretends the browser finished every pending download
func (e *env) placeOutputs(t *testing.T) {
	t.Helper()
	for _, rec := range e.store.Records() {
		if rec.Status.IsTerminal() {
			continue
		}
		name := poller.OutputBase(rec) + ".mp4"
		if err := os.WriteFile(filepath.Join(e.paths.OutputDir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write output: %v", err)
		}
	}
}

func TestRunFullBatch(t *testing.T) {
	e := newEnv(t)
	e.writeBatch(t)

	// Job ids and output names are deterministic, so the finished
	// downloads can sit on disk before the run starts. The fake site
	// lists every submitted title as a ready card, and the poller adopts
	// the existing files.
	for _, name := range []string{"demo-project-01 First.mp4", "demo-project-02 Second.mp4"} {
		if err := os.WriteFile(filepath.Join(e.paths.OutputDir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write output: %v", err)
		}
	}

	if err := e.runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if e.fake.submitCalls != 2 {
		t.Errorf("submit called %d times; want 2", e.fake.submitCalls)
	}
	if len(e.fake.folderCreates) != 1 {
		t.Errorf("CreateFolder called %d times; want 1 per fresh batch", len(e.fake.folderCreates))
	}

	for _, rec := range e.store.Records() {
		if rec.Status != types.StatusDownloaded {
			t.Errorf("%s status = %s; want downloaded", rec.ID, rec.Status)
		}
		if rec.OutputPath == "" {
			t.Errorf("%s has no output path", rec.ID)
		}
	}

	// The queue file was consumed.
	if _, err := os.Stat(e.paths.QueueFile); !os.IsNotExist(err) {
		t.Errorf("queue file still present after run")
	}
}

func TestRunNothingToDo(t *testing.T) {
	e := newEnv(t)
	err := e.runner.Run(context.Background())
	if !errors.Is(err, ErrNothingToDo) {
		t.Fatalf("Run = %v; want ErrNothingToDo", err)
	}
}

func TestRunResumeDoesNotResubmit(t *testing.T) {
	e := newEnv(t)
	e.writeBatch(t)

	// First run is interrupted immediately after submission: simulate by
	// loading the batch and submitting, then rebuilding the stack.
	if _, err := e.store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	freshFolder, err := e.runner.load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if freshFolder == "" {
		t.Fatalf("fresh batch not detected")
	}
	if err := e.runner.submitPending(context.Background(), freshFolder); err != nil {
		t.Fatalf("submitPending: %v", err)
	}
	if e.fake.submitCalls != 2 {
		t.Fatalf("submit called %d times; want 2", e.fake.submitCalls)
	}

	// Restart: queue file is consumed, records are rendering; their
	// outputs appear and the run must drain without resubmitting.
	e.rebuild(t)
	if _, err := e.store.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	e.placeOutputs(t)

	if err := e.runner.Run(context.Background()); err != nil {
		t.Fatalf("resumed Run: %v", err)
	}
	if e.fake.submitCalls != 2 {
		t.Errorf("resume resubmitted: submit called %d times; want 2", e.fake.submitCalls)
	}
	if len(e.fake.folderCreates) != 1 {
		t.Errorf("resume recreated the folder: %d creates", len(e.fake.folderCreates))
	}
	for _, rec := range e.store.Records() {
		if rec.Status != types.StatusDownloaded {
			t.Errorf("%s status = %s; want downloaded", rec.ID, rec.Status)
		}
	}
}

func TestFreshBatchFolderIgnoresLeftoverQueuedRecords(t *testing.T) {
	e := newEnv(t)

	// A queued record from an earlier, interrupted run sits in tracking
	// under its own folder. It sorts before the fresh batch's records.
	if _, err := e.store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	leftover := types.TrackingRecord{
		ID:          "old-project-01",
		ProjectName: "Old Project",
		Title:       "Leftover",
		Avatar:      "Amelia",
		Config:      types.DefaultRenderConfig(),
		Script:      "Still here.",
		FolderName:  "01-01-2026 01-01 AM Old Project",
		Status:      types.StatusQueued,
		CreatedAt:   time.Now().Add(-time.Hour),
	}
	if err := e.store.Upsert(leftover); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	e.writeBatch(t)
	freshFolder, err := e.runner.load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if freshFolder == "" {
		t.Fatalf("fresh batch not detected")
	}
	if err := e.runner.submitPending(context.Background(), freshFolder); err != nil {
		t.Fatalf("submitPending: %v", err)
	}

	if len(e.fake.folderCreates) != 1 {
		t.Fatalf("CreateFolder called %d times; want 1", len(e.fake.folderCreates))
	}
	if got := e.fake.folderCreates[0]; got != freshFolder {
		t.Errorf("created folder %q; want the fresh batch folder %q", got, freshFolder)
	}
	if e.fake.folderCreates[0] == leftover.FolderName {
		t.Errorf("leftover record's folder re-created instead of the fresh batch's")
	}
}

func TestRunSecondBatchSkipsExistingRecords(t *testing.T) {
	e := newEnv(t)
	e.writeBatch(t)

	if _, err := e.store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := e.runner.load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	before := len(e.store.Records())

	// The same batch arrives again (same project name, same item count):
	// its job ids collide with the existing records, so nothing is added.
	e.writeBatch(t)
	fresh, err := e.runner.load(context.Background())
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if fresh != "" {
		t.Errorf("re-accepted batch counted as fresh: folder %q", fresh)
	}
	if got := len(e.store.Records()); got != before {
		t.Errorf("record count grew from %d to %d on duplicate batch", before, got)
	}
}
