package queue

import (
	"os"
	"path/filepath"
	"testing"
)

func writeScene(t *testing.T, projectDir, scene, file, script string) {
	t.Helper()
	dir := filepath.Join(projectDir, scene)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, file), []byte(script), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
}

func TestDiscoverBatch(t *testing.T) {
	projectDir := filepath.Join(t.TempDir(), "Launch Week")
	writeScene(t, projectDir, "Scene 1", "intro.txt", "Hello there.\n")
	writeScene(t, projectDir, "Scene 2", "outro.text", "Goodbye.")
	writeScene(t, projectDir, "Scene 3", "notes.md", "not a script")
	writeScene(t, projectDir, "Scene 4", "blank.txt", "   \n")

	batch, err := DiscoverBatch(projectDir, "Amelia")
	if err != nil {
		t.Fatalf("DiscoverBatch: %v", err)
	}

	if batch.ProjectName != "Launch Week" {
		t.Errorf("project name = %q; want folder name", batch.ProjectName)
	}
	if batch.Avatar != "Amelia" {
		t.Errorf("avatar = %q; want Amelia", batch.Avatar)
	}
	if len(batch.Items) != 2 {
		t.Fatalf("got %d items; want 2 (scenes without scripts skipped)", len(batch.Items))
	}
	if batch.Items[0].Title != "Scene 1" || batch.Items[0].Script != "Hello there." {
		t.Errorf("item 0 = %+v; want Scene 1 with trimmed script", batch.Items[0])
	}
	if batch.Items[1].Title != "Scene 2" || batch.Items[1].Script != "Goodbye." {
		t.Errorf("item 1 = %+v; want Scene 2", batch.Items[1])
	}
	if batch.Config.Quality != "720p" || batch.Config.FPS != "25" || batch.Config.Subtitles != "yes" {
		t.Errorf("defaults not applied: %+v", batch.Config)
	}
}

func TestDiscoverBatchPicksFirstScriptAlphabetically(t *testing.T) {
	projectDir := filepath.Join(t.TempDir(), "P")
	writeScene(t, projectDir, "Scene", "b.txt", "Second.")
	writeScene(t, projectDir, "Scene", "a.txt", "First.")

	batch, err := DiscoverBatch(projectDir, "Amelia")
	if err != nil {
		t.Fatalf("DiscoverBatch: %v", err)
	}
	if batch.Items[0].Script != "First." {
		t.Errorf("script = %q; want the alphabetically first file", batch.Items[0].Script)
	}
}

func TestDiscoverBatchNoScenes(t *testing.T) {
	projectDir := filepath.Join(t.TempDir(), "Empty")
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := DiscoverBatch(projectDir, "Amelia"); err == nil {
		t.Fatalf("DiscoverBatch on an empty project succeeded; want error")
	}
}
