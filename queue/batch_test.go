package queue

import (
	"os"
	"path/filepath"
	"testing"
)

var testAvatars = []string{"Amelia", "Marcus"}

func writeQueue(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ui_queue.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write queue fixture: %v", err)
	}
	return path
}

func TestLoadBatchValid(t *testing.T) {
	path := writeQueue(t, `{
		"project_name": "Launch Week",
		"avatar": "Amelia",
		"config": {"quality": "1080p", "fps": "30", "subtitles": "no"},
		"items": [
			{"title": "Intro", "script": "Hello there."},
			{"title": "", "script": "Second script."}
		]
	}`)

	batch, err := LoadBatch(path, testAvatars)
	if err != nil {
		t.Fatalf("LoadBatch: %v", err)
	}
	if batch.ProjectName != "Launch Week" {
		t.Errorf("ProjectName = %q", batch.ProjectName)
	}
	if len(batch.Items) != 2 {
		t.Fatalf("got %d items; want 2", len(batch.Items))
	}

	jobs := BuildJobs(batch)
	if jobs[0].ID != "launch-week-01" || jobs[1].ID != "launch-week-02" {
		t.Errorf("job ids = %q, %q; want launch-week-01, launch-week-02", jobs[0].ID, jobs[1].ID)
	}
	if jobs[1].Title != "Untitled 2" {
		t.Errorf("untitled item got title %q; want \"Untitled 2\"", jobs[1].Title)
	}
	if jobs[0].Avatar != "Amelia" || jobs[0].Config.Quality != "1080p" {
		t.Errorf("batch defaults not propagated onto job: %+v", jobs[0])
	}
}

func TestLoadBatchDefaults(t *testing.T) {
	path := writeQueue(t, `{
		"avatar": "Marcus",
		"items": [{"title": "T", "script": "S."}]
	}`)

	batch, err := LoadBatch(path, testAvatars)
	if err != nil {
		t.Fatalf("LoadBatch: %v", err)
	}
	if batch.ProjectName != "Pasted Scripts" {
		t.Errorf("default project name = %q; want \"Pasted Scripts\"", batch.ProjectName)
	}
	if batch.Config.Quality != "720p" || batch.Config.FPS != "25" || batch.Config.Subtitles != "yes" {
		t.Errorf("config defaults not applied: %+v", batch.Config)
	}
}

func TestLoadBatchRejections(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"empty script rejects whole batch", `{
			"project_name": "P", "avatar": "Amelia",
			"items": [{"title": "A", "script": "ok."}, {"title": "B", "script": "  "}]
		}`},
		{"unknown avatar", `{
			"project_name": "P", "avatar": "Nobody",
			"items": [{"title": "A", "script": "ok."}]
		}`},
		{"missing avatar", `{
			"project_name": "P",
			"items": [{"title": "A", "script": "ok."}]
		}`},
		{"unsupported quality", `{
			"project_name": "P", "avatar": "Amelia",
			"config": {"quality": "4k"},
			"items": [{"title": "A", "script": "ok."}]
		}`},
		{"no items", `{"project_name": "P", "avatar": "Amelia", "items": []}`},
		{"malformed json", `{not json`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := writeQueue(t, c.content)
			if _, err := LoadBatch(path, testAvatars); err == nil {
				t.Fatalf("LoadBatch accepted invalid batch")
			}
		})
	}
}

func TestConsume(t *testing.T) {
	path := writeQueue(t, `{}`)
	if err := Consume(path); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("queue file still present after Consume")
	}
	if _, err := os.Stat(path + ".consumed"); err != nil {
		t.Fatalf("consumed copy missing: %v", err)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Launch Week", "launch-week"},
		{"  My_Project 2  ", "my-project-2"},
		{"!!!", "project"},
		{"Ünïcode Name", "ncode-name"},
	}
	for _, c := range cases {
		if got := slugify(c.in); got != c.want {
			t.Errorf("slugify(%q) = %q; want %q", c.in, got, c.want)
		}
	}
}
