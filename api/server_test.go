package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"renderbot/queue"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRouter(t *testing.T) (*gin.Engine, Paths) {
	t.Helper()
	dir := t.TempDir()
	paths := Paths{
		QueueFile:    filepath.Join(dir, "ui_queue.json"),
		AvatarFile:   filepath.Join(dir, "config.txt"),
		TrackingFile: filepath.Join(dir, "tracking.json"),
	}
	return NewRouter(paths), paths
}

func doJSON(t *testing.T, r *gin.Engine, method, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := testRouter(t)
	w := doJSON(t, r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d; want 200", w.Code)
	}
}

func TestAvatarLifecycle(t *testing.T) {
	r, _ := testRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/avatars", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/avatars = %d; want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"avatars":[]`) {
		t.Errorf("empty roster body = %s", w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/avatars", `{"name": "Amelia"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/avatars = %d; want 200 (body %s)", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/avatars", `{"name": "  "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("POST blank avatar = %d; want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, "/api/avatars/Amelia", "")
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE /api/avatars/Amelia = %d; want 200", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, "/api/avatars/Amelia", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("DELETE of removed avatar = %d; want 404", w.Code)
	}
}

func TestStartBatch(t *testing.T) {
	r, paths := testRouter(t)
	if _, err := queue.AddAvatar(paths.AvatarFile, "Amelia"); err != nil {
		t.Fatalf("AddAvatar: %v", err)
	}

	valid := `{
		"project_name": "Demo",
		"avatar": "Amelia",
		"config": {"quality": "720p", "fps": "25", "subtitles": "yes"},
		"items": [
			{"title": "A", "script": "Hello."},
			{"title": "B", "script": "   "}
		]
	}`

	w := doJSON(t, r, http.MethodPost, "/api/queue/start", valid)
	if w.Code != http.StatusAccepted {
		t.Fatalf("POST /api/queue/start = %d; want 202 (body %s)", w.Code, w.Body.String())
	}
	var resp startResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Accepted != 1 || resp.Dropped != 1 {
		t.Errorf("accepted %d dropped %d; want 1/1 (blank script dropped)", resp.Accepted, resp.Dropped)
	}

	// The queue file now exists and holds only the kept item.
	data, err := os.ReadFile(paths.QueueFile)
	if err != nil {
		t.Fatalf("queue file not written: %v", err)
	}
	if strings.Contains(string(data), `"B"`) {
		t.Errorf("dropped item persisted: %s", data)
	}

	// A second batch while one is pending is refused.
	w = doJSON(t, r, http.MethodPost, "/api/queue/start", valid)
	if w.Code != http.StatusConflict {
		t.Fatalf("second POST = %d; want 409", w.Code)
	}

	// GET reports the pending batch.
	w = doJSON(t, r, http.MethodGet, "/api/queue", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"pending":true`) {
		t.Fatalf("GET /api/queue = %d body %s; want pending", w.Code, w.Body.String())
	}
}

func TestStartBatchAppliesDefaults(t *testing.T) {
	r, paths := testRouter(t)
	if _, err := queue.AddAvatar(paths.AvatarFile, "Amelia"); err != nil {
		t.Fatalf("AddAvatar: %v", err)
	}

	// Project name and config omitted: the batch is still valid and the
	// queue file carries the filled-in values.
	minimal := `{"avatar": "Amelia", "items": [{"title": "A", "script": "Hello."}]}`
	w := doJSON(t, r, http.MethodPost, "/api/queue/start", minimal)
	if w.Code != http.StatusAccepted {
		t.Fatalf("POST minimal batch = %d; want 202 (body %s)", w.Code, w.Body.String())
	}

	data, err := os.ReadFile(paths.QueueFile)
	if err != nil {
		t.Fatalf("queue file not written: %v", err)
	}
	for _, want := range []string{`"Pasted Scripts"`, `"720p"`, `"25"`, `"yes"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("queue file missing default %s:\n%s", want, data)
		}
	}
}

func TestStartBatchRejections(t *testing.T) {
	r, paths := testRouter(t)
	if _, err := queue.AddAvatar(paths.AvatarFile, "Amelia"); err != nil {
		t.Fatalf("AddAvatar: %v", err)
	}

	cases := []struct {
		name string
		body string
	}{
		{"unknown avatar", `{"project_name": "P", "avatar": "Nobody",
			"config": {"quality": "720p", "fps": "25", "subtitles": "yes"},
			"items": [{"title": "A", "script": "x."}]}`},
		{"bad config", `{"project_name": "P", "avatar": "Amelia",
			"config": {"quality": "8k", "fps": "25", "subtitles": "yes"},
			"items": [{"title": "A", "script": "x."}]}`},
		{"all scripts blank", `{"project_name": "P", "avatar": "Amelia",
			"config": {"quality": "720p", "fps": "25", "subtitles": "yes"},
			"items": [{"title": "A", "script": ""}]}`},
		{"malformed json", `{nope`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/queue/start", c.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("got %d; want 400 (body %s)", w.Code, w.Body.String())
			}
			if _, err := os.Stat(paths.QueueFile); !os.IsNotExist(err) {
				t.Fatalf("rejected batch left a queue file behind")
			}
		})
	}
}

func TestStatusEndpoint(t *testing.T) {
	r, _ := testRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/status = %d; want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"total":0`) {
		t.Errorf("empty status body = %s", w.Body.String())
	}
}
