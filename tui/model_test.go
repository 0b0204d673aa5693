package tui

import (
	"strings"
	"testing"
	"time"

	"renderbot/types"
)

func TestStyleForCoversEveryStatus(t *testing.T) {
	statuses := []types.Status{
		types.StatusQueued,
		types.StatusSubmitted,
		types.StatusRendering,
		types.StatusReady,
		types.StatusDownloaded,
		types.StatusFailed,
	}
	for _, s := range statuses {
		render := styleFor(s)
		if render == nil {
			t.Fatalf("styleFor(%s) = nil; want a render func", s)
		}
		if got := render("status label"); !strings.Contains(got, "status label") {
			t.Fatalf("styleFor(%s) dropped the text: got %q", s, got)
		}
	}
}

func TestViewRendersRecordRows(t *testing.T) {
	m := Model{
		TrackingPath: "tracking.json",
		Loaded:       true,
		Report: types.StatusReport{
			Total:      2,
			Pending:    1,
			Downloaded: 1,
			Records: []types.TrackingRecord{
				{ID: "demo-01", Title: "First", Status: types.StatusDownloaded, CreatedAt: time.Now()},
				{ID: "demo-02", Title: "Second", Status: types.StatusRendering, CreatedAt: time.Now()},
			},
		},
	}

	out := m.View()
	for _, want := range []string{"First", "Second", "Total: 2", "still in flight"} {
		if !strings.Contains(out, want) {
			t.Fatalf("View() missing %q:\n%s", want, out)
		}
	}
}
