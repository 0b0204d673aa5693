package state

import (
	"errors"
	"fmt"
	"testing"
)

func TestPhaseAndLogs(t *testing.T) {
	m := NewManager()

	if m.Phase() != PhaseIdle {
		t.Fatalf("initial phase = %s; want idle", m.Phase())
	}

	m.SetPhase(PhaseSubmitting)
	m.AddLog("submitting batch")
	m.CountSubmission(true)
	m.CountSubmission(true)
	m.CountSubmission(false)

	snap := m.GetStatus()
	if snap.Phase != PhaseSubmitting {
		t.Errorf("phase = %s; want submitting", snap.Phase)
	}
	if snap.Submitted != 2 || snap.Failed != 1 {
		t.Errorf("counts = %d/%d; want 2 submitted, 1 failed", snap.Submitted, snap.Failed)
	}
	if len(snap.Logs) == 0 {
		t.Fatalf("no logs recorded")
	}
	if snap.Logs[len(snap.Logs)-1].Message != "submitting batch" {
		t.Errorf("last log = %q", snap.Logs[len(snap.Logs)-1].Message)
	}
}

func TestSetError(t *testing.T) {
	m := NewManager()
	m.SetError(errors.New("browser crashed"))

	snap := m.GetStatus()
	if snap.Phase != PhaseError {
		t.Errorf("phase = %s; want error", snap.Phase)
	}
	if snap.Error != "browser crashed" {
		t.Errorf("error = %q", snap.Error)
	}
}

func TestLogRingBuffer(t *testing.T) {
	m := NewManager()
	for i := 0; i < m.maxLogs+25; i++ {
		m.AddLog(fmt.Sprintf("entry %d", i))
	}

	snap := m.GetStatus()
	if len(snap.Logs) != m.maxLogs {
		t.Fatalf("log buffer holds %d entries; want %d", len(snap.Logs), m.maxLogs)
	}
	if snap.Logs[0].Message != "entry 25" {
		t.Errorf("oldest retained log = %q; want \"entry 25\"", snap.Logs[0].Message)
	}
	last := snap.Logs[len(snap.Logs)-1].Message
	if last != fmt.Sprintf("entry %d", m.maxLogs+24) {
		t.Errorf("newest log = %q", last)
	}
}
